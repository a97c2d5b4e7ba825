package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverrides_Lookup(t *testing.T) {
	prev := 3
	table := Overrides{
		"https://example.org/post/1": {Prev: &prev},
		"https://example.org/post/2": {Parts: []string{"", "q", "a"}, Type: ClassFavorite},
	}

	ov, ok := table.Lookup("https://example.org/post/1")
	assert.True(t, ok)
	assert.Equal(t, 3, *ov.Prev)
	assert.False(t, ov.HasParts())

	ov, ok = table.Lookup("https://example.org/post/2")
	assert.True(t, ok)
	assert.True(t, ov.HasParts())
	assert.Equal(t, ClassFavorite, ov.Type)

	_, ok = table.Lookup("https://example.org/post/3")
	assert.False(t, ok)
}

func TestOverrides_LookupNil(t *testing.T) {
	var table Overrides
	ov, ok := table.Lookup("anything")
	assert.False(t, ok)
	assert.Equal(t, Override{}, ov)
}

func TestQARecord_FormattedDate(t *testing.T) {
	rec := QARecord{Date: time.Date(2009, 1, 8, 19, 27, 40, 0, time.UTC)}
	assert.Equal(t, "2009-01-08 19:27:40", rec.FormattedDate())
}
