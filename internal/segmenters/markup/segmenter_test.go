package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qapairs/internal/core/domain"
)

func newSegmenter(t *testing.T) *Segmenter {
	t.Helper()
	s, err := New(domain.DefaultSettings().Forum)
	require.NoError(t, err)
	return s
}

func TestNew_InvalidRules(t *testing.T) {
	rules := domain.DefaultSettings().Forum
	rules.QuoteClass = ""
	_, err := New(rules)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	rules = domain.DefaultSettings().Forum
	rules.EditPattern = "(("
	_, err = New(rules)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile edit pattern")
}

func TestSegmenter_Convention(t *testing.T) {
	assert.Equal(t, domain.ConventionForum, newSegmenter(t).Convention())
}

func TestSegment(t *testing.T) {
	s := newSegmenter(t)

	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "quote then reply",
			body: `<div class="post"><div class="quote">What is X?</div>X is Y.</div>`,
			want: []string{"", "What is X?", "X is Y."},
		},
		{
			name: "leading text",
			body: `Intro text<div class="quote">q</div>a`,
			want: []string{"Intro text", "q", "a"},
		},
		{
			name: "no quotes",
			body: `line one<br/>line two`,
			want: []string{"line one\nline two"},
		},
		{
			name: "two exchanges",
			body: `<div class="quote">q1</div>a1<div class="quote">q2</div>a2`,
			want: []string{"", "q1", "a1", "q2", "a2"},
		},
		{
			name: "adjacent quotes",
			body: `<div class="quote">q1</div><div class="quote">q2</div>a`,
			want: []string{"", "q1", "", "q2", "a"},
		},
		{
			name: "quote header removed",
			body: `<div class="quoteheader">Quote from: Hal on May 1</div><div class="quote">q</div>answer`,
			want: []string{"", "q", "answer"},
		},
		{
			name: "nested quote removed",
			body: `<div class="quote">outer<div class="quote">inner</div></div>reply`,
			want: []string{"", "outer", "reply"},
		},
		{
			name: "quote of only noise",
			body: `<div class="quote">Posted: today</div>reply`,
			want: []string{"", "", "reply"},
		},
		{
			name: "dropped elements",
			body: `text<img src="x.png"> <del>old</del>new<script>var a;</script><style>p{}</style>`,
			want: []string{"text new"},
		},
		{
			name: "code header removed",
			body: `<div class="codeheader">Code:</div><div class="code">x = 1</div>`,
			want: []string{"x = 1"},
		},
		{
			name: "noise lines removed",
			body: `Greetings,<br/>answer<br/>Regards,<br/>Satoshi`,
			want: []string{"answer"},
		},
		{
			name: "label lines removed",
			body: `Quote:<br/>answer`,
			want: []string{"answer"},
		},
		{
			name: "non breaking spaces",
			body: `a&nbsp;&nbsp;b   c`,
			want: []string{"a b c"},
		},
		{
			name: "unicode escapes",
			body: `caf\u00e9 costs 5\u0e3f\u2019`,
			want: []string{"caf\u00e9 costs 5\u0e3f"},
		},
		{
			name: "backtick apostrophes",
			body: "don`t say it`s done, we`ve tried",
			want: []string{"don't say it's done, we've tried"},
		},
		{
			name: "edit markers",
			body: `fixed it<br/>Edit: typo<br/>[edit] again`,
			want: []string{"fixed it\ntypo\nagain"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := s.Segment(tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, runs.Texts())
			assert.NoError(t, runs.ValidateFrom(domain.Authored))
		})
	}
}

func TestSegment_OddRunCount(t *testing.T) {
	s := newSegmenter(t)

	bodies := []string{
		``,
		`plain`,
		`<div class="quote"></div>`,
		`<div class="quote">Re: nothing</div><div class="quote">Satoshi</div>`,
		`a<div class="quote">b<div class="quote">c</div>d</div>e<div class="quote">f</div>`,
		`<div class="quote"><div class="quoteheader">Quote</div></div>`,
	}

	for _, body := range bodies {
		runs, err := s.Segment(body)
		require.NoError(t, err)
		assert.Equal(t, 1, len(runs)%2, "body %q produced %d runs", body, len(runs))
	}
}

func TestSegment_SentinelInContent(t *testing.T) {
	s := newSegmenter(t)

	runs, err := s.Segment("before" + Sentinel + "after")
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRepairRepost(t *testing.T) {
	prefix := domain.DefaultSettings().Forum.RepostPrefix

	t.Run("repost", func(t *testing.T) {
		body := `<div class="post">--------------------<br/>From: Hal<br/>Date: x<br/>Subject: y<br/>Reposted text<br/>more</div>`
		got, ok := RepairRepost(body, prefix)
		assert.True(t, ok)
		assert.Equal(t, `<div class="post"><br/>Reposted text<br/>more</div>`, got)
	})

	t.Run("short repost", func(t *testing.T) {
		got, ok := RepairRepost(`<div class="post">--------------------<br/>a`, prefix)
		assert.True(t, ok)
		assert.Equal(t, `<div class="post"><br/>`, got)
	})

	t.Run("ordinary post", func(t *testing.T) {
		body := `<div class="post">hello</div>`
		got, ok := RepairRepost(body, prefix)
		assert.False(t, ok)
		assert.Equal(t, body, got)
	})

	t.Run("no prefix configured", func(t *testing.T) {
		_, ok := RepairRepost(`<div class="post">--------------------<br/>a`, "")
		assert.False(t, ok)
	})
}
