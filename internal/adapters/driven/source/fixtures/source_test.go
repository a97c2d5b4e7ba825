package fixtures

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qapairs/internal/core/domain"
)

const postsJSON = `[
	{"content": "<div class=\"post\">Is it anonymous?</div>", "date": "2009-12-10 10:00:00", "post_num": 1, "thread_id": 10, "url": "https://forum.example/10.0"},
	{"content": "<div class=\"post\">Not by default.</div>", "date": "2009-12-10 11:00:00", "post_num": 2, "satoshi_id": 7, "thread_id": 10, "url": "https://forum.example/10.1"},
	{"content": "<div class=\"post\">--------------------<br/>From: Hal<br/>Date: x<br/>Subject: y<br/>Original words</div>", "date": "2009-12-11 09:00:00", "post_num": 3, "satoshi_id": 7, "thread_id": 10, "url": "https://forum.example/10.2"}
]`

const emailsJSON = `[
	{"id": 1, "parent": null, "sender": "James A. Donald", "text": "Hi Satoshi,\nWhat about X?", "date": "2008-11-02 08:00:00", "url": "https://mail.example/1"},
	{"id": 2, "parent": 1, "sender": "Satoshi Nakamoto", "text": "> What about X?\nX works like this.", "date": "2008-11-03 08:00:00", "url": "https://mail.example/2"},
	{"id": 3, "sender": "Satoshi", "text": "", "date": "2008-11-04 08:00:00", "url": "https://mail.example/3"}
]`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newSource(inputs domain.InputSettings) *Source {
	d := domain.DefaultSettings()
	participant := domain.ParticipantSettings{Name: "Satoshi Nakamoto", Aliases: []string{"Satoshi"}}
	return New(inputs, participant, d.Forum.RepostPrefix)
}

func TestSource_Load(t *testing.T) {
	dir := t.TempDir()
	inputs := domain.InputSettings{
		Posts:  writeFile(t, dir, "posts.json", postsJSON),
		Emails: writeFile(t, dir, "emails.json", emailsJSON),
	}

	corpus, err := newSource(inputs).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, corpus.Posts, 3)
	require.Len(t, corpus.Emails, 3)

	first := corpus.Posts[0]
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, domain.ConventionForum, first.Convention)
	assert.False(t, first.Tracked)
	assert.Equal(t, 10, first.ThreadID)
	assert.Equal(t, 1, first.PostNum)
	assert.Equal(t, "https://forum.example/10.0", first.URL)

	tracked := corpus.Posts[1]
	assert.True(t, tracked.Tracked)
	assert.Equal(t, "Satoshi Nakamoto", tracked.Sender)

	e := corpus.Emails[1]
	assert.Equal(t, 2, e.ID)
	assert.Equal(t, 1, e.ParentID)
	assert.True(t, e.Tracked)
	assert.Equal(t, domain.ConventionEmail, e.Convention)

	assert.False(t, corpus.Emails[0].Tracked)
	assert.Zero(t, corpus.Emails[0].ParentID)
	assert.True(t, corpus.Emails[2].Tracked, "aliases count as the participant")
	assert.False(t, corpus.Emails[2].HasBody())
}

func TestSource_RepostRepaired(t *testing.T) {
	dir := t.TempDir()
	inputs := domain.InputSettings{Posts: writeFile(t, dir, "posts.json", postsJSON)}

	corpus, err := newSource(inputs).Load(context.Background())
	require.NoError(t, err)

	repost := corpus.Posts[2]
	assert.False(t, repost.Tracked)
	assert.Empty(t, repost.Sender)
	assert.Equal(t, `<div class="post"><br/>Original words</div>`, repost.Body)
	assert.Empty(t, corpus.Emails)
}

func TestSource_EmailDirectory(t *testing.T) {
	dir := t.TempDir()
	mailDir := filepath.Join(dir, "mail")
	require.NoError(t, os.Mkdir(mailDir, 0o700))
	writeFile(t, mailDir, "1.eml", "From: Satoshi Nakamoto <s@example.com>\n\nHello\n")

	corpus, err := newSource(domain.InputSettings{Emails: mailDir}).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, corpus.Emails, 1)
	assert.True(t, corpus.Emails[0].Tracked)
}

func TestSource_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := newSource(domain.InputSettings{Posts: filepath.Join(dir, "missing.json")}).Load(context.Background())
	assert.Error(t, err)

	_, err = newSource(domain.InputSettings{Emails: filepath.Join(dir, "missing.json")}).Load(context.Background())
	assert.Error(t, err)

	bad := writeFile(t, dir, "bad.json", `{"not": "a list"}`)
	_, err = newSource(domain.InputSettings{Posts: bad}).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestSource_Empty(t *testing.T) {
	corpus, err := newSource(domain.InputSettings{}).Load(context.Background())
	require.NoError(t, err)
	assert.Zero(t, corpus.Len())
}
