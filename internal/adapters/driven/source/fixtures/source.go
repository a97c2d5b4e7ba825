// Package fixtures loads forum posts and mailing list emails from the JSON
// exports the extractor is run against.
package fixtures

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/custodia-labs/qapairs/internal/adapters/driven/source/eml"
	"github.com/custodia-labs/qapairs/internal/core/domain"
	"github.com/custodia-labs/qapairs/internal/core/ports/driven"
	"github.com/custodia-labs/qapairs/internal/logger"
	"github.com/custodia-labs/qapairs/internal/segmenters/markup"
)

// Ensure Source implements the interface.
var _ driven.MessageSource = (*Source)(nil)

// post is one entry of posts.json. SatoshiID is set only on posts written
// by the tracked participant.
type post struct {
	Content   string `json:"content"`
	Date      string `json:"date"`
	PostNum   int    `json:"post_num"`
	SatoshiID *int   `json:"satoshi_id,omitempty"`
	ThreadID  int    `json:"thread_id"`
	URL       string `json:"url"`
}

// email is one entry of emails.json.
type email struct {
	ID     int    `json:"id"`
	Parent *int   `json:"parent"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
	Date   string `json:"date"`
	URL    string `json:"url"`
}

// Source reads the fixture files. An empty path disables a collection.
// When the emails path is a directory it is read as .eml files.
type Source struct {
	postsPath    string
	emailsPath   string
	participant  domain.ParticipantSettings
	repostPrefix string
}

// New creates a fixture source.
func New(inputs domain.InputSettings, participant domain.ParticipantSettings, repostPrefix string) *Source {
	return &Source{
		postsPath:    inputs.Posts,
		emailsPath:   inputs.Emails,
		participant:  participant,
		repostPrefix: repostPrefix,
	}
}

// Load reads both collections.
func (s *Source) Load(ctx context.Context) (*domain.Corpus, error) {
	corpus := &domain.Corpus{}

	if s.postsPath != "" {
		posts, err := s.loadPosts(ctx)
		if err != nil {
			return nil, err
		}
		corpus.Posts = posts
	}

	if s.emailsPath != "" {
		info, err := os.Stat(s.emailsPath)
		if err != nil {
			return nil, eris.Wrapf(err, "stat %s", s.emailsPath)
		}
		var emails []domain.RawMessage
		if info.IsDir() {
			emails, err = eml.NewLoader(s.emailsPath, s.participant).Load(ctx)
		} else {
			emails, err = s.loadEmails(ctx)
		}
		if err != nil {
			return nil, err
		}
		corpus.Emails = emails
	}

	return corpus, nil
}

func (s *Source) loadPosts(ctx context.Context) ([]domain.RawMessage, error) {
	var entries []post
	if err := readJSON(ctx, s.postsPath, &entries); err != nil {
		return nil, err
	}

	messages := make([]domain.RawMessage, len(entries))
	reposts := 0
	for i, p := range entries {
		msg := domain.RawMessage{
			ID:         i + 1,
			Convention: domain.ConventionForum,
			Tracked:    p.SatoshiID != nil,
			Body:       p.Content,
			Date:       p.Date,
			URL:        p.URL,
			ThreadID:   p.ThreadID,
			PostNum:    p.PostNum,
		}
		if msg.Tracked {
			msg.Sender = s.participant.Name
			// A repost carries someone else's words; it can only be a predecessor.
			if body, ok := markup.RepairRepost(msg.Body, s.repostPrefix); ok {
				msg.Body = body
				msg.Tracked = false
				msg.Sender = ""
				reposts++
			}
		}
		messages[i] = msg
	}

	logger.Debug("Loaded %d posts from %s (%d reposts repaired)", len(messages), s.postsPath, reposts)
	return messages, nil
}

func (s *Source) loadEmails(ctx context.Context) ([]domain.RawMessage, error) {
	var entries []email
	if err := readJSON(ctx, s.emailsPath, &entries); err != nil {
		return nil, err
	}

	messages := make([]domain.RawMessage, len(entries))
	for i, e := range entries {
		msg := domain.RawMessage{
			ID:         e.ID,
			Convention: domain.ConventionEmail,
			Sender:     e.Sender,
			Tracked:    s.participant.Matches(e.Sender),
			Body:       e.Text,
			Date:       e.Date,
			URL:        e.URL,
		}
		if e.Parent != nil {
			msg.ParentID = *e.Parent
		}
		messages[i] = msg
	}

	logger.Debug("Loaded %d emails from %s", len(messages), s.emailsPath)
	return messages, nil
}

func readJSON(ctx context.Context, path string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return eris.Wrapf(err, "decode %s", path)
	}
	return nil
}
