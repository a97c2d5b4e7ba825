package services

import (
	"strings"

	"github.com/custodia-labs/qapairs/internal/core/domain"
	"github.com/custodia-labs/qapairs/internal/core/ports/driven"
)

// Resolution describes what the resolver did with a message's leading run.
type Resolution int

const (
	// NoLeadingText means the message opened with a quote; runs are unchanged.
	NoLeadingText Resolution = iota

	// ImpliedQuestion means a predecessor supplied the question for the
	// leading text.
	ImpliedQuestion

	// OrphanDropped means no usable predecessor was found and the leading
	// text was discarded.
	OrphanDropped
)

type threadPost struct {
	thread int
	num    int
}

// ThreadResolver finds the implied question for a reply that opens with
// authored text, using the message the reply is attached to.
// It only reads the corpus and is safe for concurrent use.
type ThreadResolver struct {
	segmenters driven.SegmenterRegistry
	posts      map[threadPost]*domain.RawMessage
	emails     map[int]*domain.RawMessage
}

// NewThreadResolver indexes the untracked messages of a corpus.
// Tracked messages can never be predecessors.
func NewThreadResolver(segmenters driven.SegmenterRegistry, corpus *domain.Corpus) *ThreadResolver {
	r := &ThreadResolver{
		segmenters: segmenters,
		posts:      make(map[threadPost]*domain.RawMessage),
		emails:     make(map[int]*domain.RawMessage),
	}
	for i := range corpus.Posts {
		p := &corpus.Posts[i]
		if p.Tracked {
			continue
		}
		key := threadPost{thread: p.ThreadID, num: p.PostNum}
		if _, seen := r.posts[key]; !seen {
			r.posts[key] = p
		}
	}
	for i := range corpus.Emails {
		e := &corpus.Emails[i]
		if e.Tracked {
			continue
		}
		if _, seen := r.emails[e.ID]; !seen {
			r.emails[e.ID] = e
		}
	}
	return r
}

// Resolve rewrites positional runs so that they start with a quoted run.
//
// When the leading authored run is non-empty and a predecessor exists, the
// predecessor's final run (or its first, when the final one is empty)
// becomes the implied question and the leading text its answer. Otherwise
// the leading run is dropped.
func (r *ThreadResolver) Resolve(msg *domain.RawMessage, runs domain.Runs, override domain.Override) (domain.Runs, Resolution) {
	leading, ok := runs.Leading()
	if !ok {
		return runs, NoLeadingText
	}
	rest := runs[1:]
	if leading.Text == "" {
		return rest, NoLeadingText
	}

	question := r.impliedQuestion(msg, override)
	if question == "" {
		return rest, OrphanDropped
	}

	resolved := make(domain.Runs, 0, len(runs)+1)
	resolved = append(resolved,
		domain.TextRun{Tag: domain.Quoted, Text: question},
		domain.TextRun{Tag: domain.Authored, Text: leading.Text},
	)
	return append(resolved, rest...), ImpliedQuestion
}

func (r *ThreadResolver) impliedQuestion(msg *domain.RawMessage, override domain.Override) string {
	prev := r.predecessor(msg, override)
	if prev == nil || !prev.HasBody() {
		return ""
	}

	runs, err := r.segmenters.Segment(prev.Convention, prev.Body)
	if err != nil || len(runs) == 0 {
		return ""
	}
	question := runs.Last().Text
	if question == "" {
		question = runs[0].Text
	}
	return strings.TrimSpace(question)
}

// predecessor returns the untracked message the reply is attached to.
func (r *ThreadResolver) predecessor(msg *domain.RawMessage, override domain.Override) *domain.RawMessage {
	switch msg.Convention {
	case domain.ConventionEmail:
		parent := msg.ParentID
		if override.Prev != nil {
			parent = *override.Prev
		}
		if parent == 0 {
			return nil
		}
		return r.emails[parent]
	case domain.ConventionForum:
		num := msg.PostNum - 1
		if override.Prev != nil {
			num = *override.Prev
		}
		return r.posts[threadPost{thread: msg.ThreadID, num: num}]
	default:
		return nil
	}
}
