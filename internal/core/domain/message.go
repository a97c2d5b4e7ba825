package domain

// Convention identifies how a message marks the text it quotes.
type Convention string

// Supported quoting conventions.
const (
	// ConventionEmail is plain text with line-prefixed ">" quoting.
	ConventionEmail Convention = "email"

	// ConventionForum is an HTML fragment with nested quote blocks.
	ConventionForum Convention = "forum"
)

// IsValid returns true if the convention is recognised.
func (c Convention) IsValid() bool {
	switch c {
	case ConventionEmail, ConventionForum:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (c Convention) String() string {
	return string(c)
}

// RawMessage is one unit of input: a forum post or an email.
// It is loaded once from a fixture and never modified by the engine.
type RawMessage struct {
	// ID is the stable identifier within its collection.
	ID int

	// Convention selects the segmenter for Body.
	Convention Convention

	// Sender is the display name of the author, when known.
	Sender string

	// Tracked is true when the sender is the participant whose replies are extracted.
	Tracked bool

	// Body is the plain text (email) or HTML (forum) content.
	// Empty means the message has no body.
	Body string

	// Date is the timestamp as it appears in the fixture.
	Date string

	// URL is the source locator; overrides are keyed by it.
	URL string

	// ParentID is the explicit parent reference of an email. Zero means none.
	ParentID int

	// ThreadID groups forum posts into a conversation.
	ThreadID int

	// PostNum is the position of a forum post within its thread.
	PostNum int
}

// HasBody reports whether the message carries any body text.
func (m *RawMessage) HasBody() bool {
	return m.Body != ""
}

// Corpus holds the pre-loaded message collections of one extraction.
type Corpus struct {
	// Posts are forum posts in fixture order.
	Posts []RawMessage

	// Emails are mailing list messages in fixture order.
	Emails []RawMessage
}

// Collection returns the messages for a convention.
func (c *Corpus) Collection(conv Convention) []RawMessage {
	switch conv {
	case ConventionForum:
		return c.Posts
	case ConventionEmail:
		return c.Emails
	default:
		return nil
	}
}

// Len returns the total number of messages.
func (c *Corpus) Len() int {
	return len(c.Posts) + len(c.Emails)
}
