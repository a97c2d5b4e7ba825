// Package eml loads mailing list messages from a directory of RFC 822
// files. Threading comes from the Message-ID and In-Reply-To headers.
package eml

import (
	"bytes"
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"

	"github.com/custodia-labs/qapairs/internal/core/domain"
	"github.com/custodia-labs/qapairs/internal/logger"
)

// Extensions are the file suffixes read as messages.
var Extensions = []string{".eml", ".msg", ".txt"}

// Loader reads every message file of a directory in name order.
type Loader struct {
	dir         string
	participant domain.ParticipantSettings
}

// NewLoader creates a loader for dir.
func NewLoader(dir string, participant domain.ParticipantSettings) *Loader {
	return &Loader{dir: dir, participant: participant}
}

// parsed is a message before parents are linked.
type parsed struct {
	msg       domain.RawMessage
	messageID string
	inReplyTo string
}

// Load reads the directory. IDs are assigned from 1 in file name order.
func (l *Loader) Load(ctx context.Context) ([]domain.RawMessage, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, eris.Wrapf(err, "read dir %s", l.dir)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !hasExtension(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	items := make([]parsed, 0, len(names))
	ids := make(map[string]int, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(l.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "read %s", path)
		}
		item, err := l.parse(data, path)
		if err != nil {
			logger.Warn("Skipping %s: %v", path, err)
			continue
		}
		item.msg.ID = len(items) + 1
		if item.messageID != "" {
			ids[item.messageID] = item.msg.ID
		}
		items = append(items, item)
	}

	messages := make([]domain.RawMessage, len(items))
	for i, item := range items {
		if parent, ok := ids[item.inReplyTo]; ok {
			item.msg.ParentID = parent
		}
		messages[i] = item.msg
	}

	logger.Debug("Loaded %d emails from %s", len(messages), l.dir)
	return messages, nil
}

func (l *Loader) parse(data []byte, path string) (parsed, error) {
	m, err := mail.ReadMessage(bytes.NewReader(data))
	if err != nil {
		return parsed{}, eris.Wrapf(domain.ErrInvalidInput, "parse message: %v", err)
	}

	body, err := extractBody(m.Header.Get("Content-Type"), m.Body)
	if err != nil {
		return parsed{}, err
	}

	sender := senderName(decodeHeader(m.Header.Get("From")))
	url := strings.Trim(m.Header.Get("Archived-At"), "<> ")
	if url == "" {
		url = "file://" + filepath.ToSlash(path)
	}

	return parsed{
		msg: domain.RawMessage{
			Convention: domain.ConventionEmail,
			Sender:     sender,
			Tracked:    l.participant.Matches(sender),
			Body:       body,
			Date:       m.Header.Get("Date"),
			URL:        url,
		},
		messageID: normaliseID(m.Header.Get("Message-ID")),
		inReplyTo: normaliseID(firstID(m.Header.Get("In-Reply-To"))),
	}, nil
}

// senderName returns the display name of an address, or the address
// itself when it has none.
func senderName(from string) string {
	if from == "" {
		return ""
	}
	addr, err := mail.ParseAddress(from)
	if err != nil {
		return strings.TrimSpace(from)
	}
	if addr.Name != "" {
		return addr.Name
	}
	return addr.Address
}

// decodeHeader decodes RFC 2047 encoded headers.
func decodeHeader(header string) string {
	if header == "" {
		return ""
	}
	dec := new(mime.WordDecoder)
	decoded, err := dec.DecodeHeader(header)
	if err != nil {
		return header
	}
	return decoded
}

// extractBody returns the plain text of a message. Plain parts win over
// HTML parts; HTML is flattened to its text.
func extractBody(contentType string, r io.Reader) (string, error) {
	if contentType == "" {
		contentType = "text/plain"
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		body, readErr := io.ReadAll(r)
		if readErr != nil {
			return "", eris.Wrap(readErr, "read body")
		}
		return string(body), nil
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		return extractMultipartBody(r, params["boundary"])
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return "", eris.Wrap(err, "read body")
	}
	if mediaType == "text/html" {
		return htmlText(string(body)), nil
	}
	return string(body), nil
}

func extractMultipartBody(r io.Reader, boundary string) (string, error) {
	if boundary == "" {
		return "", nil
	}

	mr := multipart.NewReader(r, boundary)
	var textParts, htmlParts []string
	for {
		part, err := mr.NextPart()
		if err != nil {
			break
		}
		mediaType, params, parseErr := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if parseErr != nil {
			mediaType = "text/plain"
		}
		content, readErr := io.ReadAll(part)
		part.Close()
		if readErr != nil {
			continue
		}

		switch {
		case mediaType == "text/plain":
			textParts = append(textParts, string(content))
		case mediaType == "text/html":
			htmlParts = append(htmlParts, htmlText(string(content)))
		case strings.HasPrefix(mediaType, "multipart/"):
			nested, nestedErr := extractMultipartBody(bytes.NewReader(content), params["boundary"])
			if nestedErr == nil && nested != "" {
				textParts = append(textParts, nested)
			}
		}
	}

	if len(textParts) > 0 {
		return strings.Join(textParts, "\n"), nil
	}
	return strings.Join(htmlParts, "\n"), nil
}

// htmlText flattens an HTML body to text, one line per line break.
func htmlText(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "br", "p", "div":
				b.WriteString("\n")
			}
		}
	}
}

func normaliseID(id string) string {
	return strings.Trim(strings.TrimSpace(id), "<>")
}

// firstID returns the first message ID of a header that may list several.
func firstID(header string) string {
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func hasExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
