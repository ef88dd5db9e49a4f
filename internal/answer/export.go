package answer

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/osaleh99/doc-chat/internal/apperr"
)

// Export is a rendered chat history ready for download.
type Export struct {
	Content      string `json:"content"`
	Filename     string `json:"filename"`
	MessageCount int    `json:"message_count"`
}

// ExportHistory renders the session's query log as plain text, or as HTML
// when asHTML is set. An empty history fails with apperr.ErrNotFound.
func (e *Engine) ExportHistory(ctx context.Context, sessionID string, asHTML bool) (*Export, error) {
	entries, err := e.History(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no chat history: %w", apperr.ErrNotFound)
	}

	var b strings.Builder
	b.WriteString("# Doc Chat - Chat History Export\n\n")
	fmt.Fprintf(&b, "Session ID: %s\n\n", sessionID)
	fmt.Fprintf(&b, "Total Messages: %d\n\n", len(entries))
	for i, entry := range entries {
		fmt.Fprintf(&b, "## Message %d\n\n", i+1)
		fmt.Fprintf(&b, "Timestamp: %s\n\n", entry.Timestamp.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(&b, "**Question:** %s\n\n", entry.Question)
		fmt.Fprintf(&b, "**Answer:** %s\n\n", entry.Response)
	}

	content := b.String()
	ext := "md"
	if asHTML {
		var html bytes.Buffer
		if err := goldmark.Convert([]byte(content), &html); err != nil {
			return nil, fmt.Errorf("rendering history: %w", err)
		}
		content = html.String()
		ext = "html"
	}

	shortID := sessionID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	return &Export{
		Content:      content,
		Filename:     fmt.Sprintf("chat-history-%s.%s", shortID, ext),
		MessageCount: len(entries),
	}, nil
}
