package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	appErr "github.com/mirefly/paperdiary/internal/pkg/errors"
	"github.com/mirefly/paperdiary/internal/render"
	"github.com/mirefly/paperdiary/internal/store"
)

// EntryExportService produces single-entry text downloads. The PDF
// pipeline covers ranges; this covers "give me this one page as
// html/markdown/plain text".
type EntryExportService struct {
	entries *store.EntryStore
}

func NewEntryExportService(entries *store.EntryStore) *EntryExportService {
	return &EntryExportService{entries: entries}
}

func (s *EntryExportService) Export(id, format string) ([]byte, string, string, error) {
	entry, ok := s.entries.Get(id)
	if !ok {
		return nil, "", "", appErr.ErrNotFound
	}
	markdown := s.renderMarkdown(entry.Date, entry.Content, entry.Ideas)
	base := "diary-" + entry.Date
	switch format {
	case "", "markdown":
		return []byte(markdown), base + ".md", "text/markdown; charset=utf-8", nil
	case "txt":
		return []byte(s.renderPlain(entry.Date, entry.Content, entry.Ideas)), base + ".txt", "text/plain; charset=utf-8", nil
	case "html":
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
			return nil, "", "", err
		}
		return buf.Bytes(), base + ".html", "text/html; charset=utf-8", nil
	}
	return nil, "", "", appErr.ErrInvalid
}

func (s *EntryExportService) renderMarkdown(date, content, ideas string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", render.HeadingDate(date))
	fmt.Fprintf(&sb, "## My Thoughts Today...\n\n%s\n\n", textOr(content, "No thoughts recorded."))
	fmt.Fprintf(&sb, "## My Creative Ideas\n\n%s\n", textOr(ideas, "No ideas recorded."))
	return sb.String()
}

func (s *EntryExportService) renderPlain(date, content, ideas string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", render.HeadingDate(date))
	fmt.Fprintf(&sb, "My Thoughts Today...\n%s\n\n", textOr(content, "No thoughts recorded."))
	fmt.Fprintf(&sb, "My Creative Ideas\n%s\n", textOr(ideas, "No ideas recorded."))
	return sb.String()
}

func textOr(text, placeholder string) string {
	if text == "" {
		return placeholder
	}
	return text
}
