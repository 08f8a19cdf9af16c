package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mirefly/paperdiary/internal/model"
	appErr "github.com/mirefly/paperdiary/internal/pkg/errors"
	"github.com/mirefly/paperdiary/internal/store"
)

type staticEntryRepo struct {
	entries []model.DiaryEntry
}

func (r *staticEntryRepo) List(ctx context.Context) ([]model.DiaryEntry, error) {
	return append([]model.DiaryEntry(nil), r.entries...), nil
}

func (r *staticEntryRepo) Create(ctx context.Context, entry *model.DiaryEntry) error { return nil }

func (r *staticEntryRepo) Update(ctx context.Context, id, content, ideas, imageURL string) error {
	return nil
}

func (r *staticEntryRepo) GetByID(ctx context.Context, id string) (*model.DiaryEntry, error) {
	for _, entry := range r.entries {
		if entry.ID == id {
			e := entry
			return &e, nil
		}
	}
	return nil, appErr.ErrNotFound
}

func (r *staticEntryRepo) Delete(ctx context.Context, id string) error { return nil }

func newExportTestStore(t *testing.T, entries ...model.DiaryEntry) *store.EntryStore {
	t.Helper()
	s := store.NewEntryStore(&staticEntryRepo{entries: entries}, time.Second)
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestEntryExportMarkdown(t *testing.T) {
	svc := NewEntryExportService(newExportTestStore(t, model.DiaryEntry{
		ID:      "e1",
		Date:    "2024-01-03",
		Content: "wrote a letter",
		Ideas:   "build a kite",
	}))

	content, filename, contentType, err := svc.Export("e1", "markdown")
	require.NoError(t, err)
	require.Equal(t, "diary-2024-01-03.md", filename)
	require.Equal(t, "text/markdown; charset=utf-8", contentType)
	require.Contains(t, string(content), "# Wednesday, 03/01/2024")
	require.Contains(t, string(content), "## My Thoughts Today...")
	require.Contains(t, string(content), "wrote a letter")
	require.Contains(t, string(content), "build a kite")
}

func TestEntryExportDefaultsToMarkdown(t *testing.T) {
	svc := NewEntryExportService(newExportTestStore(t, model.DiaryEntry{ID: "e1", Date: "2024-01-03"}))

	_, filename, _, err := svc.Export("e1", "")
	require.NoError(t, err)
	require.Equal(t, "diary-2024-01-03.md", filename)
}

func TestEntryExportPlainTextFallbacks(t *testing.T) {
	svc := NewEntryExportService(newExportTestStore(t, model.DiaryEntry{ID: "e1", Date: "2024-01-03"}))

	content, filename, contentType, err := svc.Export("e1", "txt")
	require.NoError(t, err)
	require.Equal(t, "diary-2024-01-03.txt", filename)
	require.Equal(t, "text/plain; charset=utf-8", contentType)
	require.Contains(t, string(content), "No thoughts recorded.")
	require.Contains(t, string(content), "No ideas recorded.")
	require.NotContains(t, string(content), "#")
}

func TestEntryExportHTML(t *testing.T) {
	svc := NewEntryExportService(newExportTestStore(t, model.DiaryEntry{
		ID:      "e1",
		Date:    "2024-01-03",
		Content: "some **bold** thoughts",
	}))

	content, filename, contentType, err := svc.Export("e1", "html")
	require.NoError(t, err)
	require.Equal(t, "diary-2024-01-03.html", filename)
	require.Equal(t, "text/html; charset=utf-8", contentType)
	require.Contains(t, string(content), "<h1>")
	require.Contains(t, string(content), "<strong>bold</strong>")
}

func TestEntryExportUnknownFormat(t *testing.T) {
	svc := NewEntryExportService(newExportTestStore(t, model.DiaryEntry{ID: "e1", Date: "2024-01-03"}))
	_, _, _, err := svc.Export("e1", "docx")
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestEntryExportMissingEntry(t *testing.T) {
	svc := NewEntryExportService(newExportTestStore(t))
	_, _, _, err := svc.Export("missing", "txt")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}
