package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mirefly/paperdiary/internal/config"
	"github.com/mirefly/paperdiary/internal/export"
	"github.com/mirefly/paperdiary/internal/filestore"
	"github.com/mirefly/paperdiary/internal/model"
	appErr "github.com/mirefly/paperdiary/internal/pkg/errors"
	"github.com/mirefly/paperdiary/internal/pkg/timeutil"
	"github.com/mirefly/paperdiary/internal/render"
)

type memArtifactRepo struct {
	artifacts map[string]model.ExportArtifact
}

func newMemArtifactRepo() *memArtifactRepo {
	return &memArtifactRepo{artifacts: make(map[string]model.ExportArtifact)}
}

func (r *memArtifactRepo) Create(ctx context.Context, artifact *model.ExportArtifact) error {
	r.artifacts[artifact.Key] = *artifact
	return nil
}

func (r *memArtifactRepo) GetByKey(ctx context.Context, key string) (*model.ExportArtifact, error) {
	artifact, ok := r.artifacts[key]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return &artifact, nil
}

func (r *memArtifactRepo) ListBefore(ctx context.Context, cutoff int64) ([]model.ExportArtifact, error) {
	out := make([]model.ExportArtifact, 0)
	for _, artifact := range r.artifacts {
		if artifact.Ctime < cutoff {
			out = append(out, artifact)
		}
	}
	return out, nil
}

func (r *memArtifactRepo) Delete(ctx context.Context, key string) error {
	delete(r.artifacts, key)
	return nil
}

func newTestFileStore(t *testing.T) filestore.Store {
	t.Helper()
	files, err := filestore.New(config.FileStoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": t.TempDir()},
	})
	require.NoError(t, err)
	return files
}

func TestExportRangeStoresArtifact(t *testing.T) {
	entries := newExportTestStore(t,
		model.DiaryEntry{ID: "e1", Date: "2024-01-01", Content: "first"},
		model.DiaryEntry{ID: "e2", Date: "2024-01-03", Content: "second"},
	)
	fonts, err := render.LoadFonts()
	require.NoError(t, err)
	images, err := render.NewImageDecoder(4)
	require.NoError(t, err)
	pipeline := export.NewPipeline(render.NewPage(fonts, images), render.NewSurface())

	artifacts := newMemArtifactRepo()
	svc := NewExportService(entries, pipeline, newTestFileStore(t), artifacts)

	result, err := svc.ExportRange(context.Background(), "2024-01-01", "2024-01-03", export.QualityLow)
	require.NoError(t, err)
	require.Equal(t, 2, result.Pages)
	require.Equal(t, "diary-export-2024-01-01-to-2024-01-03.pdf", result.FileName)
	require.NotEmpty(t, result.Key)
	require.Positive(t, result.SizeBytes)

	artifact, reader, err := svc.OpenArtifact(context.Background(), result.Key)
	require.NoError(t, err)
	defer reader.Close()
	require.Equal(t, result.FileName, artifact.FileName)
	require.Equal(t, "low", artifact.Quality)

	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, result.SizeBytes, int64(len(content)))
	require.Equal(t, "%PDF", string(content[:4]))
}

func TestOpenArtifactUnknownKey(t *testing.T) {
	svc := NewExportService(newExportTestStore(t), nil, newTestFileStore(t), newMemArtifactRepo())
	_, _, err := svc.OpenArtifact(context.Background(), "missing.pdf")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestCleanupExpiredRemovesFilesAndRows(t *testing.T) {
	files := newTestFileStore(t)
	artifacts := newMemArtifactRepo()
	svc := NewExportService(newExportTestStore(t), nil, files, artifacts)
	ctx := context.Background()

	now := timeutil.NowUnix()
	require.NoError(t, files.Save(ctx, "old.pdf", strings.NewReader("old")))
	require.NoError(t, artifacts.Create(ctx, &model.ExportArtifact{Key: "old.pdf", Ctime: now - 7200}))
	require.NoError(t, files.Save(ctx, "fresh.pdf", strings.NewReader("fresh")))
	require.NoError(t, artifacts.Create(ctx, &model.ExportArtifact{Key: "fresh.pdf", Ctime: now}))

	removed, err := svc.CleanupExpired(ctx, time.Hour)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	_, err = artifacts.GetByKey(ctx, "old.pdf")
	require.ErrorIs(t, err, appErr.ErrNotFound)
	_, err = files.Open(ctx, "old.pdf")
	require.Error(t, err)

	_, err = artifacts.GetByKey(ctx, "fresh.pdf")
	require.NoError(t, err)
	reader, err := files.Open(ctx, "fresh.pdf")
	require.NoError(t, err)
	require.NoError(t, reader.Close())
}
