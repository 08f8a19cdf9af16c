package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/mirefly/paperdiary/internal/service"
)

// ExportCleanupJob prunes generated PDFs once they outlive maxAge.
type ExportCleanupJob struct {
	exports *service.ExportService
	maxAge  time.Duration
}

func NewExportCleanupJob(exports *service.ExportService, maxAge time.Duration) *ExportCleanupJob {
	return &ExportCleanupJob{exports: exports, maxAge: maxAge}
}

func (j *ExportCleanupJob) Name() string {
	return "export_cleanup"
}

func (j *ExportCleanupJob) Run(ctx context.Context) error {
	removed, err := j.exports.CleanupExpired(ctx, j.maxAge)
	if err != nil {
		return err
	}
	if removed > 0 {
		logutil.GetLogger(ctx).Info("expired exports removed", zap.Int("count", removed))
	}
	return nil
}
