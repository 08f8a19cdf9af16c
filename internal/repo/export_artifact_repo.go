package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/mirefly/paperdiary/internal/model"
	"github.com/mirefly/paperdiary/internal/pkg/dbutil"
	appErr "github.com/mirefly/paperdiary/internal/pkg/errors"
)

var artifactColumns = []string{"key", "file_name", "start_date", "end_date", "quality", "pages", "size_bytes", "ctime"}

type ExportArtifactRepo struct {
	db *sql.DB
}

func NewExportArtifactRepo(db *sql.DB) *ExportArtifactRepo {
	return &ExportArtifactRepo{db: db}
}

func (r *ExportArtifactRepo) Create(ctx context.Context, artifact *model.ExportArtifact) error {
	data := map[string]interface{}{
		"key":        artifact.Key,
		"file_name":  artifact.FileName,
		"start_date": artifact.StartDate,
		"end_date":   artifact.EndDate,
		"quality":    artifact.Quality,
		"pages":      artifact.Pages,
		"size_bytes": artifact.SizeBytes,
		"ctime":      artifact.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("export_artifacts", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *ExportArtifactRepo) GetByKey(ctx context.Context, key string) (*model.ExportArtifact, error) {
	where := map[string]interface{}{
		"key": key,
	}
	sqlStr, args, err := builder.BuildSelect("export_artifacts", where, artifactColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	var artifact model.ExportArtifact
	if err := rows.Scan(&artifact.Key, &artifact.FileName, &artifact.StartDate, &artifact.EndDate,
		&artifact.Quality, &artifact.Pages, &artifact.SizeBytes, &artifact.Ctime); err != nil {
		return nil, err
	}
	return &artifact, nil
}

// ListBefore returns artifacts created before the cutoff so the cleanup
// job can remove their stored files first, then the rows.
func (r *ExportArtifactRepo) ListBefore(ctx context.Context, cutoff int64) ([]model.ExportArtifact, error) {
	where := map[string]interface{}{
		"ctime <": cutoff,
	}
	sqlStr, args, err := builder.BuildSelect("export_artifacts", where, artifactColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	artifacts := make([]model.ExportArtifact, 0)
	for rows.Next() {
		var artifact model.ExportArtifact
		if err := rows.Scan(&artifact.Key, &artifact.FileName, &artifact.StartDate, &artifact.EndDate,
			&artifact.Quality, &artifact.Pages, &artifact.SizeBytes, &artifact.Ctime); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, rows.Err()
}

func (r *ExportArtifactRepo) Delete(ctx context.Context, key string) error {
	where := map[string]interface{}{
		"key": key,
	}
	sqlStr, args, err := builder.BuildDelete("export_artifacts", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}
