package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/mirefly/paperdiary/internal/model"
	"github.com/mirefly/paperdiary/internal/pkg/dbutil"
	appErr "github.com/mirefly/paperdiary/internal/pkg/errors"
)

var entryColumns = []string{"id", "date", "content", "ideas", "image_url", "created_at"}

type EntryRepo struct {
	db *sql.DB
}

func NewEntryRepo(db *sql.DB) *EntryRepo {
	return &EntryRepo{db: db}
}

func (r *EntryRepo) Create(ctx context.Context, entry *model.DiaryEntry) error {
	data := map[string]interface{}{
		"id":         entry.ID,
		"date":       entry.Date,
		"content":    entry.Content,
		"ideas":      entry.Ideas,
		"image_url":  entry.ImageURL,
		"created_at": entry.CreatedAt,
	}
	sqlStr, args, err := builder.BuildInsert("entries", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil && dbutil.IsConflict(err) {
		return appErr.ErrDuplicateDate
	}
	return err
}

// Update replaces the three mutable fields of an entry in one shot.
func (r *EntryRepo) Update(ctx context.Context, id, content, ideas, imageURL string) error {
	where := map[string]interface{}{
		"id": id,
	}
	update := map[string]interface{}{
		"content":   content,
		"ideas":     ideas,
		"image_url": imageURL,
	}
	sqlStr, args, err := builder.BuildUpdate("entries", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *EntryRepo) GetByID(ctx context.Context, id string) (*model.DiaryEntry, error) {
	where := map[string]interface{}{
		"id": id,
	}
	return r.selectOne(ctx, where)
}

func (r *EntryRepo) GetByDate(ctx context.Context, date string) (*model.DiaryEntry, error) {
	where := map[string]interface{}{
		"date": date,
	}
	return r.selectOne(ctx, where)
}

func (r *EntryRepo) selectOne(ctx context.Context, where map[string]interface{}) (*model.DiaryEntry, error) {
	sqlStr, args, err := builder.BuildSelect("entries", where, entryColumns)
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
	var entry model.DiaryEntry
	if err := rows.Scan(&entry.ID, &entry.Date, &entry.Content, &entry.Ideas, &entry.ImageURL, &entry.CreatedAt); err != nil {
		return nil, err
	}
	return &entry, nil
}

// List returns all entries newest-date first, matching the order the
// book shows its pages in.
func (r *EntryRepo) List(ctx context.Context) ([]model.DiaryEntry, error) {
	where := map[string]interface{}{
		"_orderby": "date desc",
	}
	sqlStr, args, err := builder.BuildSelect("entries", where, entryColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]model.DiaryEntry, 0)
	for rows.Next() {
		var entry model.DiaryEntry
		if err := rows.Scan(&entry.ID, &entry.Date, &entry.Content, &entry.Ideas, &entry.ImageURL, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *EntryRepo) Delete(ctx context.Context, id string) error {
	where := map[string]interface{}{
		"id": id,
	}
	sqlStr, args, err := builder.BuildDelete("entries", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}
