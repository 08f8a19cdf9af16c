package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/mirefly/paperdiary/internal/model"
	appErr "github.com/mirefly/paperdiary/internal/pkg/errors"
	"github.com/mirefly/paperdiary/internal/pkg/timeutil"
)

// EntryRepo is the remote table the store persists through.
type EntryRepo interface {
	List(ctx context.Context) ([]model.DiaryEntry, error)
	Create(ctx context.Context, entry *model.DiaryEntry) error
	Update(ctx context.Context, id, content, ideas, imageURL string) error
	GetByID(ctx context.Context, id string) (*model.DiaryEntry, error)
	Delete(ctx context.Context, id string) error
}

// EntryStore owns the canonical in-memory entry list. Every successful
// mutation is persisted remotely first and then folded into the
// snapshot, so readers (views, the export pipeline) stay consistent
// without re-fetching. The snapshot pointer is swapped atomically,
// a reader can never observe a half-updated list.
type EntryStore struct {
	repo      EntryRepo
	opTimeout time.Duration

	mu       sync.Mutex // serializes mutations
	snapshot atomic.Pointer[[]model.DiaryEntry]
}

func NewEntryStore(repo EntryRepo, opTimeout time.Duration) *EntryStore {
	s := &EntryStore{repo: repo, opTimeout: opTimeout}
	empty := make([]model.DiaryEntry, 0)
	s.snapshot.Store(&empty)
	return s
}

// Snapshot returns a read-only copy of the current entry list, ordered
// date descending.
func (s *EntryStore) Snapshot() []model.DiaryEntry {
	current := *s.snapshot.Load()
	out := make([]model.DiaryEntry, len(current))
	copy(out, current)
	return out
}

func (s *EntryStore) Get(id string) (*model.DiaryEntry, bool) {
	return s.get(id)
}

// Load replaces the snapshot with the full remote list. On failure the
// store is left empty and the error is surfaced to the caller, there is
// no automatic retry.
func (s *EntryStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.withTimeoutList(ctx)
	if err != nil {
		empty := make([]model.DiaryEntry, 0)
		s.snapshot.Store(&empty)
		return fmt.Errorf("fetch entries: %w", translateErr(err))
	}
	sortByDateDesc(entries)
	s.snapshot.Store(&entries)
	return nil
}

// Create persists a blank page for the given date. At most one entry
// may exist per date; duplicates are rejected against the snapshot and
// the table's unique index backs that up.
func (s *EntryStore) Create(ctx context.Context, date string) (*model.DiaryEntry, error) {
	if _, err := timeutil.ParseDay(date); err != nil {
		return nil, appErr.ErrInvalid
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range *s.snapshot.Load() {
		if existing.Date == date {
			return nil, appErr.ErrDuplicateDate
		}
	}
	entry := &model.DiaryEntry{
		ID:        uuid.NewString(),
		Date:      date,
		CreatedAt: timeutil.NowUnix(),
	}
	if err := s.withTimeout(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, entry)
	}); err != nil {
		return nil, translateErr(err)
	}
	s.apply(func(entries []model.DiaryEntry) []model.DiaryEntry {
		return append(entries, *entry)
	})
	return entry, nil
}

// Update is a full replacement of the three mutable fields. A nil
// imageURL keeps the stored image, anything else (including the empty
// string) replaces it. The row read back from the backend is the new
// truth, not the caller's optimistic value.
func (s *EntryStore) Update(ctx context.Context, id, content, ideas string, imageURL *string) (*model.DiaryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	finalImage := ""
	if imageURL != nil {
		finalImage = *imageURL
	} else {
		existing, ok := s.get(id)
		if !ok {
			return nil, appErr.ErrNotFound
		}
		finalImage = existing.ImageURL
	}
	if err := s.withTimeout(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, id, content, ideas, finalImage)
	}); err != nil {
		return nil, translateErr(err)
	}
	var saved *model.DiaryEntry
	if err := s.withTimeout(ctx, func(ctx context.Context) error {
		var err error
		saved, err = s.repo.GetByID(ctx, id)
		return err
	}); err != nil {
		return nil, translateErr(err)
	}
	s.apply(func(entries []model.DiaryEntry) []model.DiaryEntry {
		for i := range entries {
			if entries[i].ID == saved.ID {
				entries[i] = *saved
			}
		}
		return entries
	})
	return saved, nil
}

func (s *EntryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.withTimeout(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	}); err != nil {
		return translateErr(err)
	}
	s.apply(func(entries []model.DiaryEntry) []model.DiaryEntry {
		out := entries[:0]
		for _, entry := range entries {
			if entry.ID != id {
				out = append(out, entry)
			}
		}
		return out
	})
	return nil
}

func (s *EntryStore) get(id string) (*model.DiaryEntry, bool) {
	for _, entry := range *s.snapshot.Load() {
		if entry.ID == id {
			e := entry
			return &e, true
		}
	}
	return nil, false
}

// apply rebuilds the snapshot under s.mu and swaps it in atomically.
func (s *EntryStore) apply(mutate func([]model.DiaryEntry) []model.DiaryEntry) {
	current := *s.snapshot.Load()
	next := make([]model.DiaryEntry, len(current))
	copy(next, current)
	next = mutate(next)
	sortByDateDesc(next)
	s.snapshot.Store(&next)
}

func (s *EntryStore) withTimeout(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	return fn(ctx)
}

func (s *EntryStore) withTimeoutList(ctx context.Context) ([]model.DiaryEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	entries, err := s.repo.List(ctx)
	if err != nil {
		logutil.GetLogger(ctx).Error("list entries failed", zap.Error(err))
	}
	return entries, err
}

func translateErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return appErr.ErrTimeout
	}
	return err
}

func sortByDateDesc(entries []model.DiaryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})
}
