package store

import (
	"context"
	"sync"
	"time"

	"github.com/shandysiswandi/gosheets/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gosheets/internal/sheet/entity"
)

// InMemoryStore keeps upload status records for the life of the process.
// Finished records older than the retention window are evicted lazily when a
// new upload is created.
type InMemoryStore struct {
	mu        sync.RWMutex
	uploads   map[string]*uploadRecord
	retention time.Duration
	now       func() time.Time
}

type uploadRecord struct {
	mu   sync.RWMutex
	meta entity.UploadMeta
}

// NewInMemoryStore builds a store. A retention of zero keeps every record.
func NewInMemoryStore(retention time.Duration) *InMemoryStore {
	return &InMemoryStore{
		uploads:   make(map[string]*uploadRecord),
		retention: retention,
		now:       time.Now,
	}
}

func (s *InMemoryStore) CreateUpload(ctx context.Context, meta entity.UploadMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.uploads[meta.ID]; exists {
		return pkgerror.NewBusiness("upload already exists", pkgerror.CodeConflict)
	}

	s.evictLocked()
	s.uploads[meta.ID] = &uploadRecord{meta: meta}

	return nil
}

// UpdateMeta applies fn to the stored record. Updates to one upload are
// serialized.
func (s *InMemoryStore) UpdateMeta(ctx context.Context, uploadID string, fn func(meta *entity.UploadMeta)) error {
	rec, err := s.get(uploadID)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	fn(&rec.meta)

	return nil
}

func (s *InMemoryStore) GetUpload(ctx context.Context, uploadID string) (entity.UploadMeta, error) {
	rec, err := s.get(uploadID)
	if err != nil {
		return entity.UploadMeta{}, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	return rec.meta, nil
}

func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.uploads)
}

func (s *InMemoryStore) get(uploadID string) (*uploadRecord, error) {
	s.mu.RLock()
	rec, ok := s.uploads[uploadID]
	s.mu.RUnlock()
	if !ok {
		return nil, pkgerror.ErrNotFound
	}

	return rec, nil
}

func (s *InMemoryStore) evictLocked() {
	if s.retention <= 0 {
		return
	}

	cutoff := s.now().Add(-s.retention)
	for id, rec := range s.uploads {
		rec.mu.RLock()
		expired := isFinished(rec.meta.Status) && !rec.meta.EndedAt.IsZero() && rec.meta.EndedAt.Before(cutoff)
		rec.mu.RUnlock()

		if expired {
			delete(s.uploads, id)
		}
	}
}

func isFinished(status entity.UploadStatus) bool {
	return status == entity.UploadStatusDone || status == entity.UploadStatusFailed
}
