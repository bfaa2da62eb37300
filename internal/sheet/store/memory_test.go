package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/gosheets/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gosheets/internal/sheet/entity"
)

func TestInMemoryStore_CreateUpload_Duplicate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore(0)
	meta := entity.UploadMeta{ID: "upload-1", Status: entity.UploadStatusQueued}

	if err := store.CreateUpload(ctx, meta); err != nil {
		t.Fatalf("CreateUpload() err = %v", err)
	}

	err := store.CreateUpload(ctx, meta)
	if err == nil {
		t.Fatal("CreateUpload() expected error, got nil")
	}

	var perr *pkgerror.Error
	if !errors.As(err, &perr) {
		t.Fatalf("CreateUpload() expected pkgerror.Error, got %T", err)
	}

	if perr.Code() != pkgerror.CodeConflict {
		t.Fatalf("CreateUpload() error code = %v, want %v", perr.Code(), pkgerror.CodeConflict)
	}
}

func TestInMemoryStore_UpdateMeta_And_GetUpload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore(0)
	meta := entity.UploadMeta{ID: "upload-2", Status: entity.UploadStatusQueued, Rows: 11, Columns: 2}

	if err := store.CreateUpload(ctx, meta); err != nil {
		t.Fatalf("CreateUpload() err = %v", err)
	}

	err := store.UpdateMeta(ctx, meta.ID, func(m *entity.UploadMeta) {
		m.Status = entity.UploadStatusProcessing
		m.TotalBatches = 1
	})
	if err != nil {
		t.Fatalf("UpdateMeta() err = %v", err)
	}

	got, err := store.GetUpload(ctx, meta.ID)
	if err != nil {
		t.Fatalf("GetUpload() err = %v", err)
	}

	if got.Status != entity.UploadStatusProcessing || got.TotalBatches != 1 || got.Rows != 11 {
		t.Fatalf("GetUpload() = %+v", got)
	}
}

func TestInMemoryStore_NotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore(0)

	if _, err := store.GetUpload(ctx, "missing"); !errors.Is(err, pkgerror.ErrNotFound) {
		t.Fatalf("GetUpload() err = %v, want ErrNotFound", err)
	}

	err := store.UpdateMeta(ctx, "missing", func(*entity.UploadMeta) {})
	if !errors.Is(err, pkgerror.ErrNotFound) {
		t.Fatalf("UpdateMeta() err = %v, want ErrNotFound", err)
	}
}

func TestInMemoryStore_ConcurrentUpdates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore(0)
	if err := store.CreateUpload(ctx, entity.UploadMeta{ID: "upload-3"}); err != nil {
		t.Fatalf("CreateUpload() err = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.UpdateMeta(ctx, "upload-3", func(m *entity.UploadMeta) {
				m.BatchesWritten++
			})
		}()
	}
	wg.Wait()

	got, _ := store.GetUpload(ctx, "upload-3")
	if got.BatchesWritten != 50 {
		t.Fatalf("BatchesWritten = %d, want 50", got.BatchesWritten)
	}
}

func TestInMemoryStore_EvictsFinishedUploads(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	store := NewInMemoryStore(time.Hour)
	store.now = func() time.Time { return now }

	seed := []entity.UploadMeta{
		{ID: "old-done", Status: entity.UploadStatusDone, EndedAt: now.Add(-2 * time.Hour)},
		{ID: "old-failed", Status: entity.UploadStatusFailed, EndedAt: now.Add(-90 * time.Minute)},
		{ID: "recent-done", Status: entity.UploadStatusDone, EndedAt: now.Add(-time.Minute)},
		{ID: "old-running", Status: entity.UploadStatusProcessing, StartedAt: now.Add(-5 * time.Hour)},
	}
	for _, meta := range seed {
		if err := store.CreateUpload(ctx, meta); err != nil {
			t.Fatalf("CreateUpload(%s) err = %v", meta.ID, err)
		}
	}

	if err := store.CreateUpload(ctx, entity.UploadMeta{ID: "new", Status: entity.UploadStatusQueued}); err != nil {
		t.Fatalf("CreateUpload() err = %v", err)
	}

	if store.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", store.Len())
	}
	for _, id := range []string{"old-done", "old-failed"} {
		if _, err := store.GetUpload(ctx, id); !errors.Is(err, pkgerror.ErrNotFound) {
			t.Fatalf("expected %s evicted, err = %v", id, err)
		}
	}
	for _, id := range []string{"recent-done", "old-running", "new"} {
		if _, err := store.GetUpload(ctx, id); err != nil {
			t.Fatalf("expected %s kept, err = %v", id, err)
		}
	}
}
