package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shandysiswandi/gosheets/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gosheets/internal/sheet/entity"
	"github.com/stretchr/testify/mock"
)

type mockSheets struct {
	mock.Mock
}

func (m *mockSheets) CreateSheet(ctx context.Context, title string, rows, columns int64) (entity.SheetHandle, error) {
	args := m.Called(ctx, title, rows, columns)
	return args.Get(0).(entity.SheetHandle), args.Error(1)
}

func (m *mockSheets) SetPublic(ctx context.Context, handle entity.SheetHandle) error {
	return m.Called(ctx, handle).Error(0)
}

func (m *mockSheets) WriteRows(ctx context.Context, handle entity.SheetHandle, offset int, rows [][]string) error {
	return m.Called(ctx, handle, offset, rows).Error(0)
}

func (m *mockSheets) DeleteSheet(ctx context.Context, handle entity.SheetHandle) error {
	return m.Called(ctx, handle).Error(0)
}

// writeOffsets returns the row offsets of every WriteRows call, in call order.
func (m *mockSheets) writeOffsets() []int {
	var offsets []int
	for _, call := range m.Calls {
		if call.Method == "WriteRows" {
			offsets = append(offsets, call.Arguments.Int(2))
		}
	}
	return offsets
}

type testStore struct {
	mu    sync.RWMutex
	metas map[string]entity.UploadMeta
}

func newTestStore() *testStore {
	return &testStore{metas: make(map[string]entity.UploadMeta)}
}

func (s *testStore) CreateUpload(ctx context.Context, meta entity.UploadMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metas[meta.ID] = meta
	return nil
}

func (s *testStore) UpdateMeta(ctx context.Context, uploadID string, fn func(meta *entity.UploadMeta)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	meta, ok := s.metas[uploadID]
	if !ok {
		return pkgerror.ErrNotFound
	}
	fn(&meta)
	s.metas[uploadID] = meta
	return nil
}

func (s *testStore) GetUpload(ctx context.Context, uploadID string) (entity.UploadMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meta, ok := s.metas[uploadID]
	if !ok {
		return entity.UploadMeta{}, pkgerror.ErrNotFound
	}
	return meta, nil
}

type testPublisher struct {
	mu   sync.Mutex
	jobs []entity.UploadJob
	err  error

	// onPublish runs before the result is decided.
	onPublish func()
}

func (p *testPublisher) Publish(ctx context.Context, job entity.UploadJob) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.onPublish != nil {
		p.onPublish()
	}
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, job)
	return nil
}

type testID struct {
	mu sync.Mutex
	n  int
}

func (t *testID) Generate() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.n++
	return fmt.Sprintf("id-%d", t.n)
}

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time {
	return f.now
}

type testEnv struct {
	uc     *Usecase
	sheets *mockSheets
	store  *testStore
	jobs   *testPublisher
}

func newTestEnv(cfg Config) *testEnv {
	env := &testEnv{
		sheets: &mockSheets{},
		store:  newTestStore(),
		jobs:   &testPublisher{},
	}
	env.uc = New(Dependency{
		Sheets: env.sheets,
		Store:  env.store,
		Jobs:   env.jobs,
		Clock:  fixedClock{now: time.Unix(1700000000, 0)},
		ID:     &testID{},
		Config: cfg,
	})
	return env
}

func testHandle() entity.SheetHandle {
	return entity.SheetHandle{
		SpreadsheetID: "sheet-1",
		URL:           "https://docs.google.com/spreadsheets/d/sheet-1/edit",
		SheetTitle:    entity.DefaultSheetTitle,
	}
}
