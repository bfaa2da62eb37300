package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/shandysiswandi/gosheets/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gosheets/internal/pkg/pkglog"
	"github.com/shandysiswandi/gosheets/internal/pkg/pkguid"
	"github.com/shandysiswandi/gosheets/internal/sheet/entity"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Sheets is the remote spreadsheet service. Implementations must be safe for
// concurrent use.
type Sheets interface {
	CreateSheet(ctx context.Context, title string, rows, columns int64) (entity.SheetHandle, error)
	SetPublic(ctx context.Context, handle entity.SheetHandle) error
	// WriteRows writes rows starting at the 0-based sheet row offset. Failures
	// worth retrying wrap entity.ErrTransient.
	WriteRows(ctx context.Context, handle entity.SheetHandle, offset int, rows [][]string) error
	DeleteSheet(ctx context.Context, handle entity.SheetHandle) error
}

type Store interface {
	CreateUpload(ctx context.Context, meta entity.UploadMeta) error
	UpdateMeta(ctx context.Context, uploadID string, fn func(meta *entity.UploadMeta)) error
	GetUpload(ctx context.Context, uploadID string) (entity.UploadMeta, error)
}

type JobPublisher interface {
	Publish(ctx context.Context, job entity.UploadJob) error
}

type Clock interface {
	Now() time.Time
}

type Config struct {
	MaxFileSize    int64
	ChunkSize      int
	CellLimit      int64
	BatchSize      int
	MaxAttempts    int
	BaseBackoff    time.Duration
	CleanupOrphans bool
}

type Dependency struct {
	Sheets Sheets
	Store  Store
	Jobs   JobPublisher
	Clock  Clock
	ID     pkguid.StringID
	Config Config
}

type Usecase struct {
	sheets Sheets
	store  Store
	jobs   JobPublisher
	clock  Clock
	id     pkguid.StringID
	cfg    Config

	// sleep waits between write attempts and reports whether to go on.
	sleep func(ctx context.Context, d time.Duration) bool
}

func New(dep Dependency) *Usecase {
	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	return &Usecase{
		sheets: dep.Sheets,
		store:  dep.Store,
		jobs:   dep.Jobs,
		clock:  clock,
		id:     dep.ID,
		cfg:    withDefaults(dep.Config),
		sleep:  sleepBackoff,
	}
}

func withDefaults(cfg Config) Config {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.CellLimit <= 0 {
		cfg.CellLimit = entity.CellLimit
	}
	if cfg.BatchSize <= 0 || cfg.BatchSize > entity.BatchSize {
		cfg.BatchSize = entity.BatchSize
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 3
	}
	if cfg.BaseBackoff < 0 {
		cfg.BaseBackoff = 0
	}
	return cfg
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Upload runs the synchronous part of the pipeline: validate, admit,
// provision, then hand the rows to the background queue. It returns as soon
// as the job is queued; rows are written later by ProcessJob.
func (u *Usecase) Upload(ctx context.Context, req entity.UploadRequest) (UploadResult, error) {
	if u.sheets == nil || u.store == nil || u.jobs == nil || u.id == nil {
		return UploadResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	if err := CheckFileType(req.Filename, req.ContentType); err != nil {
		return UploadResult{}, pkgerror.NewBadRequest(err, "Only .csv files are accepted.")
	}

	table, err := u.readTable(ctx, req.Body)
	if err != nil {
		return UploadResult{}, err
	}

	dims := table.Dimensions()
	if err := Admit(dims, u.cfg.CellLimit); err != nil {
		return UploadResult{}, admitErr(err, dims, u.cfg.CellLimit)
	}

	uploadID := u.id.Generate()
	ctx = pkglog.SetUploadID(ctx, uploadID)
	handle, err := u.provision(ctx, sheetTitle(req.Filename), dims)
	if err != nil {
		slog.ErrorContext(ctx, "failed to provision spreadsheet", "error", err)
		return UploadResult{}, pkgerror.NewServerMessage(err, "Failed to create Google Sheet: "+err.Error())
	}

	if err := u.store.CreateUpload(ctx, entity.UploadMeta{
		ID:             uploadID,
		Filename:       req.Filename,
		SpreadsheetID:  handle.SpreadsheetID,
		SpreadsheetURL: handle.URL,
		Status:         entity.UploadStatusQueued,
		Rows:           dims.Rows,
		Columns:        dims.Columns,
		CreatedAt:      u.clock.Now(),
	}); err != nil {
		return UploadResult{}, normalizeErr(err)
	}

	if err := u.jobs.Publish(ctx, entity.UploadJob{
		ID:            uploadID,
		Handle:        handle,
		Table:         table,
		CorrelationID: pkglog.GetCorrelationID(ctx),
	}); err != nil {
		return UploadResult{}, u.abandonUnqueued(ctx, uploadID, handle, err)
	}

	slog.InfoContext(ctx, "upload queued",
		"spreadsheet_id", handle.SpreadsheetID,
		"dimensions", dims.String(),
	)

	return UploadResult{
		UploadID:       uploadID,
		Filename:       req.Filename,
		SpreadsheetURL: handle.URL,
		RowsQueued:     dims.DataRows(),
		Columns:        dims.Columns,
		TotalCells:     dims.Cells(),
	}, nil
}

// abandonUnqueued handles a provisioned sheet whose job could not be queued:
// the sheet will never be filled, so the upload is marked failed and the
// sheet is deleted when orphan cleanup is on. Cleanup outlives the request.
func (u *Usecase) abandonUnqueued(ctx context.Context, uploadID string, handle entity.SheetHandle, err error) error {
	cleanupCtx := context.WithoutCancel(ctx)

	u.updateMeta(cleanupCtx, uploadID, func(meta *entity.UploadMeta) {
		meta.Status = entity.UploadStatusFailed
		meta.Err = err.Error()
		meta.EndedAt = u.clock.Now()
	})
	slog.ErrorContext(ctx, "failed to queue upload", "spreadsheet_id", handle.SpreadsheetID, "error", err)

	if u.cfg.CleanupOrphans {
		u.deleteOrphan(cleanupCtx, handle)
	}

	if errors.Is(err, entity.ErrQueueFull) || errors.Is(err, entity.ErrQueueClosed) {
		return pkgerror.NewUnavailable(err, "The server is busy. Please try again later.")
	}
	return pkgerror.NewServerMessage(err, "Failed to queue the upload.")
}

// Status returns the progress of an upload accepted by this process.
func (u *Usecase) Status(ctx context.Context, uploadID string) (entity.UploadMeta, error) {
	if uploadID == "" {
		return entity.UploadMeta{}, pkgerror.NewInvalidInput(errors.New("upload_id is required"))
	}

	meta, err := u.store.GetUpload(ctx, uploadID)
	if err != nil {
		return entity.UploadMeta{}, mapStoreErr(err)
	}

	return meta, nil
}

func (u *Usecase) readTable(ctx context.Context, body io.Reader) (entity.Table, error) {
	data, err := ReadCapped(ctx, body, u.cfg.ChunkSize, u.cfg.MaxFileSize)
	if err != nil {
		return entity.Table{}, u.readErr(err)
	}

	table, err := ParseTable(data)
	if err != nil {
		return entity.Table{}, pkgerror.NewBadRequest(err, "The file could not be parsed as CSV.")
	}

	return table, nil
}

func (u *Usecase) readErr(err error) error {
	switch {
	case errors.Is(err, entity.ErrEmptyFile):
		return pkgerror.NewBadRequest(err, "The uploaded file is empty.")
	case errors.Is(err, entity.ErrFileTooLarge):
		return pkgerror.NewBadRequest(err, FileTooLargeMessage(u.cfg.MaxFileSize))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return pkgerror.NewServer(err)
	default:
		return pkgerror.NewBadRequest(err, "Failed to read the uploaded file.")
	}
}

func admitErr(err error, dims entity.Dimensions, limit int64) error {
	if errors.Is(err, entity.ErrCellLimitExceeded) {
		return pkgerror.NewUnprocessable(err, message.NewPrinter(language.English).Sprintf(
			"CSV too large for Google Sheets: %s rows x %s cols = %d cells. Google Sheets limit is %d cells.",
			strconv.FormatInt(dims.Rows, 10), strconv.FormatInt(dims.Columns, 10), dims.Cells(), limit,
		))
	}
	if dims.Rows == 0 {
		return pkgerror.NewUnprocessable(err, "The CSV file is empty.")
	}
	return pkgerror.NewUnprocessable(err, "The CSV file must have at least a header row and one data row.")
}

func mapStoreErr(err error) error {
	if errors.Is(err, pkgerror.ErrNotFound) {
		return pkgerror.NewBusiness("upload not found", pkgerror.CodeNotFound)
	}
	return normalizeErr(err)
}

func normalizeErr(err error) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return perr
	}
	return pkgerror.NewServer(err)
}
