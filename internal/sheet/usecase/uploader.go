package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shandysiswandi/gosheets/internal/pkg/pkglog"
	"github.com/shandysiswandi/gosheets/internal/sheet/entity"
)

// Partition splits rows into contiguous batches of at most size rows, in
// order. Batch n starts at sheet offset HeaderRows + n*size.
func Partition(rows [][]string, size int) []entity.Batch {
	if size <= 0 {
		size = entity.BatchSize
	}

	batches := make([]entity.Batch, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		batches = append(batches, entity.Batch{
			Index:  len(batches),
			Offset: entity.HeaderRows + start,
			Rows:   rows[start:end],
		})
	}

	return batches
}

// ProcessJob populates a provisioned spreadsheet: the header first, then each
// batch in ascending row order, one at a time. The first batch that still
// fails after all attempts stops the job, so the sheet always holds a
// contiguous prefix of the table.
func (u *Usecase) ProcessJob(ctx context.Context, job entity.UploadJob) error {
	ctx = pkglog.SetUploadID(ctx, job.ID)
	batches := Partition(job.Table.Rows, u.cfg.BatchSize)

	u.updateMeta(ctx, job.ID, func(meta *entity.UploadMeta) {
		meta.Status = entity.UploadStatusProcessing
		meta.StartedAt = u.clock.Now()
		meta.TotalBatches = len(batches)
	})

	slog.InfoContext(ctx, "uploading rows",
		"spreadsheet_id", job.Handle.SpreadsheetID,
		"rows", len(job.Table.Rows),
		"columns", job.Table.Columns(),
		"batches", len(batches),
		"batch_size", u.cfg.BatchSize,
	)

	if err := u.writeWithRetry(ctx, job.Handle, 0, [][]string{job.Table.Header}); err != nil {
		return u.failJob(ctx, job, 0, err)
	}

	for _, batch := range batches {
		if err := u.writeWithRetry(ctx, job.Handle, batch.Offset, batch.Rows); err != nil {
			return u.failJob(ctx, job, batch.Offset, err)
		}

		u.updateMeta(ctx, job.ID, func(meta *entity.UploadMeta) {
			meta.BatchesWritten++
			meta.RowsWritten += int64(len(batch.Rows))
		})

		slog.InfoContext(ctx, "batch uploaded",
			"batch", batch.Index+1,
			"of", len(batches),
			"from_row", batch.Offset+1,
			"to_row", batch.Offset+len(batch.Rows),
		)
	}

	u.updateMeta(ctx, job.ID, func(meta *entity.UploadMeta) {
		meta.Status = entity.UploadStatusDone
		meta.EndedAt = u.clock.Now()
	})

	slog.InfoContext(ctx, "upload complete", "rows", len(job.Table.Rows))

	return nil
}

func (u *Usecase) writeWithRetry(ctx context.Context, handle entity.SheetHandle, offset int, rows [][]string) error {
	backoff := u.cfg.BaseBackoff

	var err error
	for attempt := 1; attempt <= u.cfg.MaxAttempts; attempt++ {
		err = u.sheets.WriteRows(ctx, handle, offset, rows)
		if err == nil {
			return nil
		}

		if !errors.Is(err, entity.ErrTransient) || attempt == u.cfg.MaxAttempts {
			break
		}

		slog.WarnContext(ctx, "row write failed, retrying",
			"spreadsheet_id", handle.SpreadsheetID,
			"row", offset+1,
			"attempt", attempt,
			"max_attempts", u.cfg.MaxAttempts,
			"retry_in", backoff.String(),
			"error", err,
		)

		if !u.sleep(ctx, backoff) {
			return ctx.Err()
		}
		backoff *= 2
	}

	return fmt.Errorf("write at row %d: %w", offset+1, err)
}

func (u *Usecase) failJob(ctx context.Context, job entity.UploadJob, offset int, err error) error {
	u.updateMeta(ctx, job.ID, func(meta *entity.UploadMeta) {
		meta.Status = entity.UploadStatusFailed
		meta.Err = err.Error()
		meta.FailedAtRow = int64(offset) + 1
		meta.EndedAt = u.clock.Now()
	})

	slog.ErrorContext(ctx, "upload abandoned",
		"spreadsheet_id", job.Handle.SpreadsheetID,
		"failed_at_row", offset+1,
		"error", err,
	)

	return err
}

func (u *Usecase) updateMeta(ctx context.Context, uploadID string, fn func(meta *entity.UploadMeta)) {
	if err := u.store.UpdateMeta(ctx, uploadID, fn); err != nil {
		slog.WarnContext(ctx, "failed to update upload status", "error", err)
	}
}

// sleepBackoff waits for d or until ctx is done. It reports whether the
// caller should keep going.
func sleepBackoff(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
