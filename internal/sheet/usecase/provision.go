package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shandysiswandi/gosheets/internal/sheet/entity"
)

// provision creates a spreadsheet sized exactly to dims and makes it
// readable by anyone with the link. Nothing here is retried: the client is
// still waiting on the response.
func (u *Usecase) provision(ctx context.Context, title string, dims entity.Dimensions) (entity.SheetHandle, error) {
	handle, err := u.sheets.CreateSheet(ctx, title, dims.Rows, dims.Columns)
	if err != nil {
		return entity.SheetHandle{}, fmt.Errorf("%w: create spreadsheet: %w", entity.ErrProvisioning, err)
	}

	if err := u.sheets.SetPublic(ctx, handle); err != nil {
		if u.cfg.CleanupOrphans {
			u.deleteOrphan(ctx, handle)
		}
		return entity.SheetHandle{}, fmt.Errorf("%w: share spreadsheet %s: %w", entity.ErrProvisioning, handle.SpreadsheetID, err)
	}

	slog.InfoContext(ctx, "spreadsheet provisioned",
		"spreadsheet_id", handle.SpreadsheetID,
		"rows", dims.Rows,
		"columns", dims.Columns,
	)

	return handle, nil
}

func (u *Usecase) deleteOrphan(ctx context.Context, handle entity.SheetHandle) {
	if err := u.sheets.DeleteSheet(ctx, handle); err != nil {
		slog.ErrorContext(ctx, "failed to delete orphaned spreadsheet", "spreadsheet_id", handle.SpreadsheetID, "error", err)
		return
	}
	slog.WarnContext(ctx, "deleted orphaned spreadsheet", "spreadsheet_id", handle.SpreadsheetID)
}
