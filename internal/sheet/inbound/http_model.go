package inbound

import (
	"net/http"
	"time"

	"github.com/shandysiswandi/gosheets/internal/sheet/entity"
)

const uploadAcceptedMessage = "Sheet created successfully. Data is being uploaded in the background."

type UploadResponse struct {
	Message        string `json:"message"`
	UploadID       string `json:"upload_id"`
	StatusURL      string `json:"status_url"`
	SpreadsheetURL string `json:"spreadsheet_url"`
	RowsQueued     int64  `json:"rows_queued"`
	Columns        int64  `json:"columns"`
	TotalCells     int64  `json:"total_cells"`
	Filename       string `json:"filename"`
}

func (UploadResponse) RawBody() {}

func (UploadResponse) StatusCode() int {
	return http.StatusAccepted
}

type StatusResponse struct {
	UploadID       string              `json:"upload_id"`
	Filename       string              `json:"filename"`
	SpreadsheetURL string              `json:"spreadsheet_url"`
	Status         entity.UploadStatus `json:"status"`
	Error          string              `json:"error,omitempty"`
	Rows           int64               `json:"rows"`
	Columns        int64               `json:"columns"`
	TotalBatches   int                 `json:"total_batches"`
	BatchesWritten int                 `json:"batches_written"`
	RowsWritten    int64               `json:"rows_written"`
	FailedAtRow    int64               `json:"failed_at_row,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	StartedAt      *time.Time          `json:"started_at,omitempty"`
	EndedAt        *time.Time          `json:"ended_at,omitempty"`
}

func (StatusResponse) Message() string {
	return "upload status"
}

func toStatusResponse(meta entity.UploadMeta) StatusResponse {
	return StatusResponse{
		UploadID:       meta.ID,
		Filename:       meta.Filename,
		SpreadsheetURL: meta.SpreadsheetURL,
		Status:         meta.Status,
		Error:          meta.Err,
		Rows:           meta.Rows,
		Columns:        meta.Columns,
		TotalBatches:   meta.TotalBatches,
		BatchesWritten: meta.BatchesWritten,
		RowsWritten:    meta.RowsWritten,
		FailedAtRow:    meta.FailedAtRow,
		CreatedAt:      meta.CreatedAt,
		StartedAt:      optionalTime(meta.StartedAt),
		EndedAt:        optionalTime(meta.EndedAt),
	}
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
