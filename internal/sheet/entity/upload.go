package entity

import "time"

// UploadJob is the unit of background work: populate one spreadsheet.
type UploadJob struct {
	ID     string
	Handle SheetHandle
	Table  Table

	// CorrelationID ties background logs to the request that queued the job.
	CorrelationID string
}

type UploadMeta struct {
	ID             string
	Filename       string
	SpreadsheetID  string
	SpreadsheetURL string
	Status         UploadStatus
	Err            string

	Rows    int64
	Columns int64

	// Progress is a contiguous prefix: batches are written in order and the
	// first failure stops the upload.
	TotalBatches   int
	BatchesWritten int
	RowsWritten    int64
	FailedAtRow    int64

	CreatedAt time.Time
	StartedAt time.Time
	EndedAt   time.Time
}
