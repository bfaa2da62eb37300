package entity

type UploadStatus string

const (
	UploadStatusQueued     UploadStatus = "QUEUED"
	UploadStatusProcessing UploadStatus = "PROCESSING"
	UploadStatusDone       UploadStatus = "DONE"
	UploadStatusFailed     UploadStatus = "FAILED"
)

const (
	// CellLimit is the maximum number of addressable cells in one spreadsheet.
	CellLimit int64 = 10_000_000

	// BatchSize is the maximum number of rows sent in one values update.
	BatchSize = 10_000

	// HeaderRows is the number of rows written before the first data batch.
	HeaderRows = 1

	// DefaultSheetTitle names the single grid tab of every spreadsheet.
	DefaultSheetTitle = "Sheet1"
)
