package usecase

type UploadResult struct {
	UploadID       string
	Filename       string
	SpreadsheetURL string
	RowsQueued     int64
	Columns        int64
	TotalCells     int64
}
