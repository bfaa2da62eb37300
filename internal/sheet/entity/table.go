package entity

import (
	"fmt"
	"io"
)

// UploadRequest is one incoming file as received by the HTTP edge.
type UploadRequest struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// Table is a parsed CSV. Every row, header included, has Columns() cells.
type Table struct {
	Header []string
	Rows   [][]string
}

func (t Table) Columns() int {
	return len(t.Header)
}

func (t Table) Dimensions() Dimensions {
	rows := len(t.Rows)
	if t.Header != nil {
		rows += HeaderRows
	}

	return Dimensions{Rows: int64(rows), Columns: int64(t.Columns())}
}

// Dimensions is the exact grid size of a spreadsheet. Rows counts the header.
type Dimensions struct {
	Rows    int64
	Columns int64
}

func (d Dimensions) Cells() int64 {
	return d.Rows * d.Columns
}

func (d Dimensions) DataRows() int64 {
	if d.Rows <= HeaderRows {
		return 0
	}
	return d.Rows - HeaderRows
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%d rows x %d cols = %d cells", d.Rows, d.Columns, d.Cells())
}

// SheetHandle references a provisioned spreadsheet. It never changes after
// creation.
type SheetHandle struct {
	SpreadsheetID string
	URL           string
	SheetTitle    string
}

// Batch is a contiguous slice of data rows written in one remote call.
// Offset is the 0-based sheet row of the first row in the batch.
type Batch struct {
	Index  int
	Offset int
	Rows   [][]string
}
