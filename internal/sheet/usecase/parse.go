package usecase

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/shandysiswandi/gosheets/internal/sheet/entity"
	"golang.org/x/text/encoding/charmap"
)

//nolint:gochecknoglobals // constant byte sequence
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseTable parses a CSV payload into a rectangular table.
//
// Payloads that are not valid UTF-8 are decoded as Latin-1, which is what
// spreadsheet exports commonly produce. Rows whose cells are all blank are
// dropped and short rows are padded to the widest row. An input with no
// remaining rows yields an empty table.
func ParseTable(data []byte) (entity.Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	var src io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		src = charmap.ISO8859_1.NewDecoder().Reader(src)
	}

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	var rows [][]string
	width := 0

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return entity.Table{}, fmt.Errorf("%w: %w", entity.ErrMalformedCSV, err)
		}

		if isBlankRecord(record) {
			continue
		}

		rows = append(rows, record)
		width = max(width, len(record))
	}

	if len(rows) == 0 {
		return entity.Table{}, nil
	}

	for i, row := range rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			rows[i] = padded
		}
	}

	return entity.Table{Header: rows[0], Rows: rows[1:]}, nil
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
