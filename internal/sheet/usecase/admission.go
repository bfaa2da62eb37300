package usecase

import (
	"fmt"

	"github.com/shandysiswandi/gosheets/internal/sheet/entity"
)

// Admit rejects tables that cannot become a spreadsheet. It is purely local
// and must run before anything is provisioned.
func Admit(dims entity.Dimensions, cellLimit int64) error {
	if cellLimit <= 0 {
		cellLimit = entity.CellLimit
	}

	if dims.DataRows() == 0 {
		return entity.ErrNoDataRows
	}

	if dims.Cells() > cellLimit {
		return fmt.Errorf("%w: %s, limit is %d", entity.ErrCellLimitExceeded, dims, cellLimit)
	}

	return nil
}
