package outbound

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/shandysiswandi/gosheets/internal/sheet/entity"
	"golang.org/x/time/rate"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/sheets/v4"
)

const spreadsheetURLFormat = "https://docs.google.com/spreadsheets/d/%s/edit"

type ClientConfig struct {
	// RequestsPerMinute caps calls across both APIs. Zero disables limiting.
	RequestsPerMinute int
	// CallTimeout bounds a single API call. Zero leaves it to the caller.
	CallTimeout time.Duration
}

// Client talks to the Sheets and Drive APIs. It is safe for concurrent use.
type Client struct {
	sheets      *sheets.Service
	drive       *drive.Service
	limiter     *rate.Limiter
	callTimeout time.Duration
}

func NewClient(sheetsSvc *sheets.Service, driveSvc *drive.Service, cfg ClientConfig) *Client {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}

	return &Client{
		sheets:      sheetsSvc,
		drive:       driveSvc,
		limiter:     limiter,
		callTimeout: cfg.CallTimeout,
	}
}

// CreateSheet creates a spreadsheet with a single grid sized rows x columns.
func (c *Client) CreateSheet(ctx context.Context, title string, rows, columns int64) (entity.SheetHandle, error) {
	ctx, cancel, err := c.begin(ctx)
	if err != nil {
		return entity.SheetHandle{}, err
	}
	defer cancel()

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
		Sheets: []*sheets.Sheet{{
			Properties: &sheets.SheetProperties{
				Title: entity.DefaultSheetTitle,
				GridProperties: &sheets.GridProperties{
					RowCount:    rows,
					ColumnCount: columns,
				},
			},
		}},
	}

	created, err := c.sheets.Spreadsheets.Create(spreadsheet).
		Fields("spreadsheetId", "spreadsheetUrl").
		Context(ctx).
		Do()
	if err != nil {
		return entity.SheetHandle{}, classify("create spreadsheet", err)
	}

	url := created.SpreadsheetUrl
	if url == "" {
		url = fmt.Sprintf(spreadsheetURLFormat, created.SpreadsheetId)
	}

	return entity.SheetHandle{
		SpreadsheetID: created.SpreadsheetId,
		URL:           url,
		SheetTitle:    entity.DefaultSheetTitle,
	}, nil
}

// SetPublic grants read access to anyone with the link.
func (c *Client) SetPublic(ctx context.Context, handle entity.SheetHandle) error {
	ctx, cancel, err := c.begin(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	_, err = c.drive.Permissions.Create(handle.SpreadsheetID, &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return classify("share spreadsheet", err)
	}

	return nil
}

// WriteRows writes rows as literal values starting at the 0-based row offset.
func (c *Client) WriteRows(ctx context.Context, handle entity.SheetHandle, offset int, rows [][]string) error {
	ctx, cancel, err := c.begin(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	values := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}

	_, err = c.sheets.Spreadsheets.Values.Update(handle.SpreadsheetID, A1Start(handle.SheetTitle, offset), &sheets.ValueRange{
		MajorDimension: "ROWS",
		Values:         values,
	}).ValueInputOption("RAW").Fields("updatedRows").Context(ctx).Do()
	if err != nil {
		return classify("update values", err)
	}

	return nil
}

func (c *Client) DeleteSheet(ctx context.Context, handle entity.SheetHandle) error {
	ctx, cancel, err := c.begin(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	if err := c.drive.Files.Delete(handle.SpreadsheetID).Context(ctx).Do(); err != nil {
		return classify("delete spreadsheet", err)
	}

	return nil
}

// A1Start returns the A1 reference of the first cell of the 0-based row.
func A1Start(sheetTitle string, offset int) string {
	if sheetTitle == "" {
		sheetTitle = entity.DefaultSheetTitle
	}
	return fmt.Sprintf("%s!A%d", sheetTitle, offset+1)
}

func (c *Client) begin(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}

	if c.callTimeout <= 0 {
		return ctx, func() {}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	return ctx, cancel, nil
}

// classify wraps failures worth retrying with entity.ErrTransient: rate
// limiting, server errors, timeouts and broken connections.
func classify(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests ||
			apiErr.Code == http.StatusRequestTimeout ||
			apiErr.Code >= http.StatusInternalServerError {
			return fmt.Errorf("%w: %s: %w", entity.ErrTransient, op, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.As(err, &netErr) {
		return fmt.Errorf("%w: %s: %w", entity.ErrTransient, op, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}
