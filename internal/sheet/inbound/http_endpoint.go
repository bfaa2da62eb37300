package inbound

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/shandysiswandi/gosheets/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gosheets/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gosheets/internal/sheet/entity"
)

const formFieldFile = "file"

type HTTPEndpoint struct {
	uc uc

	// tooLarge answers bodies cut off by the size cap.
	tooLarge error
}

func (h *HTTPEndpoint) Upload(ctx context.Context, r *http.Request) (any, error) {
	part, err := h.extractMultipartFile(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = part.Close() }()

	result, err := h.uc.Upload(ctx, entity.UploadRequest{
		Filename:    part.FileName(),
		ContentType: part.Header.Get("Content-Type"),
		Body:        cappedBody{r: part},
	})
	if err != nil {
		return nil, err
	}

	return UploadResponse{
		Message:        uploadAcceptedMessage,
		UploadID:       result.UploadID,
		StatusURL:      statusPath(result.UploadID),
		SpreadsheetURL: result.SpreadsheetURL,
		RowsQueued:     result.RowsQueued,
		Columns:        result.Columns,
		TotalCells:     result.TotalCells,
		Filename:       result.Filename,
	}, nil
}

func (h *HTTPEndpoint) Status(ctx context.Context, r *http.Request) (any, error) {
	uploadID := pkgrouter.GetParam(ctx, "upload_id")
	if uploadID == "" {
		return nil, pkgerror.NewInvalidInput(errors.New("upload_id is required"))
	}

	meta, err := h.uc.Status(ctx, uploadID)
	if err != nil {
		return nil, err
	}

	return toStatusResponse(meta), nil
}

func statusPath(uploadID string) string {
	return "/uploads/" + uploadID
}

// extractMultipartFile streams the request until it reaches the file part.
// Parts before it are discarded unread.
func (h *HTTPEndpoint) extractMultipartFile(r *http.Request) (*multipart.Part, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || !strings.EqualFold(mediaType, "multipart/form-data") {
		return nil, pkgerror.NewBadRequest(err, "Request must be multipart/form-data with a file field.")
	}

	reader, err := r.MultipartReader()
	if err != nil {
		return nil, pkgerror.NewBadRequest(err, "Malformed multipart body.")
	}

	for {
		part, err := reader.NextPart()
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return nil, h.tooLargeErr(err)
			}
			if errors.Is(err, io.EOF) {
				return nil, pkgerror.NewBadRequest(err, "The file field is required.")
			}
			return nil, pkgerror.NewBadRequest(err, "Malformed multipart body.")
		}

		if part.FormName() == formFieldFile {
			return part, nil
		}
		_ = part.Close()
	}
}

func (h *HTTPEndpoint) tooLargeErr(err error) error {
	if h.tooLarge != nil {
		return h.tooLarge
	}
	return pkgerror.NewBadRequest(fmt.Errorf("%w: %w", entity.ErrFileTooLarge, err), "Request body too large.")
}

// cappedBody reports a body cut off by the size cap as ErrFileTooLarge.
type cappedBody struct {
	r io.Reader
}

func (c cappedBody) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return n, fmt.Errorf("%w: %w", entity.ErrFileTooLarge, err)
	}
	return n, err
}
