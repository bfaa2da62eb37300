package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/shandysiswandi/gosheets/internal/sheet/entity"
)

const (
	// DefaultChunkSize is the read size used while enforcing the size ceiling.
	DefaultChunkSize = 1 << 20

	// DefaultMaxFileSize is the upload size ceiling.
	DefaultMaxFileSize int64 = 200 << 20

	defaultSheetTitle = "Uploaded CSV"
)

//nolint:gochecknoglobals // read-only lookup
var csvMediaTypes = map[string]struct{}{
	"text/csv":                 {},
	"application/csv":          {},
	"application/vnd.ms-excel": {},
}

// CheckFileType accepts a file whose name ends in .csv, or an extensionless
// file declared with a CSV media type.
func CheckFileType(filename, contentType string) error {
	ext := strings.ToLower(path.Ext(baseName(filename)))
	if ext == ".csv" {
		return nil
	}

	if ext == "" && contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err == nil {
			if _, ok := csvMediaTypes[strings.ToLower(mediaType)]; ok {
				return nil
			}
		}
	}

	return fmt.Errorf("%w: %q", entity.ErrInvalidFileType, filename)
}

// ReadCapped reads r in chunkSize pieces and fails with ErrFileTooLarge the
// moment more than maxBytes have been read. The rest of r is left unread, so
// at most maxBytes+chunkSize bytes are ever consumed.
func ReadCapped(ctx context.Context, r io.Reader, chunkSize int, maxBytes int64) ([]byte, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFileSize
	}

	var buf bytes.Buffer
	chunk := make([]byte, chunkSize)
	var total int64

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := io.ReadFull(r, chunk)
		if n > 0 {
			total += int64(n)
			if total > maxBytes {
				return nil, fmt.Errorf("%w: read %d bytes, limit is %d", entity.ErrFileTooLarge, total, maxBytes)
			}
			buf.Write(chunk[:n])
		}

		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	if total == 0 {
		return nil, entity.ErrEmptyFile
	}

	return buf.Bytes(), nil
}

// FileTooLargeMessage is the client message for an upload over maxBytes.
func FileTooLargeMessage(maxBytes int64) string {
	return fmt.Sprintf("File too large. Maximum size is %dMB.", maxBytes>>20)
}

// sheetTitle derives the spreadsheet title from the uploaded filename.
func sheetTitle(filename string) string {
	name := baseName(filename)
	if strings.EqualFold(path.Ext(name), ".csv") {
		name = name[:len(name)-len(".csv")]
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return defaultSheetTitle
	}
	return name
}

// baseName strips any client-side directory, whichever separator it used.
func baseName(filename string) string {
	if i := strings.LastIndexAny(filename, `/\`); i >= 0 {
		return filename[i+1:]
	}
	return filename
}
