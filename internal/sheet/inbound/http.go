package inbound

import (
	"context"

	"github.com/shandysiswandi/gosheets/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gosheets/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gosheets/internal/sheet/entity"
	"github.com/shandysiswandi/gosheets/internal/sheet/usecase"
)

type uc interface {
	Upload(ctx context.Context, req entity.UploadRequest) (usecase.UploadResult, error)
	Status(ctx context.Context, uploadID string) (entity.UploadMeta, error)
}

// multipartOverhead is the allowance for boundaries, part headers and small
// form fields on top of the file itself.
const multipartOverhead = 1 << 20

type EndpointConfig struct {
	// MaxFileSize is the largest accepted file. Zero leaves the body uncapped
	// at the HTTP layer.
	MaxFileSize int64
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc, cfg EndpointConfig) {
	end := &HTTPEndpoint{uc: uc}

	var maxBody int64
	if cfg.MaxFileSize > 0 {
		maxBody = cfg.MaxFileSize + multipartOverhead
		end.tooLarge = pkgerror.NewBadRequest(entity.ErrFileTooLarge, usecase.FileTooLargeMessage(cfg.MaxFileSize))
	}

	r.POST("/upload", end.Upload, pkgrouter.MaxBodySize(maxBody, end.tooLarge))
	r.GET("/uploads/:upload_id", end.Status)
}
