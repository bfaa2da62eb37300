package pkglog

import "context"

type contextKey int

const (
	keyCorrelationID contextKey = iota
	keyUploadID
)

const missingCorrelationID = "[invalid_chain_id]"

// GetCorrelationID returns the correlation ID stored in the context.
//
// Middleware sets it early in the request lifecycle; upload workers restore
// it from the job so background logs can be joined with the request.
func GetCorrelationID(ctx context.Context) string {
	cid, ok := ctx.Value(keyCorrelationID).(string)
	if !ok {
		return missingCorrelationID
	}
	return cid
}

// SetCorrelationID stores a correlation ID into the context.
func SetCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, keyCorrelationID, cid)
}

// GetUploadID returns the upload being processed, or "".
func GetUploadID(ctx context.Context) string {
	id, _ := ctx.Value(keyUploadID).(string)
	return id
}

func SetUploadID(ctx context.Context, uploadID string) context.Context {
	return context.WithValue(ctx, keyUploadID, uploadID)
}
