package pkglog

import (
	"context"
	"testing"
)

func TestCorrelationID(t *testing.T) {
	ctx := context.Background()
	if got := GetCorrelationID(ctx); got != missingCorrelationID {
		t.Fatalf("expected invalid chain id, got %q", got)
	}

	ctx = SetCorrelationID(ctx, "cid-123")
	if got := GetCorrelationID(ctx); got != "cid-123" {
		t.Fatalf("expected cid-123, got %q", got)
	}
}

func TestUploadID(t *testing.T) {
	ctx := context.Background()
	if got := GetUploadID(ctx); got != "" {
		t.Fatalf("expected empty upload id, got %q", got)
	}

	ctx = SetUploadID(SetCorrelationID(ctx, "cid-1"), "42")
	if got := GetUploadID(ctx); got != "42" {
		t.Fatalf("expected 42, got %q", got)
	}
	if got := GetCorrelationID(ctx); got != "cid-1" {
		t.Fatalf("upload id must not shadow the correlation id, got %q", got)
	}
}
