package pkgrouter

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNormalizeCID(t *testing.T) {
	if got := normalizeCID("  abc  "); got != "abc" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
	if got := normalizeCID("\n"); got != "" {
		t.Fatalf("expected empty for newline, got %q", got)
	}
	long := strings.Repeat("a", 200)
	if got := normalizeCID(long); len(got) != 128 {
		t.Fatalf("expected length 128, got %d", len(got))
	}
}

func TestMaskHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer secret")
	headers.Set("X-Goog-Api-Key", "key")
	headers.Set("X-Correlation-ID", "abc")

	masked := maskHeaders(headers)
	if got := masked.Get("Authorization"); got != "***" {
		t.Fatalf("expected masked authorization, got %q", got)
	}
	if got := masked.Get("X-Goog-Api-Key"); got != "***" {
		t.Fatalf("expected masked api key, got %q", got)
	}
	if got := masked.Get("X-Correlation-ID"); got != "abc" {
		t.Fatalf("expected correlation id to stay, got %q", got)
	}
	if got := headers.Get("Authorization"); got != "Bearer secret" {
		t.Fatalf("expected original headers unchanged, got %q", got)
	}
}

func TestBodyKind(t *testing.T) {
	tests := []struct {
		name   string
		ct     string
		length int64
		want   string
	}{
		{name: "multipart", ct: "multipart/form-data; boundary=abc", want: "multipart/form-data"},
		{name: "json", ct: "Application/JSON", want: "application/json"},
		{name: "invalid", ct: "multipart/form-data; boundary", want: "invalid"},
		{name: "none", want: "none"},
		{name: "untyped", length: 10, want: "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/upload", nil)
			if tt.ct != "" {
				r.Header.Set("Content-Type", tt.ct)
			}
			r.ContentLength = tt.length
			if got := bodyKind(r); got != tt.want {
				t.Fatalf("bodyKind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResponseMessage(t *testing.T) {
	if got := responseMessage([]byte(`{"message":"Only .csv files are accepted."}`)); got != "Only .csv files are accepted." {
		t.Fatalf("unexpected message: %q", got)
	}
	if got := responseMessage([]byte(`{"message":"cut`)); got != "" {
		t.Fatalf("expected empty message for truncated body, got %q", got)
	}
}

func TestLevelForStatus(t *testing.T) {
	tests := map[int]slog.Level{
		http.StatusAccepted:            slog.LevelInfo,
		http.StatusBadRequest:          slog.LevelWarn,
		http.StatusUnprocessableEntity: slog.LevelWarn,
		http.StatusInternalServerError: slog.LevelError,
	}
	for status, want := range tests {
		if got := levelForStatus(status); got != want {
			t.Fatalf("levelForStatus(%d) = %v, want %v", status, got, want)
		}
	}
}

func TestStatusRecorderKeepsBodyHead(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	big := strings.Repeat("x", maxLoggedBodyBytes+100)

	n, err := rec.Write([]byte(big))
	if err != nil || n != len(big) {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	if rec.status != http.StatusOK {
		t.Fatalf("expected implicit 200, got %d", rec.status)
	}
	if rec.head.Len() != maxLoggedBodyBytes {
		t.Fatalf("expected head capped at %d, got %d", maxLoggedBodyBytes, rec.head.Len())
	}
	if rec.bytes != len(big) {
		t.Fatalf("expected %d bytes counted, got %d", len(big), rec.bytes)
	}
}
