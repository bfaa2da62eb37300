package pkgrouter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shandysiswandi/gosheets/internal/pkg/pkglog"
)

type countingGenerator struct {
	id    string
	calls int
}

func (g *countingGenerator) Generate() string {
	g.calls++
	return g.id
}

func TestMiddlewareCorrelationID(t *testing.T) {
	tests := []struct {
		name      string
		headers   map[string]string
		generator bool
		want      string
		wantCalls int
	}{
		{
			name:      "client correlation id wins",
			headers:   map[string]string{HeaderCorrelationID: "client-cid", HeaderRequestID: "proxy-id"},
			generator: true,
			want:      "client-cid",
		},
		{
			name:      "invalid correlation id falls back to request id",
			headers:   map[string]string{HeaderCorrelationID: "bad\x00id", HeaderRequestID: "proxy-id"},
			generator: true,
			want:      "proxy-id",
		},
		{
			name:      "generated when no usable header",
			headers:   map[string]string{HeaderCorrelationID: "ünïcode"},
			generator: true,
			want:      "gen-1",
			wantCalls: 1,
		},
		{
			name: "nothing set without a generator",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &countingGenerator{id: "gen-1"}
			var uid Generator
			if tt.generator {
				uid = gen
			}

			var inCtx string
			h := middlewareCorrelationID(uid)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				inCtx = pkglog.GetCorrelationID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodPost, "/upload", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if got := rec.Header().Get(HeaderCorrelationID); got != tt.want {
				t.Fatalf("response header = %q, want %q", got, tt.want)
			}
			if tt.want != "" && inCtx != tt.want {
				t.Fatalf("context id = %q, want %q", inCtx, tt.want)
			}
			if gen.calls != tt.wantCalls {
				t.Fatalf("generator calls = %d, want %d", gen.calls, tt.wantCalls)
			}
		})
	}
}
