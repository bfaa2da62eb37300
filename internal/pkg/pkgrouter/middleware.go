package pkgrouter

import "net/http"

// Middleware wraps an http.Handler, typically to add cross-cutting behavior.
type Middleware func(http.Handler) http.Handler

// Chain applies middleware in order, returning the final wrapped handler.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// MaxBodySize caps the request body at limit bytes. Reads past the cap fail
// with *http.MaxBytesError. A request that declares a larger Content-Length
// is answered with rejection through the error codec, or with a plain 413
// when rejection is nil. A non-positive limit disables the cap.
func MaxBodySize(limit int64, rejection error) Middleware {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				if rejection != nil {
					writeError(r.Context(), w, rejection)
				} else {
					writeJSON(w, errorResponse{Message: "Request body too large"}, http.StatusRequestEntityTooLarge)
				}
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
