package middleware

import (
	"net/http"
	"strings"
)

// CORSOptions lists what the Access-Control-Allow-* headers announce.
type CORSOptions struct {
	Origin  string
	Methods []string
	Headers []string
}

// DefaultCORS allows any origin to POST JSON or form uploads.
var DefaultCORS = CORSOptions{
	Origin:  "*",
	Methods: []string{http.MethodPost, http.MethodOptions},
	Headers: []string{"Content-Type"},
}

// CORS stamps the same headers on every response and answers preflight requests with 204.
func CORS(opts CORSOptions) func(http.Handler) http.Handler {
	origin := opts.Origin
	if origin == "" {
		origin = "*"
	}
	methods := strings.Join(opts.Methods, ", ")
	headers := strings.Join(opts.Headers, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			if methods != "" {
				h.Set("Access-Control-Allow-Methods", methods)
			}
			if headers != "" {
				h.Set("Access-Control-Allow-Headers", headers)
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
