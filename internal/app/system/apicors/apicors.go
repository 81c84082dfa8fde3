// Package apicors provides CORS middleware for the public JSON API.
//
// Profile and contribution data is public and shareable (embedded heatmap
// widgets, third-party dashboards), so the read endpoints allow any origin.
// There are no cookies on these routes; mutating routes authenticate with
// an API key in the Authorization header, which is not CSRF-vulnerable.
package apicors

import (
	"net/http"
)

// Middleware returns permissive CORS middleware for API endpoints.
//
// This middleware:
//   - Allows any origin (Access-Control-Allow-Origin: *)
//   - Does not allow credentials (no cookies on API routes)
//   - Allows common API methods and headers
//   - Handles preflight OPTIONS requests
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Accept")
			w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
