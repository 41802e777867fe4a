package middleware

import (
	"log"
	"net/http"
)

// CORS allows the configured origin to reach the HTTP surface. The drawing
// protocol itself rides the WebSocket upgrade, which browsers exempt from
// preflight.
func CORS(allowedOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Requested-With")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				log.Printf("[CORS] Handled OPTIONS preflight request for %s", r.URL.Path)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
