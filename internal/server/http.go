package server

import (
	"log"
	"net/http"
	"os"
	"runtime/debug"

	"github.com/rs/cors"
)

// CreateCORSHandler wraps handler with CORS for the configured origins
func CreateCORSHandler(handler http.Handler, origins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodHead, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
	})
	return c.Handler(handler)
}

// CreateRecoveryHandler wraps handler with panic recovery
func CreateRecoveryHandler(handler http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[PANIC RECOVERED] %v\n%s", err, debug.Stack())
				w.Header().Set("Content-Type", "application/json")
				http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
			}
		}()
		handler.ServeHTTP(w, r)
	}
}

// CreateStaticHandler serves dir, or nil when the directory does not exist
func CreateStaticHandler(dir string) http.Handler {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		log.Printf("[HTTP] Static files disabled (no %s directory)", dir)
		return nil
	}
	log.Printf("[HTTP] Serving static files from %s", dir)
	return http.FileServer(http.Dir(dir))
}
