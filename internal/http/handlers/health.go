package handlers

import (
	"net/http"
	"time"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Index describes the service for anyone who opens the root URL.
func (a *App) Index(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"service": "silo-realm",
		"endpoints": map[string]string{
			"generate": "POST /api/generate-silo-realm",
			"health":   "GET /healthz",
			"metrics":  "GET /metrics",
		},
		"silos": a.Catalog.Names(),
	})
}
