package handlers

import (
	"encoding/json"
	"net/http"
)

// Health reports liveness and which backend the storefront talks to
func Health(backendMode string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"service": "concertfever-storefront",
			"backend": backendMode,
		})
	}
}
