package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/teemow/inboxpilot/internal/audit"
)

// StatusSource exposes the most recent fleet run for the /status
// endpoint. audit.FileRecorder satisfies this.
type StatusSource interface {
	LatestFleet(ctx context.Context) (*audit.FleetEntry, error)
}

// StatusResponse is the JSON body served on /status.
type StatusResponse struct {
	Status    string            `json:"status"`
	LastFleet *audit.FleetEntry `json:"last_fleet,omitempty"`
}

// StatusHandler returns an HTTP handler for the /status endpoint.
// It reports the outcome of the most recent fleet run, or "idle" when
// no run has been recorded yet.
func StatusHandler(source StatusSource) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if source == nil {
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(StatusResponse{Status: "idle"})
			return
		}

		entry, err := source.LatestFleet(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(StatusResponse{Status: "error"})
			return
		}
		if entry == nil {
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(StatusResponse{Status: "idle"})
			return
		}

		status := "ok"
		if entry.Failures > 0 {
			status = "degraded"
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(StatusResponse{Status: status, LastFleet: entry})
	})
}
