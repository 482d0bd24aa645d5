package http

import (
	"net/http"
	"time"

	"github.com/vvpcampus/helpdesk/internal/helpdesk/store"
	"github.com/vvpcampus/helpdesk/pkg/httpx"
	"github.com/vvpcampus/helpdesk/pkg/slogx"
)

// ReadyzHandler is the readiness probe; it fails when the database is not
// reachable.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			slogx.FromContext(r.Context()).Error("readiness probe failed", "error", err)
			httpx.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{
				Status:  "unavailable",
				Uptime:  time.Since(startTime).String(),
				Version: version,
			})
			return
		}

		httpx.WriteJSON(w, http.StatusOK, healthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}
