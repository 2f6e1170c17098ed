package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/gumballz/internal/store"
	"github.com/robalobadob/gumballz/internal/vocab"
)

// envelope is the shape of every JSON response.
type envelope struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Stale       bool   `json:"stale"`
	LastUpdated string `json:"lastUpdated,omitempty"`
	Data        any    `json:"data"`
}

// noUpdateYet is shown as lastUpdated before the first successful fetch.
const noUpdateYet = "Không cần cập nhật"

// sourceTimeout is the message when the request deadline passes before the
// first sheet fetch completes.
const sourceTimeout = "Hết thời gian chờ dữ liệu nguồn."

// lastUpdatedLayout matches the vi-VN locale time string (HH:MM:SS D/M/YYYY).
const lastUpdatedLayout = "15:04:05 2/1/2006"

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// statusFor maps the error taxonomy onto HTTP codes.
func statusFor(err error) int {
	var (
		ve *vocab.ValidationError
		nf *vocab.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err with success:false. empty is the data value clients
// expect on failure ([] for list endpoints, null otherwise).
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string, empty any) {
	status := statusFor(err)
	msg := err.Error()
	switch status {
	case http.StatusGatewayTimeout:
		hlog.FromRequest(r).Warn().Err(err).Msg("request deadline passed before data was ready")
		msg = sourceTimeout
	case http.StatusInternalServerError:
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		var sue *store.SourceUnavailableError
		if !errors.As(err, &sue) {
			msg = fallback
		}
	}
	writeJSON(w, status, envelope{Success: false, Message: msg, Data: empty})
}

// formatLastUpdated renders a snapshot time for display.
func formatLastUpdated(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return noUpdateYet
	}
	return t.In(loc).Format(lastUpdatedLayout)
}
