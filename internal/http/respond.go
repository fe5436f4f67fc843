package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/minhpv/product-events/internal/http/apierr"
)

func writeJSON(logger *slog.Logger, w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.ErrorContext(r.Context(), "error encoding response",
			slog.Any("error", err))
	}
}

func writeError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	writeJSON(logger, w, r, res.StatusCode, res)
}
