package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zloutek1/masarykbot/internal/domain"
)

// parseSnowflake extracts a Discord snowflake path parameter from the chi
// URL params.
func parseSnowflake(r *http.Request, param string) (domain.Snowflake, error) {
	raw := chi.URLParam(r, param)
	if _, err := strconv.ParseUint(raw, 10, 64); err != nil {
		return "", &domain.ValidationError{
			Fields: map[string]string{param: "must be a valid snowflake"},
		}
	}
	return domain.Snowflake(raw), nil
}

// parseLimit extracts an optional positive "limit" query parameter.
// A missing parameter yields zero, letting the service apply its default.
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, &domain.ValidationError{
			Fields: map[string]string{"limit": "must be a positive integer"},
		}
	}
	return limit, nil
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}
