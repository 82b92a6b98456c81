package handlers_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zloutek1/masarykbot/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

var testTime = time.Date(2026, 2, 12, 15, 4, 5, 0, time.UTC)

func withChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func topRows() []domain.LeaderboardRow {
	return []domain.LeaderboardRow{
		{Rank: 1, MemberID: "8", DisplayName: "alice", Count: 120},
		{Rank: 2, MemberID: "9", DisplayName: "bob", Count: 80},
	}
}

func finishedWindow() domain.ArchiveWindow {
	finished := testTime.Add(time.Minute)
	return domain.ArchiveWindow{
		GuildID:    "100",
		From:       testTime.Add(-168 * time.Hour),
		To:         testTime,
		StartedAt:  testTime,
		FinishedAt: &finished,
	}
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var result T
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}
	return result
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}
