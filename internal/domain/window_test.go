package domain

import (
	"testing"
	"time"
)

func TestNextWindow(t *testing.T) {
	t.Parallel()

	created := time.Date(2019, 9, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2019, 10, 1, 0, 0, 0, 0, time.UTC)
	week := 7 * 24 * time.Hour

	tests := []struct {
		name     string
		last     *ArchiveWindow
		wantFrom time.Time
		wantTo   time.Time
	}{
		{
			name:     "first window starts at guild creation",
			last:     nil,
			wantFrom: created,
			wantTo:   created.Add(week),
		},
		{
			name: "subsequent window continues from previous end",
			last: &ArchiveWindow{
				From: created,
				To:   created.Add(week),
			},
			wantFrom: created.Add(week),
			wantTo:   created.Add(2 * week),
		},
		{
			name: "window starting in the future clamps to trailing week",
			last: &ArchiveWindow{
				From: now.Add(-2 * 24 * time.Hour),
				To:   now.Add(24 * time.Hour),
			},
			wantFrom: now.Add(-week),
			wantTo:   now,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			from, to := NextWindow(tt.last, created, now, week)
			if !from.Equal(tt.wantFrom) {
				t.Errorf("from = %v, want %v", from, tt.wantFrom)
			}
			if !to.Equal(tt.wantTo) {
				t.Errorf("to = %v, want %v", to, tt.wantTo)
			}
		})
	}
}

func TestNextWindow_DefaultLength(t *testing.T) {
	t.Parallel()

	created := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	now := created.Add(30 * 24 * time.Hour)

	from, to := NextWindow(nil, created, now, 0)
	if !from.Equal(created) {
		t.Errorf("from = %v, want %v", from, created)
	}
	if got, want := to.Sub(from), DefaultWindowLength; got != want {
		t.Errorf("window length = %v, want %v", got, want)
	}
}

func TestStillBehind(t *testing.T) {
	t.Parallel()

	now := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	week := 7 * 24 * time.Hour

	tests := []struct {
		name string
		to   time.Time
		want bool
	}{
		{"two weeks behind", now.Add(-2 * week), true},
		{"exactly one week behind", now.Add(-week), false},
		{"caught up", now.Add(-time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := StillBehind(tt.to, now, week); got != tt.want {
				t.Errorf("StillBehind(%v) = %v, want %v", tt.to, got, tt.want)
			}
		})
	}
}

func TestArchiveWindowFinished(t *testing.T) {
	t.Parallel()

	w := ArchiveWindow{}
	if w.Finished() {
		t.Error("window without FinishedAt should not be finished")
	}

	done := time.Now()
	w.FinishedAt = &done
	if !w.Finished() {
		t.Error("window with FinishedAt should be finished")
	}
}
