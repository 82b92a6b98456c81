package domain

import "time"

// DefaultWindowLength is how much history a single archive window covers.
const DefaultWindowLength = 7 * 24 * time.Hour

// ArchiveWindow records one message-history backup window for a guild.
// A window with a nil FinishedAt crashed mid-run and must be re-archived
// before any newer window is opened.
type ArchiveWindow struct {
	GuildID    Snowflake
	From       time.Time
	To         time.Time
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Finished reports whether the window's archive run completed.
func (w *ArchiveWindow) Finished() bool { return w.FinishedAt != nil }

// NextWindow plans the window that follows last. The first window of a guild
// starts at guildCreated; each subsequent window starts where the previous
// one ended. A window that would start in the future is clamped to the most
// recent full window ending at now, so catch-up never plans ahead of the
// present.
func NextWindow(last *ArchiveWindow, guildCreated, now time.Time, length time.Duration) (from, to time.Time) {
	if length <= 0 {
		length = DefaultWindowLength
	}

	if last == nil {
		from, to = guildCreated, guildCreated.Add(length)
	} else {
		from, to = last.To, last.To.Add(length)
	}

	if from.After(now) {
		from, to = now.Add(-length), now
	}
	return from, to
}

// StillBehind reports whether another full window fits between the end of
// the window ending at `to` and now, i.e. catch-up has to keep running.
func StillBehind(to, now time.Time, length time.Duration) bool {
	if length <= 0 {
		length = DefaultWindowLength
	}
	return to.Add(length).Before(now)
}
