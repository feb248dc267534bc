package estimation

import (
	"time"

	"seat-queue/internal/domain/queue"
)

const (
	DefaultMaxConcurrent   = 3
	DefaultSessionDuration = 10 * time.Minute
)

type Settings struct {
	MaxConcurrent   int
	SessionDuration time.Duration
	// Location decides which calendar day counts as "today"
	Location *time.Location
}

func DefaultSettings() Settings {
	return Settings{
		MaxConcurrent:   DefaultMaxConcurrent,
		SessionDuration: DefaultSessionDuration,
		Location:        time.Local,
	}
}

// Engine derives every read value from entry states and timestamps. It holds no state
// of its own, so one instance can serve any number of concurrent readers.
type Engine struct {
	settings Settings
}

func NewEngine(settings Settings) *Engine {
	if settings.MaxConcurrent <= 0 {
		settings.MaxConcurrent = DefaultMaxConcurrent
	}
	if settings.SessionDuration <= 0 {
		settings.SessionDuration = DefaultSessionDuration
	}
	if settings.Location == nil {
		settings.Location = time.Local
	}
	return &Engine{settings: settings}
}

func (e *Engine) Settings() Settings {
	return e.settings
}

// Snapshot evaluates a point-in-time list of entries at now.
func (e *Engine) Snapshot(entries []*queue.Entry, now time.Time) *Snapshot {
	return newSnapshot(e.settings, entries, now)
}

// NextEligible returns the prefix of waiting that should be called next.
// waiting must already be in FIFO order.
func NextEligible(waiting []*queue.Entry, availableSeats int) []*queue.Entry {
	n := min(max(availableSeats, 0), len(waiting))
	out := make([]*queue.Entry, n)
	copy(out, waiting[:n])
	return out
}

// ceilMinutes rounds a positive duration up to whole minutes; non-positive durations are 0.
func ceilMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Minute - 1) / time.Minute)
}

// roundAwayMinutes rounds to whole minutes away from zero, so a seat that is 30s over
// reads -1 rather than 0.
func roundAwayMinutes(d time.Duration) int {
	if d < 0 {
		return -ceilMinutes(-d)
	}
	return ceilMinutes(d)
}
