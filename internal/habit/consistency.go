package habit

import (
	"time"

	"github.com/gridbook/gridbook/internal/utils"
)

// Entry is a single daily tracking record as seen by the calculations in
// this package.  Date is expected at day granularity; Midnight is applied
// defensively anyway.
type Entry struct {
	Date time.Time
	Done bool
}

// Window describes the resolved tracking window of a habit.
// Start is the habit's start date at midnight.  End is the exclusive
// planning bound (Start + duration days).  EffectiveEnd is the last day
// that actually counts: the earlier of "as of" and the final day of the
// window.  DaysElapsed is the inclusive day count from Start through
// EffectiveEnd, clamped to zero when the window has not begun or the
// duration category is unknown.
type Window struct {
	Start        time.Time
	End          time.Time
	EffectiveEnd time.Time
	DaysElapsed  int
}

// Consistency is the scoring result for a habit over its window.
type Consistency struct {
	Percent       float64 `json:"consistency"`
	DaysCompleted int     `json:"daysCompleted"`
	DaysElapsed   int     `json:"daysElapsed"`
}

// Midnight truncates t to 00:00:00 UTC on the same calendar day.
func Midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ResolveWindow computes the tracking window for a habit started at start
// with the given duration, as observed at asOf.  The End bound is
// exclusive: a 15-day habit starting on day D covers D through D+14, so a
// query on day D+15 yields exactly 15 elapsed days, never 16.
func ResolveWindow(start time.Time, d Duration, asOf time.Time) Window {
	ws := Midnight(start)
	we := ws.AddDate(0, 0, d.Days())

	eff := Midnight(asOf)
	if !eff.Before(we) {
		eff = we.AddDate(0, 0, -1)
	}

	elapsed := wholeDays(ws, eff) + 1
	if elapsed < 0 {
		elapsed = 0
	}
	return Window{Start: ws, End: we, EffectiveEnd: eff, DaysElapsed: elapsed}
}

// ComputeConsistency scores a habit against its tracking entries.
// Entries outside [Start, EffectiveEnd] are ignored.  When no days have
// elapsed the result is 0/0/0 so there is never a division by zero.  The
// percentage is rounded to two decimals, half away from zero.  No upper
// clamp is applied: completed days cannot exceed elapsed days as long as
// the one-entry-per-day constraint holds.
func ComputeConsistency(start time.Time, d Duration, entries []Entry, asOf time.Time) Consistency {
	w := ResolveWindow(start, d, asOf)
	if w.DaysElapsed <= 0 {
		return Consistency{}
	}

	completed := 0
	for _, e := range entries {
		day := Midnight(e.Date)
		if day.Before(w.Start) || day.After(w.EffectiveEnd) {
			continue
		}
		if e.Done {
			completed++
		}
	}

	pct := float64(completed) / float64(w.DaysElapsed) * 100
	return Consistency{
		Percent:       utils.Round2(pct),
		DaysCompleted: completed,
		DaysElapsed:   w.DaysElapsed,
	}
}

// WithinValidity reports whether candidate falls inside the habit's
// validity window: at or after the start date and strictly before the
// duration runs out.
func WithinValidity(start time.Time, d Duration, candidate time.Time) bool {
	diff := wholeDays(Midnight(start), Midnight(candidate))
	return diff >= 0 && diff < d.Days()
}

// wholeDays returns the number of whole days from a to b.  Both arguments
// must already be midnight-truncated; the result is negative when b is
// before a.
func wholeDays(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}
