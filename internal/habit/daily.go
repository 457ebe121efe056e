package habit

import "time"

// Skip reasons reported by daily entry generation.
const (
	ReasonExpired = "Habit duration expired"
	ReasonExists  = "Entry already exists for today"
)

// Ref carries the habit fields the daily planner needs.
type Ref struct {
	ID        uint64
	Name      string
	StartDate time.Time
	Duration  Duration
}

// CreatedEntry identifies a tracking entry created by a generation run.
type CreatedEntry struct {
	HabitID   uint64 `json:"habitId"`
	HabitName string `json:"habitName"`
	EntryID   uint64 `json:"entryId"`
}

// SkippedEntry explains why no entry was created for a habit.
type SkippedEntry struct {
	HabitID   uint64 `json:"habitId"`
	HabitName string `json:"habitName"`
	Reason    string `json:"reason"`
}

// PlanDailyEntries partitions a user's habits into those that need a
// tracking entry for target and those to skip.  A habit is skipped when
// its duration has run out, or when existing already records an entry for
// that day.  Running the plan twice therefore creates nothing the second
// time; the unique key on (habit, day) in the store backstops the race
// where two callers plan the same gap concurrently.
func PlanDailyEntries(habits []Ref, existing map[uint64]bool, target time.Time) (create []Ref, skipped []SkippedEntry) {
	for _, h := range habits {
		switch {
		case !WithinValidity(h.StartDate, h.Duration, target):
			skipped = append(skipped, SkippedEntry{HabitID: h.ID, HabitName: h.Name, Reason: ReasonExpired})
		case existing[h.ID]:
			skipped = append(skipped, SkippedEntry{HabitID: h.ID, HabitName: h.Name, Reason: ReasonExists})
		default:
			create = append(create, h)
		}
	}
	return create, skipped
}

// DayStatus is one cell of the rolling last-N-days view.
type DayStatus struct {
	Date     time.Time `json:"date"`
	IsDone   bool      `json:"isDone"`
	HasEntry bool      `json:"hasEntry"`
	IsFuture bool      `json:"isFuture,omitempty"`
}

// LastNDays projects the n calendar days ending at today (inclusive) onto
// the given tracking entries, oldest first.  Days without an entry are
// flagged as missing, or as future when they lie past today.  This is a
// read-only view; it never creates entries.
func LastNDays(entries []Entry, today time.Time, n int) []DayStatus {
	td := Midnight(today)
	done := make(map[time.Time]bool, len(entries))
	for _, e := range entries {
		done[Midnight(e.Date)] = e.Done
	}

	out := make([]DayStatus, 0, n)
	for i := n - 1; i >= 0; i-- {
		day := td.AddDate(0, 0, -i)
		if v, ok := done[day]; ok {
			out = append(out, DayStatus{Date: day, IsDone: v, HasEntry: true})
			continue
		}
		out = append(out, DayStatus{Date: day, HasEntry: false, IsFuture: day.After(td)})
	}
	return out
}
