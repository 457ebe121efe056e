package habit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanDailyEntries(t *testing.T) {
	today := day(2024, time.July, 10)
	habits := []Ref{
		{ID: 1, Name: "read", StartDate: day(2024, time.July, 1), Duration: Duration1Month},
		{ID: 2, Name: "run", StartDate: day(2024, time.January, 1), Duration: Duration15Day}, // long expired
		{ID: 3, Name: "meditate", StartDate: day(2024, time.July, 9), Duration: Duration15Day},
	}

	create, skipped := PlanDailyEntries(habits, map[uint64]bool{3: true}, today)

	require.Len(t, create, 1)
	assert.Equal(t, uint64(1), create[0].ID)

	require.Len(t, skipped, 2)
	assert.Equal(t, ReasonExpired, skipped[0].Reason)
	assert.Equal(t, uint64(2), skipped[0].HabitID)
	assert.Equal(t, ReasonExists, skipped[1].Reason)
	assert.Equal(t, uint64(3), skipped[1].HabitID)
}

func TestPlanDailyEntriesIdempotent(t *testing.T) {
	today := day(2024, time.July, 10)
	habits := []Ref{
		{ID: 1, Name: "read", StartDate: day(2024, time.July, 1), Duration: Duration1Month},
		{ID: 2, Name: "run", StartDate: day(2024, time.July, 5), Duration: Duration15Day},
	}

	// First run creates everything.
	create, skipped := PlanDailyEntries(habits, map[uint64]bool{}, today)
	require.Len(t, create, 2)
	assert.Empty(t, skipped)

	// Simulate those creates landing, then plan again: nothing to create,
	// every habit reported as already covered.
	existing := map[uint64]bool{}
	for _, h := range create {
		existing[h.ID] = true
	}
	create, skipped = PlanDailyEntries(habits, existing, today)
	assert.Empty(t, create)
	require.Len(t, skipped, 2)
	for _, s := range skipped {
		assert.Equal(t, ReasonExists, s.Reason)
	}
}

func TestPlanDailyEntriesBeforeStart(t *testing.T) {
	habits := []Ref{
		{ID: 1, Name: "early", StartDate: day(2024, time.August, 1), Duration: Duration1Year},
	}
	create, skipped := PlanDailyEntries(habits, nil, day(2024, time.July, 20))
	assert.Empty(t, create)
	require.Len(t, skipped, 1)
	assert.Equal(t, ReasonExpired, skipped[0].Reason)
}

func TestLastNDaysNoEntries(t *testing.T) {
	today := day(2024, time.July, 10)
	got := LastNDays(nil, today, 5)

	require.Len(t, got, 5)
	assert.Equal(t, day(2024, time.July, 6), got[0].Date, "oldest first")
	assert.Equal(t, today, got[4].Date)
	for _, s := range got {
		assert.False(t, s.HasEntry)
		assert.False(t, s.IsDone)
		assert.False(t, s.IsFuture, "days ending at today are never future")
	}
}

func TestLastNDaysMixed(t *testing.T) {
	today := day(2024, time.July, 10)
	entries := []Entry{
		{Date: day(2024, time.July, 10), Done: true},
		{Date: day(2024, time.July, 8), Done: false},
	}
	got := LastNDays(entries, today, 5)

	require.Len(t, got, 5)
	assert.False(t, got[1].HasEntry) // July 7
	assert.True(t, got[2].HasEntry)  // July 8
	assert.False(t, got[2].IsDone)
	assert.True(t, got[4].HasEntry) // today
	assert.True(t, got[4].IsDone)
}

func TestLastNDaysTruncatesEntryTimes(t *testing.T) {
	today := day(2024, time.July, 10)
	entries := []Entry{
		{Date: time.Date(2024, time.July, 9, 22, 15, 0, 0, time.UTC), Done: true},
	}
	got := LastNDays(entries, today, 5)
	assert.True(t, got[3].HasEntry)
	assert.True(t, got[3].IsDone)
}
