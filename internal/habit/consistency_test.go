package habit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDurationDays(t *testing.T) {
	tests := []struct {
		d    Duration
		want int
	}{
		{Duration15Day, 15},
		{Duration1Month, 30},
		{Duration3Month, 90},
		{Duration6Month, 180},
		{Duration1Year, 365},
		{Duration("2week"), 0},
		{Duration(""), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.d.Days(), "duration %q", tt.d)
	}
	assert.True(t, Duration1Month.Valid())
	assert.False(t, Duration("forever").Valid())
}

func TestResolveWindowMidWindow(t *testing.T) {
	start := day(2024, time.March, 1)
	w := ResolveWindow(start, Duration15Day, day(2024, time.March, 5))

	assert.Equal(t, start, w.Start)
	assert.Equal(t, day(2024, time.March, 16), w.End)
	assert.Equal(t, day(2024, time.March, 5), w.EffectiveEnd)
	assert.Equal(t, 5, w.DaysElapsed)
}

func TestResolveWindowExclusiveEnd(t *testing.T) {
	// A 15-day habit queried on day start+15 has already closed: the
	// effective end stays on the last in-window day and exactly 15 days
	// have elapsed, matching the declared duration.
	start := day(2024, time.January, 1)
	w := ResolveWindow(start, Duration15Day, day(2024, time.January, 16))

	assert.Equal(t, day(2024, time.January, 15), w.EffectiveEnd)
	assert.Equal(t, 15, w.DaysElapsed)

	// Long past the end the numbers do not keep growing.
	w = ResolveWindow(start, Duration15Day, day(2025, time.June, 1))
	assert.Equal(t, 15, w.DaysElapsed)
}

func TestResolveWindowNotStarted(t *testing.T) {
	start := day(2024, time.May, 10)
	w := ResolveWindow(start, Duration1Month, day(2024, time.May, 1))
	assert.Equal(t, 0, w.DaysElapsed)
}

func TestResolveWindowUnknownDuration(t *testing.T) {
	start := day(2024, time.May, 10)
	w := ResolveWindow(start, Duration("bogus"), day(2024, time.June, 1))
	assert.Equal(t, 0, w.DaysElapsed, "unknown category must yield a zero-length window")
	assert.Equal(t, w.Start, w.End)
}

func TestResolveWindowTruncatesTimeOfDay(t *testing.T) {
	start := time.Date(2024, time.March, 1, 18, 30, 12, 0, time.UTC)
	w := ResolveWindow(start, Duration1Month, time.Date(2024, time.March, 3, 6, 0, 0, 0, time.UTC))
	assert.Equal(t, day(2024, time.March, 1), w.Start)
	assert.Equal(t, 3, w.DaysElapsed)
}

func TestComputeConsistency(t *testing.T) {
	start := day(2024, time.April, 1)
	entries := []Entry{
		{Date: day(2024, time.April, 1), Done: true},
		{Date: day(2024, time.April, 2), Done: false},
		{Date: day(2024, time.April, 3), Done: true},
	}

	got := ComputeConsistency(start, Duration15Day, entries, day(2024, time.April, 3))
	require.Equal(t, 3, got.DaysElapsed)
	assert.Equal(t, 2, got.DaysCompleted)
	assert.InDelta(t, 66.67, got.Percent, 0.0001)
}

func TestComputeConsistencyZeroElapsed(t *testing.T) {
	start := day(2024, time.April, 10)
	got := ComputeConsistency(start, Duration1Month, nil, day(2024, time.April, 1))
	assert.Equal(t, Consistency{}, got, "no elapsed days must score 0 without dividing")
}

func TestComputeConsistencyIgnoresOutOfWindowEntries(t *testing.T) {
	start := day(2024, time.April, 10)
	entries := []Entry{
		{Date: day(2024, time.April, 9), Done: true},  // before start
		{Date: day(2024, time.April, 10), Done: true}, // in window
		{Date: day(2024, time.April, 20), Done: true}, // after asOf
	}
	got := ComputeConsistency(start, Duration1Month, entries, day(2024, time.April, 11))
	assert.Equal(t, 2, got.DaysElapsed)
	assert.Equal(t, 1, got.DaysCompleted)
	assert.Equal(t, 50.0, got.Percent)
}

func TestComputeConsistencyFullWindow(t *testing.T) {
	start := day(2024, time.January, 1)
	entries := make([]Entry, 0, 15)
	for i := 0; i < 15; i++ {
		entries = append(entries, Entry{Date: start.AddDate(0, 0, i), Done: true})
	}
	got := ComputeConsistency(start, Duration15Day, entries, day(2024, time.February, 1))
	assert.Equal(t, 15, got.DaysElapsed)
	assert.Equal(t, 15, got.DaysCompleted)
	assert.Equal(t, 100.0, got.Percent)
}

func TestWithinValidity(t *testing.T) {
	start := day(2024, time.June, 1)

	assert.False(t, WithinValidity(start, Duration15Day, day(2024, time.May, 31)), "before start")
	assert.True(t, WithinValidity(start, Duration15Day, day(2024, time.June, 1)), "first day")
	assert.True(t, WithinValidity(start, Duration15Day, day(2024, time.June, 15)), "last day")
	assert.False(t, WithinValidity(start, Duration15Day, day(2024, time.June, 16)), "expired")
	assert.False(t, WithinValidity(start, Duration("bogus"), start), "unknown duration never valid")
}
