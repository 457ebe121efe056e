// Package habit implements the habit tracking window and consistency
// calculations.  All functions operate on plain values and never touch
// the database; handlers load the tracking entries and pass them in.
package habit

// Duration is the declared length of a habit's tracking window.  Only the
// five enumerated values are recognised; anything else maps to zero days
// so the habit has an empty validity window instead of failing.
type Duration string

const (
	Duration15Day  Duration = "15day"
	Duration1Month Duration = "1month"
	Duration3Month Duration = "3month"
	Duration6Month Duration = "6month"
	Duration1Year  Duration = "1year"
)

// durationDays maps each duration category to its day count.
var durationDays = map[Duration]int{
	Duration15Day:  15,
	Duration1Month: 30,
	Duration3Month: 90,
	Duration6Month: 180,
	Duration1Year:  365,
}

// Days returns the number of days the duration spans, or 0 for an
// unrecognised category.
func (d Duration) Days() int {
	return durationDays[d]
}

// Valid reports whether d is one of the five enumerated categories.
func (d Duration) Valid() bool {
	_, ok := durationDays[d]
	return ok
}
