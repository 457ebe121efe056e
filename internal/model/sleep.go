package model

import "time"

// Sleep quality categories.
var SleepQualities = map[string]bool{
	"excellent": true,
	"good":      true,
	"fair":      true,
	"poor":      true,
}

// SleepEntry mirrors the `sleep_entries` table.  One entry per user per
// calendar day (unique key).  SleepTime and WakeTime are HH:MM strings in
// 24-hour format; Duration is hours as a decimal (7.5 = 7h30m).
type SleepEntry struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"userId"`
	Date      time.Time `json:"date"`
	SleepTime string    `json:"sleepTime"`
	WakeTime  string    `json:"wakeTime"`
	Duration  float64   `json:"duration"`
	Quality   string    `json:"quality"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SleepWeeklyStats summarises the last seven days of sleep.  Status is
// "green" when the average reaches eight hours, otherwise "red".
type SleepWeeklyStats struct {
	Average    float64 `json:"average"`
	TotalHours float64 `json:"totalHours"`
	Days       int     `json:"days"`
	Status     string  `json:"status"`
}
