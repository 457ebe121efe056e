package model

import (
	"time"

	"github.com/gridbook/gridbook/internal/habit"
)

// Habit mirrors the `habits` table.  The duration column is one of the
// five enumerated categories; StartDate is fixed at creation and is the
// anchor of every tracking-window calculation.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owning user.
//  Name      – short habit name.
//  Reason    – free-text motivation.
//  Duration  – duration category (15day/1month/3month/6month/1year).
//  Reward    – what the user promised themselves.
//  StartDate – first day of the tracking window (day granularity).
type Habit struct {
	ID        uint64         `json:"id"`
	UserID    uint64         `json:"userId"`
	Name      string         `json:"name"`
	Reason    string         `json:"reason"`
	Duration  habit.Duration `json:"duration"`
	Reward    string         `json:"reward"`
	StartDate time.Time      `json:"startDate"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// TrackingEntry mirrors the `habit_tracking` table.  At most one entry
// exists per (habit, day); the table enforces that with a unique key.
//
// Fields:
//  ID      – primary key identifier.
//  UserID  – owning user (denormalized for per-user queries).
//  HabitID – habit the entry belongs to.
//  Date    – calendar day, truncated to midnight.
//  IsDone  – whether the habit was completed that day.
type TrackingEntry struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"userId"`
	HabitID   uint64    `json:"habitId"`
	Date      time.Time `json:"date"`
	IsDone    bool      `json:"isDone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
