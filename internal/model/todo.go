package model

import "time"

// Todo priorities.
var TodoPriorities = map[string]bool{
	"low":    true,
	"medium": true,
	"high":   true,
}

// Todo mirrors the `todos` table.
type Todo struct {
	ID          uint64     `json:"id"`
	UserID      uint64     `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Date        time.Time  `json:"date"`
	Completed   bool       `json:"completed"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
