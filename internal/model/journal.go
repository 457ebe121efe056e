package model

import "time"

// Journal moods.
var JournalMoods = map[string]bool{
	"happy":    true,
	"sad":      true,
	"anxious":  true,
	"excited":  true,
	"calm":     true,
	"angry":    true,
	"grateful": true,
	"neutral":  true,
}

// JournalEntry mirrors the `journal_entries` table.  Tags are stored as a
// JSON array column.
type JournalEntry struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"userId"`
	Date      time.Time `json:"date"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Mood      string    `json:"mood"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
