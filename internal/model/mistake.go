package model

import "time"

// Mistake mirrors the `mistakes` table: a thing that went wrong, why it
// happened and what to do about it next time.
type Mistake struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"userId"`
	Mistake   string    `json:"mistake"`
	Reason    string    `json:"reason"`
	Solution  string    `json:"solution"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
