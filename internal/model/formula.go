package model

import "time"

// Formula mirrors the `formulas` table.  Variables maps each single
// letter symbol used in the expression to a human readable display name;
// it is stored as a JSON column.  Result caches the value of the last
// execution but is never trusted: every execution recomputes from the
// caller's bindings.
type Formula struct {
	ID         uint64            `json:"id"`
	UserID     uint64            `json:"userId"`
	Name       string            `json:"name"`
	Expression string            `json:"formula"`
	Variables  map[string]string `json:"variables"`
	Result     *float64          `json:"result"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}
