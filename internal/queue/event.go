// Package queue defines message payloads exchanged over the message broker.
package queue

// LoginVerifiedEvent is published when a user completes OTP verification.
// It carries enough information for downstream consumers to build an
// audit trail without querying the primary database.
type LoginVerifiedEvent struct {
	UserID     uint64 `json:"user_id"`
	Email      string `json:"email"`
	FirstLogin bool   `json:"first_login"`
	RemoteIP   string `json:"remote_ip"`
	VerifiedAt string `json:"verified_at"`
}
