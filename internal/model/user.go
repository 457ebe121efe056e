package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Gridbook has no passwords: sign-in works by emailing a one-time
// code, so the table carries the bcrypt hash of the most recent OTP and
// its expiry instead of a credential.
//
// Fields:
//  ID         – primary key identifier of the user.
//  Email      – unique, lowercased email address.
//  OTPHash    – bcrypt hash of the pending OTP (nil when none pending).
//  OTPExpires – expiry of the pending OTP (nil when none pending).
//  IsVerified – set after the first successful OTP verification.
//  LastLogin  – timestamp of the most recent sign-in.
type User struct {
	ID         uint64     `json:"id"`
	Email      string     `json:"email"`
	OTPHash    *string    `json:"-"`
	OTPExpires *time.Time `json:"-"`
	IsVerified bool       `json:"isVerified"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}
