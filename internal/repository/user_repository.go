package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/gridbook/gridbook/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id,email,otp_hash,otp_expires,is_verified,last_login,created_at,updated_at"

// UpsertOTP stores a fresh OTP hash and expiry for the given email,
// creating the user on first contact.  It returns the user id.
func (r *UserRepo) UpsertOTP(ctx context.Context, email, otpHash string, expires time.Time) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (email, otp_hash, otp_expires) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE otp_hash=VALUES(otp_hash), otp_expires=VALUES(otp_expires)`,
		email, otpHash, expires)
	if err != nil {
		return 0, err
	}
	// LastInsertId is 0 for the update path, so read the id back.
	var id uint64
	err = r.DB.QueryRowContext(ctx, "SELECT id FROM users WHERE email=? LIMIT 1", email).Scan(&id)
	return id, err
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// MarkVerified clears the pending OTP, flags the account verified and
// records the login time.
func (r *UserRepo) MarkVerified(ctx context.Context, id uint64, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET otp_hash=NULL, otp_expires=NULL, is_verified=1, last_login=? WHERE id=?",
		at, id)
	return err
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.OTPHash, &u.OTPExpires, &u.IsVerified,
		&u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}
