package handler

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gridbook/gridbook/internal/config"
	"github.com/gridbook/gridbook/internal/mailer"
	"github.com/gridbook/gridbook/internal/queue"
	"github.com/gridbook/gridbook/internal/repository"
	audit "github.com/gridbook/gridbook/internal/service"
	"github.com/gridbook/gridbook/internal/utils"
)

// AuthHandler bundles dependencies for the OTP sign-in endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
	Mail  *mailer.Mailer
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, m *mailer.Mailer) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Mail: m}
}

var emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// ----- DTOs -----

type sendOTPReq struct {
	Email string `json:"email"`
}
type verifyOTPReq struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}
type sessionPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID         uint64 `json:"id"`
	Email      string `json:"email"`
	IsVerified bool   `json:"isVerified"`
}

// SendOTP: generate a fresh code, store only its hash, and email it.
// Requesting a code for a new address creates the account on the spot.
func (h *AuthHandler) SendOTP(c echo.Context) error {
	var req sendOTPReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
	}
	if !emailRe.MatchString(email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email format"})
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generate otp failed"})
	}
	hash, err := utils.HashOTP(code, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash otp failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	expires := time.Now().UTC().Add(time.Duration(h.Cfg.OTPTTLMin) * time.Minute)
	if _, err := h.Users.UpsertOTP(ctx, email, hash, expires); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save otp failed"})
	}

	if _, err := h.Mail.SendOTP(email, code, h.Cfg.OTPTTLMin); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to send OTP email"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "OTP sent successfully",
		"email":   email,
	})
}

// VerifyOTP: compare the submitted code against the stored hash, clear
// it, and issue a session token.  Expired or wrong codes are rejected
// with the same status so callers cannot probe which one it was.
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req verifyOTPReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	code := strings.TrimSpace(req.OTP)
	if email == "" || code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and OTP are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found, request an OTP first"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u.OTPHash == nil || u.OTPExpires == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no pending OTP, request a new one"})
	}
	if time.Now().UTC().After(*u.OTPExpires) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "OTP has expired, request a new one"})
	}
	if !utils.VerifyOTP(*u.OTPHash, code) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid OTP"})
	}

	firstLogin := !u.IsVerified
	now := time.Now().UTC()
	if err := h.Users.MarkVerified(ctx, u.ID, now); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
	}

	sess, err := utils.NewSessionToken(h.Cfg.JWTSecret, u.ID, h.Cfg.SessionTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	// Audit trail is best effort; a missing broker never blocks a login.
	go func() {
		pctx, pcancel := context.WithTimeout(context.Background(), dbTimeout)
		defer pcancel()
		_ = audit.PublishLoginVerified(pctx, queue.LoginVerifiedEvent{
			UserID:     u.ID,
			Email:      u.Email,
			FirstLogin: firstLogin,
			RemoteIP:   c.RealIP(),
			VerifiedAt: now.Format(time.RFC3339),
		})
	}()

	return c.JSON(http.StatusOK, echo.Map{
		"message": "OTP verified successfully",
		"session": sessionPart{Token: sess.Token, Expires: sess.Exp},
		"user":    userPart{ID: u.ID, Email: u.Email, IsVerified: true},
	})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"user": u})
}
