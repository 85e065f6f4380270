package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mightyathletic/academy/internal/auth"
	"github.com/mightyathletic/academy/internal/config"
	"github.com/mightyathletic/academy/internal/db"
	"github.com/mightyathletic/academy/internal/models"
	"github.com/mightyathletic/academy/internal/notify"
	"github.com/mightyathletic/academy/internal/services"
)

const sessionCookieName = "academy_session"

// resetTokenTTL bounds how long a password-reset link stays usable.
const resetTokenTTL = time.Hour

type ctxKey int

const emailKey ctxKey = 0

// SessionEmail returns the authenticated email stored by RequireAuth.
func SessionEmail(r *http.Request) string {
	email, _ := r.Context().Value(emailKey).(string)
	return email
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((24 * time.Hour).Seconds()),
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// RequireAuth is middleware: rejects requests without a valid session
// cookie and stores the session email on the context.
func RequireAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(sessionCookieName)
			if err != nil {
				fail(w, http.StatusUnauthorized, "not signed in")
				return
			}
			email, err := auth.ParseSessionToken(c.Value, secret)
			if err != nil {
				fail(w, http.StatusUnauthorized, "session expired, sign in again")
				return
			}
			ctx := context.WithValue(r.Context(), emailKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin is middleware layered after RequireAuth: only the
// configured admin address passes.
func RequireAdmin(adminEmail string) func(http.Handler) http.Handler {
	admin := strings.ToLower(adminEmail)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.ToLower(SessionEmail(r)) != admin {
				fail(w, http.StatusForbidden, "admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type credentialsInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// POST /api/auth/signup
//
// Accounts are only for parents who already have a child registered
// (plus the configured admin), so signup checks the registration
// table first.
func Signup(cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in credentialsInput
		if !decodeJSON(w, r, &in) {
			return
		}
		email, valid := services.NormEmail(in.Email)
		if !valid || email == "" {
			fail(w, http.StatusBadRequest, "invalid email address")
			return
		}

		if email != strings.ToLower(cfg.AdminEmail) {
			has, err := services.EmailHasRegistration(email)
			if err != nil {
				fail(w, http.StatusInternalServerError, "could not check registrations")
				return
			}
			if !has {
				fail(w, http.StatusForbidden, "no registration found for this email, register a player first")
				return
			}
		}

		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			fail(w, http.StatusInternalServerError, "could not create account")
			return
		}
		account := models.Account{Email: email, PasswordHash: hash}
		if err := db.Conn().Create(&account).Error; err != nil {
			// unique index on email
			fail(w, http.StatusConflict, "an account already exists for this email")
			return
		}

		token, err := auth.NewSessionToken(email, cfg.JWTSecret)
		if err != nil {
			fail(w, http.StatusInternalServerError, "could not start session")
			return
		}
		setSessionCookie(w, token)
		created(w, "account created", map[string]any{"email": email, "is_admin": email == strings.ToLower(cfg.AdminEmail)})
	}
}

// POST /api/auth/login
func Login(cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in credentialsInput
		if !decodeJSON(w, r, &in) {
			return
		}
		email, _ := services.NormEmail(in.Email)

		var account models.Account
		err := db.Conn().Where("email = ?", email).First(&account).Error
		if err != nil || !auth.CheckPassword(account.PasswordHash, in.Password) {
			fail(w, http.StatusUnauthorized, "invalid email or password")
			return
		}

		token, err := auth.NewSessionToken(email, cfg.JWTSecret)
		if err != nil {
			fail(w, http.StatusInternalServerError, "could not start session")
			return
		}
		setSessionCookie(w, token)
		ok(w, "signed in", map[string]any{"email": email, "is_admin": email == strings.ToLower(cfg.AdminEmail)})
	}
}

// POST /api/auth/logout
func Logout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	ok(w, "signed out", nil)
}

// GET /api/auth/me
func Me(cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := SessionEmail(r)
		ok(w, "session", map[string]any{
			"email":    email,
			"is_admin": strings.EqualFold(email, cfg.AdminEmail),
		})
	}
}

type resetRequestInput struct {
	Email string `json:"email" validate:"required,email"`
}

// POST /api/auth/reset-request
//
// Always answers 200 so the endpoint cannot be used to probe which
// emails have accounts.
func ResetRequest(cfg config.Config, sender notify.EmailSender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in resetRequestInput
		if !decodeJSON(w, r, &in) {
			return
		}
		email, _ := services.NormEmail(in.Email)

		var account models.Account
		if err := db.Conn().Where("email = ?", email).First(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ok(w, "if an account exists, a reset email has been sent", nil)
				return
			}
			fail(w, http.StatusInternalServerError, "could not process request")
			return
		}

		now := time.Now()
		account.ResetToken = uuid.NewString()
		account.ResetSentAt = &now
		if err := db.Conn().Save(&account).Error; err != nil {
			fail(w, http.StatusInternalServerError, "could not process request")
			return
		}

		link := cfg.BaseURL + "/reset-password?token=" + account.ResetToken
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			html := fmt.Sprintf("<p>Someone requested a password reset for your Mighty Athletic account.</p><p><a href=%q>Reset your password</a> (link valid for one hour).</p><p>If this wasn't you, ignore this email.</p>", link)
			if err := sender.Send(ctx, []string{account.Email}, "Reset your password", html); err != nil {
				log.Printf("reset email to %s: %v", account.Email, err)
			}
		}()

		ok(w, "if an account exists, a reset email has been sent", nil)
	}
}

type resetConfirmInput struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// POST /api/auth/reset
func ResetConfirm(cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in resetConfirmInput
		if !decodeJSON(w, r, &in) {
			return
		}

		var account models.Account
		err := db.Conn().Where("reset_token = ?", in.Token).First(&account).Error
		if err != nil || account.ResetToken == "" {
			fail(w, http.StatusBadRequest, "invalid or expired reset link")
			return
		}
		if account.ResetSentAt == nil || time.Since(*account.ResetSentAt) > resetTokenTTL {
			fail(w, http.StatusBadRequest, "invalid or expired reset link")
			return
		}

		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			fail(w, http.StatusInternalServerError, "could not reset password")
			return
		}
		updates := map[string]any{
			"password_hash": hash,
			"reset_token":   "",
			"reset_sent_at": nil,
		}
		if err := db.Conn().Model(&account).Updates(updates).Error; err != nil {
			fail(w, http.StatusInternalServerError, "could not reset password")
			return
		}
		ok(w, "password updated, sign in with your new password", nil)
	}
}
