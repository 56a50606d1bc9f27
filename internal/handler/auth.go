package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/workcal/workcal/internal/auth"
	"github.com/workcal/workcal/internal/model"
	"github.com/workcal/workcal/internal/repository"
	"github.com/workcal/workcal/internal/response"
)

const ownerKey = "owner_id"

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler handles /api/register, /api/login, /api/logout and /api/me.
type AuthHandler struct {
	Auth   *auth.Service
	Cookie CookieConfig
}

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Register creates an account and logs it in (POST /api/register).
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid JSON body", err.Error())
	}
	req.Email = auth.NormalizeEmail(req.Email)
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "Email and a password (8+ chars) are required.", err.Error())
	}

	user, sess, err := h.Auth.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return response.Conflict(c, "Account already exists for this email.", err.Error())
		}
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("register failed")
		return response.InternalError(c, "Failed to create account.", err.Error())
	}
	h.setSessionCookie(c, sess)
	return response.Created(c, map[string]any{"user": userResponse{ID: user.ID, Email: user.Email}}, "")
}

// Login opens a session for valid credentials (POST /api/login).
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid JSON body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "Email and password are required.", err.Error())
	}

	user, sess, err := h.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return response.Unauthorized(c, "Invalid credentials.")
		}
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("login failed")
		return response.InternalError(c, "Failed to log in.", err.Error())
	}
	h.setSessionCookie(c, sess)
	return response.OK(c, map[string]any{"user": userResponse{ID: user.ID, Email: user.Email}}, "")
}

// Logout ends the current session and clears the cookie (POST /api/logout).
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(h.Cookie.Name); err == nil {
		if err := h.Auth.Logout(c.Request().Context(), cookie.Value); err != nil {
			zerolog.Ctx(c.Request().Context()).Warn().Err(err).Msg("delete session failed")
		}
	}
	c.SetCookie(&http.Cookie{
		Name:     h.Cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return response.OK(c, map[string]bool{"ok": true}, "")
}

// Me returns the logged-in account (GET /api/me).
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.Auth.User(c.Request().Context(), OwnerID(c))
	if err != nil {
		return response.InternalError(c, "Failed to load account.", err.Error())
	}
	if user == nil {
		return response.Unauthorized(c, "Invalid token")
	}
	created := user.CreatedAt
	return response.OK(c, map[string]any{"user": userResponse{ID: user.ID, Email: user.Email, CreatedAt: &created}}, "")
}

func (h *AuthHandler) setSessionCookie(c echo.Context, sess *model.Session) {
	c.SetCookie(&http.Cookie{
		Name:     h.Cookie.Name,
		Value:    sess.Token.String(),
		Path:     "/",
		MaxAge:   int(h.Auth.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireSession rejects requests without a valid session cookie and stores
// the owner id for OwnerID.
func (h *AuthHandler) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		var token string
		if cookie, err := c.Cookie(h.Cookie.Name); err == nil {
			token = cookie.Value
		}
		owner, err := h.Auth.Authenticate(c.Request().Context(), token)
		switch {
		case errors.Is(err, auth.ErrNotAuthenticated):
			return response.Unauthorized(c, "Not authenticated")
		case errors.Is(err, auth.ErrInvalidToken):
			return response.Unauthorized(c, "Invalid token")
		case err != nil:
			return response.InternalError(c, "Failed to check session.", err.Error())
		}
		c.Set(ownerKey, owner)
		return next(c)
	}
}

// OwnerID returns the user id set by RequireSession.
func OwnerID(c echo.Context) uuid.UUID {
	id, _ := c.Get(ownerKey).(uuid.UUID)
	return id
}
