package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tripmaster/trip-scout/internal/ratelimit"
	"github.com/tripmaster/trip-scout/internal/service"
	"github.com/tripmaster/trip-scout/internal/util"
)

type AuthHandler struct {
	auth    *service.AuthService
	limiter *ratelimit.Limiter
}

func RegisterAuth(e *echo.Echo, auth *service.AuthService, limiter *ratelimit.Limiter) {
	handler := &AuthHandler{auth: auth, limiter: limiter}

	// Only failed attempts count toward the login window, so a busy but
	// well-behaved office never locks itself out.
	group := e.Group("/api/v1/auth")
	group.POST("/login", handler.login, RateLimitCheck(limiter, RuleLogin, ClientIP))
	group.POST("/google", handler.loginWithGoogle, RateLimitCheck(limiter, RuleLogin, ClientIP))
	group.POST("/logout", handler.logout)
	group.GET("/me", handler.me, RequireAuth(auth))
}

func (h *AuthHandler) login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, util.Error("email and password are required"))
	}

	user, token, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrAccountDisabled):
			h.limiter.Record(c.Request().Context(), RuleLogin, ClientIP(c))
			return c.JSON(http.StatusUnauthorized, util.Error(err.Error()))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("login failed"))
		}
	}

	setSessionCookie(c, token, time.Now().Add(h.auth.TokenTTL()))
	return c.JSON(http.StatusOK, util.Data("user", user))
}

func (h *AuthHandler) loginWithGoogle(c echo.Context) error {
	var req struct {
		IDToken string `json:"id_token"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if req.IDToken == "" {
		return c.JSON(http.StatusBadRequest, util.Error("id_token is required"))
	}

	user, token, err := h.auth.LoginWithGoogle(c.Request().Context(), req.IDToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGoogleNotConfigured):
			return c.JSON(http.StatusNotImplemented, util.Error(err.Error()))
		case errors.Is(err, service.ErrInvalidGoogleToken), errors.Is(err, service.ErrAccountDisabled):
			h.limiter.Record(c.Request().Context(), RuleLogin, ClientIP(c))
			return c.JSON(http.StatusUnauthorized, util.Error(err.Error()))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("login failed"))
		}
	}

	setSessionCookie(c, token, time.Now().Add(h.auth.TokenTTL()))
	return c.JSON(http.StatusOK, util.Data("user", user))
}

func (h *AuthHandler) logout(c echo.Context) error {
	clearSessionCookie(c)
	return c.JSON(http.StatusOK, util.Data("ok", true))
}

func (h *AuthHandler) me(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	return c.JSON(http.StatusOK, util.Data("user", user))
}
