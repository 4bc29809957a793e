package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tripmaster/trip-scout/internal/domain"
	"github.com/tripmaster/trip-scout/internal/ratelimit"
	"github.com/tripmaster/trip-scout/internal/service"
	"github.com/tripmaster/trip-scout/internal/util"
)

const (
	contextUserKey = "auth.user"
	sessionCookie  = "tm_token"
)

// Rate limit rule names shared between wiring and middleware.
const (
	RuleLogin    = "login"
	RuleGenerate = "generate"
	RuleReplace  = "replace"
)

// RequireAuth resolves the session cookie to a staff account and slides the
// session expiry forward on every authenticated request.
func RequireAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(sessionCookie)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
			}
			user, err := auth.Authenticate(c.Request().Context(), cookie.Value)
			if err != nil {
				clearSessionCookie(c)
				return c.JSON(http.StatusUnauthorized, util.Error(err.Error()))
			}
			c.Set(contextUserKey, user)

			if token, expiresAt, err := auth.Refresh(user); err == nil {
				setSessionCookie(c, token, expiresAt)
			}
			return next(c)
		}
	}
}

// RequireAdmin guards the staff management endpoints.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok || user == nil {
				return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
			}
			if user.Role != domain.RoleAdmin {
				return c.JSON(http.StatusForbidden, util.Error("admin privileges required"))
			}
			return next(c)
		}
	}
}

// RequireAJAXHeader rejects mutating cross-site form posts: browsers cannot
// attach X-Requested-With without a CORS preflight, so its presence proves
// the request came from the frontend's own script.
func RequireAJAXHeader() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodPost, http.MethodPut, http.MethodDelete:
				if c.Request().Header.Get(echo.HeaderXRequestedWith) != "XMLHttpRequest" {
					return c.JSON(http.StatusForbidden, util.Error("missing X-Requested-With header"))
				}
			}
			return next(c)
		}
	}
}

// RateLimit applies one named limiter rule, counting every allowed request
// as an attempt. Used for the AI endpoints, where the call itself is the
// cost being limited.
func RateLimit(limiter *ratelimit.Limiter, rule string, identity func(echo.Context) string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			who := identity(c)
			ctx := c.Request().Context()
			if allowed, retryAfter := limiter.Check(ctx, rule, who); !allowed {
				return rateLimited(c, retryAfter)
			}
			limiter.Record(ctx, rule, who)
			return next(c)
		}
	}
}

// RateLimitCheck only enforces the rule; the handler decides which outcomes
// count as attempts. The login flow records failures, not successes.
func RateLimitCheck(limiter *ratelimit.Limiter, rule string, identity func(echo.Context) string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if allowed, retryAfter := limiter.Check(c.Request().Context(), rule, identity(c)); !allowed {
				return rateLimited(c, retryAfter)
			}
			return next(c)
		}
	}
}

func rateLimited(c echo.Context, retryAfter time.Duration) error {
	return c.JSON(http.StatusTooManyRequests, util.Envelope{
		"error":       "rate limit exceeded, try again later",
		"retry_after": int(retryAfter.Seconds()),
	})
}

// ClientIP keys a limit by caller address, for endpoints hit before login.
func ClientIP(c echo.Context) string {
	return c.RealIP()
}

// UserIdentity keys a limit by the authenticated staff account.
func UserIdentity(c echo.Context) string {
	if user, ok := CurrentUser(c); ok && user != nil {
		return user.ID.String()
	}
	return c.RealIP()
}

func CurrentUser(c echo.Context) (*domain.StaffUser, bool) {
	user, ok := c.Get(contextUserKey).(*domain.StaffUser)
	return user, ok
}

func setSessionCookie(c echo.Context, token string, expiresAt time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
