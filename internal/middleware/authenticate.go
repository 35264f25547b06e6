package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	authpkg "github.com/provisionexpertax/taxportal/internal/auth"
	"github.com/provisionexpertax/taxportal/internal/session"
)

// Authenticate resolves the caller from the session cookie, falling back to
// a bearer token. Anonymous requests pass through; use RequireAuth or
// RequireRole to reject them.
func Authenticate(sessions *session.Manager, tokens *authpkg.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if sessions != nil {
				if cookie, err := c.Cookie(sessions.CookieName()); err == nil && cookie.Value != "" {
					sess, err := sessions.Load(c.Request().Context(), cookie.Value)
					switch {
					case err == nil:
						setIdentity(c, Identity{
							UserID:    sess.Data.UserID,
							Username:  sess.Data.Username,
							Email:     sess.Data.Email,
							Role:      sess.Data.Role,
							SessionID: sess.ID,
						})
						return next(c)
					case errors.Is(err, session.ErrNotFound):
						c.SetCookie(sessions.ClearCookie())
					default:
						zerolog.Ctx(c.Request().Context()).Warn().Err(err).Msg("session lookup failed")
					}
				}
			}

			if tokens != nil {
				if token, ok := bearerToken(c.Request().Header.Get("Authorization")); ok {
					if claims, err := tokens.ParseToken(token); err == nil {
						setIdentity(c, Identity{
							UserID:   claims.Subject,
							Username: claims.Username,
							Email:    claims.Email,
							Role:     claims.Role,
						})
					}
				}
			}

			return next(c)
		}
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := IdentityFromContext(c); !ok {
				return reject(c, http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
