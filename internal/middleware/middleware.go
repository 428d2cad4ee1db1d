package middleware

import (
	"net/http"
	"strings"

	"bluecarbon/internal/models"
	"bluecarbon/pkg"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const SessionKey = "session"

type SessionValidator interface {
	Validate(token string) (models.Session, error)
}

// инициализация миддлвары
func JWTAuthMiddleware(auth SessionValidator, log pkg.Logger, publicPaths ...string) echo.MiddlewareFunc {
	public := make(map[string]struct{}, len(publicPaths))
	for _, p := range publicPaths {
		public[p] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := public[c.Path()]; ok {
				return next(c)
			}
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"errors": "Authorization header missing"})
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			session, err := auth.Validate(tokenString)
			if err != nil {
				log.Warn("rejected session token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, map[string]string{"errors": "Invalid token"})
			}
			// добавление сессии в контекст
			c.Set(SessionKey, session)
			return next(c)
		}
	}
}
