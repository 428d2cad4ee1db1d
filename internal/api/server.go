package api

import (
	"net/http"

	"bluecarbon/internal/logger"
	"bluecarbon/internal/middleware"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// NewServer wires handlers behind recover, CORS, request logging and the
// session middleware. Only the login route is reachable without a token.
func NewServer(h *Handlers, allowedOrigin string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{allowedOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: allowedOrigin != "*",
	}))
	e.Use(logger.EchoLogger(h.Logger))
	e.Use(middleware.JWTAuthMiddleware(h.AuthService, h.Logger, LoginPath))

	RegisterHandlers(e, h)
	return e
}
