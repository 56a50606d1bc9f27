package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/workcal/workcal/internal/auth"
	"github.com/workcal/workcal/internal/config"
	"github.com/workcal/workcal/internal/handler"
	"github.com/workcal/workcal/internal/response"
	"github.com/workcal/workcal/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// Stores bundles the persistence the HTTP layer talks to.
type Stores struct {
	Users    auth.UserStore
	Sessions auth.SessionStore
	Logs     handler.LogStore
}

// Server holds the Echo app and dependencies.
type Server struct {
	Echo   *echo.Echo
	Config *config.Config
	log    zerolog.Logger
}

// New builds the Echo server and registers routes. archive and nrApp may be nil.
func New(cfg *config.Config, log zerolog.Logger, stores Stores, archive *storage.Archive, nrApp *newrelic.Application) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	e.Use(middleware.Recover(), middleware.RequestID())
	if nrApp != nil {
		e.Use(newRelicTransaction(nrApp))
	}
	e.Use(contextLogger(log), requestLogger(log), middleware.BodyLimit("1M"))
	if len(cfg.Server.CORSAllowedOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Server.CORSAllowedOrigins,
			AllowCredentials: true,
		}))
	}

	now := time.Now
	authHandler := &handler.AuthHandler{
		Auth:   auth.NewService(stores.Users, stores.Sessions, cfg.Auth.SessionTTL),
		Cookie: handler.CookieConfig{Name: cfg.Auth.CookieName, Secure: cfg.Auth.SecureCookies},
	}
	logHandler := &handler.LogHandler{Logs: stores.Logs, Now: now}
	calendarHandler := &handler.CalendarHandler{Logs: stores.Logs, Now: now}
	if archive != nil {
		calendarHandler.Archive = archive
	}

	e.GET("/health", func(c echo.Context) error {
		return response.OK(c, map[string]bool{"ok": true}, "")
	})

	// Identity
	e.POST("/api/register", authHandler.Register)
	e.POST("/api/login", authHandler.Login)
	e.POST("/api/logout", authHandler.Logout)

	api := e.Group("/api", authHandler.RequireSession)
	api.GET("/me", authHandler.Me)

	// Daily logs
	api.POST("/logs", logHandler.SaveLog)
	api.GET("/logs/:date", logHandler.GetLog)
	api.POST("/parse", logHandler.PreviewLog)

	// Calendar
	api.GET("/calendar", calendarHandler.ListLogs)
	api.GET("/calendar/view", calendarHandler.View)
	api.GET("/calendar.ics", calendarHandler.Feed)
	api.GET("/exports", calendarHandler.ListExports)
	api.POST("/exports", calendarHandler.CreateExport)
	api.GET("/exports/download", calendarHandler.GetExport)

	return &Server{Echo: e, Config: cfg, log: log}
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := ":" + s.Config.Server.Port
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- s.Echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info().Msg("http server shutting down")
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}
