// Package server wires the HTTP and WebSocket surface of the platform.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"

	"github.com/saurabhbakolia/disaster-response-platform/internal/config"
	"github.com/saurabhbakolia/disaster-response-platform/internal/correlation"
	"github.com/saurabhbakolia/disaster-response-platform/internal/domain"
	apperrors "github.com/saurabhbakolia/disaster-response-platform/internal/errors"
	"github.com/saurabhbakolia/disaster-response-platform/internal/geocode"
	"github.com/saurabhbakolia/disaster-response-platform/internal/hub"
	"github.com/saurabhbakolia/disaster-response-platform/internal/updates"
	"github.com/saurabhbakolia/disaster-response-platform/internal/verify"
)

// Collaborator contracts kept minimal so handler tests can fake them.
type (
	verifier interface {
		VerifyReport(ctx context.Context, reportID uuid.UUID, image *domain.ImagePayload) (*verify.Result, error)
	}

	geocoder interface {
		Resolve(ctx context.Context, description string) (*geocode.Resolution, error)
	}

	updatesProvider interface {
		GetOfficialUpdates(ctx context.Context) ([]updates.Update, error)
	}

	reportStore interface {
		CreateReport(ctx context.Context, disasterID uuid.UUID, userID, content string) (*domain.Report, error)
		ListReportsByDisaster(ctx context.Context, disasterID uuid.UUID) ([]*domain.Report, error)
	}

	redisHealthChecker interface {
		Ping(ctx context.Context) *goredis.StatusCmd
	}

	postgresHealthChecker interface {
		Ping(ctx context.Context) error
	}
)

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	hub       *hub.Hub
	verifier  verifier
	geocoder  geocoder
	updates   updatesProvider
	reports   reportStore
	redis     redisHealthChecker
	postgres  postgresHealthChecker
	startTime time.Time
}

func NewServer(cfg *config.Config, alertHub *hub.Hub, verifier verifier, geocoder geocoder,
	updates updatesProvider, reports reportStore, redis redisHealthChecker, postgres postgresHealthChecker) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperrors.HTTPErrorHandler

	e.Use(correlationMiddleware)
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	srv := &Server{
		echo:      e,
		config:    cfg,
		hub:       alertHub,
		verifier:  verifier,
		geocoder:  geocoder,
		updates:   updates,
		reports:   reports,
		redis:     redis,
		postgres:  postgres,
		startTime: time.Now(),
	}
	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// correlationMiddleware tags every request with a correlation ID so log
// lines across a request can be joined up.
func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := correlation.NewID()
		ctx := correlation.WithID(c.Request().Context(), id)
		c.SetRequest(c.Request().WithContext(ctx))
		c.Response().Header().Set("X-Correlation-ID", id)
		return next(c)
	}
}
