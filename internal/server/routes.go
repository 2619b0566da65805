package server

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (never rate limited)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	s.echo.GET("/", s.handleRoot)

	// API routes share one per-IP rate limiter.
	api := s.echo.Group("/api", s.rateLimiter())
	api.POST("/disasters/:disaster_id/reports", s.handleCreateReport)
	api.GET("/disasters/:disaster_id/reports", s.handleListReports)
	api.POST("/disasters/:disaster_id/reports/:report_id/verify", s.handleVerifyReport)
	api.GET("/updates/official-updates", s.handleOfficialUpdates)
	api.POST("/geocode", s.handleGeocode)

	// Alert stream (no rate limit, connections are bounded by the hub)
	s.echo.GET("/ws/alerts", s.handleAlertStream)
}

// rateLimiter enforces the documented API budget per client IP.
func (s *Server) rateLimiter() echo.MiddlewareFunc {
	requestsPerSecond := float64(s.config.RateLimitRequests) / s.config.RateLimitWindow.Seconds()
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(requestsPerSecond),
			Burst:     s.config.RateLimitRequests,
			ExpiresIn: s.config.RateLimitWindow,
		}),
	})
}
