package server

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/saurabhbakolia/disaster-response-platform/internal/domain"
	"github.com/saurabhbakolia/disaster-response-platform/internal/errors"
)

// maxImageBytes caps uploaded verification images at 10 MB.
const maxImageBytes = 10 << 20

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // dashboards connect from arbitrary origins
	},
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"service": "disaster-response-platform",
		"status":  "ok",
	})
}

// --- Report handlers ---

type createReportRequest struct {
	UserID  string `json:"user_id"`
	Content string `json:"content"`
}

func (s *Server) handleCreateReport(c echo.Context) error {
	disasterID, err := uuid.Parse(c.Param("disaster_id"))
	if err != nil {
		return errors.ValidationError("invalid disaster ID")
	}

	var req createReportRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError("invalid request body")
	}
	if strings.TrimSpace(req.UserID) == "" {
		return errors.ValidationError("user_id is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		return errors.ValidationError("content is required")
	}

	report, err := s.reports.CreateReport(c.Request().Context(), disasterID, req.UserID, req.Content)
	if err != nil {
		return errors.InternalError("failed to create report", err)
	}
	return c.JSON(http.StatusCreated, report)
}

func (s *Server) handleListReports(c echo.Context) error {
	disasterID, err := uuid.Parse(c.Param("disaster_id"))
	if err != nil {
		return errors.ValidationError("invalid disaster ID")
	}

	reports, err := s.reports.ListReportsByDisaster(c.Request().Context(), disasterID)
	if err != nil {
		return errors.InternalError("failed to list reports", err)
	}
	if reports == nil {
		reports = []*domain.Report{}
	}
	return c.JSON(http.StatusOK, reports)
}

// handleVerifyReport accepts a multipart "reportImage" upload and runs one
// verification attempt against the classifier.
func (s *Server) handleVerifyReport(c echo.Context) error {
	if _, err := uuid.Parse(c.Param("disaster_id")); err != nil {
		return errors.ValidationError("invalid disaster ID")
	}
	reportID, err := uuid.Parse(c.Param("report_id"))
	if err != nil {
		return errors.ValidationError("invalid report ID")
	}

	image, err := readUploadedImage(c)
	if err != nil {
		return err
	}

	result, err := s.verifier.VerifyReport(c.Request().Context(), reportID, image)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func readUploadedImage(c echo.Context) (*domain.ImagePayload, error) {
	header, err := c.FormFile("reportImage")
	if err != nil {
		return nil, errors.ValidationError("no image file uploaded")
	}
	if header.Size > maxImageBytes {
		return nil, errors.ValidationError("image exceeds 10MB limit")
	}

	file, err := header.Open()
	if err != nil {
		return nil, errors.InternalError("failed to open uploaded image", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		return nil, errors.InternalError("failed to read uploaded image", err)
	}
	if len(data) > maxImageBytes {
		return nil, errors.ValidationError("image exceeds 10MB limit")
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	return &domain.ImagePayload{
		Filename: header.Filename,
		MimeType: mimeType,
		Data:     data,
	}, nil
}

// --- Updates and geocoding ---

func (s *Server) handleOfficialUpdates(c echo.Context) error {
	officialUpdates, err := s.updates.GetOfficialUpdates(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, officialUpdates)
}

type geocodeRequest struct {
	Description string `json:"description"`
}

func (s *Server) handleGeocode(c echo.Context) error {
	var req geocodeRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError("invalid request body")
	}

	resolution, err := s.geocoder.Resolve(c.Request().Context(), req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resolution)
}

// --- Alert stream ---

// handleAlertStream upgrades the connection and parks it on the hub until
// the client goes away. Observers never send anything meaningful; the read
// pump exists to notice disconnects and answer control frames.
func (s *Server) handleAlertStream(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.WarnContext(c.Request().Context(), "WebSocket upgrade failed", "error", err)
		return nil
	}

	if err := s.hub.Register(conn); err != nil {
		slog.WarnContext(c.Request().Context(), "Failed to register alert observer", "error", err)
		_ = conn.Close()
		return nil
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.hub.Unregister(conn)
	return nil
}
