package errors

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// errorResponse is the JSON body returned for failed requests.
type errorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type,omitempty"`
}

// HTTPErrorHandler converts errors into JSON responses. Structured *Error
// values map through their HTTPStatus; echo.HTTPError passes through;
// anything else becomes an opaque 500.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if structured, ok := AsError(err); ok {
		if structured.Type == TypeInternal {
			slog.ErrorContext(c.Request().Context(), "Request failed", "error", err, "path", c.Path())
		} else {
			slog.WarnContext(c.Request().Context(), "Request rejected", "error", err, "path", c.Path())
		}
		_ = c.JSON(structured.HTTPStatus(), errorResponse{Error: structured.Message, Type: string(structured.Type)})
		return
	}

	if httpErr, ok := err.(*echo.HTTPError); ok {
		_ = c.JSON(httpErr.Code, errorResponse{Error: http.StatusText(httpErr.Code)})
		return
	}

	slog.ErrorContext(c.Request().Context(), "Unhandled error", "error", err, "path", c.Path())
	_ = c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}
