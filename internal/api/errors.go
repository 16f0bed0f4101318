package api

import (
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/ecoff/internal/report"
)

// ResponseError is the body of every non-2xx JSON response, wrapped as
// {"error": ...}.
type ResponseError struct {
	Type      string `json:"type"`
	Stage     string `json:"stage,omitempty"`
	Message   string `json:"message"`
	Requested int64  `json:"requested,omitempty"`
	Available int64  `json:"available,omitempty"`
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, map[string]any{
		"error": ResponseError{
			Type:    errType,
			Message: msg,
		},
	})
}

// writeDecodeError reports a failed decode as 422 with the error kind and
// the stage it failed at.
func writeDecodeError(c *echo.Context, err error) error {
	d := report.DescribeError(err)
	return c.JSON(http.StatusUnprocessableEntity, map[string]any{
		"error": ResponseError{
			Type:      d.Type,
			Stage:     d.Stage,
			Message:   d.Message,
			Requested: d.Requested,
			Available: d.Available,
		},
	})
}
