package api

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/ecoff/internal/report"
)

var errTooLarge = errors.New("upload exceeds size limit")

// readUpload reads body, failing with errTooLarge past limit bytes.
func readUpload(body io.Reader, limit int64) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, errTooLarge
	}
	return data, nil
}

func boolParam(c *echo.Context, name string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(c.QueryParam(name)))
	return err == nil && v
}

func documentOptions(c *echo.Context) report.Options {
	return report.Options{
		Strings: boolParam(c, "strings"),
		Data:    boolParam(c, "data"),
	}
}

// uploadName picks a display name for an upload: ?name= wins, then the
// X-Object-Name header.
func uploadName(c *echo.Context) string {
	if name := strings.TrimSpace(c.QueryParam("name")); name != "" {
		return name
	}
	return strings.TrimSpace(c.Request().Header.Get(HeaderObjectName))
}
