package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// subjectID reads the authenticated user's ID from the context. JWT numeric
// claims decode as float64; other representations are handled for safety.
// Returns 0 when no valid identity is present.
func subjectID(c echo.Context) uint64 {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t
	case int:
		return uint64(t)
	case int64:
		return uint64(t)
	case float64:
		return uint64(t)
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// pathID parses the :id route parameter as an unsigned integer.
func pathID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}
