package handler

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// parseID extracts a positive numeric path parameter.  The second
// return value is false when the parameter is missing, non-numeric or
// zero.
func parseID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, false
    }
    return id, true
}
