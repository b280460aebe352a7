package handler

import (
	"time"

	"github.com/labstack/echo/v4"
)

// dbTimeout bounds every repository call made from a handler.
const dbTimeout = 5 * time.Second

// ok writes the canonical success envelope: {"success": true} plus the
// payload fields. Every endpoint answers with this shape so clients can
// branch on a single flag.
func ok(c echo.Context, status int, payload echo.Map) error {
	body := echo.Map{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	return c.JSON(status, body)
}

// fail writes the canonical failure envelope: {"success": false, "message": ...}.
func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"success": false, "message": message})
}
