package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health answers liveness probes.  It never checks collaborators.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
