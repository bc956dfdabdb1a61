package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/client"
	"github.com/iliyamo/hotel-reservation/internal/gateway"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

var errInvalidPaging = errors.New("page and size must be positive integers")

// pageParams reads ?page and ?size.  Missing values take the defaults and
// size is capped at maxPageSize.
func pageParams(c echo.Context) (page, size int, err error) {
	page, size = defaultPage, defaultPageSize
	if v := c.QueryParam("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil || page < 1 {
			return 0, 0, errInvalidPaging
		}
	}
	if v := c.QueryParam("size"); v != "" {
		if size, err = strconv.Atoi(v); err != nil || size < 1 {
			return 0, 0, errInvalidPaging
		}
	}
	return page, min(size, maxPageSize), nil
}

// uidParam parses a UUID path parameter.
func uidParam(c echo.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"message": msg})
}

// statusFor maps an orchestration error to the single status of the
// response: bad input 400, collaborator answers passed through, transport
// failures 503, everything else 500.
func statusFor(err error) int {
	var se *client.StatusError
	switch {
	case errors.Is(err, gateway.ErrBadRequest):
		return http.StatusBadRequest
	case errors.As(err, &se):
		return se.Status
	case errors.Is(err, client.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the body text for status.  Responses carry only this
// coarse category; the underlying error, which names the failing service
// and step, goes to the log.
func publicMessage(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return "bad request"
	case status == http.StatusServiceUnavailable:
		return "upstream unavailable"
	case status >= http.StatusInternalServerError:
		return "internal error"
	default:
		return strings.ToLower(http.StatusText(status))
	}
}

func respondError(c echo.Context, log *slog.Logger, status int, err error) error {
	attrs := []any{
		"method", c.Request().Method,
		"path", c.Path(),
		"status", status,
		"error", err,
	}
	if status >= http.StatusInternalServerError {
		log.ErrorContext(c.Request().Context(), "request failed", attrs...)
	} else {
		log.InfoContext(c.Request().Context(), "request rejected", attrs...)
	}
	return c.JSON(status, echo.Map{"message": publicMessage(status)})
}
