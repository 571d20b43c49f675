package handlers

import (
	"errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http"
	"recipe-app-api/app/server/errs"
)

type ErrorMessage struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func (a *App) er(c echo.Context, statusCode int) error {
	if statusCode == http.StatusUnauthorized {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Token")
	}
	return c.JSON(statusCode, &ErrorMessage{
		Message: http.StatusText(statusCode),
	})
}

func (a *App) erFields(c echo.Context, statusCode int, fields map[string][]string) error {
	return c.JSON(statusCode, &ErrorMessage{
		Message: http.StatusText(statusCode),
		Errors:  fields,
	})
}

// fail answers err with the status its kind maps to; unknown errors are logged as action.
func (a *App) fail(c echo.Context, err error, action string, fields ...zap.Field) error {
	var (
		verr *errs.ValidationError
		ierr *errs.IntegrityError
	)

	switch {
	case errors.As(err, &verr):
		return a.erFields(c, http.StatusBadRequest, verr.Fields)
	case errors.As(err, &ierr):
		return a.erFields(c, http.StatusBadRequest, map[string][]string{ierr.Field: {ierr.Message}})
	case errors.Is(err, errs.ErrDuplicate):
		return a.erFields(c, http.StatusBadRequest, map[string][]string{errs.NonFieldErrors: {"A record with these values already exists."}})
	case errors.Is(err, errs.ErrNotFound):
		return a.er(c, http.StatusNotFound)
	case errors.Is(err, errs.ErrUnauthenticated):
		return a.er(c, http.StatusUnauthorized)
	default:
		a.l.Error("failed to "+action, append(fields, zap.Error(err))...)
		return a.er(c, http.StatusInternalServerError)
	}
}

// normalizer is implemented by requests that clean up their fields before validation.
type normalizer interface {
	Normalize()
}

// bind decodes, normalizes and validates the request body into req.
func (a *App) bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		a.l.Debug("failed to bind request", zap.Error(err))
		return errs.Invalid(errs.NonFieldErrors, "Malformed request body.")
	}
	if n, ok := req.(normalizer); ok {
		n.Normalize()
	}
	return c.Validate(req)
}
