package handlers

import (
	"github.com/labstack/echo/v4"
	"recipe-app-api/app/server/errs"
	"recipe-app-api/app/server/middlewares"
	"recipe-app-api/app/server/models"
	"strconv"
)

// me returns the authenticated user; routes behind TokenAuth always have one.
func (a *App) me(c echo.Context) (*models.User, error) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return nil, errs.ErrUnauthenticated
	}
	return user, nil
}

// parseID treats a malformed id like a missing row.
func (a *App) parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errs.ErrNotFound
	}
	return uint(id), nil
}

func (a *App) queryBool(c echo.Context, name string) (bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errs.Invalid(name, "Must be a valid boolean.")
	}
	return v, nil
}

func (a *App) queryUint(c echo.Context, name string) (*uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, errs.Invalid(name, "A valid integer is required.")
	}
	u := uint(v)
	return &u, nil
}
