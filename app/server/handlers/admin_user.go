package handlers

import (
	"github.com/labstack/echo/v4"
	"net/http"
	"recipe-app-api/app/server/errs"
	"recipe-app-api/app/server/serializers"
)

func (a *App) AdminUserList(c echo.Context) error {
	rctx := c.Request().Context()

	// 分页参数
	verr := &errs.ValidationError{}
	pageParam, err := a.queryUint(c, "page")
	if err != nil {
		verr.Add("page", "A valid integer is required.")
	}
	limitParam, err := a.queryUint(c, "limit")
	if err != nil {
		verr.Add("limit", "A valid integer is required.")
	}
	if err := verr.OrNil(); err != nil {
		return a.fail(c, err, "parse pagination")
	}

	p := a.parsePagination(pageParam, limitParam)

	users, err := a.users.List(rctx, p.offset(), p.limit)
	if err != nil {
		return a.fail(c, err, "get user list")
	}
	usersCount, err := a.users.Count(rctx)
	if err != nil {
		return a.fail(c, err, "count user")
	}

	resUsers := make([]serializers.AdminUserOutput, 0, len(users))
	for i := range users {
		resUsers = append(resUsers, serializers.NewAdminUserOutput(&users[i]))
	}

	return c.JSON(http.StatusOK, &serializers.AdminUserListResponse{
		Limit:   p.limit,
		PageMax: p.maxPage(usersCount),
		List:    resUsers,
	})
}
