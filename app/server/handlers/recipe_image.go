package handlers

import (
	"errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http"
	"recipe-app-api/app/server/constants"
	"recipe-app-api/app/server/errs"
	"recipe-app-api/app/server/metrics"
	"recipe-app-api/app/server/serializers"
)

func (a *App) RecipeUploadImage(c echo.Context) error {
	// 抓取 user 信息（认证）
	me, err := a.me(c)
	if err != nil {
		return a.fail(c, err, "get current user")
	}

	id, err := a.parseID(c)
	if err != nil {
		return a.fail(c, err, "parse id")
	}

	// 提取上传的文件
	fh, err := c.FormFile(constants.UploadFormFieldImage)
	if err != nil {
		metrics.ObserveImageUpload("rejected", 0)
		return a.fail(c, errs.Invalid(constants.UploadFormFieldImage, "No file was submitted."), "read upload")
	}
	file, err := fh.Open()
	if err != nil {
		return a.fail(c, err, "open upload", zap.String("filename", fh.Filename))
	}
	defer file.Close()

	recipe, err := a.images.Attach(c.Request().Context(), me.ID, id, fh.Filename, file)
	if err != nil {
		var verr *errs.ValidationError
		if errors.As(err, &verr) {
			metrics.ObserveImageUpload("rejected", fh.Size)
		} else if !errors.Is(err, errs.ErrNotFound) {
			metrics.ObserveImageUpload("error", fh.Size)
		}
		return a.fail(c, err, "attach image", zap.Uint("id", id))
	}
	metrics.ObserveImageUpload("stored", fh.Size)

	return c.JSON(http.StatusOK, serializers.NewRecipeImageOutput(recipe, a.images.URL))
}
