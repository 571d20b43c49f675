// Package attachments validates uploaded recipe images and stores them under generated keys.
package attachments

import (
	"bytes"
	"context"
	"fmt"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path"
	"recipe-app-api/app/server/constants"
	"recipe-app-api/app/server/errs"
	"recipe-app-api/app/server/models"
	"recipe-app-api/app/server/storage"
	"recipe-app-api/app/server/store"
	"slices"
	"strings"
)

// 支持的图片格式
type format struct {
	ext         string   // 默认扩展名
	aliases     []string // 也接受的扩展名
	contentType string
	decode      func(io.Reader) (image.Image, error)
}

var formats = map[string]format{
	"jpeg": {ext: "jpg", aliases: []string{"jpeg", "jpe", "jfif"}, contentType: "image/jpeg", decode: jpeg.Decode},
	"png":  {ext: "png", contentType: "image/png", decode: png.Decode},
	"gif":  {ext: "gif", contentType: "image/gif", decode: gif.Decode},
	"webp": {ext: "webp", contentType: "image/webp", decode: webp.Decode},
	"bmp":  {ext: "bmp", aliases: []string{"dib"}, contentType: "image/bmp", decode: bmp.Decode},
	"tiff": {ext: "tiff", aliases: []string{"tif"}, contentType: "image/tiff", decode: tiff.Decode},
}

func (f format) accepts(ext string) bool {
	return ext == f.ext || slices.Contains(f.aliases, ext)
}

const (
	msgEmpty   = "The submitted file is empty."
	msgInvalid = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
)

type ImageHandler struct {
	recipes store.RecipeRepository
	storage storage.Storage
	l       *zap.Logger
	maxSize   int64
	maxPixels int
	newID     func() uuid.UUID
}

func NewImageHandler(recipes store.RecipeRepository, s storage.Storage, l *zap.Logger) *ImageHandler {
	return &ImageHandler{
		recipes: recipes,
		storage: s,
		l:       l,
		maxSize:   constants.UploadMaxImageSize,
		maxPixels: constants.UploadMaxImagePixels,
		newID:     uuid.New,
	}
}

// ImageKey builds the storage key for an upload. The extension of filename is kept only
// when it names the detected format, so the served content type always matches the content.
func ImageKey(id uuid.UUID, filename string, detected string) string {
	f := formats[detected]
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(strings.ReplaceAll(filename, "\\", "/")), "."))
	if !f.accepts(ext) {
		ext = f.ext
	}
	return constants.UploadPathRecipeImage + id.String() + "." + ext
}

// Sniff reads the whole upload and checks that it decodes as a supported image.
func (h *ImageHandler) Sniff(r io.Reader) ([]byte, string, error) {
	data, err := io.ReadAll(io.LimitReader(r, h.maxSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}

	if len(data) == 0 {
		return nil, "", errs.Invalid(constants.UploadFormFieldImage, msgEmpty)
	}
	if int64(len(data)) > h.maxSize {
		return nil, "", errs.Invalid(constants.UploadFormFieldImage,
			fmt.Sprintf("Ensure the file is no larger than %d MB.", h.maxSize>>20))
	}

	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", errs.Invalid(constants.UploadFormFieldImage, msgInvalid)
	}
	f, ok := formats[name]
	if !ok {
		return nil, "", errs.Invalid(constants.UploadFormFieldImage, msgInvalid)
	}
	// 解码器按文件头声明的尺寸一次性分配内存，先检查尺寸
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > int64(h.maxPixels) {
		return nil, "", errs.Invalid(constants.UploadFormFieldImage, msgInvalid)
	}
	// 完整解码，排除只有文件头的损坏图片
	if _, err := f.decode(bytes.NewReader(data)); err != nil {
		return nil, "", errs.Invalid(constants.UploadFormFieldImage, msgInvalid)
	}

	return data, name, nil
}

// Attach replaces the image of the owner's recipe with the upload.
func (h *ImageHandler) Attach(ctx context.Context, ownerID uint, recipeID uint, filename string, r io.Reader) (*models.Recipe, error) {
	recipe, err := h.recipes.Get(ctx, ownerID, recipeID)
	if err != nil {
		return nil, err
	}
	var previous string
	if recipe.Image != nil {
		previous = *recipe.Image
	}

	data, name, err := h.Sniff(r)
	if err != nil {
		return nil, err
	}

	key := ImageKey(h.newID(), filename, name)
	if err := h.storage.Save(ctx, key, bytes.NewReader(data), int64(len(data)), formats[name].contentType); err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	if err := h.recipes.SetImage(ctx, ownerID, recipeID, key); err != nil {
		// 记录没有更新成功，刚保存的文件也不再需要
		h.remove(ctx, key)
		return nil, err
	}

	if previous != "" && previous != key {
		h.remove(ctx, previous)
	}

	recipe.Image = &key
	return recipe, nil
}

// Remove deletes stored images that no record points to any more.
func (h *ImageHandler) Remove(ctx context.Context, keys ...string) {
	for _, key := range keys {
		h.remove(ctx, key)
	}
}

func (h *ImageHandler) remove(ctx context.Context, key string) {
	if err := h.storage.Delete(ctx, key); err != nil {
		h.l.Error("failed to delete image", zap.String("key", key), zap.Error(err))
	}
}

// URL renders an image key for responses.
func (h *ImageHandler) URL(key string) string {
	return h.storage.URL(key)
}
