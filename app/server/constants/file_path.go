package constants

// 上传文件
const (
	UploadPathRecipeImage = "uploads/recipe/" // + <uuid>.<ext>
	UploadMaxImageSize    = 10 << 20
	UploadMaxImagePixels  = 40_000_000 // 宽 × 高
	UploadFormFieldImage  = "image"
)
