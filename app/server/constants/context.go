package constants

// echo context keys
const (
	ContextKeyUser = "user" // *models.User
)
