package constants

import "time"

const (
	CacheKeyTokenUser = "recipe:token:%s"      // %s -> token key
	CacheKeyUserToken = "recipe:user:token:%d" // %d -> user id
)

const (
	CacheExpireTokenUser = 1 * time.Hour
)
