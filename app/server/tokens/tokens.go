// Package tokens exchanges credentials for opaque bearer tokens and resolves them back to users.
package tokens

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"recipe-app-api/app/server/accounts"
	"recipe-app-api/app/server/constants"
	"recipe-app-api/app/server/errs"
	"recipe-app-api/app/server/models"
	"recipe-app-api/app/server/store"
	"recipe-app-api/app/server/types"
	"strings"
)

// KeyLength is the number of hex characters in a token key.
const KeyLength = 40

type Issuer struct {
	tokens   store.TokenRepository
	accounts *accounts.Manager
	rdb      *redis.Client
	l        *zap.Logger
}

func NewIssuer(tokens store.TokenRepository, accounts *accounts.Manager, rdb *redis.Client, l *zap.Logger) *Issuer {
	return &Issuer{
		tokens:   tokens,
		accounts: accounts,
		rdb:      rdb,
		l:        l,
	}
}

func GenerateKey() (string, error) {
	buf := make([]byte, KeyLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Issue returns the user's existing token or a new one.
func (i *Issuer) Issue(ctx context.Context, email string, password string) (*models.AuthToken, error) {
	if strings.TrimSpace(password) == "" {
		return nil, errs.Invalid("password", "This field may not be blank.")
	}

	user, err := i.accounts.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, err := i.tokens.GetOrCreate(ctx, user.ID, GenerateKey)
	if err != nil {
		return nil, fmt.Errorf("get or create token: %w", err)
	}
	return token, nil
}

// Authenticate resolves a token key to an active user, or errs.ErrUnauthenticated.
func (i *Issuer) Authenticate(ctx context.Context, key string) (*models.User, error) {
	if key == "" {
		return nil, errs.ErrUnauthenticated
	}

	// 查询缓存
	cacheKey := fmt.Sprintf(constants.CacheKeyTokenUser, key)
	var cached types.CachedUser
	if cacheBytes, err := i.rdb.Get(ctx, cacheKey).Bytes(); err != nil {
		if !errors.Is(err, redis.Nil) {
			i.l.Error("failed to query cache for token user", zap.Error(err))
		}
	} else if err = json.Unmarshal(cacheBytes, &cached); err != nil {
		i.l.Error("failed to unmarshal token user", zap.ByteString("cacheBytes", cacheBytes), zap.Error(err))
		// 可能是无效的缓存，清理掉
		i.rdb.Del(ctx, cacheKey)
	} else if cached.IsActive {
		return cached.User(), nil
	} else {
		return nil, errs.ErrUnauthenticated
	}

	// 查询数据库
	token, err := i.tokens.GetByKey(ctx, key)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, errs.ErrUnauthenticated
	} else if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}

	// 格式化并加入缓存，方便下一次查询
	if cacheBytes, err := json.Marshal(types.NewCachedUser(token.User)); err != nil {
		i.l.Error("failed to marshal token user", zap.Uint("id", token.UserID), zap.Error(err))
	} else {
		pipe := i.rdb.TxPipeline()
		pipe.Set(ctx, cacheKey, cacheBytes, constants.CacheExpireTokenUser)
		pipe.Set(ctx, fmt.Sprintf(constants.CacheKeyUserToken, token.UserID), key, constants.CacheExpireTokenUser)
		if _, err := pipe.Exec(ctx); err != nil {
			i.l.Error("failed to cache token user", zap.Uint("id", token.UserID), zap.Error(err))
		}
	}

	if !token.User.IsActive {
		return nil, errs.ErrUnauthenticated
	}

	user := *token.User
	user.Password = ""
	return &user, nil
}

// Revoke deletes the user's token, so the next login issues a new key.
func (i *Issuer) Revoke(ctx context.Context, userID uint) error {
	key, err := i.tokens.DeleteByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}

	i.forget(ctx, userID, key)
	return nil
}

// Forget drops the cached snapshot of the user so the next request reloads it.
func (i *Issuer) Forget(ctx context.Context, userID uint) {
	key, err := i.rdb.Get(ctx, fmt.Sprintf(constants.CacheKeyUserToken, userID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			i.l.Error("failed to query cache for user token", zap.Uint("id", userID), zap.Error(err))
		}
		return
	}

	i.forget(ctx, userID, key)
}

func (i *Issuer) forget(ctx context.Context, userID uint, key string) {
	cacheKeys := []string{fmt.Sprintf(constants.CacheKeyUserToken, userID)}
	if key != "" {
		cacheKeys = append(cacheKeys, fmt.Sprintf(constants.CacheKeyTokenUser, key))
	}

	if err := i.rdb.Del(ctx, cacheKeys...).Err(); err != nil {
		i.l.Error("failed to clear token cache", zap.Uint("id", userID), zap.Error(err))
	}
}
