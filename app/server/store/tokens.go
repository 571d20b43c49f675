package store

import (
	"context"
	"errors"
	"fmt"
	"gorm.io/gorm"
	"recipe-app-api/app/server/errs"
	"recipe-app-api/app/server/models"
)

type TokenStore struct {
	db *gorm.DB
}

func NewTokenStore(db *gorm.DB) *TokenStore {
	return &TokenStore{db: db}
}

func (s *TokenStore) GetOrCreate(ctx context.Context, userID uint, newKey func() (string, error)) (*models.AuthToken, error) {
	var token models.AuthToken
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&token, "user_id = ?", userID).Error
		if err == nil {
			return nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("find token: %w", err)
		}

		key, err := newKey()
		if err != nil {
			return fmt.Errorf("generate token key: %w", err)
		}
		token = models.AuthToken{Key: key, UserID: userID}
		if err := tx.Create(&token).Error; err != nil {
			return fmt.Errorf("create token: %w", translate(err))
		}
		return nil
	})
	if errors.Is(err, errs.ErrDuplicate) {
		// 并发登录时另一个请求先创建了 token ，使用它即可
		if err := s.db.WithContext(ctx).First(&token, "user_id = ?", userID).Error; err != nil {
			return nil, fmt.Errorf("find concurrent token: %w", translate(err))
		}
		return &token, nil
	} else if err != nil {
		return nil, err
	}
	return &token, nil
}

func (s *TokenStore) GetByKey(ctx context.Context, key string) (*models.AuthToken, error) {
	// 空的 key 会让结构体条件失效，必须提前拦截
	if key == "" {
		return nil, errs.ErrNotFound
	}

	var token models.AuthToken
	if err := s.db.WithContext(ctx).
		Preload("User").
		Where(&models.AuthToken{Key: key}).
		First(&token).Error; err != nil {
		return nil, translate(err)
	}
	if token.User == nil {
		// 用户已经不存在
		return nil, errs.ErrNotFound
	}
	return &token, nil
}

func (s *TokenStore) DeleteByUser(ctx context.Context, userID uint) (string, error) {
	var token models.AuthToken
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&token, "user_id = ?", userID).Error; err != nil {
			return translate(err)
		}
		return tx.Delete(&token).Error
	})
	if errors.Is(err, errs.ErrNotFound) {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("delete token: %w", err)
	}
	return token.Key, nil
}
