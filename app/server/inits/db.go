package inits

import (
	"context"
	"errors"
	"fmt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"recipe-app-api/app/server/accounts"
	"recipe-app-api/app/server/errs"
	"recipe-app-api/app/server/store"
)

func DB(conn string) (db *gorm.DB, err error) {
	// 打开连接，唯一约束等错误翻译为 gorm 的通用错误
	if db, err = gorm.Open(postgres.Open(conn), &gorm.Config{
		TranslateError: true,
	}); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// 迁移
	if err = store.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// 返回
	return db, nil
}

// Superuser creates the bootstrap staff account unless a user with that email already exists.
func Superuser(ctx context.Context, db *gorm.DB, email string, password string) (created bool, err error) {
	users := store.NewUserStore(db)

	// 查询现有记录
	if _, err = users.GetByEmail(ctx, accounts.NormalizeEmail(email)); err == nil {
		return false, nil
	} else if !errors.Is(err, errs.ErrNotFound) {
		return false, fmt.Errorf("failed to get superuser: %w", err)
	}

	// 插入记录
	if _, err = accounts.NewManager(users).CreateSuperuser(ctx, email, password); err != nil {
		return false, fmt.Errorf("failed to create superuser: %w", err)
	}

	return true, nil
}
