package store

import (
	"context"
	"fmt"
	"gorm.io/gorm"
	"recipe-app-api/app/server/errs"
	"recipe-app-api/app/server/models"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if taken, err := emailTaken(tx, user.Email, 0); err != nil {
			return err
		} else if taken {
			return errs.ErrDuplicate
		}

		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("create user: %w", translate(err))
		}
		return nil
	})
}

func (s *UserStore) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *UserStore) Update(ctx context.Context, user *models.User, columns ...string) error {
	if len(columns) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, column := range columns {
			if column != "email" {
				continue
			}
			if taken, err := emailTaken(tx, user.Email, user.ID); err != nil {
				return err
			} else if taken {
				return errs.ErrDuplicate
			}
		}

		res := tx.Model(user).Select(columns).Updates(user)
		if res.Error != nil {
			return fmt.Errorf("update user: %w", translate(res.Error))
		}
		if res.RowsAffected == 0 {
			return errs.ErrNotFound
		}
		return nil
	})
}

func (s *UserStore) Delete(ctx context.Context, id uint) ([]string, error) {
	var images []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.User{}, "id = ?", id).Error; err != nil {
			return translate(err)
		}

		// 记录需要清理的图片
		if err := tx.Model(&models.Recipe{}).
			Where("user_id = ? AND image IS NOT NULL", id).
			Pluck("image", &images).Error; err != nil {
			return fmt.Errorf("collect images: %w", err)
		}

		// 关联表
		owned := tx.Model(&models.Recipe{}).Select("id").Where("user_id = ?", id)
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id IN (?)", owned).Error; err != nil {
			return fmt.Errorf("delete recipe tags: %w", err)
		}
		if err := tx.Exec("DELETE FROM recipe_ingredients WHERE recipe_id IN (?)", owned).Error; err != nil {
			return fmt.Errorf("delete recipe ingredients: %w", err)
		}

		// 拥有的数据
		for _, model := range []any{&models.Recipe{}, &models.Tag{}, &models.Ingredient{}, &models.AuthToken{}} {
			if err := tx.Where("user_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("delete owned %T: %w", model, err)
			}
		}

		if err := tx.Delete(&models.User{}, id).Error; err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (s *UserStore) List(ctx context.Context, offset int, limit int) ([]models.User, error) {
	var users []models.User

	query := s.db.WithContext(ctx).Model(&models.User{}).Order("id ASC")
	if limit >= 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func emailTaken(tx *gorm.DB, email string, exceptID uint) (bool, error) {
	var count int64
	if err := tx.Model(&models.User{}).
		Where("email = ? AND id <> ?", email, exceptID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return count > 0, nil
}
