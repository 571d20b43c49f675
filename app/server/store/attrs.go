package store

import (
	"context"
	"fmt"
	"gorm.io/gorm"
	"recipe-app-api/app/server/errs"
	"recipe-app-api/app/server/models"
)

// AttrStore serves tags and ingredients, which only differ by table names.
type AttrStore[M models.RecipeAttr] struct {
	db         *gorm.DB
	table      string // 本体表
	joinTable  string // 与 recipe 的关联表
	joinColumn string // 关联表中指向本体的列
}

func NewTagStore(db *gorm.DB) *AttrStore[models.Tag] {
	return &AttrStore[models.Tag]{db: db, table: "tags", joinTable: "recipe_tags", joinColumn: "tag_id"}
}

func NewIngredientStore(db *gorm.DB) *AttrStore[models.Ingredient] {
	return &AttrStore[models.Ingredient]{db: db, table: "ingredients", joinTable: "recipe_ingredients", joinColumn: "ingredient_id"}
}

func (s *AttrStore[M]) List(ctx context.Context, ownerID uint, assignedOnly bool) ([]M, error) {
	query := s.db.WithContext(ctx).Model(new(M)).Where(s.table+".user_id = ?", ownerID)
	if assignedOnly {
		// EXISTS 不会因为多个 recipe 而产生重复行
		query = query.Where(fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s WHERE %s.%s = %s.id)",
			s.joinTable, s.joinTable, s.joinColumn, s.table,
		))
	}

	var attrs []M
	if err := query.Order(s.table + ".name DESC").Find(&attrs).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", s.table, err)
	}
	return attrs, nil
}

func (s *AttrStore[M]) Get(ctx context.Context, ownerID uint, id uint) (*M, error) {
	return s.get(s.db.WithContext(ctx), ownerID, id)
}

func (s *AttrStore[M]) get(db *gorm.DB, ownerID uint, id uint) (*M, error) {
	var attr M
	if err := db.First(&attr, "id = ? AND user_id = ?", id, ownerID).Error; err != nil {
		return nil, translate(err)
	}
	return &attr, nil
}

func (s *AttrStore[M]) Rename(ctx context.Context, ownerID uint, id uint, name string) (*M, error) {
	var attr *M
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if attr, err = s.get(tx, ownerID, id); err != nil {
			return err
		}

		// 名字在同一用户内唯一
		var count int64
		if err := tx.Model(new(M)).
			Where("user_id = ? AND name = ? AND id <> ?", ownerID, name, id).
			Count(&count).Error; err != nil {
			return fmt.Errorf("check %s name: %w", s.table, err)
		} else if count > 0 {
			return errs.ErrDuplicate
		}

		if err := tx.Model(attr).Update("name", name).Error; err != nil {
			return fmt.Errorf("rename %s: %w", s.table, translate(err))
		}

		attr, err = s.get(tx, ownerID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return attr, nil
}

func (s *AttrStore[M]) Delete(ctx context.Context, ownerID uint, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attr, err := s.get(tx, ownerID, id)
		if err != nil {
			return err
		}

		if err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE %s = ?", s.joinTable, s.joinColumn), id).Error; err != nil {
			return fmt.Errorf("detach %s: %w", s.table, err)
		}
		if err := tx.Delete(attr).Error; err != nil {
			return fmt.Errorf("delete %s: %w", s.table, err)
		}
		return nil
	})
}
