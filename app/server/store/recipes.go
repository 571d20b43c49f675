package store

import (
	"context"
	"errors"
	"fmt"
	"gorm.io/gorm"
	"recipe-app-api/app/server/errs"
	"recipe-app-api/app/server/models"
	"strings"
)

type RecipeStore struct {
	db *gorm.DB
}

func NewRecipeStore(db *gorm.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

func preloadAttrs(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id ASC") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("ingredients.id ASC") })
}

func (s *RecipeStore) List(ctx context.Context, ownerID uint, filter RecipeFilter) ([]models.Recipe, error) {
	// 先限定所属用户，再应用客户端的过滤条件
	query := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("recipes.user_id = ?", ownerID)

	// 使用子查询做成员过滤，结果天然不重复
	if len(filter.TagIDs) > 0 {
		query = query.Where("recipes.id IN (?)",
			s.db.Table("recipe_tags").Select("recipe_id").Where("tag_id IN ?", filter.TagIDs))
	}
	if len(filter.IngredientIDs) > 0 {
		query = query.Where("recipes.id IN (?)",
			s.db.Table("recipe_ingredients").Select("recipe_id").Where("ingredient_id IN ?", filter.IngredientIDs))
	}

	var recipes []models.Recipe
	if err := preloadAttrs(query).Order("recipes.id DESC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

func (s *RecipeStore) Get(ctx context.Context, ownerID uint, id uint) (*models.Recipe, error) {
	return getRecipe(preloadAttrs(s.db.WithContext(ctx)), ownerID, id)
}

func getRecipe(db *gorm.DB, ownerID uint, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := db.First(&recipe, "id = ? AND user_id = ?", id, ownerID).Error; err != nil {
		return nil, translate(err)
	}
	return &recipe, nil
}

func (s *RecipeStore) Create(ctx context.Context, recipe *models.Recipe, tags []string, ingredients []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if recipe.Tags, err = resolveAttrs(tx, recipe.UserID, tags, models.NewTag); err != nil {
			return err
		}
		if recipe.Ingredients, err = resolveAttrs(tx, recipe.UserID, ingredients, models.NewIngredient); err != nil {
			return err
		}

		if err := tx.Omit("User").Create(recipe).Error; err != nil {
			return fmt.Errorf("create recipe: %w", translate(err))
		}
		return nil
	})
}

func (s *RecipeStore) Update(ctx context.Context, ownerID uint, id uint, changes RecipeChanges) (*models.Recipe, error) {
	var recipe *models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := getRecipe(tx, ownerID, id)
		if err != nil {
			return err
		}

		// 所属用户不可修改
		delete(changes.Columns, "user_id")
		if len(changes.Columns) > 0 {
			if err := tx.Model(current).Updates(changes.Columns).Error; err != nil {
				return fmt.Errorf("update recipe: %w", translate(err))
			}
		}

		if changes.Tags != nil {
			tags, err := resolveAttrs(tx, ownerID, *changes.Tags, models.NewTag)
			if err != nil {
				return err
			}
			if err := replaceAttrs(tx, current, "Tags", tags); err != nil {
				return err
			}
		}
		if changes.Ingredients != nil {
			ingredients, err := resolveAttrs(tx, ownerID, *changes.Ingredients, models.NewIngredient)
			if err != nil {
				return err
			}
			if err := replaceAttrs(tx, current, "Ingredients", ingredients); err != nil {
				return err
			}
		}

		recipe, err = getRecipe(preloadAttrs(tx), ownerID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *RecipeStore) Delete(ctx context.Context, ownerID uint, id uint) (*models.Recipe, error) {
	var recipe *models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if recipe, err = getRecipe(tx, ownerID, id); err != nil {
			return err
		}

		// 同时删除关联表中的记录
		if err := tx.Select("Tags", "Ingredients").Delete(recipe).Error; err != nil {
			return fmt.Errorf("delete recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *RecipeStore) SetImage(ctx context.Context, ownerID uint, id uint, key string) error {
	res := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Update("image", key)
	if res.Error != nil {
		return fmt.Errorf("set recipe image: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// resolveAttrs returns the owner's tags or ingredients with the given names, creating the missing ones.
func resolveAttrs[M models.RecipeAttr](tx *gorm.DB, ownerID uint, names []string, build func(uint, string) M) ([]M, error) {
	seen := make(map[string]struct{}, len(names))
	attrs := make([]M, 0, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		var attr M
		err := tx.Where("user_id = ? AND name = ?", ownerID, name).First(&attr).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			attr = build(ownerID, name)
			// 在保存点中创建，唯一约束冲突时不会中止外层事务
			err = tx.Transaction(func(sp *gorm.DB) error {
				return translate(sp.Omit("User").Create(&attr).Error)
			})
			if errors.Is(err, errs.ErrDuplicate) {
				// 并发请求先创建了同名的记录，使用它即可
				attr = *new(M)
				err = tx.Where("user_id = ? AND name = ?", ownerID, name).First(&attr).Error
			}
			if err != nil {
				return nil, fmt.Errorf("create %T %q: %w", attr, name, translate(err))
			}
		} else if err != nil {
			return nil, fmt.Errorf("find %T %q: %w", attr, name, err)
		}

		attrs = append(attrs, attr)
	}

	return attrs, nil
}

func replaceAttrs[M models.RecipeAttr](tx *gorm.DB, recipe *models.Recipe, association string, attrs []M) error {
	var err error
	if len(attrs) == 0 {
		err = tx.Model(recipe).Association(association).Clear()
	} else {
		err = tx.Model(recipe).Association(association).Replace(attrs)
	}
	if err != nil {
		return fmt.Errorf("replace %s: %w", strings.ToLower(association), err)
	}
	return nil
}
