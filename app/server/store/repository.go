// Package store implements one repository per entity over an explicit *gorm.DB handle.
// Every method on an owned entity takes the owner id and applies it before any other filter.
package store

import (
	"context"
	"recipe-app-api/app/server/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Update writes the named columns of user; a taken email yields errs.ErrDuplicate.
	Update(ctx context.Context, user *models.User, columns ...string) error
	// Delete removes the user with everything it owns and returns the image keys that were attached to its recipes.
	Delete(ctx context.Context, id uint) ([]string, error)
	// List returns users ordered by id; a negative limit returns all of them.
	List(ctx context.Context, offset int, limit int) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
}

type TokenRepository interface {
	// GetOrCreate returns the user's token, creating one with newKey when there is none.
	GetOrCreate(ctx context.Context, userID uint, newKey func() (string, error)) (*models.AuthToken, error)
	// GetByKey returns the token with its user loaded.
	GetByKey(ctx context.Context, key string) (*models.AuthToken, error)
	// DeleteByUser removes the user's token and returns its key, or "" when there was none.
	DeleteByUser(ctx context.Context, userID uint) (string, error)
}

type RecipeFilter struct {
	TagIDs        []uint // any-of
	IngredientIDs []uint // any-of
}

type RecipeChanges struct {
	Columns     map[string]any // column name -> new value
	Tags        *[]string      // nil keeps the current tags
	Ingredients *[]string      // nil keeps the current ingredients
}

type RecipeRepository interface {
	List(ctx context.Context, ownerID uint, filter RecipeFilter) ([]models.Recipe, error)
	Get(ctx context.Context, ownerID uint, id uint) (*models.Recipe, error)
	// Create stores recipe for recipe.UserID, creating missing tags and ingredients by name.
	Create(ctx context.Context, recipe *models.Recipe, tags []string, ingredients []string) error
	Update(ctx context.Context, ownerID uint, id uint, changes RecipeChanges) (*models.Recipe, error)
	// Delete returns the removed recipe so its image can be cleaned up.
	Delete(ctx context.Context, ownerID uint, id uint) (*models.Recipe, error)
	SetImage(ctx context.Context, ownerID uint, id uint, key string) error
}

type AttrRepository[M models.RecipeAttr] interface {
	List(ctx context.Context, ownerID uint, assignedOnly bool) ([]M, error)
	Get(ctx context.Context, ownerID uint, id uint) (*M, error)
	Rename(ctx context.Context, ownerID uint, id uint, name string) (*M, error)
	Delete(ctx context.Context, ownerID uint, id uint) error
}

var (
	_ UserRepository                    = (*UserStore)(nil)
	_ TokenRepository                   = (*TokenStore)(nil)
	_ RecipeRepository                  = (*RecipeStore)(nil)
	_ AttrRepository[models.Tag]        = (*AttrStore[models.Tag])(nil)
	_ AttrRepository[models.Ingredient] = (*AttrStore[models.Ingredient])(nil)
)
