package store_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"recipe-app-api/app/server/errs"
	"recipe-app-api/app/server/models"
	"recipe-app-api/app/server/store"
	"recipe-app-api/app/server/storetest"
)

func newRecipe(ownerID uint, title string) *models.Recipe {
	return &models.Recipe{
		UserID:      ownerID,
		Title:       title,
		TimeMinutes: 22,
		Price:       decimal.RequireFromString("5.25"),
		Description: "Sample description",
		Link:        "https://example.com/recipe.pdf",
	}
}

func recipeIDs(recipes []models.Recipe) []uint {
	ids := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestRecipeCreateResolvesAttrsPerOwner(t *testing.T) {
	db := storetest.NewDB(t)
	ctx := context.Background()
	recipes := store.NewRecipeStore(db)

	user := storetest.User(t, db, "user@example.com")
	other := storetest.User(t, db, "other@example.com")

	first := newRecipe(user.ID, "Thai prawn curry")
	require.NoError(t, recipes.Create(ctx, first, []string{"Thai", "Dinner", "Thai"}, []string{"Prawns"}))
	require.Len(t, first.Tags, 2)

	// 已有的 tag 被复用，不会重复创建
	second := newRecipe(user.ID, "Pad thai")
	require.NoError(t, recipes.Create(ctx, second, []string{"Thai"}, nil))
	assert.Equal(t, first.Tags[0].ID, second.Tags[0].ID)

	// 其他用户同名的 tag 是独立的
	foreign := newRecipe(other.ID, "Green curry")
	require.NoError(t, recipes.Create(ctx, foreign, []string{"Thai"}, nil))
	assert.NotEqual(t, first.Tags[0].ID, foreign.Tags[0].ID)

	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Where("name = ?", "Thai").Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestRecipeListScopedToOwnerNewestFirst(t *testing.T) {
	db := storetest.NewDB(t)
	ctx := context.Background()
	recipes := store.NewRecipeStore(db)

	user := storetest.User(t, db, "user@example.com")
	other := storetest.User(t, db, "other@example.com")

	r1 := newRecipe(user.ID, "One")
	r2 := newRecipe(user.ID, "Two")
	r3 := newRecipe(other.ID, "Foreign")
	for _, r := range []*models.Recipe{r1, r2, r3} {
		require.NoError(t, recipes.Create(ctx, r, nil, nil))
	}

	list, err := recipes.List(ctx, user.ID, store.RecipeFilter{})
	require.NoError(t, err)
	assert.Equal(t, []uint{r2.ID, r1.ID}, recipeIDs(list))
}

func TestRecipeListAnyOfFilterWithoutDuplicates(t *testing.T) {
	db := storetest.NewDB(t)
	ctx := context.Background()
	recipes := store.NewRecipeStore(db)
	user := storetest.User(t, db, "user@example.com")

	onlyOne := newRecipe(user.ID, "Tagged one")
	require.NoError(t, recipes.Create(ctx, onlyOne, []string{"one"}, nil))
	onlyTwo := newRecipe(user.ID, "Tagged two")
	require.NoError(t, recipes.Create(ctx, onlyTwo, []string{"two"}, nil))
	both := newRecipe(user.ID, "Tagged both")
	require.NoError(t, recipes.Create(ctx, both, []string{"one", "two"}, []string{"salt"}))
	untagged := newRecipe(user.ID, "Untagged")
	require.NoError(t, recipes.Create(ctx, untagged, nil, nil))

	tagOne, tagTwo := onlyOne.Tags[0].ID, onlyTwo.Tags[0].ID

	list, err := recipes.List(ctx, user.ID, store.RecipeFilter{TagIDs: []uint{tagOne}})
	require.NoError(t, err)
	assert.Equal(t, []uint{both.ID, onlyOne.ID}, recipeIDs(list))

	// 同时匹配两个 tag 的 recipe 只出现一次
	list, err = recipes.List(ctx, user.ID, store.RecipeFilter{TagIDs: []uint{tagOne, tagTwo}})
	require.NoError(t, err)
	assert.Equal(t, []uint{both.ID, onlyTwo.ID, onlyOne.ID}, recipeIDs(list))

	// tag 与 ingredient 条件取交集
	list, err = recipes.List(ctx, user.ID, store.RecipeFilter{
		TagIDs:        []uint{tagOne, tagTwo},
		IngredientIDs: []uint{both.Ingredients[0].ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{both.ID}, recipeIDs(list))
}

func TestRecipeGetForeignIsNotFound(t *testing.T) {
	db := storetest.NewDB(t)
	ctx := context.Background()
	recipes := store.NewRecipeStore(db)

	owner := storetest.User(t, db, "owner@example.com")
	intruder := storetest.User(t, db, "intruder@example.com")

	recipe := newRecipe(owner.ID, "Private")
	require.NoError(t, recipes.Create(ctx, recipe, nil, nil))

	_, err := recipes.Get(ctx, intruder.ID, recipe.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = recipes.Get(ctx, intruder.ID, recipe.ID+100)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = recipes.Update(ctx, intruder.ID, recipe.ID, store.RecipeChanges{Columns: map[string]any{"title": "Hijacked"}})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = recipes.Delete(ctx, intruder.ID, recipe.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	assert.ErrorIs(t, recipes.SetImage(ctx, intruder.ID, recipe.ID, "uploads/recipe/x.png"), errs.ErrNotFound)

	got, err := recipes.Get(ctx, owner.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Private", got.Title)
	assert.Nil(t, got.Image)
}

func TestRecipeUpdateKeepsOwnerAndReplacesAttrs(t *testing.T) {
	db := storetest.NewDB(t)
	ctx := context.Background()
	recipes := store.NewRecipeStore(db)

	owner := storetest.User(t, db, "owner@example.com")
	other := storetest.User(t, db, "other@example.com")

	recipe := newRecipe(owner.ID, "Original")
	require.NoError(t, recipes.Create(ctx, recipe, []string{"Breakfast"}, []string{"Eggs"}))

	tags := []string{"Lunch"}
	updated, err := recipes.Update(ctx, owner.ID, recipe.ID, store.RecipeChanges{
		Columns: map[string]any{"title": "Renamed", "user_id": other.ID},
		Tags:    &tags,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, owner.ID, updated.UserID)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "Lunch", updated.Tags[0].Name)
	// 未提供的关联保持不变
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, "Eggs", updated.Ingredients[0].Name)

	empty := []string{}
	updated, err = recipes.Update(ctx, owner.ID, recipe.ID, store.RecipeChanges{Ingredients: &empty})
	require.NoError(t, err)
	assert.Empty(t, updated.Ingredients)
}

func TestRecipeDeleteRemovesJoinRows(t *testing.T) {
	db := storetest.NewDB(t)
	ctx := context.Background()
	recipes := store.NewRecipeStore(db)
	owner := storetest.User(t, db, "owner@example.com")

	recipe := newRecipe(owner.ID, "Doomed")
	require.NoError(t, recipes.Create(ctx, recipe, []string{"Soon"}, []string{"Gone"}))
	require.NoError(t, recipes.SetImage(ctx, owner.ID, recipe.ID, "uploads/recipe/a.png"))

	deleted, err := recipes.Delete(ctx, owner.ID, recipe.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted.Image)
	assert.Equal(t, "uploads/recipe/a.png", *deleted.Image)

	var count int64
	require.NoError(t, db.Table("recipe_tags").Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Table("recipe_ingredients").Count(&count).Error)
	assert.Zero(t, count)

	// tag 本身保留
	require.NoError(t, db.Model(&models.Tag{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRecipeCreateReusesConcurrentlyCreatedTag(t *testing.T) {
	db := storetest.NewDB(t)
	ctx := context.Background()
	recipes := store.NewRecipeStore(db)
	user := storetest.User(t, db, "user@example.com")

	// 在查找未命中之后、创建之前，模拟另一个请求插入了同名 tag
	raced := false
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:concurrent_tag", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*models.Tag); !ok || raced || tx.Statement.RowsAffected != 0 {
			return
		}
		raced = true
		_, err := tx.Statement.ConnPool.ExecContext(tx.Statement.Context,
			"INSERT INTO tags (user_id, name) VALUES (?, ?)", user.ID, "Thai")
		require.NoError(t, err)
	}))

	recipe := newRecipe(user.ID, "Thai prawn curry")
	require.NoError(t, recipes.Create(ctx, recipe, []string{"Thai"}, nil))
	require.True(t, raced)
	require.Len(t, recipe.Tags, 1)

	var tags []models.Tag
	require.NoError(t, db.Find(&tags).Error)
	require.Len(t, tags, 1)
	assert.Equal(t, tags[0].ID, recipe.Tags[0].ID)
}
