package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"recipe-app-api/app/server/errs"
	"recipe-app-api/app/server/models"
	"recipe-app-api/app/server/store"
	"recipe-app-api/app/server/storetest"
)

func TestUserCreateRejectsTakenEmail(t *testing.T) {
	db := storetest.NewDB(t)
	ctx := context.Background()
	users := store.NewUserStore(db)

	require.NoError(t, users.Create(ctx, &models.User{Email: "test@example.com", Password: "x", IsActive: true}))

	err := users.Create(ctx, &models.User{Email: "test@example.com", Password: "y", IsActive: true})
	assert.ErrorIs(t, err, errs.ErrDuplicate)

	count, err := users.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestUserUpdateSelectedColumns(t *testing.T) {
	db := storetest.NewDB(t)
	ctx := context.Background()
	users := store.NewUserStore(db)

	user := storetest.User(t, db, "first@example.com")
	storetest.User(t, db, "second@example.com")

	user.Name = "Updated"
	user.Password = "ignored"
	require.NoError(t, users.Update(ctx, user, "name"))

	got, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated", got.Name)
	assert.Equal(t, "!", got.Password)

	user.Email = "second@example.com"
	assert.ErrorIs(t, users.Update(ctx, user, "email"), errs.ErrDuplicate)

	// 修改为自己当前的邮箱不算冲突
	user.Email = "first@example.com"
	assert.NoError(t, users.Update(ctx, user, "email"))
}

func TestUserDeleteCascadesOwnedData(t *testing.T) {
	db := storetest.NewDB(t)
	ctx := context.Background()
	users := store.NewUserStore(db)
	recipes := store.NewRecipeStore(db)
	tokens := store.NewTokenStore(db)

	doomed := storetest.User(t, db, "doomed@example.com")
	survivor := storetest.User(t, db, "survivor@example.com")

	withImage := newRecipe(doomed.ID, "With image")
	require.NoError(t, recipes.Create(ctx, withImage, []string{"Vegan"}, []string{"Kale"}))
	require.NoError(t, recipes.SetImage(ctx, doomed.ID, withImage.ID, "uploads/recipe/kale.jpg"))
	require.NoError(t, recipes.Create(ctx, newRecipe(doomed.ID, "Plain"), nil, nil))
	_, err := tokens.GetOrCreate(ctx, doomed.ID, func() (string, error) { return "doomedkey", nil })
	require.NoError(t, err)

	kept := newRecipe(survivor.ID, "Kept")
	require.NoError(t, recipes.Create(ctx, kept, []string{"Vegan"}, nil))

	images, err := users.Delete(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"uploads/recipe/kale.jpg"}, images)

	_, err = users.GetByID(ctx, doomed.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	_, err = tokens.GetByKey(ctx, "doomedkey")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	require.NoError(t, db.Table("recipe_tags").Count(&count).Error)
	assert.EqualValues(t, 1, count)

	got, err := recipes.Get(ctx, survivor.ID, kept.ID)
	require.NoError(t, err)
	assert.Len(t, got.Tags, 1)

	_, err = users.Delete(ctx, doomed.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUserListPages(t *testing.T) {
	db := storetest.NewDB(t)
	ctx := context.Background()
	users := store.NewUserStore(db)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		storetest.User(t, db, email)
	}

	page, err := users.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "b@example.com", page[0].Email)

	all, err := users.List(ctx, 0, -1)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
