package handlers

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"recipe-app-api/app/server/accounts"
	"recipe-app-api/app/server/attachments"
	"recipe-app-api/app/server/models"
	"recipe-app-api/app/server/storage"
	"recipe-app-api/app/server/store"
	"recipe-app-api/app/server/tokens"
)

type App struct {
	l           *zap.Logger                             // 日志
	db          *gorm.DB                                // 数据库（健康检查）
	rdb         *redis.Client                           // 缓存（健康检查）
	accounts    *accounts.Manager                       // 用户与密码
	tokens      *tokens.Issuer                          // 登录 token
	users       store.UserRepository                    // 用户
	recipes     store.RecipeRepository                  // 菜谱
	tags        store.AttrRepository[models.Tag]        // 标签
	ingredients store.AttrRepository[models.Ingredient] // 配料
	images      *attachments.ImageHandler               // 图片上传
}

func NewApp(l *zap.Logger, db *gorm.DB, rdb *redis.Client, s storage.Storage) *App {
	users := store.NewUserStore(db)
	recipes := store.NewRecipeStore(db)
	m := accounts.NewManager(users)

	return &App{
		l:           l,
		db:          db,
		rdb:         rdb,
		accounts:    m,
		tokens:      tokens.NewIssuer(store.NewTokenStore(db), m, rdb, l),
		users:       users,
		recipes:     recipes,
		tags:        store.NewTagStore(db),
		ingredients: store.NewIngredientStore(db),
		images:      attachments.NewImageHandler(recipes, s, l),
	}
}
