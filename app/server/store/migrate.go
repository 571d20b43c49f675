package store

import (
	"errors"
	"gorm.io/gorm"
	"recipe-app-api/app/server/errs"
	"recipe-app-api/app/server/models"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.AuthToken{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
	)
}

// translate maps gorm errors onto the errs kinds the handlers understand.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errs.ErrDuplicate
	default:
		return err
	}
}
