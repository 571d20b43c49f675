package models

import (
	"github.com/shopspring/decimal"
	"time"
)

type Recipe struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	// 所属用户，创建后不可更改
	UserID uint  `gorm:"column:user_id;not null;index"`
	User   *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	// 基础信息
	Title       string          `gorm:"column:title;size:255;not null"`
	TimeMinutes int             `gorm:"column:time_minutes;not null"`           // 预计耗时（分钟）
	Price       decimal.Decimal `gorm:"column:price;type:numeric(5,2);not null"` // 定点小数
	Description string          `gorm:"column:description;type:text"`
	Link        string          `gorm:"column:link;size:255"`

	// 图片在存储中的路径，没有上传时为 NULL
	Image *string `gorm:"column:image;size:255"`

	Tags        []Tag        `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []Ingredient `gorm:"many2many:recipe_ingredients;constraint:OnDelete:CASCADE"`
}
