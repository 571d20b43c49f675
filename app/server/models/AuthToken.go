package models

import "time"

type AuthToken struct {
	Key       string    `gorm:"column:key;primaryKey;size:40"`        // 随机生成的 token
	UserID    uint      `gorm:"column:user_id;uniqueIndex;not null"` // 每个用户最多一个 token
	CreatedAt time.Time `gorm:"column:created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
