package models

type Tag struct {
	ID     uint   `gorm:"primarykey"`
	UserID uint   `gorm:"column:user_id;not null;uniqueIndex:idx_tags_user_name"`
	Name   string `gorm:"column:name;size:255;not null;uniqueIndex:idx_tags_user_name"` // 同一用户内唯一

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
