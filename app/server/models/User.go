package models

import "time"

// 不使用 gorm.Model ：删除即真实删除，不做软删除
type User struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	// 基础信息
	Email string `gorm:"column:email;size:255;uniqueIndex;not null"` // 邮箱，全局唯一，域名部分小写
	Name  string `gorm:"column:name;size:255"`                       // 显示名称

	// 权限
	IsActive    bool `gorm:"column:is_active;not null"`    // 停用的用户无法登录
	IsStaff     bool `gorm:"column:is_staff;not null"`     // 可以访问管理接口
	IsSuperuser bool `gorm:"column:is_superuser;not null"` // 超级用户

	// 登录认证相关
	Password string `gorm:"column:password;not null" json:"-"` // 密码，使用 argon2id 储存
}
