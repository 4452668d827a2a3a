package model

import "time"

// ==================== 状态常量 ====================

const (
	UserRoleAdmin = "admin"
	UserRoleUser  = "user"
)

// SysUser 平台用户账号
type SysUser struct {
	BaseModel
	Username string `gorm:"size:100;uniqueIndex;not null"`
	Password string `gorm:"size:255;not null"` // 哈希密码
	Email    string `gorm:"size:100"`
	Phone    string `gorm:"size:32"`

	// admin (管理员), user (普通卖家)
	Role string `gorm:"size:20;default:'user'"`

	IsActive    bool       `gorm:"default:true"`
	LastLoginAt *time.Time `gorm:"comment:最后登录时间"`
}

func (SysUser) TableName() string {
	return "sys_users"
}
