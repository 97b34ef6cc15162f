package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserStatus 用户状态
type UserStatus int

const (
	UserStatusFrozen UserStatus = iota // 冻结
	UserStatusActive                   // 正常
)

// User 用户实体
//
// VirUID 是对外公开的用户标识，出现在 /api/{vir_uid}/... 网关URL中，
// 与内部ID相互独立，全局唯一。
type User struct {
	ID            string     `gorm:"type:uuid;primary_key" json:"id"`
	VirUID        string     `gorm:"column:vir_uid;type:varchar(24);not null;unique" json:"vir_uid"`
	VirUIDUpdated *time.Time `gorm:"column:vir_uid_updated" json:"vir_uid_updated"` // 一次性修改标记，非空表示已用过修改机会
	Nickname      string     `gorm:"type:varchar(20)" json:"nickname"`
	Email         string     `gorm:"type:varchar(100)" json:"email"`
	AppsCount     int        `gorm:"default:0" json:"apps_count"`
	Status        UserStatus `gorm:"type:int;default:1" json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// BeforeCreate GORM的钩子，在创建记录前自动生成UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// IsActive 用户是否可用
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
