package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RuleTree 接口响应数据生成规则（不透明JSON列）
//
// 网关不解释其内部结构，整体交给数据生成器展开。
type RuleTree json.RawMessage

// Scan 处理数据库读取时的反序列化
func (r *RuleTree) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		*r = append((*r)[0:0], v...)
		return nil
	case string:
		*r = RuleTree(v)
		return nil
	case nil:
		*r = nil
		return nil
	default:
		return errors.New("unsupported response_rules column type")
	}
}

// Value 处理数据库写入时的序列化
func (r RuleTree) Value() (driver.Value, error) {
	if len(r) == 0 {
		return nil, nil
	}
	return []byte(r), nil
}

// MarshalJSON 实现json.Marshaler
func (r RuleTree) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

// UnmarshalJSON 实现json.Unmarshaler
func (r *RuleTree) UnmarshalJSON(data []byte) error {
	*r = append((*r)[0:0], data...)
	return nil
}

// Decode 将规则树展开为通用值，空规则树返回nil
func (r RuleTree) Decode() (any, error) {
	if len(r) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(r, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Interface 接口（Mock API定义）实体
type Interface struct {
	ID            string    `gorm:"type:uuid;primary_key" json:"id"`
	AppID         string    `gorm:"column:app_id;type:uuid;not null;index:idx_iface_match" json:"app_id"`
	AppSlug       string    `gorm:"column:app_slug;type:varchar(20);not null" json:"app_slug"`
	UID           string    `gorm:"column:uid;type:uuid;not null;index" json:"uid"`
	VirUID        string    `gorm:"column:vir_uid;type:varchar(24);not null" json:"vir_uid"`
	Name          string    `gorm:"type:varchar(60);not null" json:"name"`
	Describe      string    `gorm:"type:varchar(200)" json:"describe"`
	URI           string    `gorm:"type:varchar(100);not null;index:idx_iface_match" json:"uri"`
	Method        string    `gorm:"type:varchar(8);default:GET;index:idx_iface_match" json:"method"`
	ResponseRules RuleTree  `gorm:"column:response_rules;type:jsonb" json:"response_rules"`
	Creator       string    `gorm:"type:uuid" json:"creator"`
	Status        int       `gorm:"type:int;default:1" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Interface) TableName() string {
	return "interfaces"
}

// BeforeCreate GORM的钩子，在创建记录前自动生成UUID
func (i *Interface) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}
