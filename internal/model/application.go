package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppStatus 应用状态
type AppStatus int

const (
	AppStatusFrozen  AppStatus = 0  // 冻结
	AppStatusActive  AppStatus = 1  // 正常
	AppStatusDeleted AppStatus = -1 // 软删除
)

// 令牌携带方式
const (
	VerifyRuleParam      = "param"      // 查询参数 _token
	VerifyRuleHeader     = "header"     // 请求头 app-token
	VerifyRuleCompatible = "compatible" // 请求头优先，其次查询参数
)

// uintPattern 用于响应码的数值归一化
var uintPattern = regexp.MustCompile(`^\d+$`)

// ResponseTemplate 应用响应包裹模板（值对象，JSON列）
//
// CodeName 必填；MessageName/DataName 为可选开关，留空时响应体中
// 对应字段整体省略。
type ResponseTemplate struct {
	CodeName            string `json:"code_name"`
	SucceedCodeValue    any    `json:"succeed_code_value"`
	FailedCodeValue     any    `json:"failed_code_value"`
	DataName            string `json:"data_name,omitempty"`
	MessageName         string `json:"message_name,omitempty"`
	SucceedMessageValue string `json:"succeed_message_value,omitempty"`
	FailedMessageValue  string `json:"failed_message_value,omitempty"`
}

// DefaultResponseTemplate 全局默认响应模板
func DefaultResponseTemplate() ResponseTemplate {
	return ResponseTemplate{
		CodeName:            "code",
		SucceedCodeValue:    200,
		FailedCodeValue:     1000,
		DataName:            "data",
		MessageName:         "message",
		SucceedMessageValue: "Succeed",
		FailedMessageValue:  "Failed",
	}
}

// Scan 处理数据库读取时的反序列化
func (t *ResponseTemplate) Scan(value interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	case nil:
		*t = DefaultResponseTemplate()
		return nil
	default:
		return errors.New("unsupported response_template column type")
	}
	return json.Unmarshal(bytes, t)
}

// Value 处理数据库写入时的序列化
func (t ResponseTemplate) Value() (driver.Value, error) {
	return json.Marshal(t)
}

// NormalizedCode 对响应码做数值归一化：字符串形态的无符号整数转为整型，
// JSON反序列化产生的整数值浮点同样归一为整型，保证模板作者用字符串书写的
// 数字码在线上仍以数字下发。
func NormalizedCode(v any) any {
	switch code := v.(type) {
	case string:
		if uintPattern.MatchString(code) {
			if n, err := strconv.Atoi(code); err == nil {
				return n
			}
		}
		return code
	case float64:
		if code == math.Trunc(code) {
			return int(code)
		}
		return code
	default:
		return v
	}
}

// Application 应用实体
type Application struct {
	ID               string           `gorm:"type:uuid;primary_key" json:"id"`
	UID              string           `gorm:"column:uid;type:uuid;not null;index:idx_app_owner_slug,unique" json:"uid"`
	VirUID           string           `gorm:"column:vir_uid;type:varchar(24);not null" json:"vir_uid"`
	Name             string           `gorm:"type:varchar(36);not null" json:"name"`
	Slug             string           `gorm:"type:varchar(20);not null;index:idx_app_owner_slug,unique" json:"slug"` // (uid,slug)联合唯一
	AppKey           string           `gorm:"column:app_key;type:varchar(64);not null" json:"app_key"`
	VerifyRule       string           `gorm:"column:verify_rule;type:varchar(16);default:compatible" json:"verify_rule"`
	APICount         int              `gorm:"column:api_count;default:0" json:"api_count"`
	Describe         string           `gorm:"type:varchar(200)" json:"describe"`
	Status           AppStatus        `gorm:"type:int;default:1" json:"status"`
	ResponseTemplate ResponseTemplate `gorm:"column:response_template;type:jsonb" json:"response_template"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// TableName 指定表名
func (Application) TableName() string {
	return "applications"
}

// BeforeCreate GORM的钩子，在创建记录前自动生成UUID和应用密钥
func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.AppKey == "" {
		a.AppKey = uuid.New().String()
	}
	if a.ResponseTemplate.CodeName == "" {
		a.ResponseTemplate = DefaultResponseTemplate()
	}
	return nil
}

// IsActive 应用是否可服务
func (a *Application) IsActive() bool {
	return a.Status == AppStatusActive
}
