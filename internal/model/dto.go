package model

import "time"

// CreateApplicationRequest 创建应用请求
type CreateApplicationRequest struct {
	Name             string            `json:"name" binding:"required,min=2,max=36"`
	Slug             string            `json:"slug" binding:"required,app_slug"`
	VerifyRule       string            `json:"verify_rule" binding:"omitempty,oneof=param header compatible"`
	Describe         string            `json:"describe" binding:"max=200"`
	ResponseTemplate *ResponseTemplate `json:"response_template"`
}

// UpdateApplicationRequest 更新应用请求
type UpdateApplicationRequest struct {
	Name             string            `json:"name" binding:"required,min=2,max=36"`
	VerifyRule       string            `json:"verify_rule" binding:"omitempty,oneof=param header compatible"`
	Describe         string            `json:"describe" binding:"max=200"`
	Status           *AppStatus        `json:"status" binding:"omitempty,oneof=0 1"`
	ResponseTemplate *ResponseTemplate `json:"response_template"`
}

// CreateInterfaceRequest 创建接口请求
type CreateInterfaceRequest struct {
	AppID         string   `json:"app_id" binding:"required,uuid"`
	Name          string   `json:"name" binding:"required,min=2,max=60"`
	URI           string   `json:"uri" binding:"required,mock_uri"`
	Method        string   `json:"method" binding:"required,oneof=GET POST PUT DELETE"`
	Describe      string   `json:"describe" binding:"max=200"`
	ResponseRules RuleTree `json:"response_rules"`
}

// UpdateInterfaceRequest 更新接口请求
type UpdateInterfaceRequest struct {
	Name          string   `json:"name" binding:"required,min=2,max=60"`
	URI           string   `json:"uri" binding:"required,mock_uri"`
	Method        string   `json:"method" binding:"required,oneof=GET POST PUT DELETE"`
	Describe      string   `json:"describe" binding:"max=200"`
	ResponseRules RuleTree `json:"response_rules"`
}

// DebugInterfaceRequest 接口调试请求：不经网关直接预览一次响应
type DebugInterfaceRequest struct {
	ResponseRules RuleTree `json:"response_rules"`
}

// LoginRequest 控制台登录请求：管理密钥选定身份，vir_uid选定工作区
type LoginRequest struct {
	AdminKey string `json:"admin_key" binding:"required"`
	VirUID   string `json:"vir_uid" binding:"required,vir_uid"`
}

// LoginResponse 控制台登录响应
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// RegisterUserRequest 创建用户请求
type RegisterUserRequest struct {
	AdminKey string `json:"admin_key" binding:"required"`
	VirUID   string `json:"vir_uid" binding:"required,vir_uid"`
	Nickname string `json:"nickname" binding:"required,min=2,max=20"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// UpdateProfileRequest 编辑个人资料请求
type UpdateProfileRequest struct {
	Nickname string `json:"nickname" binding:"required,min=2,max=20"`
	VirUID   string `json:"vir_uid" binding:"omitempty,vir_uid"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// AccountResponse 当前账号信息
type AccountResponse struct {
	VirUID        string     `json:"vir_uid"`
	Nickname      string     `json:"nickname"`
	Email         string     `json:"email"`
	AppsCount     int        `json:"apps_count"`
	VirUIDUpdated *time.Time `json:"vir_uid_updated"`
	Created       time.Time  `json:"created"`
}
