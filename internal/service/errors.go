package service

import "errors"

var (
	// ErrUserNotFound 用户不存在或不可用
	ErrUserNotFound = errors.New("user not found")
	// ErrVirUIDTaken 公开用户标识已被占用
	ErrVirUIDTaken = errors.New("vir_uid already taken")
	// ErrVirUIDLocked 公开用户标识只允许修改一次
	ErrVirUIDLocked = errors.New("vir_uid can only be changed once")
	// ErrEmailTaken 邮箱已被占用
	ErrEmailTaken = errors.New("email already taken")
	// ErrAdminKeyInvalid 控制台管理密钥错误
	ErrAdminKeyInvalid = errors.New("invalid admin key")
	// ErrAppNotFound 应用不存在或无权限
	ErrAppNotFound = errors.New("application not found")
	// ErrAppSlugTaken 应用slug已被占用
	ErrAppSlugTaken = errors.New("application slug already taken")
	// ErrAppInactive 应用状态不可用
	ErrAppInactive = errors.New("application is not active")
	// ErrInterfaceNotFound 接口不存在或无权限
	ErrInterfaceNotFound = errors.New("interface not found")
	// ErrInterfaceNameTaken 同应用下接口名已存在
	ErrInterfaceNameTaken = errors.New("interface name already taken")
	// ErrInterfaceURITaken 同应用同方法下uri已存在
	ErrInterfaceURITaken = errors.New("interface uri already taken")
	// ErrTooManyInterfaces 超出单应用接口数量上限
	ErrTooManyInterfaces = errors.New("too many interfaces for this application")
)
