package service

import (
	"context"
	"time"

	"virapi/internal/model"
	"virapi/internal/repository"
	"virapi/pkg/logger"
)

// UserService 用户管理服务接口
type UserService interface {
	Register(ctx context.Context, req *model.RegisterUserRequest) (*model.User, error)
	Get(ctx context.Context, uid string) (*model.User, error)
	GetByVirUID(ctx context.Context, virUID string) (*model.User, error)
	UpdateProfile(ctx context.Context, uid string, req *model.UpdateProfileRequest) (*model.User, error)
}

// userService 用户管理服务实现
type userService struct {
	users repository.UserRepository
	apps  repository.ApplicationRepository
}

// NewUserService 创建用户管理服务
func NewUserService(users repository.UserRepository, apps repository.ApplicationRepository) UserService {
	return &userService{users: users, apps: apps}
}

// Register 创建用户
func (s *userService) Register(ctx context.Context, req *model.RegisterUserRequest) (*model.User, error) {
	exist, err := s.users.GetByVirUID(ctx, req.VirUID)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrVirUIDTaken
	}

	if req.Email != "" {
		exist, err := s.users.GetByEmail(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if exist != nil {
			return nil, ErrEmailTaken
		}
	}

	user := &model.User{
		VirUID:   req.VirUID,
		Nickname: req.Nickname,
		Email:    req.Email,
		Status:   model.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get 获取用户
func (s *userService) Get(ctx context.Context, uid string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetByVirUID 通过公开标识获取用户
func (s *userService) GetByVirUID(ctx context.Context, virUID string) (*model.User, error) {
	user, err := s.users.GetByVirUID(ctx, virUID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile 编辑个人资料
//
// vir_uid只允许修改一次：vir_uid_updated非空后，后续修改请求直接拒绝。
// 改名成功后同步更新名下应用的冗余vir_uid字段。
func (s *userService) UpdateProfile(ctx context.Context, uid string, req *model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	changeVirUID := req.VirUID != "" && req.VirUID != user.VirUID
	if changeVirUID {
		if user.VirUIDUpdated != nil {
			return nil, ErrVirUIDLocked
		}
		exist, err := s.users.GetByVirUID(ctx, req.VirUID)
		if err != nil {
			return nil, err
		}
		if exist != nil {
			return nil, ErrVirUIDTaken
		}
	}

	if req.Email != "" && req.Email != user.Email {
		exist, err := s.users.GetByEmail(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if exist != nil {
			return nil, ErrEmailTaken
		}
		user.Email = req.Email
	}

	user.Nickname = req.Nickname
	if changeVirUID {
		user.VirUID = req.VirUID
		now := time.Now()
		user.VirUIDUpdated = &now
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if changeVirUID {
		if err := s.apps.UpdateOwnerVirUID(ctx, uid, req.VirUID); err != nil {
			logger.Warn("failed to sync vir_uid to applications of user %s: %v", uid, err)
		}
	}

	return user, nil
}
