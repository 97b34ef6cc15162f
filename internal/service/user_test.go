package service

import (
	"context"
	"testing"

	"virapi/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *serviceFixture) userService() UserService {
	return NewUserService(f.users, f.apps)
}

func TestUserRegister(t *testing.T) {
	f := newServiceFixture(t)
	svc := f.userService()

	user, err := svc.Register(context.Background(), &model.RegisterUserRequest{
		VirUID:   "bob",
		Nickname: "Bob",
		Email:    "bob@example.com",
	})
	require.NoError(t, err)
	assert.True(t, user.IsActive())
	assert.Nil(t, user.VirUIDUpdated)
}

func TestUserRegisterDuplicates(t *testing.T) {
	f := newServiceFixture(t)
	svc := f.userService()

	_, err := svc.Register(context.Background(), &model.RegisterUserRequest{VirUID: "alice", Nickname: "Dup"})
	assert.ErrorIs(t, err, ErrVirUIDTaken)

	f.owner.Email = "alice@example.com"
	_, err = svc.Register(context.Background(), &model.RegisterUserRequest{
		VirUID: "carol", Nickname: "Carol", Email: "alice@example.com",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserVirUIDChangeOnce(t *testing.T) {
	f := newServiceFixture(t)
	svc := f.userService()

	app, err := f.appService().Create(context.Background(), f.owner.ID, &model.CreateApplicationRequest{
		Name: "Demo", Slug: "demo",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(context.Background(), f.owner.ID, &model.UpdateProfileRequest{
		Nickname: "Alice",
		VirUID:   "alice-two",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice-two", updated.VirUID)
	assert.NotNil(t, updated.VirUIDUpdated)

	// 名下应用的冗余字段一并改写
	assert.Equal(t, "alice-two", app.VirUID)

	// 第二次修改被拒绝
	_, err = svc.UpdateProfile(context.Background(), f.owner.ID, &model.UpdateProfileRequest{
		Nickname: "Alice",
		VirUID:   "alice-three",
	})
	assert.ErrorIs(t, err, ErrVirUIDLocked)
}

func TestUserProfileNicknameOnly(t *testing.T) {
	f := newServiceFixture(t)
	svc := f.userService()

	updated, err := svc.UpdateProfile(context.Background(), f.owner.ID, &model.UpdateProfileRequest{
		Nickname: "New Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "New Alice", updated.Nickname)
	assert.Equal(t, "alice", updated.VirUID)
	assert.Nil(t, updated.VirUIDUpdated, "nickname-only edit does not burn the vir_uid change")
}
