package service

import (
	"context"
	"testing"

	"virapi/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	users  *memUserRepo
	apps   *memAppRepo
	ifaces *memIfaceRepo
	owner  *model.User
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		users:  newMemUserRepo(),
		apps:   newMemAppRepo(),
		ifaces: newMemIfaceRepo(),
	}
	f.owner = &model.User{VirUID: "alice", Nickname: "Alice", Status: model.UserStatusActive}
	require.NoError(t, f.users.Create(context.Background(), f.owner))
	return f
}

func (f *serviceFixture) appService() ApplicationService {
	return NewApplicationService(f.apps, f.users, f.ifaces)
}

func TestApplicationCreate(t *testing.T) {
	f := newServiceFixture(t)
	svc := f.appService()

	app, err := svc.Create(context.Background(), f.owner.ID, &model.CreateApplicationRequest{
		Name: "Demo",
		Slug: "demo",
	})
	require.NoError(t, err)

	assert.Equal(t, "demo", app.Slug)
	assert.Equal(t, "alice", app.VirUID)
	assert.Equal(t, model.VerifyRuleCompatible, app.VerifyRule, "missing verify_rule defaults to compatible")
	assert.NotEmpty(t, app.AppKey)
	assert.Equal(t, 1, f.owner.AppsCount)
}

func TestApplicationCreateSlugTaken(t *testing.T) {
	f := newServiceFixture(t)
	svc := f.appService()

	_, err := svc.Create(context.Background(), f.owner.ID, &model.CreateApplicationRequest{Name: "One", Slug: "demo"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), f.owner.ID, &model.CreateApplicationRequest{Name: "Two", Slug: "demo"})
	assert.ErrorIs(t, err, ErrAppSlugTaken)
}

func TestApplicationCreateFrozenUser(t *testing.T) {
	f := newServiceFixture(t)
	f.owner.Status = model.UserStatusFrozen

	_, err := f.appService().Create(context.Background(), f.owner.ID, &model.CreateApplicationRequest{Name: "X", Slug: "x1"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestApplicationGetEnforcesOwnership(t *testing.T) {
	f := newServiceFixture(t)
	svc := f.appService()

	app, err := svc.Create(context.Background(), f.owner.ID, &model.CreateApplicationRequest{Name: "Demo", Slug: "demo"})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "someone-else", app.ID)
	assert.ErrorIs(t, err, ErrAppNotFound)

	got, err := svc.Get(context.Background(), f.owner.ID, app.ID)
	require.NoError(t, err)
	assert.Equal(t, app.ID, got.ID)
}

func TestApplicationDeleteCascades(t *testing.T) {
	f := newServiceFixture(t)
	svc := f.appService()

	app, err := svc.Create(context.Background(), f.owner.ID, &model.CreateApplicationRequest{Name: "Demo", Slug: "demo"})
	require.NoError(t, err)
	require.NoError(t, f.ifaces.Create(context.Background(), &model.Interface{AppID: app.ID, UID: f.owner.ID, Name: "a", URI: "/a", Method: "GET"}))

	require.NoError(t, svc.Delete(context.Background(), f.owner.ID, app.ID))

	// 软删除：实体保留但列表与查询都不再可见
	assert.Equal(t, model.AppStatusDeleted, f.apps.apps[app.ID].Status)
	_, err = svc.Get(context.Background(), f.owner.ID, app.ID)
	assert.ErrorIs(t, err, ErrAppNotFound)

	n, _ := f.ifaces.CountByApp(context.Background(), app.ID)
	assert.Zero(t, n)
	assert.Equal(t, 0, f.owner.AppsCount)
}

func TestApplicationResetKey(t *testing.T) {
	f := newServiceFixture(t)
	svc := f.appService()

	app, err := svc.Create(context.Background(), f.owner.ID, &model.CreateApplicationRequest{Name: "Demo", Slug: "demo"})
	require.NoError(t, err)
	oldKey := app.AppKey

	reset, err := svc.ResetKey(context.Background(), f.owner.ID, app.ID)
	require.NoError(t, err)
	assert.NotEqual(t, oldKey, reset.AppKey)
}

func TestApplicationUpdateTemplate(t *testing.T) {
	f := newServiceFixture(t)
	svc := f.appService()

	app, err := svc.Create(context.Background(), f.owner.ID, &model.CreateApplicationRequest{Name: "Demo", Slug: "demo"})
	require.NoError(t, err)

	tpl := model.ResponseTemplate{CodeName: "status", SucceedCodeValue: "1", FailedCodeValue: "0"}
	updated, err := svc.Update(context.Background(), f.owner.ID, app.ID, &model.UpdateApplicationRequest{
		Name:             "Renamed",
		VerifyRule:       model.VerifyRuleHeader,
		ResponseTemplate: &tpl,
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, model.VerifyRuleHeader, updated.VerifyRule)
	assert.Equal(t, "status", updated.ResponseTemplate.CodeName)
}
