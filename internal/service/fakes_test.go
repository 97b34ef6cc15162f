package service

import (
	"context"
	"sort"
	"strconv"
	"time"

	"virapi/internal/model"
)

// memUserRepo 内存用户仓储
type memUserRepo struct {
	users map[string]*model.User // keyed by id
	seq   int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*model.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		r.seq++
		user.ID = "u-" + strconv.Itoa(r.seq)
	}
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.users[id], nil
}

func (r *memUserRepo) GetByVirUID(ctx context.Context, virUID string) (*model.User, error) {
	for _, u := range r.users {
		if u.VirUID == virUID {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) IncrAppsCount(ctx context.Context, id string, delta int) error {
	if u, ok := r.users[id]; ok {
		u.AppsCount += delta
	}
	return nil
}

func (r *memUserRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

// memAppRepo 内存应用仓储
type memAppRepo struct {
	apps map[string]*model.Application
	seq  int
}

func newMemAppRepo() *memAppRepo {
	return &memAppRepo{apps: map[string]*model.Application{}}
}

func (r *memAppRepo) Create(ctx context.Context, app *model.Application) error {
	if app.ID == "" {
		r.seq++
		app.ID = "a-" + strconv.Itoa(r.seq)
	}
	if app.AppKey == "" {
		app.AppKey = "key-" + app.ID
	}
	if app.ResponseTemplate.CodeName == "" {
		app.ResponseTemplate = model.DefaultResponseTemplate()
	}
	app.CreatedAt = time.Now()
	r.apps[app.ID] = app
	return nil
}

func (r *memAppRepo) GetByID(ctx context.Context, id string) (*model.Application, error) {
	return r.apps[id], nil
}

func (r *memAppRepo) GetByOwnerAndSlug(ctx context.Context, uid, slug string) (*model.Application, error) {
	for _, a := range r.apps {
		if a.UID == uid && a.Slug == slug {
			return a, nil
		}
	}
	return nil, nil
}

func (r *memAppRepo) ListByOwner(ctx context.Context, uid string, offset, limit int) ([]model.Application, int64, error) {
	var out []model.Application
	for _, a := range r.apps {
		if a.UID == uid && a.Status != model.AppStatusDeleted {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *memAppRepo) Update(ctx context.Context, app *model.Application) error {
	r.apps[app.ID] = app
	return nil
}

func (r *memAppRepo) Delete(ctx context.Context, id string) error {
	if a, ok := r.apps[id]; ok {
		a.Status = model.AppStatusDeleted
	}
	return nil
}

func (r *memAppRepo) IncrAPICount(ctx context.Context, id string, delta int) error {
	if a, ok := r.apps[id]; ok {
		a.APICount += delta
	}
	return nil
}

func (r *memAppRepo) SetAPICount(ctx context.Context, id string, count int) error {
	if a, ok := r.apps[id]; ok {
		a.APICount = count
	}
	return nil
}

func (r *memAppRepo) UpdateOwnerVirUID(ctx context.Context, uid, virUID string) error {
	for _, a := range r.apps {
		if a.UID == uid {
			a.VirUID = virUID
		}
	}
	return nil
}

func (r *memAppRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.apps)), nil
}

// memIfaceRepo 内存接口仓储
type memIfaceRepo struct {
	ifaces map[string]*model.Interface
	seq    int
}

func newMemIfaceRepo() *memIfaceRepo {
	return &memIfaceRepo{ifaces: map[string]*model.Interface{}}
}

func (r *memIfaceRepo) Create(ctx context.Context, iface *model.Interface) error {
	if iface.ID == "" {
		r.seq++
		iface.ID = "i-" + strconv.Itoa(r.seq)
	}
	iface.CreatedAt = time.Now()
	r.ifaces[iface.ID] = iface
	return nil
}

func (r *memIfaceRepo) GetByID(ctx context.Context, id string) (*model.Interface, error) {
	return r.ifaces[id], nil
}

func (r *memIfaceRepo) Match(ctx context.Context, appID, method, uri string) (*model.Interface, error) {
	var best *model.Interface
	for _, i := range r.ifaces {
		if i.AppID != appID || i.Method != method || i.URI != uri {
			continue
		}
		if best == nil || i.CreatedAt.After(best.CreatedAt) {
			best = i
		}
	}
	return best, nil
}

func (r *memIfaceRepo) ListByApp(ctx context.Context, appID string, offset, limit int) ([]model.Interface, int64, error) {
	var out []model.Interface
	for _, i := range r.ifaces {
		if i.AppID == appID {
			out = append(out, *i)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *memIfaceRepo) FindConflict(ctx context.Context, appID, name, method, uri, excludeID string) (*model.Interface, error) {
	for _, i := range r.ifaces {
		if i.AppID != appID || i.ID == excludeID {
			continue
		}
		if i.Name == name || (i.Method == method && i.URI == uri) {
			return i, nil
		}
	}
	return nil, nil
}

func (r *memIfaceRepo) CountByApp(ctx context.Context, appID string) (int64, error) {
	var n int64
	for _, i := range r.ifaces {
		if i.AppID == appID {
			n++
		}
	}
	return n, nil
}

func (r *memIfaceRepo) Update(ctx context.Context, iface *model.Interface) error {
	r.ifaces[iface.ID] = iface
	return nil
}

func (r *memIfaceRepo) Delete(ctx context.Context, id string) error {
	delete(r.ifaces, id)
	return nil
}

func (r *memIfaceRepo) DeleteByApp(ctx context.Context, appID string) error {
	for id, i := range r.ifaces {
		if i.AppID == appID {
			delete(r.ifaces, id)
		}
	}
	return nil
}
