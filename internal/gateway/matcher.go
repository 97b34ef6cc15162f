package gateway

import (
	"context"
	"net/http"

	"virapi/internal/model"
	"virapi/internal/repository"
)

// Matcher 接口匹配器
//
// 按(应用, 方法, 路径)在接口定义中做全路径精确匹配。创建时接受的
// {name}/{name?} 占位符语法在运行期不展开，保持字面比较；同元组存在
// 多条定义时，创建最晚的一条生效。
type Matcher struct {
	ifaces repository.InterfaceRepository
}

// NewMatcher 创建接口匹配器
func NewMatcher(ifaces repository.InterfaceRepository) *Matcher {
	return &Matcher{ifaces: ifaces}
}

// Match 查找接口定义
//
// 未命中返回400终态；命中后复核所属应用状态（防御接口引用了
// 失效应用的陈旧快照），失效时同样以400终止。
func (m *Matcher) Match(ctx context.Context, app *model.Application, method, uri string) (*model.Interface, *Terminal) {
	iface, err := m.ifaces.Match(ctx, app.ID, method, uri)
	if err != nil {
		return nil, internalTerminal(err)
	}
	if iface == nil {
		return nil, &Terminal{
			Status: http.StatusBadRequest,
			Body:   FailedBody(app.ResponseTemplate, MsgInterfaceInvalid),
		}
	}

	if !app.IsActive() {
		return nil, &Terminal{
			Status: http.StatusBadRequest,
			Body:   FailedBody(app.ResponseTemplate, MsgInterfaceInvalid),
		}
	}

	return iface, nil
}
