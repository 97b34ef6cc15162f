package generator

// Generator 数据生成器策略接口
//
// 网关把接口定义中的响应规则树整体交给生成器展开，自身不解释其结构。
// 实现必须容忍空规则树（返回nil），且每次调用独立随机。
type Generator interface {
	Generate(rules any) (any, error)
}

// Func 函数适配器
type Func func(rules any) (any, error)

// Generate 实现Generator接口
func (f Func) Generate(rules any) (any, error) {
	return f(rules)
}
