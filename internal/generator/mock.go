package generator

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// 规则树展开的保护上限
var (
	ErrTooDeep = errors.New("rule tree exceeds max depth")
)

// Options 生成器配置
type Options struct {
	MaxDepth  int // 规则树最大展开深度
	MaxRepeat int // 数组/字符串最大重复次数
}

// MockGenerator 默认数据生成器
//
// 解释一个Mock.js风格的规则子集：
//   - 对象键 "name|rule"：rule 为 "count" 或 "min-max"，作用于值模板
//     （数组重复、字符串重复、数值取随机、布尔取随机、对象取子集）；
//   - 字符串值中的 "@directive(args)" 占位符：@integer/@float/@boolean/
//     @string/@word/@title/@sentence/@paragraph/@name/@email/@ip/@url/
//     @domain/@uuid/@guid/@id/@date/@time/@datetime/@timestamp 等；
//   - 其余值原样输出。
//
// 未识别的占位符保持原文，规则语法错误返回错误由上层按生成失败处理。
type MockGenerator struct {
	opts Options
}

// NewMockGenerator 创建默认数据生成器
func NewMockGenerator(opts Options) *MockGenerator {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 16
	}
	if opts.MaxRepeat <= 0 {
		opts.MaxRepeat = 100
	}
	return &MockGenerator{opts: opts}
}

// Generate 展开规则树，空规则树返回nil
func (m *MockGenerator) Generate(rules any) (any, error) {
	if rules == nil {
		return nil, nil
	}
	return m.value(rules, 0)
}

// value 展开任意模板节点
func (m *MockGenerator) value(tpl any, depth int) (any, error) {
	if depth > m.opts.MaxDepth {
		return nil, ErrTooDeep
	}

	switch v := tpl.(type) {
	case map[string]any:
		return m.object(v, depth)
	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			gv, err := m.value(item, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, gv)
		}
		return out, nil
	case string:
		return m.str(v), nil
	default:
		// 数字、布尔、null字面量
		return v, nil
	}
}

// object 逐键展开对象模板，键名可携带生成规则
func (m *MockGenerator) object(tpl map[string]any, depth int) (any, error) {
	out := make(map[string]any, len(tpl))
	for key, sub := range tpl {
		name, ruleText := splitKey(key)
		if ruleText == "" {
			gv, err := m.value(sub, depth+1)
			if err != nil {
				return nil, err
			}
			out[name] = gv
			continue
		}

		r, err := parseRule(ruleText)
		if err != nil {
			return nil, fmt.Errorf("invalid rule %q on field %q: %w", ruleText, name, err)
		}

		gv, err := m.applyRule(r, sub, depth)
		if err != nil {
			return nil, err
		}
		out[name] = gv
	}
	return out, nil
}

// applyRule 按值模板类型应用生成规则
func (m *MockGenerator) applyRule(r genRule, sub any, depth int) (any, error) {
	switch tpl := sub.(type) {
	case []any:
		// 重复数组元素，生成 count 个
		n := m.capRepeat(r.count())
		if len(tpl) == 0 {
			return []any{}, nil
		}
		out := make([]any, 0, n)
		for i := 0; i < n; i++ {
			gv, err := m.value(tpl[i%len(tpl)], depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, gv)
		}
		return out, nil
	case string:
		// 重复字符串
		n := m.capRepeat(r.count())
		return strings.Repeat(fmt.Sprint(m.str(tpl)), n), nil
	case bool:
		// 随机布尔，模板值只作类型提示
		return rand.Intn(2) == 0, nil
	case float64:
		if r.isFloat {
			return r.randomFloat(), nil
		}
		return r.randomInt(), nil
	case map[string]any:
		// 随机挑选 count 个属性
		n := m.capRepeat(r.count())
		keys := make([]string, 0, len(tpl))
		for k := range tpl {
			keys = append(keys, k)
		}
		rand.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
		if n > len(keys) {
			n = len(keys)
		}
		out := make(map[string]any, n)
		for _, k := range keys[:n] {
			gv, err := m.value(tpl[k], depth+1)
			if err != nil {
				return nil, err
			}
			out[k] = gv
		}
		return out, nil
	default:
		return m.value(sub, depth+1)
	}
}

func (m *MockGenerator) capRepeat(n int) int {
	if n > m.opts.MaxRepeat {
		return m.opts.MaxRepeat
	}
	if n < 0 {
		return 0
	}
	return n
}

// splitKey 分离字段名与生成规则，规则在第一个 '|' 之后
func splitKey(key string) (name, rule string) {
	if idx := strings.IndexByte(key, '|'); idx >= 0 {
		return key[:idx], key[idx+1:]
	}
	return key, ""
}

// genRule 解析后的键名规则
type genRule struct {
	min, max   int
	dmin, dmax int // 小数位数范围
	isFloat    bool
}

// rulePattern 匹配 "count"、"min-max"、"min-max.dmin-dmax"
var rulePattern = regexp.MustCompile(`^(\d+)(?:-(\d+))?(?:\.(\d+)(?:-(\d+))?)?$`)

// parseRule 解析键名规则文本
func parseRule(text string) (genRule, error) {
	groups := rulePattern.FindStringSubmatch(text)
	if groups == nil {
		return genRule{}, errors.New("unrecognized rule syntax")
	}

	r := genRule{}
	r.min, _ = strconv.Atoi(groups[1])
	r.max = r.min
	if groups[2] != "" {
		r.max, _ = strconv.Atoi(groups[2])
	}
	if r.max < r.min {
		r.min, r.max = r.max, r.min
	}
	if groups[3] != "" {
		r.isFloat = true
		r.dmin, _ = strconv.Atoi(groups[3])
		r.dmax = r.dmin
		if groups[4] != "" {
			r.dmax, _ = strconv.Atoi(groups[4])
		}
		if r.dmax < r.dmin {
			r.dmin, r.dmax = r.dmax, r.dmin
		}
	}
	return r, nil
}

// count 在[min,max]内取随机数
func (r genRule) count() int {
	return r.randomInt()
}

func (r genRule) randomInt() int {
	if r.max <= r.min {
		return r.min
	}
	return r.min + rand.Intn(r.max-r.min+1)
}

func (r genRule) randomFloat() float64 {
	digits := r.dmin
	if r.dmax > r.dmin {
		digits = r.dmin + rand.Intn(r.dmax-r.dmin+1)
	}
	v := float64(r.randomInt()) + rand.Float64()
	scale := 1.0
	for i := 0; i < digits; i++ {
		scale *= 10
	}
	return float64(int(v*scale)) / scale
}

// directivePattern 匹配字符串值中的 @directive(args) 占位符
var directivePattern = regexp.MustCompile(`@([a-z]+)(?:\(([^)]*)\))?`)

// str 展开字符串模板中的占位符；整串恰好为一个占位符时保留类型
func (m *MockGenerator) str(tpl string) any {
	loc := directivePattern.FindStringSubmatchIndex(tpl)
	if loc == nil {
		return tpl
	}

	// 整串为单一占位符：返回原生类型（数字、布尔等）
	if loc[0] == 0 && loc[1] == len(tpl) {
		groups := directivePattern.FindStringSubmatch(tpl)
		if v, ok := evalDirective(groups[1], groups[2]); ok {
			return v
		}
		return tpl
	}

	// 内嵌占位符：逐个替换为字符串形式
	return directivePattern.ReplaceAllStringFunc(tpl, func(match string) string {
		groups := directivePattern.FindStringSubmatch(match)
		if v, ok := evalDirective(groups[1], groups[2]); ok {
			return fmt.Sprint(v)
		}
		return match
	})
}

// evalDirective 求值单个占位符，未识别时ok为false
func evalDirective(name, args string) (any, bool) {
	argv := parseArgs(args)

	switch name {
	case "integer", "natural", "int":
		min, max := 0, 100
		if len(argv) >= 1 {
			min, _ = strconv.Atoi(argv[0])
			max = min + 100
		}
		if len(argv) >= 2 {
			max, _ = strconv.Atoi(argv[1])
		}
		if max < min {
			min, max = max, min
		}
		return min + rand.Intn(max-min+1), true
	case "float":
		min, max := 0.0, 100.0
		if len(argv) >= 1 {
			min, _ = strconv.ParseFloat(argv[0], 64)
			max = min + 100
		}
		if len(argv) >= 2 {
			max, _ = strconv.ParseFloat(argv[1], 64)
		}
		if max < min {
			min, max = max, min
		}
		v := min + rand.Float64()*(max-min)
		return float64(int(v*100)) / 100, true
	case "boolean", "bool":
		return rand.Intn(2) == 0, true
	case "string":
		length := 10
		if len(argv) >= 1 {
			length, _ = strconv.Atoi(argv[0])
		}
		return randomString(length), true
	case "word":
		return pick(words), true
	case "title":
		return strings.Title(pick(words) + " " + pick(words)), true
	case "sentence":
		return randomSentence(), true
	case "paragraph":
		return randomSentence() + " " + randomSentence() + " " + randomSentence(), true
	case "name":
		return pick(firstNames) + " " + pick(lastNames), true
	case "first":
		return pick(firstNames), true
	case "last":
		return pick(lastNames), true
	case "email":
		return strings.ToLower(pick(firstNames)) + strconv.Itoa(rand.Intn(1000)) + "@" + pick(domains), true
	case "ip":
		return fmt.Sprintf("%d.%d.%d.%d", rand.Intn(224), rand.Intn(256), rand.Intn(256), 1+rand.Intn(254)), true
	case "url":
		return "https://" + pick(domains) + "/" + pick(words), true
	case "domain":
		return pick(domains), true
	case "uuid", "guid":
		return uuid.New().String(), true
	case "id":
		return strings.ReplaceAll(uuid.New().String(), "-", ""), true
	case "date":
		return randomTime().Format("2006-01-02"), true
	case "time":
		return randomTime().Format("15:04:05"), true
	case "datetime":
		return randomTime().Format("2006-01-02 15:04:05"), true
	case "now":
		return time.Now().Format("2006-01-02 15:04:05"), true
	case "timestamp":
		return randomTime().Unix(), true
	default:
		return nil, false
	}
}

// parseArgs 拆分占位符参数
func parseArgs(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}
	parts := strings.Split(args, ",")
	for i := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(parts[i]), `"'`)
	}
	return parts
}

const alphanum = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomString(length int) string {
	if length <= 0 {
		length = 10
	}
	b := make([]byte, length)
	for i := range b {
		b[i] = alphanum[rand.Intn(len(alphanum))]
	}
	return string(b)
}

func randomSentence() string {
	n := 5 + rand.Intn(8)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = pick(words)
	}
	s := strings.Join(parts, " ") + "."
	return strings.ToUpper(s[:1]) + s[1:]
}

// randomTime 最近十年内的随机时间
func randomTime() time.Time {
	span := int64(10 * 365 * 24 * 3600)
	return time.Now().Add(-time.Duration(rand.Int63n(span)) * time.Second)
}

func pick(list []string) string {
	return list[rand.Intn(len(list))]
}

var words = []string{
	"mock", "data", "server", "request", "response", "value", "field",
	"random", "sample", "virtual", "cloud", "service", "client", "report",
	"order", "record", "status", "result", "detail", "system",
}

var firstNames = []string{
	"James", "Mary", "Robert", "Linda", "Michael", "Elizabeth",
	"William", "Susan", "David", "Jessica", "Thomas", "Sarah",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia",
	"Miller", "Davis", "Wilson", "Anderson", "Taylor", "Moore",
}

var domains = []string{
	"example.com", "mail.com", "test.org", "demo.net", "sample.io",
}
