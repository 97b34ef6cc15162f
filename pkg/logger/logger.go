package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	debugColor = color.New(color.FgHiBlue)
	infoColor  = color.New(color.FgHiCyan)
	warnColor  = color.New(color.FgHiYellow)
	errorColor = color.New(color.FgHiRed)
	fatalColor = color.New(color.FgHiRed, color.Bold)
)

type rule struct {
	pattern string
	color   *color.Color
}

// 关键词高亮规则
var highlightRules = []rule{
	// 错误相关
	{`(?i)(error|exception|panic)`, color.New(color.FgHiRed)},
	{`(?i)(failed|fail)`, color.New(color.FgRed)},

	// IP地址
	{`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`, color.New(color.FgHiBlue)},

	// HTTP方法
	{`(?i)\b(GET|POST|PUT|DELETE)\b`, color.New(color.FgBlue)},

	// HTTP状态码
	{`\b([345]\d{2})\b`, color.New(color.FgHiRed)},
	{`\b(2\d{2})\b`, color.New(color.FgHiGreen)},

	// 键值
	{`([a-zA-Z_][a-zA-Z0-9_]*=)`, color.New(color.FgHiCyan)},

	// 方括号内容
	{`\[(.*?)\]`, color.New(color.FgBlue)},
}

// combinedRegex 用于一次性匹配全部规则的大正则
var combinedRegex *regexp.Regexp

// colorMap[i] 表示第 i 个捕获组对应的颜色
var colorMap []*color.Color

// fileSink 可选的滚动日志文件输出
var fileSink io.Writer

// colorWriter 为标准库 logger 的输出目标
type colorWriter struct{}

// syncPool 管理临时的 strings.Builder，降低内存分配
var syncPool = sync.Pool{
	New: func() interface{} {
		return new(strings.Builder)
	},
}

// FileConfig 日志文件输出配置
type FileConfig struct {
	File       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
}

// SetFileOutput 开启滚动日志文件输出（不带颜色）
func SetFileOutput(cfg FileConfig) {
	if cfg.File == "" {
		return
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 100
	}
	fileSink = &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
	}
}

// Write 实现 io.Writer 接口
func (cw *colorWriter) Write(p []byte) (int, error) {
	return writeLine(p)
}

// writeLine 生成日志前缀(时间、文件、行号、级别标识)并输出
func writeLine(bytes []byte) (int, error) {
	_, file, line, ok := runtime.Caller(5) // 与外层包裹的调用栈层级对应
	if !ok {
		file = "???"
		line = 0
	}
	file = filepath.Base(file)
	now := time.Now().Format("2006/01/02 15:04:05.000")

	msg := string(bytes)
	upperMsg := strings.ToUpper(msg)

	// 根据前缀判断日志级别
	var levelColor *color.Color
	var levelTag string
	switch {
	case strings.Contains(upperMsg, "[DEBUG]"):
		levelColor = debugColor
		levelTag = "[DEBUG]"
	case strings.Contains(upperMsg, "[INFO]"):
		levelColor = infoColor
		levelTag = "[INFO]"
	case strings.Contains(upperMsg, "[WARN]"):
		levelColor = warnColor
		levelTag = "[WARN]"
	case strings.Contains(upperMsg, "[ERROR]"):
		levelColor = errorColor
		levelTag = "[ERROR]"
	case strings.Contains(upperMsg, "[FATAL]"):
		levelColor = fatalColor
		levelTag = "[FATAL]"
	default:
		levelColor = infoColor
		levelTag = ""
	}

	// 移除级别标记，避免被正则重复匹配
	if levelTag != "" {
		msg = strings.Replace(msg, levelTag, "", 1)
	}
	msg = strings.TrimSpace(msg)

	prefix := fmt.Sprintf("%s %s:%d", now, file, line)

	// 文件输出不带颜色
	if fileSink != nil {
		plain := prefix
		if levelTag != "" {
			plain += " " + levelTag
		}
		_, _ = io.WriteString(fileSink, plain+" "+msg+"\n")
	}

	sb := syncPool.Get().(*strings.Builder)
	defer syncPool.Put(sb)
	sb.Reset()

	sb.WriteString(color.New(color.FgHiBlue).Sprint(prefix))
	sb.WriteByte(' ')

	if levelTag != "" {
		sb.WriteString(levelColor.Sprint(levelTag))
		sb.WriteByte(' ')
	}

	sb.WriteString(highlightMessage(msg))
	sb.WriteByte('\n')

	_, _ = os.Stdout.WriteString(sb.String())

	return len(bytes), nil
}

// highlightMessage 用大正则一次性找出所有命中规则的子匹配组，再做区间着色
func highlightMessage(msg string) string {
	matches := combinedRegex.FindAllStringSubmatchIndex(msg, -1)
	if len(matches) == 0 {
		return msg
	}

	type interval struct {
		start int
		end   int
		color *color.Color
	}
	var intervals []interval

	for _, m := range matches {
		subCount := len(m)/2 - 1 // 0号是整条匹配，后面才是各捕获组
		for i := 0; i < subCount && i < len(colorMap); i++ {
			grpStart := m[2+2*i]
			grpEnd := m[2+2*i+1]
			if grpStart >= 0 && grpEnd >= 0 && grpEnd <= len(msg) {
				intervals = append(intervals, interval{
					start: grpStart,
					end:   grpEnd,
					color: colorMap[i],
				})
			}
		}
	}

	if len(intervals) == 0 {
		return msg
	}

	var result strings.Builder
	result.Grow(len(msg))

	cur := 0
	for i := 0; i < len(intervals); i++ {
		iv := intervals[i]
		if iv.start < cur {
			// 已被前一个区间覆盖
			continue
		}
		if iv.start > cur {
			result.WriteString(msg[cur:iv.start])
		}
		result.WriteString(iv.color.Sprint(msg[iv.start:iv.end]))
		cur = iv.end
	}
	if cur < len(msg) {
		result.WriteString(msg[cur:])
	}
	return result.String()
}

func init() {
	// 构造单一大正则，每个规则占一个捕获组
	var sb strings.Builder
	sb.Grow(512)

	colorMap = make([]*color.Color, 0, len(highlightRules))

	sb.WriteByte('(')
	for i, r := range highlightRules {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString("(")
		sb.WriteString(r.pattern)
		sb.WriteString(")")
		colorMap = append(colorMap, r.color)
	}
	sb.WriteByte(')')

	combinedRegex = regexp.MustCompile(sb.String())

	// 替换标准库日志输出
	log.SetOutput(&colorWriter{})
	log.SetFlags(0)
}

func Debug(format string, v ...interface{}) {
	log.Printf("[DEBUG] "+format, v...)
}

func Info(format string, v ...interface{}) {
	log.Printf("[INFO] "+format, v...)
}

func Warn(format string, v ...interface{}) {
	log.Printf("[WARN] "+format, v...)
}

func Error(format string, v ...interface{}) {
	log.Printf("[ERROR] "+format, v...)
}

func Fatal(format string, v ...interface{}) {
	log.Printf("[FATAL] "+format, v...)
	os.Exit(1)
}
