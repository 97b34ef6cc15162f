package version

import (
	"runtime"
)

var (
	// 这些变量会在编译时通过ldflags注入
	Version   = "0.1.0"   // 版本号
	BuildTime = "unknown" // 构建时间
)

// GetVersion 获取版本号
func GetVersion() string {
	return Version
}

// GetVersionInfo 获取详细版本信息
func GetVersionInfo() map[string]string {
	return map[string]string{
		"version":    Version,
		"build_time": BuildTime,
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
	}
}
