package config

import (
	"fmt"

	"virapi/pkg/database"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  database.Config `mapstructure:"database"`
	MongoDB   MongoDBConfig   `mapstructure:"mongodb"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Console   ConsoleConfig   `mapstructure:"console"`
	Audit     AuditConfig     `mapstructure:"audit"`
	Generator GeneratorConfig `mapstructure:"generator"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int
	Mode string
}

// LogConfig 运行日志输出配置
type LogConfig struct {
	File       string `mapstructure:"file"`        // 日志文件路径，为空时仅输出到控制台
	MaxSize    int    `mapstructure:"max_size"`    // 单个日志文件最大大小(MB)
	MaxBackups int    `mapstructure:"max_backups"` // 保留的旧日志文件数
	MaxAge     int    `mapstructure:"max_age"`     // 日志文件保留天数
}

// MongoDBConfig MongoDB配置
type MongoDBConfig struct {
	URI         string `mapstructure:"uri"`
	Database    string `mapstructure:"database"`
	MaxPoolSize uint64 `mapstructure:"max_pool_size"`
	MinPoolSize uint64 `mapstructure:"min_pool_size"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"` // 是否启用网关实体缓存
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	CacheTTL int    `mapstructure:"cache_ttl"` // 网关实体缓存TTL(秒)
}

// ConsoleConfig 控制台配置
type ConsoleConfig struct {
	AdminKey    string `mapstructure:"admin_key"`    // 控制台管理密钥
	JWTSecret   string `mapstructure:"jwt_secret"`   // 会话令牌签名密钥
	TokenExpire int    `mapstructure:"token_expire"` // 会话令牌有效期(秒)
}

// AuditConfig 请求日志记录配置
type AuditConfig struct {
	PoolSize     int             `mapstructure:"pool_size"`     // 异步写入协程池大小
	WriteTimeout int             `mapstructure:"write_timeout"` // 单条日志写入超时(秒)
	FlushTimeout int             `mapstructure:"flush_timeout"` // 关闭时等待写入完成的最长时间(秒)
	WebSocket    WebSocketConfig `mapstructure:"websocket"`     // 日志实时推送配置
}

// WebSocketConfig WebSocket配置
type WebSocketConfig struct {
	PingInterval   int `mapstructure:"ping_interval"`    // 心跳间隔(秒)
	WriteWait      int `mapstructure:"write_wait"`       // 写超时(秒)
	ReadWait       int `mapstructure:"read_wait"`        // 读超时(秒)
	MaxMessageSize int `mapstructure:"max_message_size"` // 最大消息大小(字节)
}

// GeneratorConfig 数据生成器配置
type GeneratorConfig struct {
	MaxDepth  int `mapstructure:"max_depth"`  // 规则树最大展开深度
	MaxRepeat int `mapstructure:"max_repeat"` // 数组/字段最大重复次数
}

// LoadConfig 加载配置文件
func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml") // 设置配置文件类型
	viper.AutomaticEnv()        // 读取环境变量

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
