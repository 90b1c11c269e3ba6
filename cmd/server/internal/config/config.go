package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config 统一配置结构
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Log      LogConfig
	Security SecurityConfig
	Audit    AuditConfig
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Env  string // dev, staging, production
	Port string
}

// DataConfig 数据文件配置
type DataConfig struct {
	MeetingsFile  string // 每次变更后整体重写
	SeedFile      string // MeetingsFile 不存在时读取
	RoomsFile     string // 可选 YAML 房间目录
	DefaultRoomID string
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // console, json
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	APIUsername string
	APIPassword string // 明文或 bcrypt 哈希
	EnableCORS  bool
	CORSOrigin  string
}

// AuditConfig 审计日志配置
type AuditConfig struct {
	LogPath    string // 为空则关闭审计日志
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// LoadConfig 从环境变量加载配置
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Env:  getEnv("ENV", "dev"),
			Port: getEnv("PORT", "5000"),
		},
		Data: DataConfig{
			MeetingsFile:  getEnv("DATA_FILE", "./data/meetings_store.json"),
			SeedFile:      getEnv("SEED_FILE", "./meetings.json"),
			RoomsFile:     getEnv("ROOMS_FILE", ""),
			DefaultRoomID: getEnv("DEFAULT_ROOM_ID", "Room 1"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Security: SecurityConfig{
			APIUsername: getEnv("API_USERNAME", ""),
			APIPassword: getEnv("API_PASSWORD", ""),
			EnableCORS:  getEnv("ENABLE_CORS", "") == "1",
			CORSOrigin:  getEnv("CORS_ORIGIN", "*"),
		},
		Audit: AuditConfig{
			LogPath: getEnv("AUDIT_LOG_PATH", ""),
		},
	}

	var err error
	if cfg.Audit.MaxSizeMB, err = getEnvInt("AUDIT_LOG_MAX_SIZE_MB", 100); err != nil {
		return nil, err
	}
	if cfg.Audit.MaxBackups, err = getEnvInt("AUDIT_LOG_MAX_BACKUPS", 10); err != nil {
		return nil, err
	}
	if cfg.Audit.MaxAgeDays, err = getEnvInt("AUDIT_LOG_MAX_AGE_DAYS", 30); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ValidateConfig 验证配置的有效性
func ValidateConfig(cfg *Config) error {
	var errors []string

	// 1. 端口验证
	if port, err := strconv.Atoi(cfg.Server.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid PORT value: %s (must be 1-65535)", cfg.Server.Port))
	}

	// 2. 日志级别验证
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[cfg.Log.Level] {
		errors = append(errors, fmt.Sprintf("invalid LOG_LEVEL: %s (must be: debug, info, warn, error)", cfg.Log.Level))
	}

	// 3. 日志格式验证
	validLogFormats := map[string]bool{"console": true, "json": true}
	if !validLogFormats[cfg.Log.Format] {
		errors = append(errors, fmt.Sprintf("invalid LOG_FORMAT: %s (must be: console, json)", cfg.Log.Format))
	}

	// 4. 环境验证
	validEnvs := map[string]bool{"dev": true, "development": true, "staging": true, "production": true}
	if !validEnvs[cfg.Server.Env] {
		errors = append(errors, fmt.Sprintf("invalid ENV: %s (must be: dev, development, staging, production)", cfg.Server.Env))
	}

	// 5. 凭据必须成对配置，否则所有请求都会被拒绝
	if (cfg.Security.APIUsername == "") != (cfg.Security.APIPassword == "") {
		errors = append(errors, "API_USERNAME and API_PASSWORD must be set together")
	}

	// 6. 生产环境要求开启认证
	if cfg.IsProduction() && cfg.Security.APIUsername == "" {
		errors = append(errors, "API_USERNAME and API_PASSWORD are required in production environment")
	}

	// 7. 数据文件
	if cfg.Data.MeetingsFile == "" {
		errors = append(errors, "DATA_FILE cannot be empty")
	}
	if cfg.Data.DefaultRoomID == "" {
		errors = append(errors, "DEFAULT_ROOM_ID cannot be empty")
	}

	// 8. 审计日志轮转参数
	if cfg.Audit.LogPath != "" && (cfg.Audit.MaxSizeMB <= 0 || cfg.Audit.MaxBackups < 0 || cfg.Audit.MaxAgeDays < 0) {
		errors = append(errors, "AUDIT_LOG_MAX_SIZE_MB must be > 0 and AUDIT_LOG_MAX_BACKUPS/AUDIT_LOG_MAX_AGE_DAYS >= 0")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// IsProduction 判断是否为生产环境
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// IsDevelopment 判断是否为开发环境
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "dev" || c.Server.Env == "development"
}

// AuthEnabled 是否启用 Basic Auth
func (c *Config) AuthEnabled() bool {
	return c.Security.APIUsername != "" && c.Security.APIPassword != ""
}

// GetServerAddr 获取服务器监听地址
func (c *Config) GetServerAddr() string {
	return ":" + c.Server.Port
}

// PrintConfig 打印配置（脱敏）
func (c *Config) PrintConfig() string {
	return fmt.Sprintf(`Configuration Loaded:
  Environment: %s
  Server Port: %s
  Data:
    - Meetings File: %s
    - Seed File: %s
    - Rooms File: %s
    - Default Room: %s
  Logging:
    - Level: %s
    - Format: %s
  Security:
    - API Username: %s
    - API Password: %s
    - CORS Enabled: %t (origin %s)
  Audit:
    - Log Path: %s`,
		c.Server.Env,
		c.Server.Port,
		c.Data.MeetingsFile,
		c.Data.SeedFile,
		orNotSet(c.Data.RoomsFile),
		c.Data.DefaultRoomID,
		c.Log.Level,
		c.Log.Format,
		orNotSet(c.Security.APIUsername),
		maskSecret(c.Security.APIPassword),
		c.Security.EnableCORS,
		c.Security.CORSOrigin,
		orNotSet(c.Audit.LogPath),
	)
}

// 辅助函数

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt 获取整数环境变量
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q is not an integer", key, value)
	}
	return n, nil
}

func orNotSet(s string) string {
	if s == "" {
		return "<not set>"
	}
	return s
}

// maskSecret 对敏感信息进行脱敏
func maskSecret(secret string) string {
	if secret == "" {
		return "<not set>"
	}
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:4] + "***" + secret[len(secret)-4:]
}
