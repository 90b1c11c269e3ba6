package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const defaultServerURL = "http://localhost:5000"

// Config 保存 CLI 全局配置
type Config struct {
	ServerURL string `yaml:"server_url" json:"server_url"`
	Username  string `yaml:"username" json:"username"`
	Password  string `yaml:"password" json:"-"`
	RoomID    string `yaml:"default_room_id" json:"default_room_id"`
	Output    string `yaml:"-" json:"-"`
}

// LoadConfig 从命令行标志、环境变量、配置文件加载配置（优先级从高到低）
func LoadConfig(cmd *cobra.Command) *Config {
	cfg := &Config{}

	// 尝试从配置文件读取基础值
	loadConfigFile(cfg, configFilePath())

	// 环境变量覆盖配置文件
	if v := os.Getenv("ROOMZ_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("ROOMZ_USERNAME"); v != "" {
		cfg.Username = v
	}
	if v := os.Getenv("ROOMZ_PASSWORD"); v != "" {
		cfg.Password = v
	}
	if v := os.Getenv("ROOMZ_ROOM_ID"); v != "" {
		cfg.RoomID = v
	}

	// 命令行标志覆盖环境变量
	if v, _ := cmd.Flags().GetString("server-url"); v != "" {
		cfg.ServerURL = v
	}
	if v, _ := cmd.Flags().GetString("username"); v != "" {
		cfg.Username = v
	}
	if v, _ := cmd.Flags().GetString("password"); v != "" {
		cfg.Password = v
	}
	if v, _ := cmd.Flags().GetString("room"); v != "" {
		cfg.RoomID = v
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		cfg.Output = v
	}

	// 默认值
	if cfg.ServerURL == "" {
		cfg.ServerURL = defaultServerURL
	}
	if cfg.RoomID == "" {
		cfg.RoomID = "Room 1"
	}
	if cfg.Output == "" {
		cfg.Output = "text"
	}

	return cfg
}

// configFilePath 返回配置文件路径，ROOMZ_CONFIG 可覆盖默认的 ~/.roomz/config.yaml
func configFilePath() string {
	if v := os.Getenv("ROOMZ_CONFIG"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".roomz", "config.yaml")
}

// loadConfigFile 读取 YAML 配置，文件缺失或损坏时保持空值
func loadConfigFile(cfg *Config, path string) {
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	_ = yaml.Unmarshal(data, cfg)
}

// addGlobalFlags 为 root 命令添加全局标志
func addGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("server-url", "", "API base URL (env: ROOMZ_SERVER_URL, default: "+defaultServerURL+")")
	cmd.PersistentFlags().StringP("username", "u", "", "basic auth username (env: ROOMZ_USERNAME)")
	cmd.PersistentFlags().String("password", "", "basic auth password (env: ROOMZ_PASSWORD, prompted when a username is set)")
	cmd.PersistentFlags().StringP("room", "r", "", "room id (env: ROOMZ_ROOM_ID, default: Room 1)")
	cmd.PersistentFlags().StringP("output", "o", "", "output format: json / text (default: text)")
}
