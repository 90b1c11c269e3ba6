package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// newClient 加载配置，必要时交互式读取密码
func newClient(cmd *cobra.Command) (*Config, *APIClient, error) {
	cfg := LoadConfig(cmd)
	if cfg.Username != "" && cfg.Password == "" {
		password, err := promptPassword(cmd, cfg.Username)
		if err != nil {
			return nil, nil, err
		}
		cfg.Password = password
	}
	return cfg, NewAPIClient(cfg), nil
}

// promptPassword 在终端中读取密码，非终端输入时跳过
func promptPassword(cmd *cobra.Command, username string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", nil
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Password for %s: ", username)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// meetingsPath 返回房间会议集合的路径，房间 ID 中的空格等字符会被转义
func meetingsPath(roomID string) string {
	return "/rooms/" + url.PathEscape(roomID) + "/meetings"
}

// addOptionalString 如果命令行标志被设置则添加到 body map
func addOptionalString(cmd *cobra.Command, body map[string]interface{}, flag string, jsonKeys ...string) {
	if !cmd.Flags().Changed(flag) {
		return
	}
	v, _ := cmd.Flags().GetString(flag)
	body[jsonKey(flag, jsonKeys)] = v
}

// addOptionalBool 如果命令行标志被设置则添加到 body map
func addOptionalBool(cmd *cobra.Command, body map[string]interface{}, flag string, jsonKeys ...string) {
	if !cmd.Flags().Changed(flag) {
		return
	}
	v, _ := cmd.Flags().GetBool(flag)
	body[jsonKey(flag, jsonKeys)] = v
}

func jsonKey(flag string, jsonKeys []string) string {
	if len(jsonKeys) > 0 {
		return jsonKeys[0]
	}
	return flag
}

// mustGetString 获取必选的字符串标志
func mustGetString(cmd *cobra.Command, flag string) string {
	v, _ := cmd.Flags().GetString(flag)
	return v
}

// mustGetBool 获取布尔标志
func mustGetBool(cmd *cobra.Command, flag string) bool {
	v, _ := cmd.Flags().GetBool(flag)
	return v
}
