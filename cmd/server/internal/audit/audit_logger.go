package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// AuditAction 审计日志操作类型
type AuditAction string

const (
	ActionCreateMeeting AuditAction = "create_meeting"
	ActionUpdateMeeting AuditAction = "update_meeting"
)

// AuditEntry 审计日志条目
type AuditEntry struct {
	Timestamp time.Time   `json:"timestamp"`
	Operator  string      `json:"operator"`         // 操作者 (Basic Auth 用户名或 anonymous)
	Action    AuditAction `json:"action"`           // 操作类型
	RoomID    string      `json:"room_id"`          // 房间标识
	MeetingID string      `json:"meeting_id"`       // 会议标识
	Result    string      `json:"result"`           // ok / not_found / conflict / invalid
	Before    interface{} `json:"before,omitempty"` // 操作前状态
	After     interface{} `json:"after,omitempty"`  // 操作后状态
	SourceIP  string      `json:"source_ip,omitempty"`
}

// AuditLogger 审计日志记录器接口
type AuditLogger interface {
	// LogAction 记录一次会议变更
	LogAction(entry AuditEntry) error
}

// FileAuditLogger 基于 lumberjack 轮转文件的 JSONL 审计日志实现
type FileAuditLogger struct {
	mu     sync.Mutex
	writer io.WriteCloser
	now    func() time.Time
}

// RotationConfig 控制日志轮转
type RotationConfig struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// NewFileAuditLogger 创建文件审计日志记录器，按大小和保留期自动轮转
func NewFileAuditLogger(path string, rot RotationConfig) *FileAuditLogger {
	writer := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    rot.MaxSizeMB,
		MaxBackups: rot.MaxBackups,
		MaxAge:     rot.MaxAgeDays,
		Compress:   rot.Compress,
	}
	return &FileAuditLogger{writer: writer, now: time.Now}
}

// LogAction 记录审计日志到 JSONL 文件，每行一条记录
func (f *FileAuditLogger) LogAction(entry AuditEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = f.now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := f.writer.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// Close 关闭底层文件
func (f *FileAuditLogger) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writer.Close()
}

// NopAuditLogger 未配置审计路径时使用
type NopAuditLogger struct{}

// LogAction 丢弃条目
func (NopAuditLogger) LogAction(AuditEntry) error { return nil }
