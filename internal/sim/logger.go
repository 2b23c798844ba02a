// =============================================================================
// 文件: internal/sim/logger.go
// 描述: 分级日志 - 按详细程度过滤的组件日志输出
// =============================================================================
package sim

import (
	"fmt"
	"io"
	"os"
)

// 日志级别
const (
	LogError = 0
	LogInfo  = 1
	LogDebug = 2
	LogTrace = 3 // 逐事件跟踪
)

var logPrefix = map[int]string{
	LogError: "[ERROR]",
	LogInfo:  "[INFO]",
	LogDebug: "[DEBUG]",
	LogTrace: "[TRACE]",
}

// Logger 组件日志器
// 级别来自命令行 -v 重复次数，0 只输出错误。
type Logger struct {
	level int
	tag   string
	out   io.Writer
}

// NewLogger 创建日志器
func NewLogger(level int, tag string) *Logger {
	return &Logger{level: level, tag: tag, out: os.Stdout}
}

// WithTag 派生一个同级别、不同组件标签的日志器
func (l *Logger) WithTag(tag string) *Logger {
	return &Logger{level: l.level, tag: tag, out: l.out}
}

// SetOutput 重定向输出 (测试用)
func (l *Logger) SetOutput(w io.Writer) { l.out = w }

// Level 当前级别
func (l *Logger) Level() int { return l.level }

func (l *Logger) logf(level int, format string, args ...interface{}) {
	if level > l.level {
		return
	}
	fmt.Fprintf(l.out, "%s [%s] %s\n", logPrefix[level], l.tag, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) { l.logf(LogError, format, args...) }

func (l *Logger) Infof(format string, args ...interface{}) { l.logf(LogInfo, format, args...) }

func (l *Logger) Debugf(format string, args ...interface{}) { l.logf(LogDebug, format, args...) }

func (l *Logger) Tracef(format string, args ...interface{}) { l.logf(LogTrace, format, args...) }
