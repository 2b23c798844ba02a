// =============================================================================
// 文件: internal/config/config.go
// 描述: 配置管理 - 链路/协议/仿真参数，YAML 文件 + 命令行覆盖，统一校验
// =============================================================================
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// 重传策略
const (
	PolicySelectiveRepeat = "sr"  // 只重传超时的那一帧
	PolicyGoBackN         = "gbn" // 重传全部在途帧
)

// Config 主配置
type Config struct {
	// 链路参数
	CapacityBps  float64 `yaml:"capacity"`       // 链路容量 (bit/s)
	PropDelay    float64 `yaml:"prop_delay"`     // 单向传播时延 (s)
	BitErrorRate float64 `yaml:"bit_error_rate"` // 单比特误码率

	// 协议参数
	HeaderBytes  int    `yaml:"header_bytes"`  // 帧头长度 (byte)
	PayloadBytes int    `yaml:"payload_bytes"` // 载荷长度 (byte)
	WindowSize   int    `yaml:"window_size"`   // 发送窗口 (帧)
	Policy       string `yaml:"policy"`        // sr / gbn
	TotalFrames  uint64 `yaml:"total_frames"`  // 发送帧数上限，0 表示不限

	// 仿真参数
	Duration float64 `yaml:"duration"` // 仿真时长 (s)
	Seed     int64   `yaml:"seed"`     // 误码源种子
	Verbose  int     `yaml:"verbose"`  // 日志详细程度

	// 窗口扫描 (非空时对每个窗口各跑一次独立仿真)
	SweepWindows []int `yaml:"sweep_windows"`

	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig 监控配置
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Listen     string `yaml:"listen"`
	Path       string `yaml:"path"`
	HealthPath string `yaml:"health_path"`
}

// DefaultConfig 返回默认配置
// 默认值与经典教学场景一致：10 Gbit/s 链路、1.5 KB 以太帧、停等窗口。
func DefaultConfig() *Config {
	return &Config{
		CapacityBps:  10e9,
		PropDelay:    1e-3,
		BitErrorRate: 0,

		HeaderBytes:  40,
		PayloadBytes: 1460,
		WindowSize:   1,
		Policy:       PolicySelectiveRepeat,

		Duration: 0.1,
		Seed:     42,

		Metrics: MetricsConfig{
			Enabled:    false,
			Listen:     ":9090",
			Path:       "/metrics",
			HealthPath: "/health",
		},
	}
}

// Load 从 YAML 文件加载配置 (默认值打底)
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置失败: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	return cfg, nil
}

// Validate 校验配置
// 任何一项越界都是致命的：仿真开始前报告并以非零码退出。
func (c *Config) Validate() error {
	if c.CapacityBps <= 0 {
		return fmt.Errorf("capacity 必须严格为正, 当前 %g", c.CapacityBps)
	}
	if c.BitErrorRate < 0 || c.BitErrorRate > 1 {
		return fmt.Errorf("bit_error_rate 需在 [0,1] 之间, 当前 %g", c.BitErrorRate)
	}
	if c.PropDelay < 0 {
		return fmt.Errorf("prop_delay 不能为负, 当前 %g", c.PropDelay)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration 必须严格为正, 当前 %g", c.Duration)
	}
	if c.HeaderBytes < 0 {
		return fmt.Errorf("header_bytes 不能为负, 当前 %d", c.HeaderBytes)
	}
	if c.PayloadBytes <= 0 {
		return fmt.Errorf("payload_bytes 必须严格为正, 当前 %d", c.PayloadBytes)
	}
	if c.WindowSize < 1 {
		return fmt.Errorf("window_size 至少为 1, 当前 %d", c.WindowSize)
	}
	if c.Policy != PolicySelectiveRepeat && c.Policy != PolicyGoBackN {
		return fmt.Errorf("policy 只支持 %s/%s, 当前 %q", PolicySelectiveRepeat, PolicyGoBackN, c.Policy)
	}
	for _, w := range c.SweepWindows {
		if w < 1 {
			return fmt.Errorf("sweep_windows 中的窗口至少为 1, 当前含 %d", w)
		}
	}
	if c.Metrics.Enabled {
		if c.Metrics.Listen == "" {
			return fmt.Errorf("metrics.listen 不能为空")
		}
		if !strings.HasPrefix(c.Metrics.Path, "/") {
			return fmt.Errorf("metrics.path 需以 / 开头, 当前 %q", c.Metrics.Path)
		}
	}
	return nil
}

// WithWindow 派生一个只改窗口大小的配置副本 (扫描用)
func (c *Config) WithWindow(w int) *Config {
	dup := *c
	dup.WindowSize = w
	dup.SweepWindows = nil
	return &dup
}

// ParseSweep 解析逗号分隔的窗口列表, 如 "1,2,4,8"
func ParseSweep(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	windows := make([]int, 0, len(parts))
	for _, p := range parts {
		w, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("窗口列表格式错误: %q", p)
		}
		windows = append(windows, w)
	}
	return windows, nil
}

// GenerateExampleConfig 生成示例配置
func GenerateExampleConfig() string {
	return `# arq-simul 示例配置
# 所有参数都可被命令行同名选项覆盖

# 链路参数
capacity: 10e9        # 链路容量 (bit/s)
prop_delay: 1e-3      # 单向传播时延 (s)
bit_error_rate: 0     # 单比特误码率 [0,1]

# 协议参数
header_bytes: 40      # 帧头长度 (byte)
payload_bytes: 1460   # 载荷长度 (byte)
window_size: 1        # 发送窗口 (帧), 1 即停等
policy: sr            # sr=选择重传 / gbn=回退 N
total_frames: 0       # 发送帧数上限, 0 不限

# 仿真参数
duration: 0.1         # 仿真时长 (s)
seed: 42              # 误码源种子, 相同种子结果完全可复现

# 窗口扫描: 非空时对每个窗口各跑一次独立仿真并输出对比表
# sweep_windows: [1, 2, 4, 8, 16]

# 监控 (可选)
metrics:
  enabled: false
  listen: ":9090"
  path: "/metrics"
  health_path: "/health"
`
}

// WriteExampleConfig 写入示例配置文件
func WriteExampleConfig(path string) error {
	return os.WriteFile(path, []byte(GenerateExampleConfig()), 0644)
}
