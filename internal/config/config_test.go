// =============================================================================
// 文件: internal/config/config_test.go
// 描述: 配置测试 - 默认值、校验边界、YAML 加载与覆盖、示例配置自洽
// =============================================================================
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("默认配置应通过校验: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"容量为零", func(c *Config) { c.CapacityBps = 0 }},
		{"容量为负", func(c *Config) { c.CapacityBps = -10 }},
		{"误码率为负", func(c *Config) { c.BitErrorRate = -0.1 }},
		{"误码率超一", func(c *Config) { c.BitErrorRate = 1.5 }},
		{"时延为负", func(c *Config) { c.PropDelay = -1 }},
		{"时长为零", func(c *Config) { c.Duration = 0 }},
		{"帧头为负", func(c *Config) { c.HeaderBytes = -1 }},
		{"载荷为零", func(c *Config) { c.PayloadBytes = 0 }},
		{"窗口为零", func(c *Config) { c.WindowSize = 0 }},
		{"未知策略", func(c *Config) { c.Policy = "tcp" }},
		{"扫描窗口非法", func(c *Config) { c.SweepWindows = []int{2, 0} }},
		{"监控地址为空", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Listen = "" }},
		{"监控路径非法", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Path = "metrics" }},
	}

	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: 应校验失败", tc.name)
		}
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
capacity: 1e6
window_size: 8
policy: gbn
bit_error_rate: 1e-4
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if cfg.CapacityBps != 1e6 {
		t.Errorf("capacity 未覆盖: got %g", cfg.CapacityBps)
	}
	if cfg.WindowSize != 8 {
		t.Errorf("window_size 未覆盖: got %d", cfg.WindowSize)
	}
	if cfg.Policy != PolicyGoBackN {
		t.Errorf("policy 未覆盖: got %q", cfg.Policy)
	}
	// 未出现的字段保持默认
	if cfg.PayloadBytes != 1460 {
		t.Errorf("payload_bytes 不应被改动: got %d", cfg.PayloadBytes)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("读取不存在的文件应报错")
	}
}

func TestParseSweep(t *testing.T) {
	windows, err := ParseSweep("1, 2,4,8")
	if err != nil {
		t.Fatalf("ParseSweep 失败: %v", err)
	}
	want := []int{1, 2, 4, 8}
	if len(windows) != len(want) {
		t.Fatalf("数量不正确: got %v", windows)
	}
	for i := range want {
		if windows[i] != want[i] {
			t.Errorf("第 %d 个不正确: got %d, want %d", i, windows[i], want[i])
		}
	}

	if _, err := ParseSweep("1,x,3"); err == nil {
		t.Error("非法列表应报错")
	}

	if windows, err := ParseSweep(""); err != nil || windows != nil {
		t.Error("空串应返回空结果")
	}
}

func TestWithWindow(t *testing.T) {
	base := DefaultConfig()
	base.SweepWindows = []int{1, 2}

	dup := base.WithWindow(16)
	if dup.WindowSize != 16 {
		t.Errorf("窗口未修改: got %d", dup.WindowSize)
	}
	if dup.SweepWindows != nil {
		t.Error("派生配置不应再携带扫描列表")
	}
	if base.WindowSize != 1 {
		t.Error("原配置被意外修改")
	}
}

func TestExampleConfigSelfConsistent(t *testing.T) {
	example := GenerateExampleConfig()
	if !strings.Contains(example, "capacity") {
		t.Fatal("示例配置缺少关键字段")
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(example), cfg); err != nil {
		t.Fatalf("示例配置应能被解析: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("示例配置应通过校验: %v", err)
	}
}
