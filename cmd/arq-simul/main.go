// =============================================================================
// 文件: cmd/arq-simul/main.go
// 描述: 主程序入口 - 参数解析、配置装配、运行仿真并输出最终报告
// =============================================================================
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/RedesdeOrdenadores/arq-simul/internal/arq"
	"github.com/RedesdeOrdenadores/arq-simul/internal/config"
	"github.com/RedesdeOrdenadores/arq-simul/internal/experiment"
	"github.com/RedesdeOrdenadores/arq-simul/internal/metrics"
	"github.com/RedesdeOrdenadores/arq-simul/internal/sim"
)

var (
	Version   = "1.2.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// countFlag 可重复的布尔选项 (-v -v 表示级别 2)
type countFlag int

func (c *countFlag) String() string { return strconv.Itoa(int(*c)) }

func (c *countFlag) IsBoolFlag() bool { return true }

func (c *countFlag) Set(s string) error {
	if s == "true" {
		*c++
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*c = countFlag(n)
	return nil
}

func main() {
	def := config.DefaultConfig()

	cfgPath := flag.String("c", "", "YAML 配置文件路径")
	showVersion := flag.Bool("version", false, "显示版本")
	genConfig := flag.Bool("gen-config", false, "生成示例配置文件")

	var opt struct {
		ber       float64
		capacity  float64
		propDelay float64
		duration  float64
		header    int
		payload   int
		wsize     int
		seed      int64
		policy    string
		sweep     string
	}
	var verbose countFlag

	flag.Float64Var(&opt.ber, "b", def.BitErrorRate, "单比特误码率 [0,1]")
	flag.Float64Var(&opt.ber, "ber", def.BitErrorRate, "单比特误码率 [0,1]")
	flag.Float64Var(&opt.capacity, "C", def.CapacityBps, "链路容量 (bit/s)")
	flag.Float64Var(&opt.capacity, "capacity", def.CapacityBps, "链路容量 (bit/s)")
	flag.Float64Var(&opt.propDelay, "p", def.PropDelay, "单向传播时延 (s)")
	flag.Float64Var(&opt.propDelay, "prop_delay", def.PropDelay, "单向传播时延 (s)")
	flag.Float64Var(&opt.duration, "l", def.Duration, "仿真时长 (s)")
	flag.Float64Var(&opt.duration, "duration", def.Duration, "仿真时长 (s)")
	flag.IntVar(&opt.header, "header", def.HeaderBytes, "帧头长度 (byte)")
	flag.IntVar(&opt.payload, "payload", def.PayloadBytes, "载荷长度 (byte)")
	flag.IntVar(&opt.wsize, "w", def.WindowSize, "发送窗口 (帧)")
	flag.IntVar(&opt.wsize, "wsize", def.WindowSize, "发送窗口 (帧)")
	flag.Int64Var(&opt.seed, "seed", def.Seed, "误码源种子")
	flag.StringVar(&opt.policy, "policy", def.Policy, "超时重传策略: sr/gbn")
	flag.StringVar(&opt.sweep, "sweep", "", "窗口扫描列表, 如 1,2,4,8")
	flag.Var(&verbose, "v", "日志详细程度 (可重复)")
	flag.Var(&verbose, "verbose", "日志详细程度 (可重复)")

	flag.Parse()

	if *showVersion {
		printVersion()
		return
	}

	if *genConfig {
		if err := config.WriteExampleConfig("config.example.yaml"); err != nil {
			fmt.Fprintf(os.Stderr, "生成配置失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("已生成示例配置文件: config.example.yaml")
		return
	}

	cfg := def
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// 命令行显式给出的选项覆盖配置文件
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "b", "ber":
			cfg.BitErrorRate = opt.ber
		case "C", "capacity":
			cfg.CapacityBps = opt.capacity
		case "p", "prop_delay":
			cfg.PropDelay = opt.propDelay
		case "l", "duration":
			cfg.Duration = opt.duration
		case "header":
			cfg.HeaderBytes = opt.header
		case "payload":
			cfg.PayloadBytes = opt.payload
		case "w", "wsize":
			cfg.WindowSize = opt.wsize
		case "seed":
			cfg.Seed = opt.seed
		case "policy":
			cfg.Policy = opt.policy
		case "v", "verbose":
			cfg.Verbose = int(verbose)
		}
	})

	if opt.sweep != "" {
		windows, err := config.ParseSweep(opt.sweep)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
			os.Exit(1)
		}
		cfg.SweepWindows = windows
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] 配置无效: %v\n", err)
		os.Exit(1)
	}

	logger := sim.NewLogger(cfg.Verbose, "Simul")

	var simMetrics *metrics.SimMetrics
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.Listen, cfg.Metrics.Path, cfg.Metrics.HealthPath)
		simMetrics = metrics.New(metricsServer.Registry())
		metricsServer.Start()
		defer metricsServer.Stop()
		logger.Infof("metrics listening on %s%s", cfg.Metrics.Listen, cfg.Metrics.Path)
	}

	if len(cfg.SweepWindows) > 0 {
		runSweep(cfg, logger, simMetrics)
		return
	}

	session, err := arq.NewSession(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}

	report := session.Run()
	fmt.Println(session.DescribeLink())
	fmt.Println(report)

	if simMetrics != nil {
		simMetrics.Observe(cfg.WindowSize, cfg.Policy, report)
	}
}

func runSweep(cfg *config.Config, logger *sim.Logger, simMetrics *metrics.SimMetrics) {
	runner := experiment.NewRunner(cfg, cfg.SweepWindows, logger)
	results, err := runner.Run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}

	experiment.WriteTable(os.Stdout, results)
	if simMetrics != nil {
		for _, res := range results {
			simMetrics.Observe(res.Window, cfg.Policy, res.Report)
		}
	}
}

func printVersion() {
	fmt.Printf("arq-simul %s\n", Version)
	fmt.Printf("  构建时间: %s\n", BuildTime)
	fmt.Printf("  Git 提交: %s\n", GitCommit)
	fmt.Printf("  Go 版本:  %s\n", runtime.Version())
}
