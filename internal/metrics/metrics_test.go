// =============================================================================
// 文件: internal/metrics/metrics_test.go
// 描述: 指标测试 - 注册、Observe 数值、标签
// =============================================================================
package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/RedesdeOrdenadores/arq-simul/internal/stats"
)

func gaugeValue(t *testing.T, reg *prometheus.Registry, name, window string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather 失败: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "window" && l.GetValue() == window {
					return m.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("未找到指标 %s{window=%q}", name, window)
	return 0
}

func TestObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Observe(4, "sr", stats.Report{
		FramesSent:       100,
		FramesRetransmit: 10,
		FramesDelivered:  90,
		GoodputBps:       1.5e6,
		Utilization:      0.15,
		RetransmitRate:   0.1,
	})

	if got := gaugeValue(t, reg, "arqsim_frames_sent", "4"); got != 100 {
		t.Errorf("frames_sent 不正确: got %g", got)
	}
	if got := gaugeValue(t, reg, "arqsim_frames_delivered", "4"); got != 90 {
		t.Errorf("frames_delivered 不正确: got %g", got)
	}
	if got := gaugeValue(t, reg, "arqsim_goodput_bps", "4"); got != 1.5e6 {
		t.Errorf("goodput 不正确: got %g", got)
	}

	// 不同窗口落在不同标签下
	m.Observe(8, "sr", stats.Report{FramesSent: 7})
	if got := gaugeValue(t, reg, "arqsim_frames_sent", "8"); got != 7 {
		t.Errorf("window=8 的 frames_sent 不正确: got %g", got)
	}
	if got := gaugeValue(t, reg, "arqsim_frames_sent", "4"); got != 100 {
		t.Errorf("window=4 的 frames_sent 被覆盖: got %g", got)
	}
}

func TestDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	defer func() {
		if recover() == nil {
			t.Error("同一 registry 重复注册应 panic")
		}
	}()
	New(reg)
}
