// =============================================================================
// 文件: internal/metrics/metrics.go
// 描述: 仿真指标 - Prometheus 计数器/仪表，按窗口大小与策略打标签
// =============================================================================
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/RedesdeOrdenadores/arq-simul/internal/stats"
)

// SimMetrics 仿真指标集合
// 每完成一次仿真调用一次 Observe；窗口扫描时不同窗口落在不同标签下，
// 便于对比吞吐/重传随窗口的变化。
type SimMetrics struct {
	framesSent       *prometheus.GaugeVec
	framesRetransmit *prometheus.GaugeVec
	framesCorrupted  *prometheus.GaugeVec
	framesDelivered  *prometheus.GaugeVec
	goodputBps       *prometheus.GaugeVec
	utilization      *prometheus.GaugeVec
	retransmitRate   *prometheus.GaugeVec
	runsTotal        prometheus.Counter
}

// New 创建并注册仿真指标
func New(reg prometheus.Registerer) *SimMetrics {
	labels := []string{"window", "policy"}
	m := &SimMetrics{
		framesSent: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "arqsim_frames_sent",
			Help: "发送帧总数 (含重传)",
		}, labels),
		framesRetransmit: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "arqsim_frames_retransmitted",
			Help: "重传帧数",
		}, labels),
		framesCorrupted: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "arqsim_frames_corrupted",
			Help: "到达时损坏被丢弃的帧数",
		}, labels),
		framesDelivered: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "arqsim_frames_delivered",
			Help: "按序交付的帧数",
		}, labels),
		goodputBps: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "arqsim_goodput_bps",
			Help: "有效吞吐 (bit/s)",
		}, labels),
		utilization: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "arqsim_link_utilization",
			Help: "链路利用率 (goodput/capacity)",
		}, labels),
		retransmitRate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "arqsim_retransmit_rate",
			Help: "重传率 (重传/发送)",
		}, labels),
		runsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arqsim_runs_total",
			Help: "已完成的仿真次数",
		}),
	}

	reg.MustRegister(
		m.framesSent, m.framesRetransmit, m.framesCorrupted, m.framesDelivered,
		m.goodputBps, m.utilization, m.retransmitRate, m.runsTotal,
	)
	return m
}

// Observe 记录一次仿真的最终报告
func (m *SimMetrics) Observe(window int, policy string, r stats.Report) {
	w := strconv.Itoa(window)
	m.framesSent.WithLabelValues(w, policy).Set(float64(r.FramesSent))
	m.framesRetransmit.WithLabelValues(w, policy).Set(float64(r.FramesRetransmit))
	m.framesCorrupted.WithLabelValues(w, policy).Set(float64(r.FramesCorrupted))
	m.framesDelivered.WithLabelValues(w, policy).Set(float64(r.FramesDelivered))
	m.goodputBps.WithLabelValues(w, policy).Set(r.GoodputBps)
	m.utilization.WithLabelValues(w, policy).Set(r.Utilization)
	m.retransmitRate.WithLabelValues(w, policy).Set(r.RetransmitRate)
	m.runsTotal.Inc()
}
