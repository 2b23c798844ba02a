// =============================================================================
// 文件: internal/stats/stats.go
// 描述: 统计收集器 - 观察收发事件累积计数，运行结束时产出报告
// =============================================================================
package stats

import (
	"fmt"
	"strings"
)

// Collector 统计收集器
// 纯观察者：只在收发双方的事件回调里累加计数，
// 从不反向影响协议状态。仿真结束后读取一次生成报告。
type Collector struct {
	FramesSent         uint64 // 含重传
	FramesRetransmit   uint64
	FramesCorrupted    uint64 // 到达时已损坏而被丢弃的帧
	FramesDelivered    uint64 // 按序交付给上层的帧
	FramesOutOfOrder   uint64 // 窗口内乱序缓存的帧
	FramesOutOfWindow  uint64 // 窗口外直接丢弃的帧
	AcksSent           uint64
	DuplicateAcks      uint64 // 发送端收到的重复/过期确认
	BitsDelivered      uint64 // 交付载荷比特
	MaxOutstanding     uint64 // 观测到的最大在途帧数
	EndTime            float64
}

// NewCollector 创建收集器
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) OnFrameSent(retransmit bool) {
	c.FramesSent++
	if retransmit {
		c.FramesRetransmit++
	}
}

func (c *Collector) OnFrameCorrupted() { c.FramesCorrupted++ }

func (c *Collector) OnFrameOutOfOrder() { c.FramesOutOfOrder++ }

func (c *Collector) OnFrameOutOfWindow() { c.FramesOutOfWindow++ }

func (c *Collector) OnAckSent() { c.AcksSent++ }

func (c *Collector) OnDuplicateAck() { c.DuplicateAcks++ }

func (c *Collector) OnFrameDelivered(payloadBits int) {
	c.FramesDelivered++
	c.BitsDelivered += uint64(payloadBits)
}

func (c *Collector) OnOutstanding(n uint64) {
	if n > c.MaxOutstanding {
		c.MaxOutstanding = n
	}
}

// Report 最终报告
type Report struct {
	FramesSent       uint64
	FramesRetransmit uint64
	FramesCorrupted  uint64
	FramesDelivered  uint64
	AcksSent         uint64
	DuplicateAcks    uint64
	BitsDelivered    uint64
	Duration         float64 // 仿真时长 (s)
	GoodputBps       float64 // 交付载荷比特 / 仿真时长
	Utilization      float64 // Goodput / 链路容量
	RawEfficiency    float64 // 含帧头的链路利用率
	RetransmitRate   float64 // 重传数 / 发送数
}

// Report 汇总为只读报告
func (c *Collector) Report(duration, capacityBps float64, headerBits, payloadBits int) Report {
	r := Report{
		FramesSent:       c.FramesSent,
		FramesRetransmit: c.FramesRetransmit,
		FramesCorrupted:  c.FramesCorrupted,
		FramesDelivered:  c.FramesDelivered,
		AcksSent:         c.AcksSent,
		DuplicateAcks:    c.DuplicateAcks,
		BitsDelivered:    c.BitsDelivered,
		Duration:         duration,
	}
	if duration > 0 {
		r.GoodputBps = float64(c.BitsDelivered) / duration
		rawBits := float64(c.FramesDelivered) * float64(headerBits+payloadBits)
		if capacityBps > 0 {
			r.Utilization = r.GoodputBps / capacityBps
			r.RawEfficiency = rawBits / duration / capacityBps
		}
	}
	if c.FramesSent > 0 {
		r.RetransmitRate = float64(c.FramesRetransmit) / float64(c.FramesSent)
	}
	return r
}

// String 终端友好的多行报告
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Frames sent:         %d (%d retransmissions)\n", r.FramesSent, r.FramesRetransmit)
	fmt.Fprintf(&b, "Frames corrupted:    %d\n", r.FramesCorrupted)
	fmt.Fprintf(&b, "Frames delivered:    %d\n", r.FramesDelivered)
	fmt.Fprintf(&b, "Acks sent:           %d (%d duplicate acks seen)\n", r.AcksSent, r.DuplicateAcks)
	fmt.Fprintf(&b, "Payload delivered:   %d bytes\n", r.BitsDelivered/8)
	fmt.Fprintf(&b, "Goodput:             %.3e bit/s\n", r.GoodputBps)
	fmt.Fprintf(&b, "Efficiency:          %.2f%% (%.2f%% considering headers)\n",
		100*r.Utilization, 100*r.RawEfficiency)
	fmt.Fprintf(&b, "Retransmission rate: %.2f%%", 100*r.RetransmitRate)
	return b.String()
}
