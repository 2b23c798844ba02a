// =============================================================================
// 文件: internal/stats/stats_test.go
// 描述: 统计测试 - 计数累积与报告换算
// =============================================================================
package stats

import (
	"strings"
	"testing"
)

func TestCollectorCounters(t *testing.T) {
	c := NewCollector()

	c.OnFrameSent(false)
	c.OnFrameSent(true)
	c.OnFrameSent(true)
	c.OnFrameDelivered(11680)
	c.OnFrameCorrupted()
	c.OnAckSent()
	c.OnDuplicateAck()
	c.OnOutstanding(3)
	c.OnOutstanding(1)

	if c.FramesSent != 3 || c.FramesRetransmit != 2 {
		t.Errorf("发送计数不正确: sent=%d retransmit=%d", c.FramesSent, c.FramesRetransmit)
	}
	if c.BitsDelivered != 11680 {
		t.Errorf("交付比特不正确: got %d", c.BitsDelivered)
	}
	if c.MaxOutstanding != 3 {
		t.Errorf("最大在途数应保留峰值: got %d", c.MaxOutstanding)
	}
}

func TestReportMath(t *testing.T) {
	c := NewCollector()
	for i := 0; i < 10; i++ {
		c.OnFrameSent(i%2 == 1) // 5 次重传
		c.OnFrameDelivered(11680)
	}

	r := c.Report(0.1, 10e6, 320, 11680)

	if want := float64(10*11680) / 0.1; r.GoodputBps != want {
		t.Errorf("goodput 不正确: got %g, want %g", r.GoodputBps, want)
	}
	if want := r.GoodputBps / 10e6; r.Utilization != want {
		t.Errorf("利用率不正确: got %g, want %g", r.Utilization, want)
	}
	if r.RetransmitRate != 0.5 {
		t.Errorf("重传率不正确: got %g, want 0.5", r.RetransmitRate)
	}

	out := r.String()
	if !strings.Contains(out, "Frames delivered:    10") {
		t.Errorf("报告缺少交付行:\n%s", out)
	}
	if !strings.Contains(out, "Efficiency") {
		t.Errorf("报告缺少效率行:\n%s", out)
	}
}

func TestReportZeroDuration(t *testing.T) {
	// 除零保护
	r := NewCollector().Report(0, 10e6, 320, 11680)
	if r.GoodputBps != 0 || r.Utilization != 0 || r.RetransmitRate != 0 {
		t.Errorf("空报告应全零: %+v", r)
	}
}
