// =============================================================================
// 文件: internal/link/link_test.go
// 描述: 链路模型测试 - 配置校验、发送时间、误码判定、信道串行化
// =============================================================================
package link

import (
	"errors"
	"math"
	"testing"
)

func TestLinkValidate(t *testing.T) {
	cases := []struct {
		name string
		link Link
		want error
	}{
		{"合法配置", Link{CapacityBps: 10e9, PropDelay: 1e-3, BitErrorRate: 0.1}, nil},
		{"容量为零", Link{CapacityBps: 0, PropDelay: 0, BitErrorRate: 0}, ErrBadCapacity},
		{"容量为负", Link{CapacityBps: -1, PropDelay: 0, BitErrorRate: 0}, ErrBadCapacity},
		{"误码率为负", Link{CapacityBps: 1, PropDelay: 0, BitErrorRate: -0.1}, ErrBadBER},
		{"误码率超一", Link{CapacityBps: 1, PropDelay: 0, BitErrorRate: 1.1}, ErrBadBER},
		{"时延为负", Link{CapacityBps: 1, PropDelay: -1e-3, BitErrorRate: 0}, ErrBadPropDelay},
	}

	for _, tc := range cases {
		err := tc.link.Validate()
		if tc.want == nil && err != nil {
			t.Errorf("%s: 不应报错, got %v", tc.name, err)
		}
		if tc.want != nil && !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestTxTime(t *testing.T) {
	l := Link{CapacityBps: 10e9, PropDelay: 1e-3}

	// 1500 字节帧在 10 Gbit/s 上: 1500*8/10e9 = 1.2e-6 s
	got := l.TxTime(1500 * 8)
	if math.Abs(got-1.2e-6) > 1e-15 {
		t.Errorf("TxTime 不正确: got %g, want 1.2e-6", got)
	}

	if d := l.OneWayDelay(1500 * 8); math.Abs(d-(1.2e-6+1e-3)) > 1e-15 {
		t.Errorf("OneWayDelay 不正确: got %g", d)
	}
}

func TestCorruptionZeroBER(t *testing.T) {
	c := NewCorruptionSource(0, 1)
	for i := 0; i < 1000; i++ {
		if c.Corrupted(12000) {
			t.Fatal("误码率为 0 时不应有任何帧损坏")
		}
	}
}

func TestCorruptionCertain(t *testing.T) {
	// (1-0.5)^12000 下溢为 0，每帧必然损坏
	c := NewCorruptionSource(0.5, 1)
	for i := 0; i < 100; i++ {
		if !c.Corrupted(12000) {
			t.Fatal("足够高的误码率下每帧都应损坏")
		}
	}
}

func TestCorruptionDeterministic(t *testing.T) {
	a := NewCorruptionSource(0.0001, 42)
	b := NewCorruptionSource(0.0001, 42)
	for i := 0; i < 1000; i++ {
		if a.Corrupted(12000) != b.Corrupted(12000) {
			t.Fatal("相同种子的误码源判定序列应完全一致")
		}
	}
}

func TestChannelSerialization(t *testing.T) {
	ch := NewChannel(Link{CapacityBps: 1e6, PropDelay: 0})

	// 两帧同时上线路: 第二帧要等第一帧发完
	_, end1 := ch.Transmit(0, 0, 1000, true)
	start2, end2 := ch.Transmit(0, 0, 1000, true)

	if end1 != 1e-3 {
		t.Errorf("第一帧发送完成时刻不正确: got %g, want 1e-3", end1)
	}
	if start2 != end1 {
		t.Errorf("第二帧应排队到第一帧之后: start2=%g, end1=%g", start2, end1)
	}
	if end2 != 2e-3 {
		t.Errorf("第二帧发送完成时刻不正确: got %g, want 2e-3", end2)
	}
}

func TestChannelCounter(t *testing.T) {
	ch := NewChannel(Link{CapacityBps: 1e6, PropDelay: 0})

	ch.Transmit(0, 320, 11680, true)  // 无损送达
	ch.Transmit(0, 320, 11680, false) // 损坏

	c := ch.Counter()
	if c.RawReceived != 3000 || c.GoodReceived != 2920 {
		t.Errorf("received 计数不正确: raw=%d good=%d", c.RawReceived, c.GoodReceived)
	}
	if c.RawDelivered != 1500 || c.GoodDelivered != 1460 {
		t.Errorf("delivered 计数不正确: raw=%d good=%d", c.RawDelivered, c.GoodDelivered)
	}
}
