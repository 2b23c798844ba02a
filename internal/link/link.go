// =============================================================================
// 文件: internal/link/link.go
// 描述: 链路模型 - 容量/传播时延/误码率，发送时间与单向时延计算
// =============================================================================
package link

import (
	"errors"
	"fmt"
)

// 配置校验错误
var (
	ErrBadCapacity  = errors.New("link: capacity must be strictly positive")
	ErrBadBER       = errors.New("link: bit error rate must be within [0, 1]")
	ErrBadPropDelay = errors.New("link: propagation delay must be non-negative")
)

// Link 链路配置
// 初始化后不可变，发送端、接收端与信道只读共享。
type Link struct {
	CapacityBps  float64 // 容量 (bit/s)
	PropDelay    float64 // 单向传播时延 (s)
	BitErrorRate float64 // 单比特误码率
}

// Validate 校验链路配置
func (l Link) Validate() error {
	if l.CapacityBps <= 0 {
		return fmt.Errorf("%w: got %g", ErrBadCapacity, l.CapacityBps)
	}
	if l.BitErrorRate < 0 || l.BitErrorRate > 1 {
		return fmt.Errorf("%w: got %g", ErrBadBER, l.BitErrorRate)
	}
	if l.PropDelay < 0 {
		return fmt.Errorf("%w: got %g", ErrBadPropDelay, l.PropDelay)
	}
	return nil
}

// TxTime 发送 bits 比特所需的时间 (s)
func (l Link) TxTime(bits int) float64 {
	return float64(bits) / l.CapacityBps
}

// OneWayDelay 一帧从开始发送到完整到达对端的时间 (s)
// 每个方向各计一次：数据帧走正向，确认帧走反向。
func (l Link) OneWayDelay(bits int) float64 {
	return l.TxTime(bits) + l.PropDelay
}
