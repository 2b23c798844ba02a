// =============================================================================
// 文件: internal/arq/receiver.go
// 描述: ARQ 接收端状态机 - 乱序缓存、按序交付、累积确认
// =============================================================================
package arq

import (
	"github.com/RedesdeOrdenadores/arq-simul/internal/link"
	"github.com/RedesdeOrdenadores/arq-simul/internal/sim"
	"github.com/RedesdeOrdenadores/arq-simul/internal/stats"
)

// recvEntry 接收缓存槽位 (按 seq % size 索引)
type recvEntry struct {
	seq         uint64
	payloadBits int
}

// Receiver 接收端状态机
// 状态只有期望序号 expected 和一个窗口大小的重组缓存。
// 确认携带累积语义: 期望的下一个序号。
type Receiver struct {
	sched *sim.Scheduler
	rev   *link.Channel // 确认方向信道
	stats *stats.Collector
	log   *sim.Logger

	headerBits int
	size       uint64

	expected uint64
	entries  []*recvEntry
}

// NewReceiver 创建接收端
func NewReceiver(sched *sim.Scheduler, rev *link.Channel, collector *stats.Collector,
	logger *sim.Logger, headerBits, windowSize int) *Receiver {
	return &Receiver{
		sched:      sched,
		rev:        rev,
		stats:      collector,
		log:        logger,
		headerBits: headerBits,
		size:       uint64(windowSize),
		entries:    make([]*recvEntry, windowSize),
	}
}

// Expected 期望的下一个序号 (累积确认点)
func (r *Receiver) Expected() uint64 { return r.expected }

// OnFrame 处理数据帧到达
// 损坏帧静默丢弃、不回确认——发送端的定时器超时是损坏的唯一恢复路径。
// 按序帧交付并带出缓存中已连续的帧；窗口内乱序帧缓存并回重复累积确认；
// 窗口外的帧直接丢弃。
func (r *Receiver) OnFrame(now float64, f *Frame) {
	if f.Corrupted {
		r.stats.OnFrameCorrupted()
		r.log.Tracef("%.9f frame got corrupted, discarded: %s", now, f)
		return
	}

	if f.Seq < r.expected || f.Seq >= r.expected+r.size {
		r.stats.OnFrameOutOfWindow()
		r.log.Debugf("%.9f ignoring frame outside window [%d, %d): %s",
			now, r.expected, r.expected+r.size, f)
		return
	}

	r.log.Tracef("%.9f DATA received %s", now, f)

	idx := f.Seq % r.size
	if r.entries[idx] == nil || r.entries[idx].seq != f.Seq {
		r.entries[idx] = &recvEntry{seq: f.Seq, payloadBits: f.PayloadBits}
	}

	if f.Seq == r.expected {
		r.deliverContiguous(now)
	} else {
		// 乱序: 缓存后仍回一个重复确认，便于发送端尽早感知缺口
		r.stats.OnFrameOutOfOrder()
		r.log.Debugf("%.9f out of order frame %d buffered, expecting %d", now, f.Seq, r.expected)
	}

	r.sendAck(now)
}

// deliverContiguous 从 expected 起交付所有已连续的缓存帧
func (r *Receiver) deliverContiguous(now float64) {
	for {
		idx := r.expected % r.size
		e := r.entries[idx]
		if e == nil || e.seq != r.expected {
			return
		}
		r.stats.OnFrameDelivered(e.payloadBits)
		r.entries[idx] = nil
		r.expected++
	}
}

// sendAck 发出携带累积确认值的确认帧
// 确认帧同样占用反向线路；按教学模型约定不做误码判定。
func (r *Receiver) sendAck(now float64) {
	txStart, txEnd := r.rev.Transmit(now, r.headerBits, 0, true)
	ack := &Ack{NextExpected: r.expected, SendTime: txStart}
	arrival := txEnd + r.rev.Link().PropDelay

	if _, err := r.sched.Schedule(sim.EventAckArrival, ack, arrival); err != nil {
		panic(err) // 内部不变量被破坏: 事件不可能早于当前时钟
	}
	r.stats.OnAckSent()
	r.log.Tracef("%.9f sending ACK, next expected %d", now, r.expected)
}
