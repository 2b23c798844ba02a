// =============================================================================
// 文件: internal/arq/sender.go
// 描述: ARQ 发送端状态机 - 滑动窗口、逐帧定时器、超时重传策略
// =============================================================================
package arq

import (
	"github.com/RedesdeOrdenadores/arq-simul/internal/link"
	"github.com/RedesdeOrdenadores/arq-simul/internal/sim"
	"github.com/RedesdeOrdenadores/arq-simul/internal/stats"
)

// sendEntry 发送窗口槽位 (按 seq % size 索引)
type sendEntry struct {
	seq         uint64
	retries     int
	timerID     sim.EventID
	timerActive bool
}

// Sender 发送端状态机
// 窗口不变量: nextSeq - base <= size，每次操作后都成立。
// 窗口、槽位和定时器只由发送端自己修改。
type Sender struct {
	sched   *sim.Scheduler
	fwd     *link.Channel // 数据方向信道
	corrupt *link.CorruptionSource
	stats   *stats.Collector
	log     *sim.Logger

	headerBits  int
	payloadBits int
	size        uint64
	seqSpace    uint64 // 线路序号空间 = 2 * 窗口
	policy      Policy
	totalFrames uint64 // 0 表示数据无限
	rto         float64

	state   SenderState
	base    uint64 // 最小未确认序号
	nextSeq uint64 // 下一个待发序号
	entries []*sendEntry
}

// NewSender 创建发送端
// 重传定时器用固定的往返时间估计: RTO = 2 x (帧发送时间 + 传播时延)。
// 确认帧只含帧头、比数据帧短，所以无损链路上确认总是严格先于超时到达。
func NewSender(sched *sim.Scheduler, fwd *link.Channel, corrupt *link.CorruptionSource,
	collector *stats.Collector, logger *sim.Logger,
	headerBits, payloadBits, windowSize int, policy Policy, totalFrames uint64) *Sender {

	l := fwd.Link()
	frameBits := headerBits + payloadBits
	return &Sender{
		sched:       sched,
		fwd:         fwd,
		corrupt:     corrupt,
		stats:       collector,
		log:         logger,
		headerBits:  headerBits,
		payloadBits: payloadBits,
		size:        uint64(windowSize),
		seqSpace:    2 * uint64(windowSize),
		policy:      policy,
		totalFrames: totalFrames,
		rto:         2 * (l.TxTime(frameBits) + l.PropDelay),
		state:       StateIdle,
		entries:     make([]*sendEntry, windowSize),
	}
}

// State 当前状态
func (s *Sender) State() SenderState { return s.state }

// Base 最小未确认序号
func (s *Sender) Base() uint64 { return s.base }

// NextSeq 下一个待发序号
func (s *Sender) NextSeq() uint64 { return s.nextSeq }

// Outstanding 在途帧数
func (s *Sender) Outstanding() uint64 { return s.nextSeq - s.base }

func (s *Sender) windowOpen() bool { return s.nextSeq-s.base < s.size }

func (s *Sender) moreToSend() bool {
	return s.totalFrames == 0 || s.nextSeq < s.totalFrames
}

// Start 填满发送窗口
// 只要窗口有空位且还有数据，就持续发出新帧；每帧发出后启动定时器。
// 确认到达释放窗口空位时由 OnAck 重新调用。
func (s *Sender) Start(now float64) {
	for s.windowOpen() && s.moreToSend() {
		seq := s.nextSeq
		s.entries[seq%s.size] = &sendEntry{seq: seq}
		s.nextSeq++
		s.transmit(now, s.entries[seq%s.size])
		s.stats.OnOutstanding(s.Outstanding())
	}
	s.updateState()
}

// transmit 把序号 seq 的帧放上线路并启动其定时器
// 误码判定在发送时刻决定，每次传输独立判定：重传不复用上次的结果。
func (s *Sender) transmit(now float64, e *sendEntry) {
	frameBits := s.headerBits + s.payloadBits
	corrupted := s.corrupt.Corrupted(frameBits)
	txStart, txEnd := s.fwd.Transmit(now, s.headerBits, s.payloadBits, !corrupted)

	f := &Frame{
		Seq:         e.seq,
		WireSeq:     e.seq % s.seqSpace,
		HeaderBits:  s.headerBits,
		PayloadBits: s.payloadBits,
		Corrupted:   corrupted,
		Retries:     e.retries,
		SendTime:    txStart,
		ArrivalTime: txEnd + s.fwd.Link().PropDelay,
	}

	if _, err := s.sched.Schedule(sim.EventFrameArrival, f, f.ArrivalTime); err != nil {
		panic(err) // 内部不变量被破坏: 事件不可能早于当前时钟
	}

	timerID, err := s.sched.Schedule(sim.EventTimeoutExpiry, e.seq, txStart+s.rto)
	if err != nil {
		panic(err)
	}
	e.timerID = timerID
	e.timerActive = true

	s.stats.OnFrameSent(e.retries > 0)
	s.log.Tracef("%.9f sending %s", now, f)
}

// OnAck 处理累积确认
// ack 携带接收端期望的下一个序号；窗口内的确认推进 base 并补发新帧，
// 重复或越界的确认不改变任何状态。
func (s *Sender) OnAck(now float64, ack *Ack) {
	nx := ack.NextExpected
	if nx <= s.base || nx > s.nextSeq {
		s.stats.OnDuplicateAck()
		s.log.Debugf("%.9f ignoring ack %d, window (%d, %d]", now, nx, s.base, s.nextSeq)
		return
	}

	s.log.Tracef("%.9f ACK received, next expected %d", now, nx)
	s.log.Debugf("current window: (%d, %d]", s.base, s.nextSeq)

	for seq := s.base; seq < nx; seq++ {
		e := s.entries[seq%s.size]
		if e == nil || e.seq != seq {
			continue
		}
		if e.timerActive {
			s.sched.Cancel(e.timerID)
			e.timerActive = false
		}
		s.entries[seq%s.size] = nil
	}
	s.base = nx

	s.Start(now)
}

// OnTimeout 处理重传定时器超时
// 已确认序号的迟到超时是 no-op (取消与触发都是离散事件，
// 触发可能先于取消被观察到，必须在这里兜底)。
func (s *Sender) OnTimeout(now float64, seq uint64) {
	if seq < s.base {
		s.log.Tracef("%.9f ignoring timeout for %d, minimum is %d", now, seq, s.base)
		return
	}
	e := s.entries[seq%s.size]
	if e == nil || e.seq != seq {
		return
	}

	s.log.Debugf("%.9f processing timeout %d (%s)", now, seq, s.policy)

	switch s.policy {
	case PolicyGoBackN:
		// 回退 N: 全部在途帧都重发
		for q := s.base; q < s.nextSeq; q++ {
			if e2 := s.entries[q%s.size]; e2 != nil && e2.seq == q {
				s.retransmit(now, e2)
			}
		}
	default:
		// 选择重传: 只重发超时的那一帧
		s.retransmit(now, e)
	}
}

func (s *Sender) retransmit(now float64, e *sendEntry) {
	if e.timerActive {
		s.sched.Cancel(e.timerID)
		e.timerActive = false
	}
	e.retries++
	s.transmit(now, e)
}

func (s *Sender) updateState() {
	switch {
	case !s.moreToSend() && s.Outstanding() == 0:
		s.state = StateDone
	case !s.moreToSend():
		s.state = StateDraining
	case !s.windowOpen():
		s.state = StateWaitingAcks
	default:
		s.state = StateSending
	}
}

// Finish 仿真时长耗尽，进入终态
func (s *Sender) Finish() {
	s.state = StateDone
}
