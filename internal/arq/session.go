// =============================================================================
// 文件: internal/arq/session.go
// 描述: 仿真会话 - 组装调度器/链路/收发状态机，驱动主循环并汇总报告
// =============================================================================
package arq

import (
	"fmt"

	"github.com/RedesdeOrdenadores/arq-simul/internal/config"
	"github.com/RedesdeOrdenadores/arq-simul/internal/link"
	"github.com/RedesdeOrdenadores/arq-simul/internal/sim"
	"github.com/RedesdeOrdenadores/arq-simul/internal/stats"
)

// Session 一次完整的仿真会话
// 单线程协作式: 调度器逐个弹出事件并经 HandleEvent 分发给收发两端，
// 分发过程中产生的新事件进入同一个队列。
type Session struct {
	cfg      *config.Config
	sched    *sim.Scheduler
	sender   *Sender
	receiver *Receiver
	stats    *stats.Collector
	log      *sim.Logger

	fwd *link.Channel // 数据方向
	rev *link.Channel // 确认方向
}

// NewSession 创建仿真会话
func NewSession(cfg *config.Config, logger *sim.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := link.Link{
		CapacityBps:  cfg.CapacityBps,
		PropDelay:    cfg.PropDelay,
		BitErrorRate: cfg.BitErrorRate,
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}

	policy := PolicySelectiveRepeat
	if cfg.Policy == config.PolicyGoBackN {
		policy = PolicyGoBackN
	}

	sched := sim.NewScheduler()
	collector := stats.NewCollector()
	fwd := link.NewChannel(l)
	rev := link.NewChannel(l)
	corrupt := link.NewCorruptionSource(cfg.BitErrorRate, cfg.Seed)

	headerBits := 8 * cfg.HeaderBytes
	payloadBits := 8 * cfg.PayloadBytes

	s := &Session{
		cfg:   cfg,
		sched: sched,
		stats: collector,
		log:   logger,
		fwd:   fwd,
		rev:   rev,
	}
	s.sender = NewSender(sched, fwd, corrupt, collector, logger.WithTag("Sender"),
		headerBits, payloadBits, cfg.WindowSize, policy, cfg.TotalFrames)
	s.receiver = NewReceiver(sched, rev, collector, logger.WithTag("Receiver"),
		headerBits, cfg.WindowSize)
	return s, nil
}

// Sender 发送端 (测试与检查用)
func (s *Session) Sender() *Sender { return s.sender }

// Receiver 接收端 (测试与检查用)
func (s *Session) Receiver() *Receiver { return s.receiver }

// Stats 统计收集器
func (s *Session) Stats() *stats.Collector { return s.stats }

// Now 当前虚拟时钟
func (s *Session) Now() float64 { return s.sched.Now() }

// HandleEvent 事件分发 (实现 sim.Handler)
func (s *Session) HandleEvent(ev *sim.Event, now float64) {
	switch ev.Kind {
	case sim.EventFrameArrival:
		s.receiver.OnFrame(now, ev.Payload.(*Frame))
	case sim.EventAckArrival:
		s.sender.OnAck(now, ev.Payload.(*Ack))
	case sim.EventTimeoutExpiry:
		s.sender.OnTimeout(now, ev.Payload.(uint64))
	default:
		s.log.Errorf("unknown event kind %d at %.9f", ev.Kind, now)
	}
}

// Run 运行仿真直到配置时长耗尽，返回最终报告
func (s *Session) Run() stats.Report {
	s.log.Infof("starting: capacity=%g bit/s prop_delay=%g s ber=%g window=%d policy=%s duration=%g s seed=%d",
		s.cfg.CapacityBps, s.cfg.PropDelay, s.cfg.BitErrorRate,
		s.cfg.WindowSize, s.sender.policy, s.cfg.Duration, s.cfg.Seed)

	s.sender.Start(0)
	if ok := s.sched.Run(s.cfg.Duration, s); !ok {
		s.log.Errorf("we have run out of events at %.9f", s.sched.Now())
	}
	s.sender.Finish()
	s.stats.EndTime = s.sched.Now()

	s.log.Infof("finished at %.6f s, sender state %s", s.sched.Now(), s.sender.State())
	return s.Report()
}

// Report 汇总最终报告
func (s *Session) Report() stats.Report {
	return s.stats.Report(s.cfg.Duration, s.cfg.CapacityBps,
		8*s.cfg.HeaderBytes, 8*s.cfg.PayloadBytes)
}

// LinkCounters 正反两个方向的信道字节计数
func (s *Session) LinkCounters() (data, ack link.DataCounter) {
	return s.fwd.Counter(), s.rev.Counter()
}

// DescribeLink 链路计数的终端输出
func (s *Session) DescribeLink() string {
	d, a := s.LinkCounters()
	return fmt.Sprintf("Data channel: received %d bytes (%d of data), delivered %d bytes (%d of data)\nAck channel:  received %d bytes, delivered %d bytes",
		d.RawReceived, d.GoodReceived, d.RawDelivered, d.GoodDelivered,
		a.RawReceived, a.RawDelivered)
}
