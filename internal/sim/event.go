// =============================================================================
// 文件: internal/sim/event.go
// 描述: 仿真事件 - 统一类型定义 (唯一定义位置)
// =============================================================================
package sim

// EventKind 事件类型
type EventKind uint8

const (
	EventFrameArrival EventKind = iota // 数据帧到达接收端
	EventAckArrival                    // 确认帧到达发送端
	EventTimeoutExpiry                 // 重传定时器超时
)

func (k EventKind) String() string {
	names := []string{"FRAME_ARRIVAL", "ACK_ARRIVAL", "TIMEOUT_EXPIRY"}
	if int(k) < len(names) {
		return names[k]
	}
	return "UNKNOWN"
}

// EventID 事件唯一标识 (等于插入序号)
type EventID uint64

// Event 仿真事件
// 事件一旦调度即不可变，由调度器按 (时间, 插入序号) 顺序弹出，
// 恰好消费一次。Payload 由事件的目标组件解释。
type Event struct {
	ID      EventID
	Time    float64 // 触发时刻 (虚拟时间, 秒)
	Kind    EventKind
	Payload interface{}
}

// Handler 事件处理接口
// 调度器把弹出的事件分发给 Handler；处理过程中可以继续调度新事件。
type Handler interface {
	HandleEvent(ev *Event, now float64)
}
