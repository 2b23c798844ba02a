// =============================================================================
// 文件: internal/arq/types.go
// 描述: ARQ 协议 - 统一类型定义 (唯一定义位置)
// =============================================================================
package arq

import "fmt"

// SenderState 发送端状态
type SenderState uint8

const (
	StateIdle        SenderState = iota // 尚未开始
	StateSending                        // 窗口有空位，正在填充
	StateWaitingAcks                    // 窗口已满，等待确认
	StateDraining                       // 数据发完，等待尾部确认
	StateDone                           // 仿真结束
)

func (s SenderState) String() string {
	names := []string{"IDLE", "SENDING", "WAITING_ACKS", "DRAINING", "DONE"}
	if int(s) < len(names) {
		return names[s]
	}
	return "UNKNOWN"
}

// Frame 数据帧
// 由发送端创建；线路上的序列号按序列空间取模携带，
// 仿真内部用 64 位单调序号做账，永不回绕。
type Frame struct {
	Seq         uint64  // 内部单调序号 (从 0 起)
	WireSeq     uint64  // 线路序号 = Seq mod 序列空间
	HeaderBits  int
	PayloadBits int
	Corrupted   bool    // 本次传输的误码判定，发送时决定
	Retries     int     // 0 表示首发
	SendTime    float64 // 开始占用线路的时刻
	ArrivalTime float64 // 完整到达对端的时刻
}

func (f *Frame) String() string {
	return fmt.Sprintf("seq=%d(wire %d) H=%db P=%db retries=%d corrupted=%v",
		f.Seq, f.WireSeq, f.HeaderBits, f.PayloadBits, f.Retries, f.Corrupted)
}

// Ack 确认帧
// 携带累积确认值：接收端期望的下一个序号。确认帧只含帧头，
// 按教学模型约定不受误码影响。
type Ack struct {
	NextExpected uint64
	SendTime     float64
}

// Policy 超时重传策略
type Policy uint8

const (
	PolicySelectiveRepeat Policy = iota // 只重传超时帧
	PolicyGoBackN                       // 重传全部在途帧
)

func (p Policy) String() string {
	if p == PolicyGoBackN {
		return "go-back-n"
	}
	return "selective-repeat"
}
