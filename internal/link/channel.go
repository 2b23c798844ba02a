// =============================================================================
// 文件: internal/link/channel.go
// 描述: 单向信道 - 容量占用串行化 + 原始/有效字节计数
// =============================================================================
package link

// DataCounter 信道字节计数
// raw 含帧头，good 仅载荷。received 指进入信道的字节，
// delivered 指无损到达对端的字节。
type DataCounter struct {
	RawReceived   uint64
	GoodReceived  uint64
	RawDelivered  uint64
	GoodDelivered uint64
}

// Channel 单向信道
// 同方向的多次传输在链路上排队：下一帧最早在上一帧发完后才能上线路。
// busyUntil 记录线路占用到的时刻。
type Channel struct {
	link      Link
	busyUntil float64
	counter   DataCounter
}

// NewChannel 创建单向信道
func NewChannel(l Link) *Channel {
	return &Channel{link: l}
}

// Link 信道所属链路配置
func (c *Channel) Link() Link { return c.link }

// Transmit 把一帧放上线路
// 返回 (发送开始时刻, 发送完成时刻)；到达对端时刻 = 发送完成 + 传播时延。
// delivered 表示该帧是否会无损到达 (损坏帧照常占用线路，但不计入送达)。
func (c *Channel) Transmit(now float64, headerBits, payloadBits int, delivered bool) (txStart, txEnd float64) {
	txStart = now
	if c.busyUntil > txStart {
		txStart = c.busyUntil
	}
	txEnd = txStart + c.link.TxTime(headerBits+payloadBits)
	c.busyUntil = txEnd

	c.counter.RawReceived += uint64(headerBits+payloadBits) / 8
	c.counter.GoodReceived += uint64(payloadBits) / 8
	if delivered {
		c.counter.RawDelivered += uint64(headerBits+payloadBits) / 8
		c.counter.GoodDelivered += uint64(payloadBits) / 8
	}
	return txStart, txEnd
}

// Counter 当前计数快照
func (c *Channel) Counter() DataCounter { return c.counter }
