// =============================================================================
// 文件: internal/link/corruption.go
// 描述: 随机误码源 - 显式播种的确定性生成器，逐帧判定是否损坏
// =============================================================================
package link

import (
	"math"
	"math/rand"
)

// CorruptionSource 误码判定源
// 绝不使用全局随机数：生成器由显式种子创建并作为依赖注入，
// 相同种子 + 相同配置 = 完全相同的仿真结果。
type CorruptionSource struct {
	ber float64
	rng *rand.Rand
}

// NewCorruptionSource 创建误码源
func NewCorruptionSource(ber float64, seed int64) *CorruptionSource {
	return &CorruptionSource{
		ber: ber,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Corrupted 判定一次传输是否被损坏
// 整帧无损概率为 (1-ber)^bits，每次传输独立判定一次；
// 重传是新的传输，重新判定，不复用历史结果。
func (c *CorruptionSource) Corrupted(bits int) bool {
	if c.ber == 0 {
		return false
	}
	probOK := math.Pow(1-c.ber, float64(bits))
	return c.rng.Float64() > probOK
}
