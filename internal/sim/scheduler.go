// =============================================================================
// 文件: internal/sim/scheduler.go
// 描述: 事件调度器 - 虚拟时钟 + 时间有序事件队列 (插入序号打破平局)
// =============================================================================
package sim

import (
	"container/heap"
	"errors"
	"fmt"
)

// ErrPastTime 试图把事件调度到当前时钟之前
// 这是内部不变量被破坏的信号，不是可恢复的运行时条件。
var ErrPastTime = errors.New("sim: event scheduled before current clock")

// eventRecord 事件记录 (arena 条目)
type eventRecord struct {
	ev       Event
	canceled bool
	fired    bool
}

// eventHeap 最小堆，按 (触发时刻, 插入序号) 排序
type eventHeap struct {
	arena *[]eventRecord
	ids   []EventID
}

func (h *eventHeap) Len() int { return len(h.ids) }

func (h *eventHeap) Less(i, j int) bool {
	a, b := &(*h.arena)[h.ids[i]].ev, &(*h.arena)[h.ids[j]].ev
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	return a.ID < b.ID
}

func (h *eventHeap) Swap(i, j int) { h.ids[i], h.ids[j] = h.ids[j], h.ids[i] }

func (h *eventHeap) Push(x interface{}) { h.ids = append(h.ids, x.(EventID)) }

func (h *eventHeap) Pop() interface{} {
	old := h.ids
	n := len(old)
	id := old[n-1]
	h.ids = old[:n-1]
	return id
}

// Scheduler 事件调度器
// 单线程协作式：一次只分发一个事件，分发完成后才弹出下一个。
// 虚拟时钟只在弹出更晚的事件时前进，由调度器独占修改。
type Scheduler struct {
	clock   float64
	arena   []eventRecord
	pending eventHeap
}

// NewScheduler 创建调度器
func NewScheduler() *Scheduler {
	s := &Scheduler{}
	s.pending.arena = &s.arena
	return s
}

// Now 当前虚拟时钟 (秒)
func (s *Scheduler) Now() float64 { return s.clock }

// Pending 剩余待处理事件数 (不含已取消)
func (s *Scheduler) Pending() int {
	n := 0
	for _, id := range s.pending.ids {
		if !s.arena[id].canceled {
			n++
		}
	}
	return n
}

// Schedule 在 at 时刻调度一个事件，返回可用于取消的事件标识
func (s *Scheduler) Schedule(kind EventKind, payload interface{}, at float64) (EventID, error) {
	if at < s.clock {
		return 0, fmt.Errorf("%w: at=%.9f clock=%.9f kind=%s", ErrPastTime, at, s.clock, kind)
	}

	id := EventID(len(s.arena))
	s.arena = append(s.arena, eventRecord{
		ev: Event{ID: id, Time: at, Kind: kind, Payload: payload},
	})
	heap.Push(&s.pending, id)
	return id, nil
}

// Cancel 取消一个尚未触发的事件
// 已触发或未知的事件标识是 no-op。取消采用惰性删除：
// 记录只做标记，出堆时跳过，避免悬挂引用。
func (s *Scheduler) Cancel(id EventID) {
	if int(id) >= len(s.arena) {
		return
	}
	rec := &s.arena[id]
	if rec.fired {
		return
	}
	rec.canceled = true
}

// pop 弹出最早的未取消事件，队列为空返回 nil
func (s *Scheduler) pop() *Event {
	for s.pending.Len() > 0 {
		id := heap.Pop(&s.pending).(EventID)
		rec := &s.arena[id]
		if rec.canceled {
			continue
		}
		rec.fired = true
		return &rec.ev
	}
	return nil
}

// Run 主循环：弹出最早事件、推进时钟、分发，直到时钟到达 until
// 到达 until 后剩余事件被丢弃。事件耗尽时提前返回 false。
func (s *Scheduler) Run(until float64, handler Handler) bool {
	for s.clock < until {
		ev := s.pop()
		if ev == nil {
			return false
		}
		if ev.Time > until {
			s.clock = until
			return true
		}
		s.clock = ev.Time
		handler.HandleEvent(ev, s.clock)
	}
	return true
}
