package xscheduler

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Handle 是调用方持有的、类似 future 的对象，承载配对 Job 的结果。
//
// Handle 与 Job 1:1 配对，在创建时建立配对关系。Handle 的生命周期独立
// 于 Job：它在 Job 完成后依然存活，甚至可以在 Pool 被 Close 之后存活。
// 所有权专属于提交者；恰好一个写者（执行 Job 的 worker）、至多一个
// 读者（Handle 持有者），写 happens-before 对应的读。
//
// 不同返回类型的 Handle 互不兼容——Go 的类型系统通过 Handle[T] 的类型
// 参数在编译期就保证了这一点，无需运行时类型断言。
type Handle[T any] struct {
	jobID   uuid.UUID
	once    sync.Once
	done    chan struct{}
	value   T
	err     error
	awaited atomic.Bool
}

// newHandle 构造一个与给定 Job ID 配对、尚未完成的 Handle。
func newHandle[T any](id uuid.UUID) *Handle[T] {
	return &Handle[T]{jobID: id, done: make(chan struct{})}
}

// complete 写入结果并唤醒等待者。只有第一次调用生效——
// 这保证了恰好一个写者的不变式，即便调用方误用导致 complete 被多次
// 触发（例如 abandon 与正常执行竞争）也不会 panic 或破坏状态。
func (h *Handle[T]) complete(v T, err error) {
	h.once.Do(func() {
		h.value = v
		h.err = err
		close(h.done)
	})
}

// JobID 返回配对 Job 的标识，用于把一次提交与它的完成日志关联起来。
func (h *Handle[T]) JobID() uuid.UUID {
	return h.jobID
}

// IsReady 是一次非阻塞的就绪探测。
func (h *Handle[T]) IsReady() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Await 阻塞直至配对的 Job 执行完毕，返回其返回值，或者重新抛出执行期间
// 捕获的失败（包括传播的 panic、逻辑错误、abandon）。
//
// 每个 Handle 至多只应 Await 一次；第二次调用立即返回
// ErrHandleAlreadyAwaited 而不会等待。
//
// ctx 用来让"等待"本身可被取消——这不会取消已经在执行或已经入队的
// Job（调度器不支持任务取消），只是让调用方可以不再无限期阻塞在
// Await 上；Job 仍然会照常跑完。
func (h *Handle[T]) Await(ctx context.Context) (T, error) {
	if !h.awaited.CompareAndSwap(false, true) {
		var zero T
		return zero, ErrHandleAlreadyAwaited
	}
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-h.done:
		return h.value, h.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
