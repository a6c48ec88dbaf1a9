package xscheduler

import (
	"runtime/debug"
	"sync/atomic"

	"github.com/google/uuid"
)

// jobState 描述 Job 一次性生命周期中的状态迁移。
type jobState int32

const (
	jobConstructed jobState = iota
	jobExecuting
	jobCompleted
)

// Job 是一个类型擦除的一次性工作单元：捕获的可调用对象 + 捕获的参数
// （在构造时一起闭包进 run 字段）以及一个配对的完成通道（fail/run 都
// 最终写入同一个 Handle，但 Job 本身对 Handle 的具体类型一无所知）。
//
// Job 先被 Pool 在 enqueue 时持有，然后被某个 jobQueue 持有，最后被
// 弹出它的 worker 持有并在 invoke 后立即丢弃。Job 从不被复制，
// 只通过 *Job 指针传递。
type Job struct {
	id    uuid.UUID
	state atomic.Int32

	// run 执行真正的用户闭包并把结果写入配对的 Handle。
	run func()

	// fail 把一个已捕获的失败（逻辑错误、panic、abandon）写入配对的
	// Handle。与 run 分开，是因为 invoke 本身需要在不知道 Handle
	// 具体类型参数 T 的情况下也能完成失败路径。
	fail func(error)
}

// newJob 构造一个刚完成构造的 Job。run/fail 均不能为 nil。
func newJob(id uuid.UUID, run func(), fail func(error)) *Job {
	return &Job{id: id, run: run, fail: fail}
}

// ID 返回此 Job 的唯一标识，用于日志关联提交与完成。
func (j *Job) ID() uuid.UUID {
	return j.id
}

// invoke 执行一次 Job：对存储的可调用对象求值，把返回值或传播的失败
// 捕获进完成通道，且保证安全地从任意 worker 线程调用。
//
// 对一个空 Job 或已经执行过的 Job 调用 invoke 是编程错误，会被当作
// 一次失败的任务执行路由给 Handle（而不是让它向上传播打断 worker
// 循环）。
func (j *Job) invoke() {
	if j == nil {
		return
	}
	if j.run == nil {
		if j.fail != nil {
			j.fail(ErrInvalidJob)
		}
		return
	}
	if j.fail == nil {
		return
	}
	if !j.state.CompareAndSwap(int32(jobConstructed), int32(jobExecuting)) {
		j.fail(ErrJobAlreadyInvoked)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			j.fail(&PanicError{Value: r, Stack: debug.Stack()})
		}
		j.state.Store(int32(jobCompleted))
	}()
	j.run()
}

// abandon 在 Job 从未被 invoke 就需要被丢弃时完成其 Handle。
// 仅由 Reset/Close 在防御性清理残留队列内容时调用。
func (j *Job) abandon() {
	if j == nil || j.fail == nil {
		return
	}
	if j.state.CompareAndSwap(int32(jobConstructed), int32(jobCompleted)) {
		j.fail(ErrJobAbandoned)
	}
}
