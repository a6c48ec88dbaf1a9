package xscheduler

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidJob 表示 Job 为空或处于未初始化的零值状态——
	// 调用一个空的/已移动的 Job。
	ErrInvalidJob = errors.New("xscheduler: invalid or empty job")

	// ErrJobAlreadyInvoked 表示同一个 Job 被 invoke 了第二次。
	// Job 是一次性的：constructed → queued → executing → completed，
	// 违反此生命周期是编程错误，不是任务执行失败。
	ErrJobAlreadyInvoked = errors.New("xscheduler: job already invoked")

	// ErrHandleAlreadyAwaited 表示同一个 Handle 被 Await 了第二次。
	ErrHandleAlreadyAwaited = errors.New("xscheduler: handle already awaited")

	// ErrJobAbandoned 表示 Job 在执行前就被丢弃——
	// 仅在 Reset 与并发提交竞争这类编程错误场景下才会出现
	// （正常的 Done + Close 总会先排空所有已入队的 Job）。
	ErrJobAbandoned = errors.New("xscheduler: job abandoned before execution")

	// ErrNilPool 表示向一个 nil *Pool 提交任务。
	ErrNilPool = errors.New("xscheduler: nil pool")
)

// PanicError 包裹 Job 执行期间被恢复的 panic。
//
// Job 的执行绝不会让 panic 沿着 worker 的调用栈向上传播；worker 会
// recover 并把它转换成这个错误类型，通过 Handle 交给提交者。
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("xscheduler: job panicked: %v", e.Value)
}

// Unwrap 允许 errors.As 在 Value 本身是 error 时继续展开。
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
