package fsearch

import (
	"errors"
	"os"
)

var (
	// ErrNoPatterns 表示 Settings 中没有提供任何搜索正则。
	ErrNoPatterns = errors.New("fsearch: no search patterns provided")

	// ErrNoRoots 表示 Settings 中没有提供任何搜索根目录。
	ErrNoRoots = errors.New("fsearch: no search roots provided")

	// ErrInvalidRoot 表示某个搜索根目录不存在或不是目录。
	ErrInvalidRoot = errors.New("fsearch: root is not a directory")

	// ErrReadFailed 包装某个文件读取失败的错误,由对应文件的 Job
	// 捕获并通过其 Handle 再次抛出。
	ErrReadFailed = errors.New("fsearch: failed to read file")

	// ErrNilFunc 表示传入 Group.Go 的函数为 nil。
	ErrNilFunc = errors.New("fsearch: service function cannot be nil")

	// ErrNilServer 表示传入 HTTPServer 的 server 为 nil。
	ErrNilServer = errors.New("fsearch: http server cannot be nil")

	// ErrSignal 表示进程因收到系统信号而终止。
	// 使用 errors.Is(err, ErrSignal) 判断是否为信号错误。
	ErrSignal = errors.New("fsearch: received signal")
)

// SignalError 包含触发终止的具体信号信息。Run 在收到系统信号时
// 返回此错误。
type SignalError struct {
	Signal os.Signal
}

// Error 实现 error 接口。
func (e *SignalError) Error() string {
	if e.Signal == nil {
		return "fsearch: received signal <nil>"
	}
	return "fsearch: received signal " + e.Signal.String()
}

// Is 支持 errors.Is(err, ErrSignal) 判断。
func (e *SignalError) Is(target error) bool {
	return target == ErrSignal
}

// Unwrap 返回底层的哨兵错误。
func (e *SignalError) Unwrap() error {
	return ErrSignal
}
