package xrescan

import "errors"

// ErrNilTask 表示传入 AddFunc 的任务函数为 nil。
var ErrNilTask = errors.New("xrescan: task cannot be nil")
