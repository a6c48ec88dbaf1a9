package xconf

import "errors"

var (
	// ErrEmptyPath 表示传入 New 的文件路径为空字符串。
	ErrEmptyPath = errors.New("xconf: empty path")

	// ErrUnsupportedFormat 表示文件扩展名或显式指定的格式不是
	// yaml/yml/json 之一。
	ErrUnsupportedFormat = errors.New("xconf: unsupported format")

	// ErrLoadFailed 表示读取配置文件失败。
	ErrLoadFailed = errors.New("xconf: load failed")

	// ErrParseFailed 表示按检测到的格式解析配置内容失败。
	ErrParseFailed = errors.New("xconf: parse failed")

	// ErrUnmarshalFailed 表示把配置反序列化到目标结构体失败。
	ErrUnmarshalFailed = errors.New("xconf: unmarshal failed")
)
