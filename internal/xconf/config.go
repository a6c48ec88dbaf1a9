// Package xconf 是一个很小的"文件/字节 → 结构体"配置加载器：
// koanf.New + rawbytes.Provider + 按格式选择 parser 的加载路径，
// Unmarshal/MustUnmarshal 接口，裁剪到 fsearch 这个 CLI 实际需要
// 的 YAML/JSON 两种格式，不做热重载——配置只在启动时读取一次；
// internal/fsearch 的 fsnotify watcher 监视的是搜索根目录下的文件，
// 不是配置文件。
package xconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Format 定义配置文件格式。
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Loader 持有已加载的配置数据,支持反序列化到调用方的结构体。
type Loader struct {
	k      *koanf.Koanf
	path   string
	format Format
}

// New 从文件路径加载配置,根据扩展名自动检测格式（.yaml/.yml 或 .json）。
func New(path string) (*Loader, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	return NewFromBytes(data, format, path)
}

// NewFromBytes 从字节数据加载配置,需要显式指定格式。
func NewFromBytes(data []byte, format Format, path string) (*Loader, error) {
	if !isValidFormat(format) {
		return nil, ErrUnsupportedFormat
	}
	k := koanf.New(".")
	if len(data) > 0 {
		if err := loadData(k, data, format); err != nil {
			return nil, err
		}
	}
	return &Loader{k: k, path: path, format: format}, nil
}

// Unmarshal 把整个配置反序列化到 target。
func (l *Loader) Unmarshal(target any) error {
	if err := l.k.Unmarshal("", target); err != nil {
		return fmt.Errorf("%w: %w", ErrUnmarshalFailed, err)
	}
	return nil
}

// MustUnmarshal 与 Unmarshal 相同,但失败时 panic——用于启动阶段的
// 必要配置加载。
func (l *Loader) MustUnmarshal(target any) {
	if err := l.Unmarshal(target); err != nil {
		panic(err)
	}
}

// Path 返回创建时记录的配置文件路径;NewFromBytes 传入空路径时返回空字符串。
func (l *Loader) Path() string {
	return l.path
}

// Format 返回配置格式。
func (l *Loader) Format() Format {
	return l.format
}

func detectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func isValidFormat(format Format) bool {
	switch format {
	case FormatYAML, FormatJSON:
		return true
	default:
		return false
	}
}

func loadData(k *koanf.Koanf, data []byte, format Format) error {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return ErrUnsupportedFormat
	}
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return nil
}
