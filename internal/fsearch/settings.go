package fsearch

import (
	"os"
	"regexp"
)

// Settings 描述一次搜索(或一次 watch 会话)的全部参数,既可以由
// internal/xconf 从 fsearch.yaml/fsearch.json 反序列化得到,也可以
// 由 cmd/fsearch 的命令行参数直接构造。
type Settings struct {
	// Roots 是要递归搜索的目录列表。
	Roots []string `koanf:"roots"`
	// Patterns 是要搜索的正则表达式列表,可以有多个。
	Patterns []string `koanf:"patterns"`
	// Filter 是决定哪些文件会被examine的正则,默认 ".*"(全部)。
	Filter string `koanf:"filter"`
	// Workers 是任务池的 worker 数量,0 或负数由 xscheduler.New
	// 归一化为 1。
	Workers int `koanf:"workers"`
	// ProbeMultiplier 透传给 xscheduler.WithProbeMultiplier。
	ProbeMultiplier int `koanf:"probe_multiplier"`
	// RescanInterval 是 watch 模式下全量兜底重扫的 cron 表达式,如
	// "@every 5m"。空字符串表示禁用兜底重扫。
	RescanInterval string `koanf:"rescan_interval"`
	// MetricsAddr 是 Prometheus /metrics 的监听地址,空字符串表示
	// 不启动 metrics 服务器。
	MetricsAddr string `koanf:"metrics_addr"`
}

// DefaultSettings 返回搜索参数的默认值,调用方通常在此基础上覆盖
// Roots/Patterns 等必填字段。
func DefaultSettings() Settings {
	return Settings{
		Filter:          ".*",
		Workers:         0,
		ProbeMultiplier: 10,
		RescanInterval:  "@every 5m",
	}
}

// compiled 是 Settings 编译后的正则表达式,由 compile 产出。
type compiled struct {
	patterns []*regexp.Regexp
	filter   *regexp.Regexp
}

// compile 校验并编译 Settings 里的参数：filter 为空时回退到 ".*"，
// patterns 为空是硬错误,每个 root 必须存在且是目录。
func (s Settings) compile() (*compiled, error) {
	if len(s.Patterns) == 0 {
		return nil, ErrNoPatterns
	}
	if len(s.Roots) == 0 {
		return nil, ErrNoRoots
	}

	filterSrc := s.Filter
	if filterSrc == "" {
		filterSrc = ".*"
	}
	filter, err := regexp.Compile(filterSrc)
	if err != nil {
		return nil, err
	}

	patterns := make([]*regexp.Regexp, 0, len(s.Patterns))
	for _, p := range s.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, re)
	}

	for _, root := range s.Roots {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			return nil, ErrInvalidRoot
		}
	}

	return &compiled{patterns: patterns, filter: filter}, nil
}
