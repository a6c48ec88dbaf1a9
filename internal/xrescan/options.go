package xrescan

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// options 调度器配置。
type options struct {
	logger   *slog.Logger
	location *time.Location
	parser   cron.Parser
}

func defaultOptions() *options {
	return &options{
		logger:   slog.Default(),
		location: time.Local,
		parser:   cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}
}

// Option 配置调度器的函数式选项。
type Option func(*options)

// WithLogger 设置日志记录器,不设置时使用 slog.Default()。
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLocation 设置 cron 表达式解释所用的时区,默认本地时区。
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.location = loc
		}
	}
}

// WithSeconds 启用秒级精度的 cron 表达式解析(六段式,最前面一段
// 是秒)。不设置时使用标准五段式(分钟级精度)。
func WithSeconds() Option {
	return func(o *options) {
		o.parser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	}
}
