package xscheduler

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option 配置 Pool 的选项函数，模式与 xkeylock.Option、xrun.Option 一致。
type Option func(*options)

type options struct {
	logger            *slog.Logger
	probeMultiplier   int
	metricsRegisterer prometheus.Registerer
	metricsNamespace  string
}

func defaultOptions() *options {
	return &options{
		logger:           slog.Default(),
		probeMultiplier:  10,
		metricsNamespace: "xscheduler",
	}
}

// WithLogger 设置 Pool 使用的日志记录器。默认使用 slog.Default()。
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithProbeMultiplier 设置扫描/提交时每个方向上尝试的队列数相对于
// worker 数 N 的倍数。该常数不影响正确性，只影响在中等负载下找到空闲
// 队列的概率与饱和时的浪费开销，默认 10。
func WithProbeMultiplier(multiplier int) Option {
	return func(o *options) {
		if multiplier > 0 {
			o.probeMultiplier = multiplier
		}
	}
}

// WithMetrics 启用 Prometheus 指标采集，把计数器和按需读取的 Collector
// 注册到给定的 Registerer。不传此选项时指标完全关闭，所有记录调用都是
// 空操作（metrics 字段保持为 nil，方法在 nil 接收者上直接返回）。
func WithMetrics(registerer prometheus.Registerer) Option {
	return func(o *options) {
		o.metricsRegisterer = registerer
	}
}

// WithMetricsNamespace 设置指标名称前缀，默认 "xscheduler"。
func WithMetricsNamespace(namespace string) Option {
	return func(o *options) {
		if namespace != "" {
			o.metricsNamespace = namespace
		}
	}
}
