package xrescan

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler 周期性重扫调度器,封装 robfig/cron/v3。
//
// 用于在 watch 模式下定期触发一次全量目录树重扫,作为 fsnotify
// 事件可能被内核丢弃(例如目录下短时间内发生大量变更)时的安全网。
// 使用 [New] 创建。
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// New 创建新的调度器。不带参数时使用本地时区、分钟级精度。
//
// 用法：
//
//	scheduler := xrescan.New()
//	_, err := scheduler.AddFunc("@every 5m", func(ctx context.Context) error {
//	    return tree.Rescan(ctx)
//	})
//	scheduler.Start()
//	defer scheduler.Stop()
func New(opts ...Option) *Scheduler {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	c := cron.New(cron.WithLocation(o.location), cron.WithParser(o.parser))
	return &Scheduler{cron: c, logger: o.logger}
}

// AddFunc 添加一个按 spec 描述的周期任务,如 "@every 5m" 或
// "0 * * * *"。task 接收的 context 没有超时,也不会被取消(Stop
// 只等待运行中的 task 结束)。task 返回的错误只会被记录日志,不会
// 中断后续的调度。
func (s *Scheduler) AddFunc(spec string, task func(ctx context.Context) error) (cron.EntryID, error) {
	if task == nil {
		return 0, ErrNilTask
	}
	return s.cron.AddFunc(spec, func() {
		if err := task(context.Background()); err != nil {
			s.logger.Warn("xrescan: scheduled task failed", "spec", spec, "error", err)
		}
	})
}

// Start 启动调度器(非阻塞)。重复调用无效果。
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop 停止接受新的任务调度,返回的 context 在所有运行中的任务
// 完成后 Done。
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Entries 返回所有已注册的任务,主要用于测试与调试。
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}
