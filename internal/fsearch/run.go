package fsearch

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

// Group 基于 errgroup + context 管理 watch 模式下的多个服务——
// 任务池的 worker 已经在 xscheduler.New 内部各自跑在自己的
// goroutine 里,Group 协调的是更上层的几个长期运行的服务:fsnotify
// 监视循环、xrescan 的 cron 调度器、以及可选的 metrics HTTP
// 服务器。当任一服务返回错误或 context 被取消时,其余服务都会
// 收到取消信号。
//
// stopCause 记录触发关闭的原因(目前只有 Run 收到系统信号时会设置,
// 值是 *SignalError),与 errgroup 本身的错误分开存放,这样 Wait
// 不需要靠比对 context 的取消原因来猜测一次 context.Canceled 究竟
// 是"有人主动要求关闭"还是"某个服务自己返回了 ctx.Err()"。
//
// Go 可安全地从多个 goroutine 并发调用,Wait 应仅调用一次。
type Group struct {
	eg     *errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
	name   string

	mu        sync.Mutex
	stopCause error
}

// NewGroup 创建新的 Group 并返回其派生的 context。
func NewGroup(ctx context.Context, name string, logger *slog.Logger) (*Group, context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = slog.Default()
	}

	cancelCtx, cancel := context.WithCancel(ctx)
	eg, egCtx := errgroup.WithContext(cancelCtx)

	return &Group{
		eg:     eg,
		ctx:    egCtx,
		cancel: cancel,
		logger: logger,
		name:   name,
	}, egCtx
}

// Go 启动一个 goroutine 执行 fn,fn 返回非 nil 错误时触发其余
// goroutine 的取消。
func (g *Group) Go(name string, fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		g.logger.Debug("service starting", "group", g.name, "service", name)
		err := fn(g.ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			g.logger.Warn("service exited with error", "group", g.name, "service", name, "error", err)
		} else {
			g.logger.Debug("service stopped", "group", g.name, "service", name)
		}
		return err
	})
}

// Wait 等待所有 goroutine 完成,返回第一个非 nil 错误(如果有)。
// 一次显式的 Cancel(cause) 总是优先作为返回值,即使所有服务自身都
// 返回了 nil 或 context.Canceled;没有显式 cause 时,普通的 context
// 取消会被过滤为 nil,只有服务自己返回的真实错误才会被传播。
func (g *Group) Wait() error {
	defer g.cancel()

	err := g.eg.Wait()

	g.mu.Lock()
	cause := g.stopCause
	g.mu.Unlock()

	if cause != nil {
		return cause
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Cancel 主动取消所有 goroutine。cause 非 nil 时会被 Wait() 作为
// 退出原因返回;cause 为 nil 时只触发取消,Wait() 仍可能返回 nil。
// 只有第一次非 nil 的 cause 会被记住。
func (g *Group) Cancel(cause error) {
	if cause != nil {
		g.mu.Lock()
		if g.stopCause == nil {
			g.stopCause = cause
		}
		g.mu.Unlock()
	}
	g.cancel()
}

// Context 返回 Group 的 context。
func (g *Group) Context() context.Context {
	return g.ctx
}

// DefaultSignals 返回 Run 默认监听的系统信号:SIGINT、SIGTERM、
// SIGHUP、SIGQUIT。每次调用返回新的切片。
func DefaultSignals() []os.Signal {
	return []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT}
}

// Run 是 watch 模式的入口：注册信号监听,启动 services 中的每一个,
// 等待全部完成或任一失败。收到信号时返回 *SignalError。
func Run(ctx context.Context, logger *slog.Logger, services map[string]func(ctx context.Context) error) error {
	g, _ := NewGroup(ctx, "fsearch-watch", logger)

	g.Go("signal", func(ctx context.Context) error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, DefaultSignals()...)
		defer signal.Stop(sigCh)

		select {
		case sig := <-sigCh:
			g.logger.Info("received signal", "signal", sig.String())
			g.Cancel(&SignalError{Signal: sig})
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	for name, svc := range services {
		g.Go(name, svc)
	}

	return g.Wait()
}

// HTTPServer 把 *http.Server 包装为一个支持优雅关闭的服务函数,
// 用于把 Prometheus 的 /metrics 端点接入 Group。
func HTTPServer(server *http.Server, shutdownTimeout time.Duration) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if server == nil {
			return ErrNilServer
		}

		shutdownErrCh := make(chan error, 1)
		go func() {
			<-ctx.Done()
			shutdownCtx := context.Background()
			if shutdownTimeout > 0 {
				var cancel context.CancelFunc
				shutdownCtx, cancel = context.WithTimeout(shutdownCtx, shutdownTimeout)
				defer cancel()
			}
			shutdownErrCh <- server.Shutdown(shutdownCtx)
		}()

		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return <-shutdownErrCh
		}
		return err
	}
}
