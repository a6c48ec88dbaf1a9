package fsearch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchOption 配置 Watcher。
type WatchOption func(*watchOptions)

type watchOptions struct {
	debounce time.Duration
	logger   *slog.Logger
}

func defaultWatchOptions() *watchOptions {
	return &watchOptions{
		debounce: 200 * time.Millisecond,
		logger:   slog.Default(),
	}
}

// WithDebounce 设置同一文件在多次快速变更事件后触发重扫前的等待
// 时间,默认 200ms。
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithWatchLogger 设置日志记录器,不设置时使用 slog.Default()。
func WithWatchLogger(logger *slog.Logger) WatchOption {
	return func(o *watchOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Watcher 用 fsnotify 监视 Engine 的搜索根目录,文件变更时只对
// 该文件重新提交一个搜索 Job,而不是重新走一遍整棵目录树。
type Watcher struct {
	engine   *Engine
	onResult func(Result)
	fsw      *fsnotify.Watcher
	opts     *watchOptions

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewWatcher 创建一个监视 engine 搜索根目录的 Watcher。onResult
// 在每次增量重扫产生结果时被调用,可能并发调用,需要自行同步。
func NewWatcher(engine *Engine, onResult func(Result), opts ...WatchOption) (*Watcher, error) {
	o := defaultWatchOptions()
	for _, opt := range opts {
		opt(o)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		engine:   engine,
		onResult: onResult,
		fsw:      fsw,
		opts:     o,
		timers:   make(map[string]*time.Timer),
	}

	for _, root := range engine.Roots() {
		if err := w.addTree(root); err != nil {
			closeErr := fsw.Close()
			return nil, errors.Join(err, closeErr)
		}
	}

	return w, nil
}

// addTree 递归地把 root 及其全部子目录加入监视——fsnotify 不支持
// 递归监视单个目录树,必须逐个目录 Add。
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
}

// Run 阻塞地处理文件系统事件,直到 ctx 被取消或底层 watcher 关闭。
// 设计为 errgroup.Group.Go 的服务函数使用。
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.opts.logger.Warn("fsearch: watcher error", "error", err)
		}
	}
}

// Close 释放底层 fsnotify watcher 与所有未触发的防抖定时器。
func (w *Watcher) Close() error {
	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.timers = nil
	w.mu.Unlock()
	return w.fsw.Close()
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.opts.logger.Warn("fsearch: failed to watch new directory", "path", event.Name, "error", err)
			}
			return
		}
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	if !w.engine.Matches(event.Name) {
		return
	}

	w.debounced(event.Name, func() {
		h := w.engine.SubmitOne(event.Name)
		r, err := h.Await(ctx)
		if err != nil {
			w.opts.logger.Warn("fsearch: incremental rescan failed", "path", event.Name, "error", err)
			return
		}
		if w.onResult != nil {
			w.onResult(r)
		}
	})
}

func (w *Watcher) debounced(path string, fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timers == nil {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.opts.debounce, fn)
}
