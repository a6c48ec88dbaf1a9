package fsearch

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/omeyang/taskpool/pkg/xscheduler"
)

// Stats 汇总一次搜索扫过的目录数、文件数与读取字节数,对应原始
// 程序 perform_search 返回的 dirs_searched/files_searched/bytes_read。
type Stats struct {
	DirsSearched  int
	FilesSearched int
	BytesRead     int64
}

// Engine 把 Settings 描述的搜索参数绑定到一个具体的
// xscheduler.Pool 上,提供一次性搜索(Search)、全量重扫(Rescan,
// 供 internal/xrescan 的兜底任务调用)和增量重扫(SubmitOne,由
// watch.go 在 fsnotify 事件到达时调用)三种操作。
type Engine struct {
	settings  Settings
	compiled  *compiled
	pool      *xscheduler.Pool
	logger    *slog.Logger
	bytesRead atomic.Int64
}

// New 校验并编译 settings,返回一个绑定到 pool 的 Engine。pool 的
// 生命周期由调用方管理,Engine 不拥有它。
func New(settings Settings, pool *xscheduler.Pool, logger *slog.Logger) (*Engine, error) {
	c, err := settings.compile()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if pool == nil {
		return nil, xscheduler.ErrNilPool
	}
	return &Engine{settings: settings, compiled: c, pool: pool, logger: logger}, nil
}

// Matches 报告 path 是否应当被搜索,即整个路径匹配 Settings.Filter。
func (e *Engine) Matches(path string) bool {
	return e.compiled.filter.MatchString(path)
}

// Roots 返回配置的搜索根目录,watch.go 用它来安装 fsnotify 监视。
func (e *Engine) Roots() []string {
	return e.settings.Roots
}

// BytesRead 返回自 Engine 创建以来累计读取的字节数。
func (e *Engine) BytesRead() int64 {
	return e.bytesRead.Load()
}

// SubmitOne 为单个文件提交一个搜索 Job,供增量重扫使用——不等待
// 结果,调用方通过返回的 Handle 自行 Await。
func (e *Engine) SubmitOne(path string) *xscheduler.Handle[Result] {
	return xscheduler.Submit(e.pool, func() (Result, error) {
		return e.findMatches(path)
	})
}

// Search 递归遍历 Settings.Roots 下的每个文件,对路径匹配
// Settings.Filter 的文件提交一个搜索 Job,等待全部完成后按遍历顺序
// 返回每个被搜索文件的 [Result]。
//
// 提交阶段完全与调度无关,提交完成后调用一次
// pool.Done + pool.WaitToCompletion,再统一收集结果。单个文件的读取
// 失败只会被记录为一条 Warn 日志,该文件不出现在返回的结果中,也不会
// 中止其余文件的搜索。
func (e *Engine) Search(ctx context.Context) ([]Result, Stats, error) {
	type pending struct {
		path   string
		handle *xscheduler.Handle[Result]
	}

	var stats Stats
	var order []pending

	for _, root := range e.settings.Roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if d.IsDir() {
				stats.DirsSearched++
				return nil
			}
			if !e.compiled.filter.MatchString(path) {
				return nil
			}
			stats.FilesSearched++
			order = append(order, pending{path: path, handle: e.SubmitOne(path)})
			return nil
		})
		if err != nil {
			return nil, stats, fmt.Errorf("fsearch: walk %s: %w", root, err)
		}
	}

	e.pool.Done()
	e.pool.WaitToCompletion()

	results := make([]Result, 0, len(order))
	for _, p := range order {
		r, err := p.handle.Await(ctx)
		if err != nil {
			e.logger.Warn("fsearch: file search failed", "path", p.path, "error", err)
			continue
		}
		results = append(results, r)
	}
	stats.BytesRead = e.BytesRead()

	return results, stats, nil
}

// Rescan 对 Settings.Roots 做一次全量重扫,与 Search 的区别是它
// 不调用 pool.Done/WaitToCompletion,而是逐个 Await 各文件的 Handle——
// 用于 watch 模式下 xrescan 驱动的周期性兜底重扫,pool 在整个 watch
// 会话期间持续运行,永远不会被 Done。每个被搜索文件的 Result(包括
// 未命中的)通过 onResult 回调通知调用方,而不是整体收集返回。
func (e *Engine) Rescan(ctx context.Context, onResult func(Result)) (Stats, error) {
	var stats Stats
	type pending struct {
		path   string
		handle *xscheduler.Handle[Result]
	}
	var order []pending

	for _, root := range e.settings.Roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if d.IsDir() {
				stats.DirsSearched++
				return nil
			}
			if !e.compiled.filter.MatchString(path) {
				return nil
			}
			stats.FilesSearched++
			order = append(order, pending{path: path, handle: e.SubmitOne(path)})
			return nil
		})
		if err != nil {
			return stats, fmt.Errorf("fsearch: rescan %s: %w", root, err)
		}
	}

	for _, p := range order {
		r, err := p.handle.Await(ctx)
		if err != nil {
			e.logger.Warn("fsearch: rescan failed", "path", p.path, "error", err)
			continue
		}
		if onResult != nil {
			onResult(r)
		}
	}
	stats.BytesRead = e.BytesRead()
	return stats, nil
}

// findMatches 读取单个文件并用每个编译过的模式逐行匹配,复刻原始
// 程序 find_matches 的语义,但按行而非按整个文件内容的字节流匹配,
// 以便携带行号。
func (e *Engine) findMatches(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrReadFailed, path, err)
	}
	defer f.Close()

	result := Result{Path: path}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		e.bytesRead.Add(int64(len(line)) + 1)
		for _, p := range e.compiled.patterns {
			if p.MatchString(line) {
				result.Lines = append(result.Lines, MatchedLine{Number: lineNo, Text: line})
				break
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrReadFailed, path, err)
	}

	result.Match = len(result.Lines) > 0
	return result, nil
}
