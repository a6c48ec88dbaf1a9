package xscheduler

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Pool 是固定宽度的工作窃取任务调度器：N 个队列、N 个 worker、一个
// 用于轮询定位的单调递增分派计数器，以及一个原子的在途任务计数器。
//
// worker 数量等于队列数量；worker i 为阻塞 pop 持有队列 i 的所有权，
// 但可以通过 try-pop 从任意队列窃取。在途任务计数器在任意时刻、从任意
// 观察者线程看，都等于"已被某个队列接受但尚未被某个 worker 弹出"的
// Job 数量——它在使 Job 可见的 push 之前递增，在成功 pop 之后递减。
type Pool struct {
	opts *options

	queues  []*jobQueue
	workers []*worker

	workersWG sync.WaitGroup

	mu          sync.Mutex
	exitedCond  *sync.Cond
	exitedCount int

	dispatchCounter atomic.Uint64
	outstanding     atomic.Int64

	metrics *metrics
	closed  atomic.Bool
}

// New 创建一个拥有 n 个 worker 的 Pool 并立即启动它们。n < 1 会被
// 归一化为 1——拒绝会让零值构造变得难用，这里选择归一化。
func New(n int, opts ...Option) *Pool {
	if n < 1 {
		n = 1
	}
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	p := &Pool{opts: o}
	p.exitedCond = sync.NewCond(&p.mu)
	p.metrics = newMetrics(o.metricsRegisterer, p, o.metricsNamespace)
	p.start(n)
	return p
}

func (p *Pool) start(n int) {
	p.queues = make([]*jobQueue, n)
	for i := range p.queues {
		p.queues[i] = newJobQueue()
	}
	p.workers = make([]*worker, n)
	p.workersWG.Add(n)
	for i := 0; i < n; i++ {
		w := &worker{index: i, pool: p}
		p.workers[i] = w
		go w.loop()
	}
	p.opts.logger.Debug("pool started", slog.Int("workers", n))
}

// Submit 构造一个 Job + Handle 对，把 Job 分派到某个队列，并立即返回
// Handle。fn 会在某个 worker 上恰好执行一次；它的返回值就是返回的
// Handle 携带的负载类型。
//
// 从任意线程（包括 worker 自身，用于提交后续任务）调用都是安全的。
func Submit[T any](p *Pool, fn func() (T, error)) *Handle[T] {
	if p == nil {
		h := newHandle[T](uuid.Nil)
		var zero T
		h.complete(zero, ErrNilPool)
		return h
	}
	id := uuid.New()
	h := newHandle[T](id)
	j := newJob(id,
		func() {
			v, err := fn()
			p.metrics.recordResult(err)
			h.complete(v, err)
		},
		func(err error) {
			p.metrics.recordResult(err)
			var zero T
			h.complete(zero, err)
		},
	)
	p.dispatch(j)
	return h
}

// SubmitRaw 分派一个调用方已经在别处绑定好 Handle 的 Job。使用与
// Submit 相同的分派逻辑。
func (p *Pool) SubmitRaw(j *Job) {
	p.dispatch(j)
}

// dispatch 实现提交路径：读取分派计数器并递增，以
// counter mod N 为起点对最多 probeMultiplier·N 个队列做 try-push
// 扫描；每次尝试前先投机递增在途计数，try-push 失败则回退。全部尝试
// 失败后再递增一次计数器，对新的 counter mod N 做无条件阻塞 push。
func (p *Pool) dispatch(j *Job) {
	n := len(p.queues)
	start := int(p.dispatchCounter.Add(1)-1) % n
	probes := p.opts.probeMultiplier * n

	for attempt := 0; attempt < probes; attempt++ {
		idx := (start + attempt) % n
		p.outstanding.Add(1)
		if p.queues[idx].TryPush(j) {
			p.metrics.recordSubmit()
			return
		}
		p.outstanding.Add(-1)
	}

	idx := int(p.dispatchCounter.Add(1)-1) % n
	p.outstanding.Add(1)
	p.queues[idx].Push(j)
	p.metrics.recordSubmit()
}

// Done 对每个队列调用 SetDone。幂等：可以安全地多次调用。
func (p *Pool) Done() {
	for _, q := range p.queues {
		q.SetDone()
	}
}

// WaitToCompletion 阻塞直至在途任务计数归零且每个 worker 都已经
// 设置了自己的退出状态。
//
// 前提：调用方已经调用过 Done。workers 只有在观测到完成闩锁之后才会
// 进入排空阶段并最终退出；如果从未调用 Done，这里会无限期阻塞。
func (p *Pool) WaitToCompletion() {
	p.mu.Lock()
	for p.outstanding.Load() != 0 || p.exitedCount < len(p.workers) {
		p.exitedCond.Wait()
	}
	p.mu.Unlock()
}

// workerExited 由每个 worker 在其 goroutine 即将返回前调用。
func (p *Pool) workerExited(index int) {
	p.mu.Lock()
	p.exitedCount++
	p.mu.Unlock()
	p.opts.logger.Debug("worker exited", slog.Int("worker", index))
	p.exitedCond.Broadcast()
	p.workersWG.Done()
}

// Reset 执行 Done、join 所有 worker、清空队列、把在途计数归零，然后
// 重新启动 n 个全新的 worker（n 与重置前的 worker 数相同）。
//
// 在有其他线程正在并发提交的情况下调用 Reset 是编程错误；为了不让
// 这种误用导致 Handle 永久挂起，drain 阶段仍然会把重置时刻残留在队列
// 里的任何 Job 以 ErrJobAbandoned 完成，但不保证这些 Job 曾被执行过。
func (p *Pool) Reset() {
	p.shutdownAndDrain()

	p.mu.Lock()
	p.exitedCount = 0
	p.mu.Unlock()

	n := len(p.queues)
	p.dispatchCounter.Store(0)
	p.outstanding.Store(0)
	p.start(n)
}

// Close 对应析构语义：Done + join。留在队列里的任何未完成 Job 会被
// 丢弃，它们的 Handle 会观察到 ErrJobAbandoned。幂等，可安全 defer。
func (p *Pool) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	p.shutdownAndDrain()
	return nil
}

func (p *Pool) shutdownAndDrain() {
	p.Done()
	p.workersWG.Wait()
	for _, q := range p.queues {
		for _, j := range q.drain() {
			j.abandon()
		}
	}
}

// Workers 返回当前 worker 数量。
func (p *Pool) Workers() int {
	return len(p.workers)
}

// Outstanding 返回当前在途任务计数，仅用于观测/测试，不构成稳定 API
// 承诺下的强一致性读取（读取本身不加锁，瞬时可能已经变化）。
func (p *Pool) Outstanding() int64 {
	return p.outstanding.Load()
}
