package xscheduler

import (
	"log/slog"
	"runtime"
)

// worker 运行 扫描 → 自阻塞 → 执行 / 排空 状态机。
//
// 扫描阶段让常见路径免于锁争用：只要任意队列能迅速给出结果，worker
// 就不需要阻塞。退化到对自己队列做阻塞 pop，给每个 worker 一个确定的
// "停靠点"，避免提交时出现"该唤醒谁"的问题。排空阶段是必须的：
// SetDone 会释放仍有工作排队的等待者，没有排空阶段这些 Job 就会泄漏，
// 它们的 Handle 永远不会完成。
type worker struct {
	index int
	pool  *Pool
}

func (w *worker) loop() {
	defer w.pool.workerExited(w.index)

	n := len(w.pool.queues)
	probes := w.pool.opts.probeMultiplier * n

	for {
		job, ok := w.scan(probes, n)
		if !ok {
			job, ok = w.pool.queues[w.index].Pop()
		}
		if !ok {
			w.drain(n)
			return
		}
		w.execute(job)
	}
}

// scan 对队列 (i+0), (i+1), … 按模 N 做最多 probes 次 try-pop 扫描。
func (w *worker) scan(probes, n int) (*Job, bool) {
	for attempt := 0; attempt < probes; attempt++ {
		idx := (w.index + attempt) % n
		if job, ok := w.pool.queues[idx].TryPop(); ok {
			return job, true
		}
	}
	return nil, false
}

// execute 递减在途计数、执行 Job、丢弃它，然后回到扫描阶段。
func (w *worker) execute(j *Job) {
	w.pool.outstanding.Add(-1)
	w.pool.opts.logger.Debug("job executing",
		slog.Int("worker", w.index),
		slog.String("job_id", j.ID().String()),
	)
	j.invoke()
}

// drain 在全局在途计数非零时反复对所有队列做一轮 try-pop，轮次之间
// 让出 CPU；计数归零后立即返回，调用方负责置位退出状态。
func (w *worker) drain(n int) {
	for w.pool.outstanding.Load() != 0 {
		for step := 0; step < n; step++ {
			idx := (w.index + step) % n
			if job, ok := w.pool.queues[idx].TryPop(); ok {
				w.execute(job)
			}
		}
		runtime.Gosched()
	}
}
