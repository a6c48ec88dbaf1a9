package xscheduler

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics 把 Pool 的运行状态暴露为 Prometheus 指标。
//
// 提交/完成/失败计数在热路径上直接自增；在途任务计数和每队列深度则
// 通过实现 prometheus.Collector，在抓取时才去读取 Pool 的实时状态，
// 避免为了维护这两个可以直接从现有状态推导出的值而在热路径上再加一次
// 原子操作或加锁。
type metrics struct {
	pool      *Pool
	submitted prometheus.Counter
	completed prometheus.Counter
	failed    prometheus.Counter

	outstandingDesc *prometheus.Desc
	queueDepthDesc  *prometheus.Desc
}

func newMetrics(registerer prometheus.Registerer, pool *Pool, namespace string) *metrics {
	if registerer == nil {
		return nil
	}
	m := &metrics{
		pool: pool,
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_submitted_total",
			Help:      "Total number of jobs submitted to the pool.",
		}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_completed_total",
			Help:      "Total number of jobs that completed without error.",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_failed_total",
			Help:      "Total number of jobs that completed with a captured failure.",
		}),
		outstandingDesc: prometheus.NewDesc(
			namespace+"_outstanding_jobs",
			"Jobs accepted by a queue but not yet popped by a worker.",
			nil, nil,
		),
		queueDepthDesc: prometheus.NewDesc(
			namespace+"_queue_depth",
			"Current length of a single worker queue.",
			[]string{"queue"}, nil,
		),
	}
	registerer.MustRegister(m.submitted, m.completed, m.failed, m)
	return m
}

// Describe 实现 prometheus.Collector。
func (m *metrics) Describe(ch chan<- *prometheus.Desc) {
	if m == nil {
		return
	}
	ch <- m.outstandingDesc
	ch <- m.queueDepthDesc
}

// Collect 实现 prometheus.Collector，在每次抓取时读取 Pool 的实时状态。
func (m *metrics) Collect(ch chan<- prometheus.Metric) {
	if m == nil {
		return
	}
	ch <- prometheus.MustNewConstMetric(
		m.outstandingDesc, prometheus.GaugeValue, float64(m.pool.outstanding.Load()),
	)
	for i, q := range m.pool.queues {
		ch <- prometheus.MustNewConstMetric(
			m.queueDepthDesc, prometheus.GaugeValue, float64(q.len()), strconv.Itoa(i),
		)
	}
}

func (m *metrics) recordSubmit() {
	if m == nil {
		return
	}
	m.submitted.Inc()
}

func (m *metrics) recordResult(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.failed.Inc()
		return
	}
	m.completed.Inc()
}
