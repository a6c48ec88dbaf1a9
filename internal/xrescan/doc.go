// Package xrescan 是一个很小的周期性全量重扫调度器，基于
// robfig/cron/v3 构建，只暴露 AddFunc/Start/Stop 这组生命周期
// 方法——不带分布式锁（多副本部署时的互斥）、执行统计、Job 接口
// 或 WithImmediate 等能力，因为 fsearch 只在单进程内运行一次
// watch 命令，不需要跨副本互斥，也不需要除日志之外的可观测性，
// 这些都已经由 pkg/xscheduler/metrics.go 覆盖。
package xrescan
