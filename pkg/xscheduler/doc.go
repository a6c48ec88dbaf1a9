// Package xscheduler 实现一个多生产者/多消费者的工作窃取任务调度器。
//
// # 概述
//
// 调度器维护 N 个 worker goroutine 和 N 个各自独立加锁的任务队列。
// 提交的任务优先按轮询 + try-push 扫描分散到某个队列；worker 的主循环
// 先对所有队列做一轮 try-pop 扫描（偷取），扫描无果时退化为对自己
// 持有的队列做阻塞 pop，队列耗尽且已收到关闭信号时转入排空阶段直至
// 全局在途任务计数归零。
//
// 这不是优先级调度器，也不是公平调度器：只保证在全局层面任务最终都会
// 被执行，不保证 worker 之间的执行顺序或配额。没有任务依赖图，没有
// 已入队/执行中任务的取消。
//
// # 快速开始
//
//	pool := xscheduler.New(4)
//	defer pool.Close()
//
//	h := xscheduler.Submit(pool, func() (int, error) {
//	    return 42, nil
//	})
//	pool.Done()
//	pool.WaitToCompletion()
//
//	v, err := h.Await(context.Background())
//
// # 关闭语义
//
// Done 只是翻转每个队列的完成闩锁并唤醒阻塞的 Pop；它不会拒绝新提交——
// 提交之后仍会被正常分派并在排空阶段执行完毕。WaitToCompletion 要求
// 调用方已经调用过 Done：它阻塞至在途计数归零且每个 worker 都已经
// 观测到完成闩锁并退出；若从未调用 Done，worker 不会进入排空阶段，
// WaitToCompletion 会无限期阻塞。Close 对应析构语义：Done + join，
// 可安全通过 defer 调用且多次调用是幂等的。
//
// # 设计决策
//
// 1. 在途任务计数使用原子整数而非由队列长度推导：队列长度只能在持有
//    各自互斥锁时被观察到，不能跨队列一次性读出一个全局视图，因此
//    这个计数器是排空阶段终止条件的唯一可靠来源。
//
// 2. 提交路径使用"先投机递增、push 失败再回退"的模式，而不是
//    "push 成功后再递增"：后者会在 worker 更快地 pop 并递减计数时，
//    短暂出现负值，破坏排空终止条件。
//
// 3. WaitToCompletion 使用 sync.Cond 广播而非自旋 + yield：Go 里对
//    runtime.Gosched() 做忙等不是惯用法，condition variable 在每个
//    worker 退出时显式唤醒等待者，由等待者重新检查计数与退出状态。
//    排空阶段本身仍然保留忙等 + Gosched 这一具体状态机。
package xscheduler
