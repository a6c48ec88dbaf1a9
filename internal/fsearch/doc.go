// Package fsearch is the file-search client demonstrated by
// pkg/xscheduler: a recursive directory walker that submits one Job
// per matched file, collects the resulting handles, and awaits them
// once the walk is done.
//
// 概述
//
// Search 执行一次性递归搜索：遍历 Settings.Roots 下的每个文件，凡是路径匹配
// Settings.Filter 的都会被提交为一个 Job，Job 读取文件内容并用
// Settings.Patterns 中的每个正则做匹配，返回一个结构化的 [Result]。
// 全部提交完成后调用 pool.Done + pool.WaitToCompletion，然后按遍历
// 顺序收集结果。
//
// Watch 在此之上叠加增量重扫：fsnotify 监听 Settings.Roots，文件变
// 更时只重新提交该文件对应的 Job，而不是重新走一遍整棵目录树；同时
// 通过 internal/xrescan 注册一个低频的全量重扫作为兜底，防止
// fsnotify 事件在突发写入下被内核丢弃。
package fsearch
