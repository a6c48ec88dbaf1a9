// fsearch 是一个递归目录正则搜索工具，后端由
// pkg/xscheduler 的工作窃取任务池驱动：遍历阶段为每个路径匹配
// 过滤条件的文件提交一个 Job，全部提交完毕后等待任务池排空，再
// 按遍历顺序收集每个文件的搜索结果。
//
// 用法:
//
//	fsearch search <pattern> <roots...> [选项]
//	fsearch watch <pattern> <roots...> [选项]
//
// search 对给定目录树执行一次性搜索，退出前打印全部结果。
// watch 额外启动一个 fsnotify 监视循环做增量重扫，以及可选的
// 周期性全量重扫安全网和 /metrics 端点，直到收到终止信号。
//
// 全局选项:
//
//	--workers           任务池 worker 数量 (默认: 0，归一化为 1)
//	--config            YAML/JSON 配置文件路径，覆盖内建默认值
//	--filter            文件路径过滤正则 (默认: ".*")
//	--json              以 JSON 格式输出结果
//	--suppress-files    只打印匹配内容，不打印文件名
//	--suppress-matches  只打印文件名，不打印匹配内容
//
// watch 专属选项:
//
//	--metrics-addr      Prometheus /metrics 监听地址，留空则不启动
//	--rescan-interval   周期性全量重扫的 cron 表达式 (默认: "@every 5m")
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	os.Exit(run())
}

func createApp() *cli.Command {
	return &cli.Command{
		Name:  "fsearch",
		Usage: "递归目录正则搜索，由工作窃取任务池驱动",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "workers", Usage: "任务池 worker 数量"},
			&cli.StringFlag{Name: "config", Usage: "YAML/JSON 配置文件路径"},
			&cli.StringFlag{Name: "filter", Usage: "文件路径过滤正则", Value: ".*"},
			&cli.BoolFlag{Name: "json", Usage: "以 JSON 格式输出结果"},
			&cli.BoolFlag{Name: "suppress-files", Usage: "只打印匹配内容,不打印文件名"},
			&cli.BoolFlag{Name: "suppress-matches", Usage: "只打印文件名,不打印匹配内容"},
		},
		Commands: []*cli.Command{
			createSearchCommand(),
			createWatchCommand(),
		},
	}
}

func run() int {
	app := createApp()
	ctx := context.Background()

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "fsearch: %v\n", err)
		return 1
	}
	return 0
}
