package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"

	"github.com/omeyang/taskpool/internal/fsearch"
	"github.com/omeyang/taskpool/internal/xrescan"
	"github.com/omeyang/taskpool/pkg/xscheduler"
)

func createWatchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "持续监视目录树,增量重扫变更的文件,直到收到终止信号",
		ArgsUsage: "<pattern> <roots...>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "metrics-addr", Usage: "Prometheus /metrics 监听地址,留空则不启动"},
			&cli.StringFlag{Name: "rescan-interval", Usage: "周期性全量重扫的 cron 表达式", Value: "@every 5m"},
		},
		Action: runWatch,
	}
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	settings, err := buildSettings(cmd)
	if err != nil {
		return err
	}
	applyWatchFlags(cmd, &settings)

	logger := slog.Default()

	var registry *prometheus.Registry
	if settings.MetricsAddr != "" {
		registry = prometheus.NewRegistry()
	}

	poolOpts := []xscheduler.Option{xscheduler.WithProbeMultiplier(maxInt(settings.ProbeMultiplier, 1))}
	if registry != nil {
		poolOpts = append(poolOpts, xscheduler.WithMetrics(registry))
	}
	pool := xscheduler.New(settings.Workers, poolOpts...)
	defer pool.Close()

	engine, err := fsearch.New(settings, pool, logger)
	if err != nil {
		return err
	}

	onResult := func(r fsearch.Result) {
		if r.Match {
			printResult(cmd, r)
		}
	}

	watcher, err := fsearch.NewWatcher(engine, onResult)
	if err != nil {
		return err
	}
	defer watcher.Close()

	services := map[string]func(context.Context) error{
		"watcher": watcher.Run,
	}

	if settings.RescanInterval != "" {
		scheduler := xrescan.New(xrescan.WithLogger(logger))
		if _, err := scheduler.AddFunc(settings.RescanInterval, func(ctx context.Context) error {
			_, err := engine.Rescan(ctx, onResult)
			return err
		}); err != nil {
			return err
		}
		services["rescan"] = func(ctx context.Context) error {
			scheduler.Start()
			<-ctx.Done()
			<-scheduler.Stop().Done()
			return ctx.Err()
		}
	}

	if settings.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		server := &http.Server{Addr: settings.MetricsAddr, Handler: mux}
		services["metrics"] = fsearch.HTTPServer(server, 0)
	}

	// 先做一次初始全量重扫,填充当前状态,再进入增量监视循环。用
	// Rescan 而非 Search：Search 会 Done() 任务池并让所有 worker
	// 退出(一次性语义),而 watch 模式下任务池要在整个会话期间持续
	// 接收增量重扫提交的 Job。
	if _, err := engine.Rescan(ctx, onResult); err != nil {
		return err
	}

	return fsearch.Run(ctx, logger, services)
}
