package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/taskpool/internal/fsearch"
	"github.com/omeyang/taskpool/pkg/xscheduler"
)

func createSearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "递归搜索一次，等待全部结果后退出",
		ArgsUsage: "<pattern> <roots...>",
		Action:    runSearch,
	}
}

func runSearch(ctx context.Context, cmd *cli.Command) error {
	settings, err := buildSettings(cmd)
	if err != nil {
		return err
	}

	pool := xscheduler.New(settings.Workers, xscheduler.WithProbeMultiplier(maxInt(settings.ProbeMultiplier, 1)))
	defer pool.Close()

	engine, err := fsearch.New(settings, pool, slog.Default())
	if err != nil {
		return err
	}

	results, stats, err := engine.Search(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return json.NewEncoder(os.Stdout).Encode(struct {
			Results []fsearch.Result `json:"results"`
			Stats   fsearch.Stats    `json:"stats"`
		}{results, stats})
	}

	for _, r := range results {
		printResult(cmd, r)
	}
	fmt.Fprintf(os.Stderr, "[[info: searched %d files in %d directories, read %d bytes]]\n",
		stats.FilesSearched, stats.DirsSearched, stats.BytesRead)
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
