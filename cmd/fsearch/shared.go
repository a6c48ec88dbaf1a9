package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/taskpool/internal/fsearch"
	"github.com/omeyang/taskpool/internal/xconf"
)

// ErrMissingPattern 表示命令行没有提供搜索正则。
var ErrMissingPattern = errors.New("fsearch: missing <pattern> argument")

// ErrMissingRoots 表示命令行没有提供任何搜索根目录。
var ErrMissingRoots = errors.New("fsearch: missing search roots")

// buildSettings 把全局 flags 与位置参数(pattern + roots)合并为一个
// fsearch.Settings。若指定了 --config，配置文件中的字段先加载,再被
// 显式传入的命令行 flags 覆盖——命令行的优先级高于配置文件。
func buildSettings(cmd *cli.Command) (fsearch.Settings, error) {
	settings := fsearch.DefaultSettings()

	if path := cmd.String("config"); path != "" {
		loader, err := xconf.New(path)
		if err != nil {
			return settings, fmt.Errorf("fsearch: load config: %w", err)
		}
		if err := loader.Unmarshal(&settings); err != nil {
			return settings, fmt.Errorf("fsearch: parse config: %w", err)
		}
	}

	args := cmd.Args().Slice()
	if len(args) == 0 {
		return settings, ErrMissingPattern
	}
	settings.Patterns = []string{args[0]}
	if len(args) > 1 {
		settings.Roots = args[1:]
	}
	if len(settings.Roots) == 0 {
		return settings, ErrMissingRoots
	}

	if cmd.IsSet("filter") || settings.Filter == "" {
		settings.Filter = cmd.String("filter")
	}
	if cmd.IsSet("workers") {
		settings.Workers = cmd.Int("workers")
	}

	return settings, nil
}

// applyWatchFlags 把 watch 子命令专属的 flags(--metrics-addr、
// --rescan-interval)合并进 settings。与 buildSettings 分开是因为
// 这两个 flag 只在 watch 子命令上注册,search 子命令的 Command 上
// 查找它们是未定义行为。
func applyWatchFlags(cmd *cli.Command, settings *fsearch.Settings) {
	if cmd.IsSet("metrics-addr") {
		settings.MetricsAddr = cmd.String("metrics-addr")
	}
	if cmd.IsSet("rescan-interval") {
		settings.RescanInterval = cmd.String("rescan-interval")
	}
}

// printResult 打印单个文件的搜索结果：默认同时打印文件名和匹配内容
// (path:line:text)，--suppress-files 只打印匹配内容，--suppress-matches
// 只打印文件名。
func printResult(cmd *cli.Command, r fsearch.Result) {
	if !r.Match {
		return
	}

	printFiles := !cmd.Bool("suppress-files")
	printMatches := !cmd.Bool("suppress-matches")

	switch {
	case printFiles && printMatches:
		for _, l := range r.Lines {
			fmt.Printf("%s:%d:%s\n", r.Path, l.Number, l.Text)
		}
	case printFiles:
		fmt.Println(r.Path)
	case printMatches:
		for _, l := range r.Lines {
			fmt.Println(l.Text)
		}
	}
}
