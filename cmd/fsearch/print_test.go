package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/omeyang/taskpool/internal/fsearch"
)

func TestPrintResult_SkipsNonMatches(t *testing.T) {
	cmd := newTestCommand(t, nil, []string{"needle", "/tmp"})
	// printResult writes to stdout; a non-match should not panic and
	// should be a no-op regardless of flag combination.
	assert.NotPanics(t, func() {
		printResult(cmd, fsearch.Result{Path: "a.txt", Match: false})
	})
}

func TestPrintResult_NoPanicOnFullResult(t *testing.T) {
	cmd := newTestCommand(t, nil, []string{"needle", "/tmp"})
	r := fsearch.Result{
		Path:  "a.txt",
		Match: true,
		Lines: []fsearch.MatchedLine{{Number: 1, Text: "needle here"}},
	}
	assert.NotPanics(t, func() {
		printResult(cmd, r)
	})
}

func TestApplyWatchFlags(t *testing.T) {
	var got *cli.Command
	cmd := &cli.Command{
		Name: "watch",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "metrics-addr"},
			&cli.StringFlag{Name: "rescan-interval", Value: "@every 5m"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			got = c
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), []string{"watch", "--metrics-addr", ":9090"}))

	settings := fsearch.DefaultSettings()
	applyWatchFlags(got, &settings)
	assert.Equal(t, ":9090", settings.MetricsAddr)
	assert.Equal(t, "@every 5m", settings.RescanInterval)
}
