package fsearch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/taskpool/pkg/xscheduler"
)

func TestWatcher_DetectsFileWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "nothing here\n")

	pool := xscheduler.New(1)
	defer pool.Close()

	settings := DefaultSettings()
	settings.Roots = []string{dir}
	settings.Patterns = []string{"needle"}

	e, err := New(settings, pool, nil)
	require.NoError(t, err)

	var mu sync.Mutex
	var got []Result
	w, err := NewWatcher(e, func(r Result) {
		mu.Lock()
		got = append(got, r)
		mu.Unlock()
	}, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	require.NoError(t, os.WriteFile(path, []byte("needle found\n"), 0o600))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	<-done
}

func TestWatcher_DetectsNewSubdirectory(t *testing.T) {
	dir := t.TempDir()

	pool := xscheduler.New(1)
	defer pool.Close()

	settings := DefaultSettings()
	settings.Roots = []string{dir}
	settings.Patterns = []string{"needle"}

	e, err := New(settings, pool, nil)
	require.NoError(t, err)

	var mu sync.Mutex
	var got []Result
	w, err := NewWatcher(e, func(r Result) {
		mu.Lock()
		got = append(got, r)
		mu.Unlock()
	}, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o700))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(sub, "b.txt"), []byte("needle\n"), 0o600))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	<-done
}
