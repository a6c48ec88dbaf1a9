package xscheduler

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNoopJob() *Job {
	return newJob(uuid.New(), func() {}, func(error) {})
}

func TestJobQueue_FIFO(t *testing.T) {
	q := newJobQueue()
	a, b, c := newNoopJob(), newNoopJob(), newNoopJob()

	require.True(t, q.TryPush(a))
	require.True(t, q.TryPush(b))
	require.True(t, q.TryPush(c))

	got1, ok := q.TryPop()
	require.True(t, ok)
	assert.Same(t, a, got1)

	got2, ok := q.TryPop()
	require.True(t, ok)
	assert.Same(t, b, got2)

	got3, ok := q.TryPop()
	require.True(t, ok)
	assert.Same(t, c, got3)

	_, ok = q.TryPop()
	assert.False(t, ok)
}

func TestJobQueue_PopBlocksUntilPush(t *testing.T) {
	q := newJobQueue()
	done := make(chan *Job, 1)

	go func() {
		j, ok := q.Pop()
		if ok {
			done <- j
		} else {
			done <- nil
		}
	}()

	j := newNoopJob()
	q.Push(j)

	got := <-done
	assert.Same(t, j, got)
}

func TestJobQueue_SetDoneReleasesPop(t *testing.T) {
	q := newJobQueue()
	done := make(chan bool, 1)

	go func() {
		_, ok := q.Pop()
		done <- ok
	}()

	q.SetDone()
	ok := <-done
	assert.False(t, ok, "Pop on an empty, done queue must return not-ok")
}

func TestJobQueue_TryPushAfterDoneStillSucceeds(t *testing.T) {
	q := newJobQueue()
	q.SetDone()

	j := newNoopJob()
	assert.True(t, q.TryPush(j), "done latch must not block new pushes")

	got, ok := q.TryPop()
	require.True(t, ok)
	assert.Same(t, j, got)
}

func TestJobQueue_Drain(t *testing.T) {
	q := newJobQueue()
	a, b := newNoopJob(), newNoopJob()
	q.Push(a)
	q.Push(b)

	drained := q.drain()
	assert.Len(t, drained, 2)
	assert.Equal(t, 0, q.len())

	_, ok := q.TryPop()
	assert.False(t, ok)
}
