package xscheduler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S1: pool of size 1, submit () -> 42, await, expect 42.
func TestPool_Singleton(t *testing.T) {
	pool := New(1)
	defer pool.Close()

	h := Submit(pool, func() (int, error) { return 42, nil })
	v, err := h.Await(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

// S2: pool of size 4, submit 1000 jobs each returning its own index,
// after WaitToCompletion the sum of awaited values equals 499500.
func TestPool_Sum(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	const n = 1000
	handles := make([]*Handle[int], n)
	for i := 0; i < n; i++ {
		i := i
		handles[i] = Submit(pool, func() (int, error) { return i, nil })
	}

	pool.Done()
	pool.WaitToCompletion()
	assert.Zero(t, pool.Outstanding())

	sum := 0
	for _, h := range handles {
		v, err := h.Await(context.Background())
		require.NoError(t, err)
		sum += v
	}
	assert.Equal(t, 499500, sum)
}

// S3: pool of size 2, submit a job that raises "boom", await, expect
// the re-raised failure to carry "boom".
func TestPool_Failure(t *testing.T) {
	pool := New(2)
	defer pool.Close()

	boom := errors.New("boom")
	h := Submit(pool, func() (int, error) { return 0, boom })

	_, err := h.Await(context.Background())
	assert.ErrorIs(t, err, boom)
}

// S4: pool of size 4, 10000 jobs each append their index to a
// concurrent container; after Done + WaitToCompletion the container
// holds every index exactly once.
func TestPool_ProducerConsumer(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	const n = 10000
	var mu sync.Mutex
	seen := make(map[int]struct{}, n)

	for i := 0; i < n; i++ {
		i := i
		Submit(pool, func() (struct{}, error) {
			mu.Lock()
			seen[i] = struct{}{}
			mu.Unlock()
			return struct{}{}, nil
		})
	}

	pool.Done()
	pool.WaitToCompletion()

	assert.Len(t, seen, n)
	for i := 0; i < n; i++ {
		_, ok := seen[i]
		assert.True(t, ok, "missing index %d", i)
	}
}

// S5: pool of size 2, a seed job submits two child jobs returning 1
// each, then returns 0. Await all three handles, expect {0, 1, 1}.
func TestPool_RecursiveSubmission(t *testing.T) {
	pool := New(2)
	defer pool.Close()

	var childA, childB *Handle[int]
	seed := Submit(pool, func() (int, error) {
		childA = Submit(pool, func() (int, error) { return 1, nil })
		childB = Submit(pool, func() (int, error) { return 1, nil })
		return 0, nil
	})

	seedV, err := seed.Await(context.Background())
	require.NoError(t, err)

	// 子任务是在 seed 执行期间提交的，Await(seed) 返回之后它们可能还
	// 没有完成，但它们已经被分派，后续对 Pool 的排空会把它们执行完。
	pool.Done()
	pool.WaitToCompletion()

	aV, err := childA.Await(context.Background())
	require.NoError(t, err)
	bV, err := childB.Await(context.Background())
	require.NoError(t, err)

	got := []int{seedV, aV, bV}
	assert.ElementsMatch(t, []int{0, 1, 1}, got)
}

// S6: pool of size 2, submit 100 jobs, immediately Done + WaitToCompletion;
// all 100 handles await successfully (drain property).
func TestPool_EarlyShutdownDrains(t *testing.T) {
	pool := New(2)
	defer pool.Close()

	const n = 100
	handles := make([]*Handle[int], n)
	for i := 0; i < n; i++ {
		i := i
		handles[i] = Submit(pool, func() (int, error) {
			sum := 0
			for k := 0; k < 1000; k++ {
				sum += k
			}
			return i + sum - sum, nil
		})
	}

	pool.Done()
	pool.WaitToCompletion()

	for i, h := range handles {
		v, err := h.Await(context.Background())
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
}

// Property: FIFO-per-queue — a single-worker pool completes jobs in
// submission order.
func TestPool_SingleWorkerFIFO(t *testing.T) {
	pool := New(1)
	defer pool.Close()

	const n = 50
	var mu sync.Mutex
	var order []int

	for i := 0; i < n; i++ {
		i := i
		Submit(pool, func() (struct{}, error) {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return struct{}{}, nil
		})
	}

	pool.Done()
	pool.WaitToCompletion()

	want := make([]int, n)
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, order)
}

// Property: counter-parity — after WaitToCompletion the outstanding
// counter is zero, and calling Reset restarts a fresh, usable pool.
func TestPool_ResetRestartsFreshPool(t *testing.T) {
	pool := New(3)
	defer pool.Close()

	for i := 0; i < 20; i++ {
		Submit(pool, func() (int, error) { return 1, nil })
	}
	pool.Done()
	pool.WaitToCompletion()
	assert.Zero(t, pool.Outstanding())

	pool.Reset()
	assert.Equal(t, 3, pool.Workers())

	h := Submit(pool, func() (int, error) { return 7, nil })
	pool.Done()
	pool.WaitToCompletion()

	v, err := h.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

// Property: concurrency safety — K concurrent submitter threads each
// submitting M jobs; the multiset of completed results equals the
// multiset of submitted-expected results.
func TestPool_ConcurrentSubmitters(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	const k, m = 8, 200
	var mu sync.Mutex
	var handles []*Handle[int]

	var wg sync.WaitGroup
	wg.Add(k)
	for g := 0; g < k; g++ {
		g := g
		go func() {
			defer wg.Done()
			for i := 0; i < m; i++ {
				val := g*m + i
				h := Submit(pool, func() (int, error) { return val, nil })
				mu.Lock()
				handles = append(handles, h)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	pool.Done()
	pool.WaitToCompletion()

	seen := make(map[int]int, k*m)
	for _, h := range handles {
		v, err := h.Await(context.Background())
		require.NoError(t, err)
		seen[v]++
	}
	assert.Len(t, seen, k*m)
	for v, count := range seen {
		assert.Equalf(t, 1, count, "value %d seen %d times", v, count)
	}
}

func TestPool_DefaultWorkerCountNormalizedToOne(t *testing.T) {
	pool := New(0)
	defer pool.Close()
	assert.Equal(t, 1, pool.Workers())
}

func TestPool_NilPoolSubmitReturnsError(t *testing.T) {
	var pool *Pool
	h := Submit(pool, func() (int, error) { return 1, nil })

	_, err := h.Await(context.Background())
	assert.ErrorIs(t, err, ErrNilPool)
}
