package worker

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nicholasjackson/latency-simulator/timing"
	"github.com/stretchr/testify/assert"
)

func TestPoolWithSingleWorker(t *testing.T) {
	callCount := 0
	w := New(1, func(n int) (*timing.Result, error) {
		callCount++

		return &timing.Result{}, nil
	})

	err := w.Do(2)

	assert.NoError(t, err)
	assert.Equal(t, 2, callCount)
	assert.Len(t, w.Results(), 2)
}

func TestPoolWithMoreWorkersThanWork(t *testing.T) {
	w := New(10, func(n int) (*timing.Result, error) {
		return &timing.Result{RequestedMs: n}, nil
	})

	w.Do(3)

	assert.Equal(t, 3, w.workerCount)
	assert.Len(t, w.Responses(), 3)
}

func TestPoolWithNoWork(t *testing.T) {
	w := New(2, func(n int) (*timing.Result, error) {
		t.Fatal("should not be called")
		return nil, nil
	})

	assert.NoError(t, w.Do(0))
	assert.Empty(t, w.Responses())
}

func TestPoolRunsInParallel(t *testing.T) {
	mutex := sync.Mutex{}
	startOrder := []int{}
	calls := []int{}
	sleepTime := []time.Duration{20 * time.Millisecond, 1 * time.Millisecond}

	w := New(2, func(n int) (*timing.Result, error) {
		mutex.Lock()
		startOrder = append(startOrder, n)
		mutex.Unlock()

		time.Sleep(sleepTime[n])

		mutex.Lock()
		calls = append(calls, n)
		mutex.Unlock()

		return &timing.Result{}, nil
	})

	w.Do(2)

	// if parallel the first started should not be the first finished
	assert.Len(t, calls, 2)
	assert.Equal(t, 1, calls[0])
}

func TestPoolReturnsFirstError(t *testing.T) {
	w := New(1, func(n int) (*timing.Result, error) {
		return nil, fmt.Errorf("boom %d", n)
	})

	err := w.Do(3)

	assert.EqualError(t, err, "boom 0")
	assert.Empty(t, w.Results())
	assert.Len(t, w.Responses(), 3)
}
