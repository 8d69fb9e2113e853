package world

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPoolCollect(t *testing.T) {
	g := newSine(t, Options{CacheSize: 64})
	p := NewWorkerPool(g, 3, 8)
	defer p.Shutdown()

	reqs := Ring(surfaceRequest(0, 0), 1)
	results, err := p.Collect(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, results, len(reqs))

	seen := make(map[Request]bool)
	for _, res := range results {
		require.NoError(t, res.Err)
		require.NotNil(t, res.Chunk)
		seen[res.Request] = true

		cached, ok := g.Cache().Get(res.Request)
		require.True(t, ok)
		assert.Same(t, cached, res.Chunk)
	}
	assert.Len(t, seen, len(reqs))
}

func TestWorkerPoolReportsErrors(t *testing.T) {
	p := NewWorkerPool(newSine(t, Options{}), 1, 1)
	defer p.Shutdown()

	results := make(chan Result, 1)
	require.True(t, p.SubmitJob(Job{Request: Request{Resolution: 5}, Result: results}))
	select {
	case res := <-results:
		assert.Error(t, res.Err)
		assert.Nil(t, res.Chunk)
	case <-time.After(10 * time.Second):
		t.Fatal("no result")
	}
}

func TestWorkerPoolShutdown(t *testing.T) {
	p := NewWorkerPool(newSine(t, Options{}), 2, 4)
	p.Shutdown()
	p.Shutdown()

	results := make(chan Result, 1)
	assert.False(t, p.SubmitJob(Job{Request: surfaceRequest(0, 0), Result: results}))
	err := p.SubmitJobBlocking(context.Background(), Job{Request: surfaceRequest(0, 0), Result: results})
	assert.ErrorIs(t, err, ErrClosed)
	_, err = p.Collect(context.Background(), []Request{surfaceRequest(0, 0)})
	assert.ErrorIs(t, err, ErrClosed)
	assert.Zero(t, p.GetQueueLength())
}

func TestWorkerPoolSubmitBlockingHonorsContext(t *testing.T) {
	g := newSine(t, Options{})
	// unbuffered queue: the send races the canceled context
	p := NewWorkerPool(g, 1, 0)
	defer p.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := make(chan Result, 4)
	err := p.SubmitJobBlocking(ctx, Job{Request: surfaceRequest(0, 0), Result: results})
	// either the idle worker took the job or the canceled context won
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}
