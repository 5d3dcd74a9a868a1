package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudransh61/Bhandar/internal/config"
)

func TestRunStopsOnCancel(t *testing.T) {
	opts, err := config.Parse([]string{"--addr", "127.0.0.1:0", "--reap-interval", "10ms"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, opts) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return")
	}
}

func TestRunListenError(t *testing.T) {
	opts, err := config.Parse([]string{"--addr", "256.0.0.1:99999"})
	require.NoError(t, err)

	assert.Error(t, run(context.Background(), opts))
}
