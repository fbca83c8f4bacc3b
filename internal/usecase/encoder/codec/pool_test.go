package codec

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestPoolRunsAllTasks(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	defer pool.Close()

	var ran atomic.Int32
	for i := 0; i < 8; i++ {
		pool.Go(func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
	}

	if err := pool.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if got := ran.Load(); got != 8 {
		t.Errorf("ran %d tasks, want 8", got)
	}
}

func TestPoolReturnsFirstError(t *testing.T) {
	pool := NewPool(context.Background(), 1)
	defer pool.Close()

	boom := errors.New("boom")
	pool.Go(func(ctx context.Context) error { return boom })
	pool.Go(func(ctx context.Context) error { return nil })

	if err := pool.Wait(); !errors.Is(err, boom) {
		t.Fatalf("Wait = %v, want boom", err)
	}
}

func TestPoolCloseIsIdempotent(t *testing.T) {
	pool := NewPool(context.Background(), 1)
	pool.Close()
	pool.Close()

	pool.Go(func(ctx context.Context) error { return nil })
	if err := pool.Wait(); !errors.Is(err, context.Canceled) {
		t.Fatalf("task after Close: got %v, want context.Canceled", err)
	}
}
