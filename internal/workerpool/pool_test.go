package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestPoolRunAll(t *testing.T) {
	var counter int64
	pool := New(4)

	fns := make([]func(context.Context) error, 0, 20)
	for i := 0; i < 20; i++ {
		fns = append(fns, func(ctx context.Context) error {
			atomic.AddInt64(&counter, 1)
			return nil
		})
	}

	if err := pool.Run(context.Background(), fns...); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := atomic.LoadInt64(&counter); got != 20 {
		t.Fatalf("counter = %d, want 20", got)
	}
}

func TestPoolRunPropagatesError(t *testing.T) {
	pool := New(2)
	boom := errors.New("boom")

	err := pool.Run(context.Background(),
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error { return boom },
	)
	if !errors.Is(err, boom) {
		t.Fatalf("Run error = %v, want %v", err, boom)
	}
}

func TestPartition(t *testing.T) {
	cases := []struct {
		n, parts int
		want     [][2]int
	}{
		{10, 3, [][2]int{{0, 4}, {4, 7}, {7, 10}}},
		{0, 4, nil},
		{3, 8, [][2]int{{0, 1}, {1, 2}, {2, 3}}},
		{5, 1, [][2]int{{0, 5}}},
	}

	for _, tc := range cases {
		got := Partition(tc.n, tc.parts)
		if len(got) != len(tc.want) {
			t.Fatalf("Partition(%d, %d) = %v, want %v", tc.n, tc.parts, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("Partition(%d, %d)[%d] = %v, want %v", tc.n, tc.parts, i, got[i], tc.want[i])
			}
		}
	}
}
