package ecs

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Partition Tests
// =============================================================================

func TestPartition(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		workers int
		want    [][2]int
	}{
		{"empty", 0, 4, nil},
		{"small store stays on one worker", 10, 4, [][2]int{{0, 10}}},
		{"even split", 256, 4, [][2]int{{0, 64}, {64, 128}, {128, 192}, {192, 256}}},
		{"remainder goes to first ranges", 131, 2, [][2]int{{0, 66}, {66, 131}}},
		{"workers capped by partition size", 200, 16, [][2]int{{0, 50}, {50, 100}, {100, 150}, {150, 200}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Partition(tt.n, tt.workers))
		})
	}
}

func TestPartitionCoversEverySlotOnce(t *testing.T) {
	for _, n := range []int{1, 63, 64, 65, 1000, 4097} {
		covered := make([]int, n)
		for _, r := range Partition(n, 7) {
			for i := r[0]; i < r[1]; i++ {
				covered[i]++
			}
		}
		for i, c := range covered {
			require.Equal(t, 1, c, "n=%d slot %d", n, i)
		}
	}
}

// =============================================================================
// ParallelFor Tests
// =============================================================================

func TestParallelForVisitsEveryLiveRecord(t *testing.T) {
	s := NewStore[record](1000)
	var removed []Handle
	for i := 0; i < 1000; i++ {
		h := s.Insert(record{X: float64(i)})
		if i%3 == 0 {
			removed = append(removed, h)
		}
	}
	for _, h := range removed {
		s.Remove(h)
	}

	var visits atomic.Int64
	err := ParallelFor(context.Background(), s, 8, func(_ Handle, v *record) {
		v.Y = v.X * 2
		visits.Add(1)
	})
	require.NoError(t, err)

	assert.Equal(t, int64(s.Len()), visits.Load())
	s.Each(func(_ Handle, v *record) {
		assert.Equal(t, v.X*2, v.Y)
	})
}

func TestParallelForCancelled(t *testing.T) {
	s := NewStore[record](2048)
	for i := 0; i < 2048; i++ {
		s.Insert(record{})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ParallelFor(ctx, s, 4, func(_ Handle, _ *record) {})
	assert.ErrorIs(t, err, context.Canceled)
}
