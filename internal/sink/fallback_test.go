package sink

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFallbackDrainReturnsAndClearsPending(t *testing.T) {
	f := newFallback()
	f.push(EventRecord{ID: "e1", CreatedAt: time.Now()})
	f.push(EventRecord{ID: "e2", CreatedAt: time.Now()})
	require.Equal(t, 2, f.len())

	pending := f.drain()
	require.Len(t, pending, 2)
	require.Equal(t, 0, f.len())
}

func TestFallbackEvictsOldestWhenFull(t *testing.T) {
	f := newFallback()
	for i := 0; i < fallbackCapacity+5; i++ {
		f.push(EventRecord{ID: string(rune('a' + (i % 26))), CreatedAt: time.Now()})
	}
	require.Equal(t, fallbackCapacity, f.len())
}
