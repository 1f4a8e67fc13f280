package bufwindow_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubusproject/rubus/internal/client/bufwindow"
)

func TestInitialPlanRequestsFullWindow(t *testing.T) {
	cfg := bufwindow.Config{Ahead: 4, LowWaterMark: 1, ReadyThreshold: 2, UnderrunBoost: 2}

	var mu sync.Mutex
	var gotStart, gotCount int
	fetches := 0
	m := bufwindow.New(cfg, func(start, count int) {
		mu.Lock()
		defer mu.Unlock()
		fetches++
		gotStart, gotCount = start, count
	}, nil, nil, nil)

	m.Plan()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, fetches)
	assert.Equal(t, 0, gotStart)
	assert.Equal(t, 4, gotCount)
}

func TestAdvancePlayheadFreesBehindLowWaterMark(t *testing.T) {
	cfg := bufwindow.Config{Ahead: 4, LowWaterMark: 1, ReadyThreshold: 10, UnderrunBoost: 2}

	var freed []int
	m := bufwindow.New(cfg, func(int, int) {}, func(idx int) {
		freed = append(freed, idx)
	}, nil, nil)

	m.MarkInFlight(0)
	m.MarkDecoding(0)
	m.MarkReady(0)
	m.MarkInFlight(1)
	m.MarkDecoding(1)
	m.MarkReady(1)

	// playhead at 3: low-water mark 1 means indices < 2 are freed.
	m.AdvancePlayhead(3)

	assert.Contains(t, freed, 0)
	assert.Equal(t, bufwindow.StateFreed, m.State(0))
}

func TestUnderrunWhenPlayheadReachesNeededIndex(t *testing.T) {
	cfg := bufwindow.Config{Ahead: 4, LowWaterMark: 1, ReadyThreshold: 10, UnderrunBoost: 2}
	m := bufwindow.New(cfg, func(int, int) {}, nil, nil, nil)
	m.Plan() // marks the window's indices needed
	require.Equal(t, bufwindow.StateNeeded, m.State(0))

	ready := m.AdvancePlayhead(0)
	assert.False(t, ready)
	assert.True(t, m.IsUnderrun())

	m.MarkReady(0)
	assert.False(t, m.IsUnderrun())
}

func TestUnderrunBoostsNextFetchCount(t *testing.T) {
	cfg := bufwindow.Config{Ahead: 4, LowWaterMark: 1, ReadyThreshold: 10, UnderrunBoost: 3}

	var counts []int
	m := bufwindow.New(cfg, func(start, count int) {
		counts = append(counts, count)
	}, nil, nil, nil)

	m.AdvancePlayhead(0) // immediately underruns at an empty window, boosting this same fetch

	require.GreaterOrEqual(t, len(counts), 1)
	assert.Equal(t, 4*3, counts[len(counts)-1])
}

func TestSeekPurgesAndRebasesWindow(t *testing.T) {
	cfg := bufwindow.Config{Ahead: 4, LowWaterMark: 1, ReadyThreshold: 10, UnderrunBoost: 2}

	purged := false
	var lastStart int
	m := bufwindow.New(cfg, func(start, count int) {
		lastStart = start
	}, nil, func() {
		purged = true
	}, nil)

	m.MarkInFlight(0)
	m.MarkReady(0)

	m.Seek(100)

	assert.True(t, purged)
	assert.Equal(t, bufwindow.StateNeeded, m.State(100))
	assert.Equal(t, 100, lastStart)
	// pre-seek state at index 0 must not leak into the rebased window.
	assert.Equal(t, bufwindow.StateFreed, m.State(0))
}
