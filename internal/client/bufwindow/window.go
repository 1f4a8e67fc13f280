// Package bufwindow implements the client-side buffer/window manager:
// it tracks which piece indices are needed, in flight, decoding,
// ready, or freed, drives the prefetch policy, and rebases the window
// on seek.
package bufwindow

import (
	"fmt"
	"log/slog"
	"sync"
)

// PieceState is the lifecycle state of one piece index in the window.
type PieceState int

const (
	StateFreed PieceState = iota
	StateNeeded
	StateInFlight
	StateDecoding
	StateReady
)

var pieceStateNames = [...]string{
	"freed", "needed", "in-flight", "decoding", "ready",
}

func (s PieceState) String() string {
	if int(s) < len(pieceStateNames) {
		return pieceStateNames[s]
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// Config parameterizes the window's prefetch policy.
type Config struct {
	// Ahead is the size of the window held ahead of the playhead, in
	// piece indices (default ~8 seconds of pieces at one piece/sec).
	Ahead int
	// LowWaterMark is how many pieces behind the playhead are retained
	// before being freed.
	LowWaterMark int
	// ReadyThreshold is the minimum ready-ahead count below which the
	// planner enqueues a fetch for the next gap.
	ReadyThreshold int
	// UnderrunBoost temporarily multiplies the requested fetch size
	// while the window is recovering from an underrun.
	UnderrunBoost int
}

// DefaultConfig mirrors config.DefaultClientConfig's ahead/low-water
// defaults.
func DefaultConfig() Config {
	return Config{
		Ahead:          8,
		LowWaterMark:   2,
		ReadyThreshold: 2,
		UnderrunBoost:  2,
	}
}

// FetchFunc requests count pieces of the current media starting at
// index start; the caller (the fetch task) marks them in-flight before
// returning and transitions them through decoding to ready as results
// arrive.
type FetchFunc func(start, count int)

// FreeFunc releases decoded frames for one piece index (the decode
// pipeline's freeDecodedFrames).
type FreeFunc func(index int)

// PurgeFunc invokes the decode pipeline's purge on seek.
type PurgeFunc func()

// Manager owns the sliding window of piece states for one playback
// session and drives the prefetch planner task.
type Manager struct {
	cfg Config

	fetch FetchFunc
	free  FreeFunc
	purge PurgeFunc

	logger *slog.Logger

	mu       sync.Mutex
	playhead int
	states   map[int]PieceState
	underrun bool
}

// New constructs a Manager. fetchFn is invoked (outside the Manager's
// lock) whenever the planner decides a gap needs fetching; freeFn is
// invoked when a piece falls behind the low-water mark; purgeFn is
// invoked on Seek.
func New(cfg Config, fetchFn FetchFunc, freeFn FreeFunc, purgeFn PurgeFunc, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		cfg:    cfg,
		fetch:  fetchFn,
		free:   freeFn,
		purge:  purgeFn,
		logger: logger,
		states: make(map[int]PieceState),
	}
}

// State returns the state of index idx; StateFreed (the zero value) if
// it has never been touched or has been freed.
func (m *Manager) State(idx int) PieceState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[idx]
}

func (m *Manager) transition(idx int, to PieceState) {
	from := m.states[idx]
	m.states[idx] = to
	m.logger.Debug("piece state transition",
		slog.Int("index", idx), slog.String("from", from.String()), slog.String("to", to.String()))
}

// MarkInFlight records that index has an outstanding FETCH request.
func (m *Manager) MarkInFlight(index int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transition(index, StateInFlight)
}

// MarkDecoding records that index's bytes arrived and a decode job was
// started.
func (m *Manager) MarkDecoding(index int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transition(index, StateDecoding)
}

// MarkReady records that index's decoded frames are available. If the
// playhead was stalled waiting on this index, the underrun ends.
func (m *Manager) MarkReady(index int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transition(index, StateReady)
	if m.underrun && index == m.playhead {
		m.underrun = false
		m.logger.Info("underrun resolved", slog.Int("index", index))
	}
}

// AdvancePlayhead moves the playhead to index, freeing pieces that fall
// behind the low-water mark and re-running the prefetch plan. It
// reports whether the new playhead index is ready for playback; if
// not, the caller must stall. Reaching an index that is freed, needed
// or in flight also marks an underrun (see IsUnderrun); an index that
// is still decoding is not ready but does not mark one.
func (m *Manager) AdvancePlayhead(index int) bool {
	m.mu.Lock()
	m.playhead = index

	freeBefore := index - m.cfg.LowWaterMark
	var freed []int
	for idx, st := range m.states {
		if idx < freeBefore && st != StateFreed {
			m.transition(idx, StateFreed)
			freed = append(freed, idx)
		}
	}

	state := m.states[index]
	ready := state == StateReady
	if !ready && (state == StateNeeded || state == StateInFlight || state == StateFreed) {
		if !m.underrun {
			m.underrun = true
			m.logger.Warn("playback underrun", slog.Int("index", index), slog.String("state", state.String()))
		}
	}
	plan := m.planLocked()
	m.mu.Unlock()

	if m.free != nil {
		for _, idx := range freed {
			m.free(idx)
		}
	}
	m.runPlan(plan)
	return ready
}

// IsUnderrun reports whether the window is currently stalled waiting
// for the playhead index to become ready.
func (m *Manager) IsUnderrun() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.underrun
}

type fetchPlan struct {
	start, count int
}

// planLocked decides whether the window needs to request the next gap,
// applying the underrun boost if active. Must be called with m.mu held;
// returns a zero-count plan when no fetch is warranted.
func (m *Manager) planLocked() fetchPlan {
	readyAhead := 0
	for i := m.playhead; i < m.playhead+m.cfg.Ahead; i++ {
		if m.states[i] == StateReady {
			readyAhead++
		}
	}
	if readyAhead >= m.cfg.ReadyThreshold {
		return fetchPlan{}
	}

	// Find the first gap (freed/never-touched index) in the window
	// that isn't already in flight or decoding.
	for i := m.playhead; i < m.playhead+m.cfg.Ahead; i++ {
		st := m.states[i]
		if st == StateFreed {
			count := m.cfg.Ahead - (i - m.playhead)
			if m.underrun {
				count *= m.cfg.UnderrunBoost
			}
			for j := i; j < i+count; j++ {
				m.states[j] = StateNeeded
			}
			return fetchPlan{start: i, count: count}
		}
	}
	return fetchPlan{}
}

// Plan re-evaluates the prefetch policy without moving the playhead;
// the periodic planner task calls this between playhead advances.
func (m *Manager) Plan() {
	m.mu.Lock()
	plan := m.planLocked()
	m.mu.Unlock()
	m.runPlan(plan)
}

func (m *Manager) runPlan(plan fetchPlan) {
	if plan.count > 0 && m.fetch != nil {
		m.fetch(plan.start, plan.count)
	}
}

// Seek purges the decode pipeline, clears all tracked state, and
// rebases the window to target: the caller is responsible for
// enqueueing a fresh stream-context init using the first piece at the
// new offset once this returns.
func (m *Manager) Seek(target int) {
	if m.purge != nil {
		m.purge()
	}

	m.mu.Lock()
	m.states = make(map[int]PieceState)
	m.playhead = target
	m.underrun = false
	plan := m.planLocked()
	m.mu.Unlock()

	m.runPlan(plan)
}
