package ai

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultTickInterval is the simulation step used when none is configured.
const DefaultTickInterval = 50 * time.Millisecond

// TickManager drives the per-tick hook of every tracked NPC.
type TickManager struct {
	source   Source
	interval time.Duration

	stopCh   chan struct{}
	stopOnce sync.Once

	lastTickCount atomic.Int32
	ticks         atomic.Uint64
	panics        atomic.Uint64
}

// NewTickManager creates a tick manager over source.
// Non-positive interval falls back to DefaultTickInterval.
func NewTickManager(source Source, interval time.Duration) *TickManager {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &TickManager{
		source:   source,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Interval returns the tick interval.
func (m *TickManager) Interval() time.Duration { return m.interval }

// Start runs the tick loop until ctx is canceled or Stop is called.
func (m *TickManager) Start(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("AI tick manager started", "interval", m.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("AI tick manager stopping")
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("AI tick manager stopped")
			return nil

		case now := <-ticker.C:
			m.TickAll(now)
		}
	}
}

// Stop stops the tick loop. Safe to call more than once.
func (m *TickManager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// TickAll ticks every NPC from the source once and returns how many were ticked.
// A panicking controller is logged and skipped.
func (m *TickManager) TickAll(now time.Time) int {
	npcs := m.source.List()

	count := 0
	for _, n := range npcs {
		if m.tickOne(n, now) {
			count++
		}
	}

	m.lastTickCount.Store(int32(count))
	m.ticks.Add(1)

	if count > 0 && IsDebugEnabled() {
		slog.Debug("AI tick completed", "npcs", count)
	}
	return count
}

func (m *TickManager) tickOne(c Controller, now time.Time) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.panics.Add(1)
			slog.Error("npc tick panicked", "npc", c.ID(), "error", fmt.Sprint(r))
			ok = false
		}
	}()
	c.Tick(now)
	return true
}

// LastTickCount returns how many NPCs the last tick processed.
func (m *TickManager) LastTickCount() int {
	return int(m.lastTickCount.Load())
}

// TickCount returns how many ticks have run.
func (m *TickManager) TickCount() uint64 {
	return m.ticks.Load()
}

// PanicCount returns how many NPC ticks panicked.
func (m *TickManager) PanicCount() uint64 {
	return m.panics.Load()
}
