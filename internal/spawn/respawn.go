package spawn

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Auriosi/AuriNPC/internal/npc"
)

// DefaultResolution is how often due respawns are checked when none is configured.
const DefaultResolution = 25 * time.Millisecond

// RespawnTask is a pending deferred action keyed by NPC id.
type RespawnTask struct {
	NpcID       uuid.UUID
	RespawnTime time.Time // carries the monotonic reading of time.Now
	run         func()
}

// RespawnTaskManager is an npc.Scheduler driven by a single ticker. Tasks
// wait in a map until their deadline passes; no goroutine sleeps for a
// task's delay.
type RespawnTaskManager struct {
	resolution time.Duration
	now        func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu    sync.RWMutex
	tasks map[uuid.UUID]*RespawnTask
}

var _ npc.Scheduler = (*RespawnTaskManager)(nil)

// NewRespawnTaskManager creates a respawn task manager.
// Non-positive resolution falls back to DefaultResolution.
func NewRespawnTaskManager(resolution time.Duration) *RespawnTaskManager {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	return &RespawnTaskManager{
		resolution: resolution,
		now:        time.Now,
		stopCh:     make(chan struct{}),
		tasks:      make(map[uuid.UUID]*RespawnTask),
	}
}

// Start runs the due-task loop (blocks until ctx is canceled or Stop is called).
// Tasks still running when the loop exits are waited for.
func (m *RespawnTaskManager) Start(ctx context.Context) error {
	ticker := time.NewTicker(m.resolution)
	defer ticker.Stop()
	defer m.wg.Wait()

	slog.Info("respawn task manager started", "resolution", m.resolution)

	for {
		select {
		case <-ctx.Done():
			slog.Info("respawn task manager stopping", "pending", m.TaskCount())
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("respawn task manager stopped", "pending", m.TaskCount())
			return nil

		case <-ticker.C:
			m.processTasks(m.now())
		}
	}
}

// Stop stops the loop. Safe to call more than once.
func (m *RespawnTaskManager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// Schedule registers fn to run once delay has elapsed. A pending task for
// the same id is replaced.
func (m *RespawnTaskManager) Schedule(id uuid.UUID, delay time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	respawnTime := m.now().Add(max(delay, 0))
	m.tasks[id] = &RespawnTask{
		NpcID:       id,
		RespawnTime: respawnTime,
		run:         fn,
	}

	slog.Debug("respawn scheduled",
		"npc", id,
		"delay", delay,
		"respawnTime", respawnTime.Format(time.RFC3339Nano))
}

// Cancel drops a pending task. No-op if none is pending.
func (m *RespawnTaskManager) Cancel(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[id]; !ok {
		return
	}
	delete(m.tasks, id)

	slog.Debug("respawn cancelled", "npc", id)
}

// processTasks pulls due tasks and runs them on a worker goroutine.
func (m *RespawnTaskManager) processTasks(now time.Time) int {
	due := m.takeDue(now)
	if len(due) == 0 {
		return 0
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.executeTasks(due)
	}()
	return len(due)
}

// RunDue runs every due task synchronously. Returns how many ran.
func (m *RespawnTaskManager) RunDue(now time.Time) int {
	due := m.takeDue(now)
	m.executeTasks(due)
	return len(due)
}

func (m *RespawnTaskManager) takeDue(now time.Time) []*RespawnTask {
	m.mu.Lock()
	defer m.mu.Unlock()

	var due []*RespawnTask
	for id, task := range m.tasks {
		if !now.Before(task.RespawnTime) {
			due = append(due, task)
			delete(m.tasks, id)
		}
	}
	return due
}

func (m *RespawnTaskManager) executeTasks(tasks []*RespawnTask) {
	for _, task := range tasks {
		m.executeTask(task)
	}
}

func (m *RespawnTaskManager) executeTask(task *RespawnTask) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("respawn task panicked", "npc", task.NpcID, "error", fmt.Sprint(r))
		}
	}()
	task.run()
	slog.Debug("respawn task executed", "npc", task.NpcID)
}

// TaskCount returns the number of pending tasks.
func (m *RespawnTaskManager) TaskCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tasks)
}

// GetTask returns the pending task for an NPC.
func (m *RespawnTaskManager) GetTask(id uuid.UUID) (*RespawnTask, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	task, ok := m.tasks[id]
	return task, ok
}
