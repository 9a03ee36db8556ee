package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// State 调度器生命周期状态
type State int32

const (
	StateStopped State = iota
	StateInitialized
	StateRunning
	StateShuttingDown
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting down"
	default:
		return "unknown"
	}
}

// TaskConfig controls whether a registered task is scheduled and on what
// cron expression (standard 5-field format).
type TaskConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron"`
}

type TaskStatus struct {
	Name    string
	Cron    string
	Enabled bool
}

type entry struct {
	task Task
	cfg  TaskConfig
}

// Scheduler drives registered tasks on cron triggers. Lifecycle is
// Stopped -> Initialized (first Register) -> Running (Start) ->
// ShuttingDown (Stop) -> Stopped.
type Scheduler struct {
	mu      sync.Mutex
	state   atomic.Int32
	cron    *cron.Cron
	entries []entry
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLogger(slogCronLogger{})),
	}
}

func (s *Scheduler) State() State {
	return State(s.state.Load())
}

// Register adds a task. Registration is only allowed before Start.
func (s *Scheduler) Register(task Task, cfg TaskConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.State() {
	case StateStopped, StateInitialized:
	default:
		return fmt.Errorf("scheduler: cannot register %q in state %s", task.Name(), s.State())
	}

	s.entries = append(s.entries, entry{task: task, cfg: cfg})
	s.state.Store(int32(StateInitialized))
	return nil
}

// Start schedules all enabled tasks and begins triggering them.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() != StateInitialized {
		return fmt.Errorf("scheduler: start from state %s", s.State())
	}

	for _, e := range s.entries {
		if !e.cfg.Enabled {
			slog.Info("task disabled, skip scheduling", slog.String("task", e.task.Name()))
			continue
		}
		task := e.task
		if _, err := s.cron.AddFunc(e.cfg.Cron, func() {
			s.runTask(task)
		}); err != nil {
			return fmt.Errorf("scheduler: bad cron %q for task %q: %w", e.cfg.Cron, e.task.Name(), err)
		}
		slog.Info("task scheduled", slog.String("task", e.task.Name()), slog.String("cron", e.cfg.Cron))
	}

	s.cron.Start()
	s.state.Store(int32(StateRunning))
	return nil
}

func (s *Scheduler) runTask(task Task) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("task panicked", slog.String("task", task.Name()), slog.Any("panic", r))
		}
	}()

	start := time.Now()
	if err := task.Run(context.Background()); err != nil {
		slog.Error("task failed", slog.String("task", task.Name()), slog.Any("err", err))
		return
	}
	slog.Info("task finished", slog.String("task", task.Name()), slog.Duration("cost", time.Since(start)))
}

// Stop halts triggering and waits for in-flight runs to complete, bounded
// by ctx. Already-started runs are never interrupted mid-flight.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.State() != StateRunning {
		s.mu.Unlock()
		return fmt.Errorf("scheduler: stop from state %s", s.State())
	}
	s.state.Store(int32(StateShuttingDown))
	done := s.cron.Stop()
	s.mu.Unlock()

	select {
	case <-done.Done():
	case <-ctx.Done():
		s.state.Store(int32(StateStopped))
		return fmt.Errorf("scheduler: shutdown timed out: %w", ctx.Err())
	}
	s.state.Store(int32(StateStopped))
	return nil
}

// Run starts the scheduler and blocks until ctx is cancelled, then shuts
// down with a 30s grace period for in-flight tasks.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()
	return s.Stop(stopCtx)
}

// RunOnce executes every enabled task once, sequentially, without
// starting the cron loop. Failures are logged and do not stop the pass.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	s.mu.Lock()
	entries := make([]entry, len(s.entries))
	copy(entries, s.entries)
	s.mu.Unlock()

	for _, e := range entries {
		if !e.cfg.Enabled {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		s.runTask(e.task)
	}
	return nil
}

func (s *Scheduler) Tasks() []TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]TaskStatus, 0, len(s.entries))
	for _, e := range s.entries {
		res = append(res, TaskStatus{
			Name:    e.task.Name(),
			Cron:    e.cfg.Cron,
			Enabled: e.cfg.Enabled,
		})
	}
	return res
}

type slogCronLogger struct{}

func (slogCronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (slogCronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append(keysAndValues, "err", err)...)
}
