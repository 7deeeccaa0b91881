package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/alexuwunya/pravo-bot/internal/core/domain"
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driven"
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driving"
	"github.com/alexuwunya/pravo-bot/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// historyRetention is how many results are kept per task.
const historyRetention = 100

// Scheduler manages background task execution.
// It is a pure core service with no external control API.
type Scheduler struct {
	config  domain.SchedulerConfig
	store   driven.SchedulerStore
	refresh driving.RefreshService

	// tick is how often due tasks are checked.
	tick time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler with configuration.
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.SchedulerStore,
	refresh driving.RefreshService,
) *Scheduler {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 1
	}
	if config.BaseBackoff <= 0 {
		config.BaseBackoff = time.Second
	}
	return &Scheduler{
		config:  config,
		store:   store,
		refresh: refresh,
		tick:    time.Minute,
	}
}

// Start begins the scheduler loop. This method blocks until Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	if err := s.initialiseTasks(ctx); err != nil {
		logger.Warn("scheduler: failed to initialise tasks: %v", err)
	}

	return s.run(ctx)
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	// Wait for running tasks to complete
	s.wg.Wait()

	return nil
}

// initialiseTasks ensures all configured tasks exist in the store.
func (s *Scheduler) initialiseTasks(ctx context.Context) error {
	if taskCfg := s.config.GetTaskConfig(domain.TaskIDDocumentRefresh); taskCfg.Enabled {
		if err := s.ensureTask(ctx, domain.TaskIDDocumentRefresh, "Document Refresh", taskCfg); err != nil {
			return err
		}
	}

	return nil
}

// ensureTask creates or updates a task in the store.
func (s *Scheduler) ensureTask(ctx context.Context, id, name string, cfg domain.TaskConfig) error {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}

	if task == nil {
		task = &domain.ScheduledTask{
			ID:       id,
			Name:     name,
			Interval: cfg.Interval,
			Enabled:  cfg.Enabled,
			NextRun:  time.Now().Add(cfg.Interval),
		}
	} else {
		if task.Interval != cfg.Interval {
			task.Interval = cfg.Interval
			// Recalculate next run from now
			task.NextRun = time.Now().Add(cfg.Interval)
		}
		task.Enabled = cfg.Enabled
	}

	return s.store.SaveTask(ctx, task)
}

// run is the main scheduler loop.
func (s *Scheduler) run(ctx context.Context) error {
	s.checkAndRunDueTasks(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.checkAndRunDueTasks(ctx)
		}
	}
}

// checkAndRunDueTasks finds and executes tasks that are due.
func (s *Scheduler) checkAndRunDueTasks(ctx context.Context) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		logger.Warn("scheduler: failed to list tasks: %v", err)
		return
	}

	now := time.Now()
	for i := range tasks {
		task := &tasks[i]
		if !task.Enabled {
			continue
		}
		if task.NextRun.IsZero() || !task.NextRun.After(now) {
			s.runTask(ctx, task)
		}
	}
}

// runTask executes a single task in the background.
func (s *Scheduler) runTask(ctx context.Context, task *domain.ScheduledTask) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if _, err := s.execute(ctx, task); err != nil {
			logger.Warn("scheduler: %s: %v", task.ID, err)
		}
	}()
}

// RunNow executes a task immediately and waits for it. The task's schedule
// is updated as if it had run on time.
func (s *Scheduler) RunNow(ctx context.Context, taskID string) (*domain.TaskResult, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		cfg := s.config.GetTaskConfig(taskID)
		task = &domain.ScheduledTask{ID: taskID, Name: taskID, Interval: cfg.Interval, Enabled: cfg.Enabled}
	}
	return s.execute(ctx, task)
}

// execute runs a task with retries and records the outcome.
func (s *Scheduler) execute(ctx context.Context, task *domain.ScheduledTask) (*domain.TaskResult, error) {
	result := &domain.TaskResult{
		RunID:     uuid.New().String(),
		TaskID:    task.ID,
		StartedAt: time.Now(),
	}

	var err error
	switch task.ID {
	case domain.TaskIDDocumentRefresh:
		result.ItemsProcessed, result.Attempts, err = s.runDocumentRefresh(ctx)
	default:
		return nil, fmt.Errorf("%w: task %q", domain.ErrNotFound, task.ID)
	}

	result.EndedAt = time.Now()
	if err != nil {
		result.Success = false
		result.Error = err.Error()
		task.LastError = err.Error()
	} else {
		result.Success = true
		task.LastError = ""
		task.LastSuccess = result.EndedAt
	}

	task.LastRun = result.StartedAt
	if task.Interval > 0 {
		task.NextRun = result.EndedAt.Add(task.Interval)
	}

	// Bookkeeping survives the caller's cancellation.
	bg := context.WithoutCancel(ctx)
	if saveErr := s.store.SaveTask(bg, task); saveErr != nil {
		logger.Warn("scheduler: failed to save task %s: %v", task.ID, saveErr)
	}
	if recordErr := s.store.RecordResult(bg, result); recordErr != nil {
		logger.Warn("scheduler: failed to record result for %s: %v", task.ID, recordErr)
	}
	if pruneErr := s.store.PruneHistory(bg, historyRetention); pruneErr != nil {
		logger.Warn("scheduler: failed to prune history: %v", pruneErr)
	}

	logger.Info("scheduler: %s run %s finished in %v (attempts=%d, refreshed=%d, success=%t)",
		task.ID, result.RunID, result.EndedAt.Sub(result.StartedAt), result.Attempts, result.ItemsProcessed, result.Success)
	return result, err
}

// runDocumentRefresh refreshes every document, retrying with exponential
// backoff. Validation failures are not retried.
func (s *Scheduler) runDocumentRefresh(ctx context.Context) (refreshed, attempts int, err error) {
	if s.refresh == nil {
		return 0, 0, nil
	}

	backoff := retry.WithMaxRetries(uint64(s.config.MaxAttempts-1), retry.NewExponential(s.config.BaseBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		n, err := s.refresh.RefreshAll(ctx)
		refreshed += n
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrValidationFailed) {
			return err
		}
		logger.Debug("scheduler: refresh attempt %d failed: %v", attempts, err)
		return retry.RetryableError(err)
	})
	return refreshed, attempts, err
}
