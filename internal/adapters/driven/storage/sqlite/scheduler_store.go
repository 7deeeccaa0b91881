package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexuwunya/pravo-bot/internal/core/domain"
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driven"
)

const refreshTaskColumns = `id, name, interval_ms, last_run, next_run, last_success, last_error, enabled`

const refreshRunColumns = `run_id, task_id, started_at, ended_at, success, error, attempts, documents_refreshed`

// schedulerStore keeps refresh schedule state and run history.
type schedulerStore struct {
	store *Store
}

var _ driven.SchedulerStore = (*schedulerStore)(nil)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// GetTask returns nil and no error for an unknown task.
func (s *schedulerStore) GetTask(ctx context.Context, taskID string) (*domain.ScheduledTask, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+refreshTaskColumns+` FROM refresh_tasks WHERE id = ?`, taskID)

	task, err := scanRefreshTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasks returns every task ordered by ID.
func (s *schedulerStore) ListTasks(ctx context.Context) ([]domain.ScheduledTask, error) {
	rows, err := s.store.db.QueryContext(ctx,
		`SELECT `+refreshTaskColumns+` FROM refresh_tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying refresh tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.ScheduledTask
	for rows.Next() {
		task, err := scanRefreshTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating refresh tasks: %w", err)
	}
	return tasks, nil
}

// SaveTask inserts the task or overwrites the stored state with the same ID.
func (s *schedulerStore) SaveTask(ctx context.Context, task *domain.ScheduledTask) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO refresh_tasks (`+refreshTaskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			interval_ms = excluded.interval_ms,
			last_run = excluded.last_run,
			next_run = excluded.next_run,
			last_success = excluded.last_success,
			last_error = excluded.last_error,
			enabled = excluded.enabled
	`, task.ID, task.Name, task.Interval.Milliseconds(),
		unixMillis(task.LastRun), unixMillis(task.NextRun), unixMillis(task.LastSuccess),
		nullString(task.LastError), task.Enabled)
	if err != nil {
		return fmt.Errorf("saving refresh task %s: %w", task.ID, err)
	}
	return nil
}

// DeleteTask removes the task. Its run history is kept.
func (s *schedulerStore) DeleteTask(ctx context.Context, taskID string) error {
	if _, err := s.store.db.ExecContext(ctx, `DELETE FROM refresh_tasks WHERE id = ?`, taskID); err != nil {
		return fmt.Errorf("deleting refresh task %s: %w", taskID, err)
	}
	return nil
}

// RecordResult appends one run to the history.
func (s *schedulerStore) RecordResult(ctx context.Context, result *domain.TaskResult) error {
	if result == nil || result.TaskID == "" {
		return domain.ErrInvalidInput
	}

	attempts := max(result.Attempts, 1)
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO refresh_runs (`+refreshRunColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, result.RunID, result.TaskID,
		result.StartedAt.UnixMilli(), result.EndedAt.UnixMilli(),
		result.Success, nullString(result.Error), attempts, result.ItemsProcessed)
	if err != nil {
		return fmt.Errorf("recording refresh run for %s: %w", result.TaskID, err)
	}
	return nil
}

// GetTaskHistory returns up to limit runs of a task, newest first.
func (s *schedulerStore) GetTaskHistory(ctx context.Context, taskID string, limit int) ([]domain.TaskResult, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+refreshRunColumns+` FROM refresh_runs
		WHERE task_id = ?
		ORDER BY started_at DESC, seq DESC
		LIMIT ?
	`, taskID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying refresh runs: %w", err)
	}
	defer rows.Close()

	results := make([]domain.TaskResult, 0, limit)
	for rows.Next() {
		var (
			r              domain.TaskResult
			started, ended int64
			errMsg         sql.NullString
		)
		if err := rows.Scan(&r.RunID, &r.TaskID, &started, &ended,
			&r.Success, &errMsg, &r.Attempts, &r.ItemsProcessed); err != nil {
			return nil, fmt.Errorf("scanning refresh run: %w", err)
		}
		r.StartedAt = time.UnixMilli(started).UTC()
		r.EndedAt = time.UnixMilli(ended).UTC()
		r.Error = errMsg.String
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating refresh runs: %w", err)
	}
	return results, nil
}

// PruneHistory keeps the newest keep runs of every task.
func (s *schedulerStore) PruneHistory(ctx context.Context, keep int) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM refresh_runs WHERE seq IN (
			SELECT seq FROM (
				SELECT seq, ROW_NUMBER() OVER (
					PARTITION BY task_id ORDER BY started_at DESC, seq DESC
				) AS pos
				FROM refresh_runs
			) WHERE pos > ?
		)
	`, max(keep, 0))
	if err != nil {
		return fmt.Errorf("pruning refresh runs: %w", err)
	}
	return nil
}

func scanRefreshTask(row rowScanner) (*domain.ScheduledTask, error) {
	var (
		task                          domain.ScheduledTask
		intervalMillis                int64
		lastRun, nextRun, lastSuccess sql.NullInt64
		lastError                     sql.NullString
	)
	err := row.Scan(&task.ID, &task.Name, &intervalMillis,
		&lastRun, &nextRun, &lastSuccess, &lastError, &task.Enabled)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning refresh task: %w", err)
	}

	task.Interval = time.Duration(intervalMillis) * time.Millisecond
	task.LastRun = fromUnixMillis(lastRun)
	task.NextRun = fromUnixMillis(nextRun)
	task.LastSuccess = fromUnixMillis(lastSuccess)
	task.LastError = lastError.String
	return &task, nil
}

// unixMillis maps the zero time to NULL.
func unixMillis(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func fromUnixMillis(v sql.NullInt64) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return time.UnixMilli(v.Int64).UTC()
}
