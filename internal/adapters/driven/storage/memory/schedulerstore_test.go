package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexuwunya/pravo-bot/internal/core/domain"
)

func TestSchedulerStore_Tasks(t *testing.T) {
	ctx := context.Background()
	store := NewSchedulerStore()

	task, err := store.GetTask(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, task)

	require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{ID: "b", Interval: time.Hour}))
	require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{ID: "a", Enabled: true}))
	assert.ErrorIs(t, store.SaveTask(ctx, &domain.ScheduledTask{}), domain.ErrInvalidInput)

	tasks, err := store.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].ID)
	assert.Equal(t, "b", tasks[1].ID)

	require.NoError(t, store.DeleteTask(ctx, "a"))
	task, err = store.GetTask(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, task)
}

func TestSchedulerStore_HistoryAndPrune(t *testing.T) {
	ctx := context.Background()
	store := NewSchedulerStore()

	for i := range 5 {
		require.NoError(t, store.RecordResult(ctx, &domain.TaskResult{TaskID: "refresh", ItemsProcessed: i}))
	}
	require.NoError(t, store.RecordResult(ctx, &domain.TaskResult{TaskID: "other"}))

	history, err := store.GetTaskHistory(ctx, "refresh", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 4, history[0].ItemsProcessed)
	assert.Equal(t, 3, history[1].ItemsProcessed)

	require.NoError(t, store.PruneHistory(ctx, 1))
	history, err = store.GetTaskHistory(ctx, "refresh", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 4, history[0].ItemsProcessed)

	other, err := store.GetTaskHistory(ctx, "other", 10)
	require.NoError(t, err)
	assert.Len(t, other, 1)
}
