package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"ai-orchestrator/internal/domain"
	"ai-orchestrator/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(issueKey string, target domain.Status) domain.DispatchRecord {
	return domain.DispatchRecord{
		DispatchID:   "d-" + issueKey,
		IssueKey:     issueKey,
		TargetStatus: target,
		Role:         domain.RoleDevelopment,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestMemoryJournal_DispatchMarks(t *testing.T) {
	ctx := context.Background()
	journal := repository.NewMemoryJournal()

	seen, err := journal.AlreadyDispatched(ctx, "PAY-1", domain.StatusSelectedForDev)
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, journal.RecordDispatch(ctx, record("PAY-1", domain.StatusSelectedForDev)))

	seen, err = journal.AlreadyDispatched(ctx, "PAY-1", domain.StatusSelectedForDev)
	require.NoError(t, err)
	assert.True(t, seen)

	// Метка действует только на свою пару (ключ, статус).
	seen, err = journal.AlreadyDispatched(ctx, "PAY-1", domain.StatusToApprove)
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = journal.AlreadyDispatched(ctx, "PAY-2", domain.StatusSelectedForDev)
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestMemoryJournal_ClearDispatchesKeepsHistory(t *testing.T) {
	ctx := context.Background()
	journal := repository.NewMemoryJournal()

	require.NoError(t, journal.RecordDispatch(ctx, record("PAY-1", domain.StatusSelectedForDev)))
	require.NoError(t, journal.RecordDispatch(ctx, record("PAY-1", domain.StatusToApprove)))

	require.NoError(t, journal.ClearDispatches(ctx, "PAY-1"))

	// Метки сброшены: повторная отправка разрешена.
	seen, err := journal.AlreadyDispatched(ctx, "PAY-1", domain.StatusSelectedForDev)
	require.NoError(t, err)
	assert.False(t, seen)

	// Но задача по-прежнему известна как управляемая AI.
	managed, err := journal.HasDispatched(ctx, "PAY-1")
	require.NoError(t, err)
	assert.True(t, managed)
}

func TestMemoryJournal_RejectionCounter(t *testing.T) {
	ctx := context.Background()
	journal := repository.NewMemoryJournal()

	count, err := journal.RecordRejection(ctx, "PAY-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = journal.RecordRejection(ctx, "PAY-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Счетчики независимы между задачами.
	count, err = journal.RecordRejection(ctx, "PAY-2")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, journal.ClearRejections(ctx, "PAY-1"))

	count, err = journal.RecordRejection(ctx, "PAY-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMemoryJournal_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	journal := repository.NewMemoryJournal()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = journal.RecordDispatch(ctx, record("PAY-1", domain.StatusSelectedForDev))
			_, _ = journal.AlreadyDispatched(ctx, "PAY-1", domain.StatusSelectedForDev)
			_, _ = journal.RecordRejection(ctx, "PAY-1")
		}()
	}
	wg.Wait()

	count, err := journal.RecordRejection(ctx, "PAY-1")
	require.NoError(t, err)
	assert.Equal(t, 17, count)
}
