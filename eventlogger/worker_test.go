package eventlogger

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWorkerDrainsOnShutdown(t *testing.T) {
	sink := NewMemoryEventLogger()
	worker := NewWorker(sink, 10)
	worker.Start()

	for i := 0; i < 5; i++ {
		worker.Log(NewEvent(WithType(TypeExpenseApproved), WithActor("admin@example.com")))
	}
	worker.Log(NewEvent(WithType(TypeExpenseRejected)))
	worker.Shutdown()

	approved, err := sink.GetByType(context.Background(), TypeExpenseApproved)
	require.NoError(t, err)
	require.Len(t, approved, 5)
	require.Equal(t, "admin@example.com", approved[0].Metadata["actor"])

	rejected, err := sink.GetByType(context.Background(), TypeExpenseRejected)
	require.NoError(t, err)
	require.Len(t, rejected, 1)
}

func TestWorkerDropsWhenFull(t *testing.T) {
	sink := NewMemoryEventLogger()
	worker := NewWorker(sink, 1)

	worker.Log(NewEvent(WithType(TypeUserToggled)))
	worker.Log(NewEvent(WithType(TypeUserToggled)))

	worker.Start()
	worker.Shutdown()

	events, err := sink.GetByType(context.Background(), TypeUserToggled)
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestWorkerLogRacingShutdown(t *testing.T) {
	sink := NewMemoryEventLogger()
	worker := NewWorker(sink, 1000)
	worker.Start()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Go(func() {
			for j := 0; j < 50; j++ {
				worker.Log(NewEvent(WithType(TypeExpenseApproved)))
			}
		})
	}
	worker.Shutdown()
	wg.Wait()

	require.Zero(t, len(worker.eventCh))
	saved, err := sink.GetByType(context.Background(), TypeExpenseApproved)
	require.NoError(t, err)

	require.NotPanics(t, func() {
		worker.Log(NewEvent(WithType(TypeExpenseApproved)))
		worker.Shutdown()
	})
	after, err := sink.GetByType(context.Background(), TypeExpenseApproved)
	require.NoError(t, err)
	require.Len(t, after, len(saved))
}

func TestNewEventOptions(t *testing.T) {
	e := NewEvent(
		WithType(TypeUserUpdated),
		WithData(map[string]string{"user_id": "3"}),
		WithMetadata(map[string]string{"request_id": "abc"}),
	)
	require.Equal(t, TypeUserUpdated, e.Type)
	require.Equal(t, "abc", e.Metadata["request_id"])
	require.False(t, e.CreatedAt.IsZero())
}
