//go:build unit

package queue_test

import (
	"strings"
	"testing"
	"time"

	"seat-queue/internal/domain/queue"
	"seat-queue/internal/pkg/errs"
	"seat-queue/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const capacity = 3

func TestName(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    string
		errIs   error
		errKind error
	}{
		{name: "plain name", input: "Taro", want: "Taro"},
		{name: "surrounding whitespace is trimmed", input: "  Hanako \t", want: "Hanako"},
		{name: "multibyte name at the limit", input: strings.Repeat("あ", queue.MaxNameLength), want: strings.Repeat("あ", queue.MaxNameLength)},
		{name: "empty", input: "", errIs: queue.ErrEmptyName, errKind: errs.ErrValidation},
		{name: "whitespace only", input: "   \n", errIs: queue.ErrEmptyName, errKind: errs.ErrValidation},
		{name: "too long", input: strings.Repeat("a", queue.MaxNameLength+1), errIs: queue.ErrNameTooLong, errKind: errs.ErrValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := queue.NewName(tc.input)
			if tc.errIs != nil {
				require.Error(t, err)
				assert.True(t, errs.Is(err, tc.errIs))
				assert.True(t, errs.Is(err, tc.errKind))
				assert.True(t, actual.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, actual.String())
		})
	}
}

func TestNewEntry(t *testing.T) {
	now := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)

	t.Run("starts waiting with no timestamps", func(t *testing.T) {
		name, err := queue.NewName("Taro")
		require.NoError(t, err)

		actual, err := queue.NewEntry(7, name, now)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, int64(7), actual.QueueNumber())
		assert.Equal(t, "Taro", actual.Name())
		assert.Equal(t, queue.StatusWaiting, actual.Status())
		assert.Equal(t, now, actual.CreatedAt())
		assert.Nil(t, actual.StartedAt())
		assert.Nil(t, actual.CompletedAt())
	})

	t.Run("zero name is rejected", func(t *testing.T) {
		actual, err := queue.NewEntry(1, queue.Name{}, now)
		require.Nil(t, actual)
		assert.True(t, errs.Is(err, queue.ErrEmptyName))
	})
}

func TestEntry_TransitionTo(t *testing.T) {
	now := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	later := now.Add(10 * time.Minute)

	t.Run("round trip waiting -> in_progress -> completed stamps both timestamps", func(t *testing.T) {
		entry := builder.NewEntryBuilder().BuildDomain()

		require.NoError(t, entry.TransitionTo(queue.StatusInProgress, now, 0, capacity))
		require.NoError(t, entry.TransitionTo(queue.StatusCompleted, later, 1, capacity))

		require.NotNil(t, entry.StartedAt())
		require.NotNil(t, entry.CompletedAt())
		assert.Equal(t, now, *entry.StartedAt())
		assert.Equal(t, later, *entry.CompletedAt())
		assert.False(t, entry.StartedAt().After(*entry.CompletedAt()))
	})

	testCases := []struct {
		name       string
		entry      *builder.EntryBuilder
		to         queue.Status
		inProgress int
		errIs      error
	}{
		{name: "waiting -> in_progress with a free seat", entry: builder.NewEntryBuilder().Waiting(), to: queue.StatusInProgress, inProgress: capacity - 1},
		{name: "waiting -> in_progress when full", entry: builder.NewEntryBuilder().Waiting(), to: queue.StatusInProgress, inProgress: capacity, errIs: queue.ErrCapacityExceeded},
		{name: "waiting -> cancelled", entry: builder.NewEntryBuilder().Waiting(), to: queue.StatusCancelled, inProgress: capacity},
		{name: "waiting -> completed", entry: builder.NewEntryBuilder().Waiting(), to: queue.StatusCompleted, errIs: queue.ErrInvalidTransition},
		{name: "waiting -> waiting", entry: builder.NewEntryBuilder().Waiting(), to: queue.StatusWaiting, errIs: queue.ErrInvalidTransition},
		{name: "in_progress -> completed", entry: builder.NewEntryBuilder().InProgressSince(now), to: queue.StatusCompleted, inProgress: capacity},
		{name: "in_progress -> cancelled", entry: builder.NewEntryBuilder().InProgressSince(now), to: queue.StatusCancelled, inProgress: capacity},
		{name: "in_progress -> in_progress", entry: builder.NewEntryBuilder().InProgressSince(now), to: queue.StatusInProgress, errIs: queue.ErrInvalidTransition},
		{name: "in_progress -> waiting", entry: builder.NewEntryBuilder().InProgressSince(now), to: queue.StatusWaiting, errIs: queue.ErrInvalidTransition},
		{name: "completed -> in_progress", entry: builder.NewEntryBuilder().CompletedBetween(now, later), to: queue.StatusInProgress, errIs: queue.ErrInvalidTransition},
		{name: "completed -> cancelled", entry: builder.NewEntryBuilder().CompletedBetween(now, later), to: queue.StatusCancelled, errIs: queue.ErrInvalidTransition},
		{name: "cancelled -> waiting", entry: builder.NewEntryBuilder().Cancelled(), to: queue.StatusWaiting, errIs: queue.ErrInvalidTransition},
		{name: "cancelled -> in_progress", entry: builder.NewEntryBuilder().Cancelled(), to: queue.StatusInProgress, errIs: queue.ErrInvalidTransition},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			entry := tc.entry.BuildDomain()
			before := entry.Clone()

			err := entry.TransitionTo(tc.to, later, tc.inProgress, capacity)

			if tc.errIs != nil {
				require.Error(t, err)
				assert.True(t, errs.Is(err, tc.errIs), "expected %v, got %v", tc.errIs, err)
				assert.True(t, errs.Is(err, errs.ErrInvalidTransition))
				assert.Equal(t, before, entry, "rejected transition must not modify the entry")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.to, entry.Status())
		})
	}

	t.Run("capacity error is distinguishable from other invalid transitions", func(t *testing.T) {
		entry := builder.NewEntryBuilder().CompletedBetween(now, later).BuildDomain()
		err := entry.TransitionTo(queue.StatusInProgress, later, 0, capacity)
		require.Error(t, err)
		assert.False(t, errs.Is(err, queue.ErrCapacityExceeded))
	})

	t.Run("cancelling never stamps completed_at", func(t *testing.T) {
		entry := builder.NewEntryBuilder().InProgressSince(now).BuildDomain()
		require.NoError(t, entry.TransitionTo(queue.StatusCancelled, later, 1, capacity))
		assert.Nil(t, entry.CompletedAt())
		assert.NotNil(t, entry.StartedAt())
	})
}

func TestTransitionSources(t *testing.T) {
	from, gated := queue.TransitionSources(queue.StatusInProgress)
	assert.Equal(t, []queue.Status{queue.StatusWaiting}, from)
	assert.True(t, gated)

	from, gated = queue.TransitionSources(queue.StatusCancelled)
	assert.Equal(t, []queue.Status{queue.StatusWaiting, queue.StatusInProgress}, from)
	assert.False(t, gated)

	from, _ = queue.TransitionSources(queue.StatusWaiting)
	assert.Empty(t, from)

	assert.True(t, queue.StampsStarted(queue.StatusInProgress))
	assert.True(t, queue.StampsCompleted(queue.StatusCompleted))
	assert.False(t, queue.StampsCompleted(queue.StatusCancelled))
}

func TestParseStatus(t *testing.T) {
	for _, s := range queue.AllStatuses() {
		actual, err := queue.ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, actual)
	}

	_, err := queue.ParseStatus("done")
	assert.True(t, errs.Is(err, queue.ErrUnknownStatus))
	assert.True(t, errs.Is(err, errs.ErrValidation))
}
