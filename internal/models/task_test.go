package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskCloseThenReopen(t *testing.T) {
	alice := UserRef{ID: "u1", Username: "alice"}
	bob := UserRef{ID: "u2", Username: "bob"}
	closedAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	reopenedAt := closedAt.Add(time.Hour)

	task := &Task{ID: "t1"}

	require.NoError(t, task.Close(alice, closedAt))
	assert.True(t, task.IsResolved)
	require.NotNil(t, task.ClosedBy)
	assert.Equal(t, alice, *task.ClosedBy)
	assert.Equal(t, closedAt, *task.ClosedAt)
	assert.Nil(t, task.ReopenedBy)
	assert.Nil(t, task.ReopenedAt)

	require.NoError(t, task.Reopen(bob, reopenedAt))
	assert.False(t, task.IsResolved)
	assert.Nil(t, task.ClosedBy)
	assert.Nil(t, task.ClosedAt)
	require.NotNil(t, task.ReopenedBy)
	assert.Equal(t, bob, *task.ReopenedBy)
	assert.Equal(t, reopenedAt, *task.ReopenedAt)

	require.NoError(t, task.Close(bob, reopenedAt.Add(time.Hour)))
	assert.True(t, task.IsResolved)
	assert.Nil(t, task.ReopenedBy)
	assert.Nil(t, task.ReopenedAt)
}

func TestTaskCloseAlreadyClosed(t *testing.T) {
	by := UserRef{ID: "u1"}
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	task := &Task{ID: "t1"}
	require.NoError(t, task.Close(by, at))
	before := *task

	err := task.Close(UserRef{ID: "u2"}, at.Add(time.Minute))
	assert.ErrorIs(t, err, ErrTaskAlreadyClosed)
	assert.Equal(t, before, *task)
}

func TestTaskReopenAlreadyOpened(t *testing.T) {
	task := &Task{ID: "t1"}
	before := *task

	err := task.Reopen(UserRef{ID: "u1"}, time.Now())
	assert.ErrorIs(t, err, ErrTaskAlreadyOpened)
	assert.Equal(t, before, *task)
}

func TestPriorityRank(t *testing.T) {
	assert.Less(t, PriorityLow.Rank(), PriorityMedium.Rank())
	assert.Less(t, PriorityMedium.Rank(), PriorityHigh.Rank())
	assert.False(t, Priority("urgent").Valid())
	assert.True(t, PriorityHigh.Valid())
}
