package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMilestoneSetStatus(t *testing.T) {
	now := time.Now()

	t.Run("completing stamps CompletedAt", func(t *testing.T) {
		m := Milestone{Status: MilestoneStatusPending}
		require.NoError(t, m.SetStatus(MilestoneStatusCompleted, now))
		assert.Equal(t, MilestoneStatusCompleted, m.Status)
		require.NotNil(t, m.CompletedAt)
		assert.Equal(t, now, *m.CompletedAt)
	})

	t.Run("leaving completed clears CompletedAt", func(t *testing.T) {
		m := Milestone{Status: MilestoneStatusPending}
		require.NoError(t, m.SetStatus(MilestoneStatusCompleted, now))
		require.NoError(t, m.SetStatus(MilestoneStatusInProgress, now))
		assert.Equal(t, MilestoneStatusInProgress, m.Status)
		assert.Nil(t, m.CompletedAt)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		m := Milestone{Status: MilestoneStatusPending}
		err := m.SetStatus(MilestoneStatus("done"), now)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, MilestoneStatusPending, m.Status)
		assert.Nil(t, m.CompletedAt)
	})
}

func TestMilestoneToggle(t *testing.T) {
	now := time.Now()

	t.Run("pending toggles to completed", func(t *testing.T) {
		m := Milestone{Status: MilestoneStatusPending}
		m.Toggle(now)
		assert.Equal(t, MilestoneStatusCompleted, m.Status)
		assert.NotNil(t, m.CompletedAt)
	})

	t.Run("completed toggles back to pending", func(t *testing.T) {
		m := Milestone{Status: MilestoneStatusPending}
		m.Toggle(now)
		m.Toggle(now)
		assert.Equal(t, MilestoneStatusPending, m.Status)
		assert.Nil(t, m.CompletedAt)
	})

	t.Run("in_progress toggles forward to completed", func(t *testing.T) {
		m := Milestone{Status: MilestoneStatusInProgress}
		m.Toggle(now)
		assert.Equal(t, MilestoneStatusCompleted, m.Status)
		assert.NotNil(t, m.CompletedAt)
	})
}
