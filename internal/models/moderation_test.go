package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModerationFlag(t *testing.T) {
	t.Run("flag records reason", func(t *testing.T) {
		var m Moderation
		require.NoError(t, m.Flag("spam"))
		assert.True(t, m.IsFlagged)
		require.NotNil(t, m.FlaggedReason)
		assert.Equal(t, "spam", *m.FlaggedReason)
	})

	t.Run("flag without reason keeps it nil", func(t *testing.T) {
		var m Moderation
		require.NoError(t, m.Flag(""))
		assert.True(t, m.IsFlagged)
		assert.Nil(t, m.FlaggedReason)
	})

	t.Run("flagging a decided item fails", func(t *testing.T) {
		var m Moderation
		require.NoError(t, m.Flag("spam"))
		require.NoError(t, m.Moderate(uuid.New(), ModerationRemove, "", time.Now()))

		err := m.Flag("again")
		assert.ErrorIs(t, err, ErrAlreadyModerated)
	})
}

func TestModerationModerate(t *testing.T) {
	modID := uuid.New()
	now := time.Now()

	t.Run("approve clears the flag", func(t *testing.T) {
		var m Moderation
		require.NoError(t, m.Flag("off topic"))
		require.NoError(t, m.Moderate(modID, ModerationApprove, "", now))

		assert.Equal(t, ModerationStatusApproved, m.ModerationStatus)
		assert.False(t, m.IsFlagged)
		assert.Nil(t, m.FlaggedReason)
		require.NotNil(t, m.ModeratedBy)
		assert.Equal(t, modID, *m.ModeratedBy)
		require.NotNil(t, m.ModeratedAt)
		assert.Equal(t, now, *m.ModeratedAt)
	})

	t.Run("remove keeps the flag and records the note", func(t *testing.T) {
		var m Moderation
		require.NoError(t, m.Flag("abuse"))
		require.NoError(t, m.Moderate(modID, ModerationRemove, "Violates guidelines", now))

		assert.Equal(t, ModerationStatusRemoved, m.ModerationStatus)
		assert.True(t, m.IsFlagged)
		require.NotNil(t, m.FlaggedReason)
		assert.Equal(t, "Violates guidelines", *m.FlaggedReason)
	})

	t.Run("remove without note uses the default", func(t *testing.T) {
		var m Moderation
		require.NoError(t, m.Moderate(modID, ModerationRemove, "", now))
		require.NotNil(t, m.FlaggedReason)
		assert.Equal(t, "Removed by moderator", *m.FlaggedReason)
	})

	t.Run("a decision is final", func(t *testing.T) {
		var m Moderation
		require.NoError(t, m.Moderate(modID, ModerationApprove, "", now))

		err := m.Moderate(modID, ModerationRemove, "", now)
		assert.ErrorIs(t, err, ErrAlreadyModerated)
		assert.Equal(t, ModerationStatusApproved, m.ModerationStatus)
	})

	t.Run("unknown action rejected", func(t *testing.T) {
		var m Moderation
		err := m.Moderate(modID, ModerationAction("escalate"), "", now)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Nil(t, m.ModeratedAt)
	})
}
