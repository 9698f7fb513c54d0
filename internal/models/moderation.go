package models

import (
	"time"

	"github.com/google/uuid"
)

type ModerationStatus string

const (
	ModerationStatusPending  ModerationStatus = "pending"
	ModerationStatusApproved ModerationStatus = "approved"
	ModerationStatusRemoved  ModerationStatus = "removed"
)

type ModerationAction string

const (
	ModerationApprove ModerationAction = "approve"
	ModerationRemove  ModerationAction = "remove"
)

const defaultRemovalNote = "Removed by moderator"

// Moderation is embedded in every flaggable entity (reviews, forum posts,
// forum replies). ModeratedAt gates re-moderation: the pending queue is
// "flagged AND moderated_at IS NULL", and a stamped item can never be
// decided twice.
type Moderation struct {
	ModerationStatus ModerationStatus `gorm:"type:varchar(20);default:'pending';index" json:"moderation_status"`
	IsFlagged        bool             `gorm:"default:false;index" json:"is_flagged"`
	FlaggedReason    *string          `gorm:"type:text" json:"flagged_reason"`
	ModeratedBy      *uuid.UUID       `gorm:"type:uuid" json:"moderated_by"`
	ModeratedAt      *time.Time       `json:"moderated_at"`
}

// Flag marks the content for moderator review. Flagging an already
// decided item is a no-op error so a removal cannot be resurrected into
// the queue.
func (m *Moderation) Flag(reason string) error {
	if m.ModeratedAt != nil {
		return ErrAlreadyModerated
	}
	m.IsFlagged = true
	if reason != "" {
		m.FlaggedReason = &reason
	}
	return nil
}

// Moderate applies an approve/remove decision exactly once. Approve clears
// the flagged reason, remove records the moderator's note (or a default).
func (m *Moderation) Moderate(moderatorID uuid.UUID, action ModerationAction, note string, now time.Time) error {
	if m.ModeratedAt != nil {
		return ErrAlreadyModerated
	}
	switch action {
	case ModerationApprove:
		m.ModerationStatus = ModerationStatusApproved
		m.IsFlagged = false
		m.FlaggedReason = nil
	case ModerationRemove:
		m.ModerationStatus = ModerationStatusRemoved
		m.IsFlagged = true
		if note == "" {
			note = defaultRemovalNote
		}
		m.FlaggedReason = &note
	default:
		return ErrInvalidTransition
	}
	m.ModeratedBy = &moderatorID
	m.ModeratedAt = &now
	return nil
}
