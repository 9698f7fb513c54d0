package models

import (
	"time"

	"github.com/google/uuid"
)

type MilestoneStatus string

const (
	MilestoneStatusPending    MilestoneStatus = "pending"
	MilestoneStatusInProgress MilestoneStatus = "in_progress"
	MilestoneStatusCompleted  MilestoneStatus = "completed"
)

func ValidMilestoneStatus(s MilestoneStatus) bool {
	switch s {
	case MilestoneStatusPending, MilestoneStatusInProgress, MilestoneStatusCompleted:
		return true
	}
	return false
}

type Milestone struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;index;not null" json:"project_id"`

	Title       string `gorm:"type:varchar(200);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	DueDate     string `gorm:"type:varchar(30)" json:"due_date"` // ISO date, optional

	Status      MilestoneStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	CompletedAt *time.Time      `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetStatus moves the milestone to the given status. Entering completed
// stamps CompletedAt; leaving it clears the stamp.
func (m *Milestone) SetStatus(to MilestoneStatus, now time.Time) error {
	if !ValidMilestoneStatus(to) {
		return ErrInvalidTransition
	}
	if to == MilestoneStatusCompleted {
		m.CompletedAt = &now
	} else {
		m.CompletedAt = nil
	}
	m.Status = to
	return nil
}

// Toggle flips between pending and completed. This is the checkbox path;
// an in_progress milestone toggles forward to completed.
func (m *Milestone) Toggle(now time.Time) {
	if m.Status == MilestoneStatusCompleted {
		_ = m.SetStatus(MilestoneStatusPending, now)
		return
	}
	_ = m.SetStatus(MilestoneStatusCompleted, now)
}
