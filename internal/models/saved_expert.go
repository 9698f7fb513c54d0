package models

import (
	"time"

	"github.com/google/uuid"
)

// SavedExpert is a seeker's bookmark on an expert.
type SavedExpert struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SeekerID uuid.UUID `gorm:"type:uuid;index:idx_saved_pair,unique;not null" json:"seeker_id"`
	ExpertID uuid.UUID `gorm:"type:uuid;index:idx_saved_pair,unique;not null" json:"expert_id"`

	CreatedAt time.Time `json:"created_at"`

	Expert *User `gorm:"foreignKey:ExpertID" json:"expert,omitempty"`
}
