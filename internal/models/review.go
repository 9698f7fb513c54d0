package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ExpertID  uuid.UUID  `gorm:"type:uuid;index;not null" json:"expert_id"`
	SeekerID  uuid.UUID  `gorm:"type:uuid;index;not null" json:"seeker_id"`
	ProjectID *uuid.UUID `gorm:"type:uuid;index" json:"project_id,omitempty"`

	Rating  int    `gorm:"not null" json:"rating"` // 1-5
	Comment string `gorm:"type:text" json:"comment"`

	Moderation

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Expert *User `gorm:"foreignKey:ExpertID" json:"expert,omitempty"`
	Seeker *User `gorm:"foreignKey:SeekerID" json:"seeker,omitempty"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
