package models

import (
	"time"

	"github.com/google/uuid"
)

type InquiryStatus string

const (
	InquiryStatusPending  InquiryStatus = "pending"
	InquiryStatusAccepted InquiryStatus = "accepted"
	InquiryStatusDeclined InquiryStatus = "declined"
)

// Inquiry is a seeker's proposal to engage an expert on a project.
// pending -> accepted|declined, transitioned by the expert only. Terminal
// once decided.
type Inquiry struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SeekerID uuid.UUID `gorm:"type:uuid;index;not null" json:"seeker_id"`
	ExpertID uuid.UUID `gorm:"type:uuid;index;not null" json:"expert_id"`

	ProjectTitle       string `gorm:"type:varchar(200)" json:"project_title"`
	ProjectDescription string `gorm:"type:text" json:"project_description"`
	BudgetRange        string `gorm:"type:varchar(60)" json:"budget_range"`
	Timeline           string `gorm:"type:varchar(60)" json:"timeline"`

	Status InquiryStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Seeker *User `gorm:"foreignKey:SeekerID" json:"seeker,omitempty"`
	Expert *User `gorm:"foreignKey:ExpertID" json:"expert,omitempty"`
}

// Decide applies an accept/decline by the given caller. Only the inquiry's
// expert may decide, and only while the inquiry is still pending.
func (i *Inquiry) Decide(callerID uuid.UUID, to InquiryStatus) error {
	if callerID != i.ExpertID {
		return ErrNotAuthorized
	}
	if to != InquiryStatusAccepted && to != InquiryStatusDeclined {
		return ErrInvalidTransition
	}
	if i.Status != InquiryStatusPending {
		return ErrInvalidTransition
	}
	i.Status = to
	return nil
}
