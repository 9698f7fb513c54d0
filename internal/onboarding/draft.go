package onboarding

import (
	"github.com/genova-platform/genova_backend/internal/models"
)

// Draft holds the wizard's accumulated state. It lives in Redis for the
// duration of the wizard session and is discarded once submitted.
type Draft struct {
	Step int `json:"step"` // 1..5

	PersonalDetails PersonalDetails `json:"personal_details"`
	Experience      Experience      `json:"experience"`
	Expertise       Expertise       `json:"expertise"`
	Availability    Availability    `json:"availability"`
}

type PersonalDetails struct {
	FullName  string `json:"full_name"`
	Title     string `json:"title"`
	Location  string `json:"location"`
	Biography string `json:"biography"`
	PhotoURL  string `json:"photo_url"`
}

type Experience struct {
	CareerHistory  string   `json:"career_history"`
	CredentialRefs []string `json:"credential_refs"`
}

type Expertise struct {
	Areas   []string `json:"areas"`
	Sectors []string `json:"sectors"`
}

type Availability struct {
	IsAvailable bool            `json:"is_available"`
	LeadTime    models.LeadTime `json:"lead_time"`
}

// NewDraft returns an empty draft positioned at the first step.
func NewDraft() *Draft {
	return &Draft{
		Step: StepPersonalDetails,
		Availability: Availability{
			LeadTime: models.LeadTimeImmediate,
		},
	}
}
