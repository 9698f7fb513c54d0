package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type LeadTime string

const (
	LeadTimeImmediate LeadTime = "immediate"
	LeadTimeOneWeek   LeadTime = "one_week"
	LeadTimeTwoWeeks  LeadTime = "two_weeks"
	LeadTimeOneMonth  LeadTime = "one_month"
)

func ValidLeadTime(t LeadTime) bool {
	switch t {
	case LeadTimeImmediate, LeadTimeOneWeek, LeadTimeTwoWeeks, LeadTimeOneMonth:
		return true
	}
	return false
}

type ExpertProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`

	FullName  string `gorm:"type:varchar(120)" json:"full_name"`
	Title     string `gorm:"type:varchar(120)" json:"title"`
	Location  string `gorm:"type:varchar(120)" json:"location"`
	Biography string `gorm:"type:text" json:"biography"`
	PhotoURL  string `gorm:"type:text" json:"photo_url"`

	CareerHistory  string         `gorm:"type:text" json:"career_history"`
	CredentialRefs datatypes.JSON `json:"credential_refs"` // ["uploads/credentials/..."]

	Areas   datatypes.JSON `json:"areas"`   // ["AI Strategy", ...]
	Sectors datatypes.JSON `json:"sectors"` // ["Healthcare", ...]

	IsAvailable bool     `gorm:"default:false" json:"is_available"`
	LeadTime    LeadTime `gorm:"type:varchar(20);default:'immediate'" json:"lead_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompletionItem is one slice of the profile completion meter.
type CompletionItem struct {
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
}

// CompletionItems derives the completion checklist from field presence.
// Recomputed on every read, never stored.
func (p *ExpertProfile) CompletionItems() []CompletionItem {
	return []CompletionItem{
		{Label: "Basic Info", Completed: p.FullName != "" && p.Title != ""},
		{Label: "Location", Completed: p.Location != ""},
		{Label: "Biography", Completed: p.Biography != ""},
		{Label: "Profile Photo", Completed: p.PhotoURL != ""},
	}
}

// CompletionPercentage returns completed items over total, as 0-100.
func (p *ExpertProfile) CompletionPercentage() float64 {
	items := p.CompletionItems()
	done := 0
	for _, it := range items {
		if it.Completed {
			done++
		}
	}
	return float64(done) / float64(len(items)) * 100
}
