package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultSlotStart      = "09:00"
	DefaultSlotEnd        = "17:00"
	DefaultEngagementType = "Consultation"
)

// AvailabilitySlot is one time range on an expert's weekly calendar.
// Slots within a day may overlap; only day range and start<end are checked.
type AvailabilitySlot struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ExpertID uuid.UUID `gorm:"type:uuid;index;not null" json:"expert_id"`

	DayOfWeek      int    `gorm:"not null" json:"day_of_week"` // 0=Sunday .. 6=Saturday
	StartTime      string `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime        string `gorm:"type:varchar(5);not null" json:"end_time"`
	EngagementType string `gorm:"type:varchar(60)" json:"engagement_type"`
	IsAvailable    bool   `gorm:"default:true" json:"is_available"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAvailabilitySlot returns a default 09:00-17:00 slot for the day.
func NewAvailabilitySlot(expertID uuid.UUID, dayOfWeek int) AvailabilitySlot {
	return AvailabilitySlot{
		ExpertID:       expertID,
		DayOfWeek:      dayOfWeek,
		StartTime:      DefaultSlotStart,
		EndTime:        DefaultSlotEnd,
		EngagementType: DefaultEngagementType,
		IsAvailable:    true,
	}
}

// Validate checks day range and HH:MM time bounds.
func (s *AvailabilitySlot) Validate() FieldErrors {
	errs := FieldErrors{}
	if s.DayOfWeek < 0 || s.DayOfWeek > 6 {
		errs.Add("day_of_week", "day_of_week must be between 0 and 6")
	}
	start, err := time.Parse("15:04", s.StartTime)
	if err != nil {
		errs.Add("start_time", "start_time must be HH:MM")
	}
	end, err2 := time.Parse("15:04", s.EndTime)
	if err2 != nil {
		errs.Add("end_time", "end_time must be HH:MM")
	}
	if err == nil && err2 == nil && !start.Before(end) {
		errs.Add("end_time", "end_time must be after start_time")
	}
	return errs
}
