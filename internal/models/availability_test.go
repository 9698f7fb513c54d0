package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewAvailabilitySlotDefaults(t *testing.T) {
	expertID := uuid.New()
	slot := NewAvailabilitySlot(expertID, 2)

	assert.Equal(t, expertID, slot.ExpertID)
	assert.Equal(t, 2, slot.DayOfWeek)
	assert.Equal(t, "09:00", slot.StartTime)
	assert.Equal(t, "17:00", slot.EndTime)
	assert.Equal(t, "Consultation", slot.EngagementType)
	assert.True(t, slot.IsAvailable)
	assert.True(t, slot.Validate().Empty())
}

func TestAvailabilitySlotValidate(t *testing.T) {
	base := func() AvailabilitySlot {
		return NewAvailabilitySlot(uuid.New(), 1)
	}

	t.Run("day out of range", func(t *testing.T) {
		slot := base()
		slot.DayOfWeek = 7
		errs := slot.Validate()
		assert.Contains(t, errs, "day_of_week")
	})

	t.Run("negative day", func(t *testing.T) {
		slot := base()
		slot.DayOfWeek = -1
		assert.Contains(t, slot.Validate(), "day_of_week")
	})

	t.Run("malformed start time", func(t *testing.T) {
		slot := base()
		slot.StartTime = "9am"
		assert.Contains(t, slot.Validate(), "start_time")
	})

	t.Run("end before start", func(t *testing.T) {
		slot := base()
		slot.StartTime = "17:00"
		slot.EndTime = "09:00"
		assert.Contains(t, slot.Validate(), "end_time")
	})

	t.Run("zero length slot", func(t *testing.T) {
		slot := base()
		slot.StartTime = "10:00"
		slot.EndTime = "10:00"
		assert.Contains(t, slot.Validate(), "end_time")
	})
}
