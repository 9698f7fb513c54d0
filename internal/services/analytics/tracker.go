package analytics

import (
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/genova-platform/genova_backend/internal/models"
)

// Tracker records analytics events. Tracking is fire-and-forget: inserts
// run on their own goroutine and failures are logged, never returned, so
// an analytics outage cannot block navigation or signups.
type Tracker struct {
	DB *gorm.DB
}

func NewTracker(db *gorm.DB) *Tracker {
	return &Tracker{DB: db}
}

type Event struct {
	EventType  string
	SessionID  string
	UserID     *uuid.UUID
	Properties map[string]interface{}
	PageURL    string
	UserAgent  string
}

func (t *Tracker) Track(ev Event) {
	go func() {
		props, err := json.Marshal(ev.Properties)
		if err != nil {
			props = []byte("{}")
		}
		rec := models.AnalyticsEvent{
			EventType:  ev.EventType,
			SessionID:  ev.SessionID,
			UserID:     ev.UserID,
			Properties: props,
			PageURL:    ev.PageURL,
			UserAgent:  ev.UserAgent,
		}
		if err := t.DB.Create(&rec).Error; err != nil {
			log.Printf("[Analytics] failed to record %s: %v", ev.EventType, err)
		}
	}()
}

// TrackStep records an onboarding wizard transition.
func (t *Tracker) TrackStep(userID uuid.UUID, eventType string, step int, stepName string) {
	uid := userID
	t.Track(Event{
		EventType: eventType,
		UserID:    &uid,
		Properties: map[string]interface{}{
			"step":      step,
			"step_name": stepName,
		},
	})
}
