package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AnalyticsEvent struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EventType string     `gorm:"type:varchar(60);index;not null" json:"event_type"`
	SessionID string     `gorm:"type:varchar(40);index" json:"session_id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`

	Properties datatypes.JSON `json:"properties"`
	PageURL    string         `gorm:"type:text" json:"page_url"`
	UserAgent  string         `gorm:"type:text" json:"user_agent"`

	CreatedAt time.Time `json:"created_at"`
}
