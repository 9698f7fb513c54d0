package models

import (
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

type Project struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SeekerID uuid.UUID `gorm:"type:uuid;index;not null" json:"seeker_id"`
	ExpertID uuid.UUID `gorm:"type:uuid;index;not null" json:"expert_id"`

	Title       string `gorm:"type:varchar(200)" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Budget      string `gorm:"type:varchar(60)" json:"budget"`
	Deadline    string `gorm:"type:varchar(60)" json:"deadline"`

	Status ProjectStatus `gorm:"type:varchar(20);default:'active';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Seeker     *User       `gorm:"foreignKey:SeekerID" json:"seeker,omitempty"`
	Expert     *User       `gorm:"foreignKey:ExpertID" json:"expert,omitempty"`
	Milestones []Milestone `gorm:"foreignKey:ProjectID" json:"milestones,omitempty"`
}

// IsMember reports whether the user participates in the project.
func (p *Project) IsMember(userID uuid.UUID) bool {
	return userID == p.SeekerID || userID == p.ExpertID
}

// CanEdit reports whether the user may mutate project deliverables
// (milestones). Edit rights belong to the project's expert.
func (p *Project) CanEdit(userID uuid.UUID) bool {
	return userID == p.ExpertID
}

type ProjectFile struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID  uuid.UUID `gorm:"type:uuid;index;not null" json:"project_id"`
	UploaderID uuid.UUID `gorm:"type:uuid;index" json:"uploader_id"`

	FileName string `gorm:"type:varchar(255)" json:"file_name"`
	FileURL  string `gorm:"type:text" json:"file_url"`
	FileSize int64  `json:"file_size"`
	MimeType string `gorm:"type:varchar(100)" json:"mime_type"`

	CreatedAt time.Time `json:"created_at"`
}

type ProjectMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;index;not null" json:"project_id"`
	SenderID  uuid.UUID `gorm:"type:uuid;index;not null" json:"sender_id"`

	Content string `gorm:"type:text;not null" json:"content"`

	CreatedAt time.Time `json:"created_at"`

	Sender *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}
