package models

import (
	"time"

	"github.com/google/uuid"
)

type ForumCategory struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`

	CreatedAt time.Time `json:"created_at"`
}

type ForumPost struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CategoryID uuid.UUID `gorm:"type:uuid;index;not null" json:"category_id"`
	AuthorID   uuid.UUID `gorm:"type:uuid;index;not null" json:"author_id"`

	Title   string `gorm:"type:varchar(200);not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`

	Moderation

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Category *ForumCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Author   *User          `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Replies  []ForumReply   `gorm:"foreignKey:PostID" json:"replies,omitempty"`
}

type ForumReply struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PostID   uuid.UUID `gorm:"type:uuid;index;not null" json:"post_id"`
	AuthorID uuid.UUID `gorm:"type:uuid;index;not null" json:"author_id"`

	Content string `gorm:"type:text;not null" json:"content"`

	Moderation

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
