package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a directed note between two users. No lifecycle beyond the
// read flag; independent of jobs and applications.
type Message struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SenderID    uuid.UUID `gorm:"type:uuid;index;not null" json:"sender_id"`
	RecipientID uuid.UUID `gorm:"type:uuid;index;not null" json:"recipient_id"`
	Sender      *User     `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Recipient   *User     `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`

	Subject string `gorm:"type:varchar(200);not null" json:"subject" validate:"required,max=200"`
	Content string `gorm:"type:text;not null" json:"content" validate:"required"`

	Read   bool       `gorm:"not null;default:false" json:"read"`
	ReadAt *time.Time `json:"read_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
