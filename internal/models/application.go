package models

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is the review state of an application.
type ApplicationStatus string

const (
	ApplicationApplied     ApplicationStatus = "applied"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationRejected    ApplicationStatus = "rejected"
	ApplicationHired       ApplicationStatus = "hired"
)

// ValidApplicationStatus reports whether s is a known status.
func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case ApplicationApplied, ApplicationShortlisted, ApplicationRejected, ApplicationHired:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationShortlisted || s == ApplicationRejected || s == ApplicationHired
}

// CanTransition reports whether an application may move from s to next.
// Only applied → {shortlisted, rejected, hired} is legal; the three targets
// are terminal.
func (s ApplicationStatus) CanTransition(next ApplicationStatus) bool {
	return s == ApplicationApplied && next.Terminal()
}

// Application is the relationship entity between one student and one job.
// At most one row may exist per (job, student) pair.
type Application struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	JobID     uuid.UUID `gorm:"type:uuid;not null;index:idx_applications_job_student,unique" json:"job_id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index:idx_applications_job_student,unique" json:"student_id"`
	Job       *Job      `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Student   *User     `gorm:"foreignKey:StudentID" json:"student,omitempty"`

	Status      ApplicationStatus `gorm:"type:varchar(16);index;not null;default:applied" json:"status"`
	CoverLetter string            `gorm:"type:text" json:"cover_letter,omitempty"`
	ResumeURL   string            `json:"resume_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
