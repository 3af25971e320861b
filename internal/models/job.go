package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// JobStatus is the moderation/lifecycle status of a posting.
type JobStatus string

const (
	JobStatusOpen    JobStatus = "open"
	JobStatusClosed  JobStatus = "closed"
	JobStatusPending JobStatus = "pending"
)

// ValidJobStatus reports whether s is a known status.
func ValidJobStatus(s JobStatus) bool {
	return s == JobStatusOpen || s == JobStatusClosed || s == JobStatusPending
}

// JobType is the employment kind of a posting.
type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeInternship JobType = "Internship"
	JobTypeContract   JobType = "Contract"
)

// ValidJobType reports whether t is a known type.
func ValidJobType(t JobType) bool {
	return t == JobTypeFullTime || t == JobTypePartTime || t == JobTypeInternship || t == JobTypeContract
}

// Job is a posting owned by exactly one recruiter.
type Job struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RecruiterID    uuid.UUID      `gorm:"type:uuid;index;not null" json:"recruiter_id"`
	Recruiter      *User          `gorm:"foreignKey:RecruiterID" json:"recruiter,omitempty"`
	Title          string         `gorm:"type:varchar(200);not null" json:"title" validate:"required,max=200"`
	Company        string         `gorm:"type:varchar(100);index;not null" json:"company" validate:"required,max=100"`
	Description    string         `gorm:"type:text;not null" json:"description" validate:"required,max=5000"`
	Requirements   string         `gorm:"type:text;not null" json:"requirements" validate:"required,max=3000"`
	Location       string         `gorm:"type:varchar(200);not null" json:"location" validate:"required,max=200"`
	Salary         string         `gorm:"type:varchar(100)" json:"salary,omitempty" validate:"max=100"`
	JobType        JobType        `gorm:"type:varchar(16);index;not null;default:'Full-time'" json:"job_type"`
	Status         JobStatus      `gorm:"type:varchar(16);index;not null;default:open" json:"status"`
	Deadline       time.Time      `gorm:"index;not null" json:"deadline" validate:"required"`
	MinCGPA        *float64       `json:"min_cgpa,omitempty" validate:"omitempty,gte=0,lte=10"`
	RequiredSkills pq.StringArray `gorm:"type:text[]" json:"required_skills"`

	// Cached count of non-withdrawn applications; maintained in the same
	// transaction as every application write and delete.
	ApplicationCount int `gorm:"not null;default:0" json:"application_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsExpired reports whether the application deadline has passed.
func (j *Job) IsExpired(now time.Time) bool {
	return !j.Deadline.After(now)
}

// ApplyDenial names the specific reason a student may not apply.
type ApplyDenial string

const (
	ApplyAllowed       ApplyDenial = ""
	ApplyDeniedNotOpen ApplyDenial = "not_open"
	ApplyDeniedExpired ApplyDenial = "deadline_passed"
	ApplyDeniedLowCGPA ApplyDenial = "cgpa_too_low"
)

// CanApply is the single eligibility predicate: a student may apply iff the
// job is open, the deadline is still in the future, and the student's CGPA
// meets the job's minimum when one is set. A missing CGPA counts as zero.
// Both the listing annotation and the submission path go through here.
func (j *Job) CanApply(now time.Time, cgpa *float64) (bool, ApplyDenial) {
	if j.Status != JobStatusOpen {
		return false, ApplyDeniedNotOpen
	}
	if j.IsExpired(now) {
		return false, ApplyDeniedExpired
	}
	if j.MinCGPA != nil {
		have := 0.0
		if cgpa != nil {
			have = *cgpa
		}
		if have < *j.MinCGPA {
			return false, ApplyDeniedLowCGPA
		}
	}
	return true, ApplyAllowed
}
