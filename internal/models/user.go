package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Role determines the permitted operation set for a user.
type Role string

const (
	RoleStudent   Role = "student"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	return r == RoleStudent || r == RoleRecruiter || r == RoleAdmin
}

// User represents a platform user. Role-specific data lives in the
// StudentProfile / RecruiterProfile tables so a recruiter can never carry
// student fields and vice versa.
type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name           string    `gorm:"not null" json:"name" validate:"required"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	PasswordHash   string    `gorm:"" json:"-"`
	GoogleID       *string   `gorm:"uniqueIndex" json:"-"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	IsVerified     bool      `gorm:"not null;default:false" json:"is_verified"`
	Role           Role      `gorm:"type:varchar(16);index;not null;default:student" json:"role" validate:"required,oneof=student recruiter admin"`

	Phone    string `json:"phone,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`

	Notifications datatypes.JSON `gorm:"type:jsonb" json:"notifications,omitempty"`
	Privacy       datatypes.JSON `gorm:"type:jsonb" json:"privacy,omitempty"`

	Student   *StudentProfile   `gorm:"foreignKey:UserID" json:"student_details,omitempty"`
	Recruiter *RecruiterProfile `gorm:"foreignKey:UserID" json:"recruiter_details,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// StudentProfile holds the student-only profile record.
type StudentProfile struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	CGPA           *float64       `json:"cgpa,omitempty" validate:"omitempty,gte=0,lte=10"`
	Skills         pq.StringArray `gorm:"type:text[]" json:"skills"`
	ResumeURL      string         `json:"resume_url,omitempty"`
	Branch         string         `json:"branch,omitempty"`
	GraduationYear int            `json:"graduation_year,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// RecruiterProfile holds the recruiter-only profile record. Recruiters start
// unapproved and cannot post jobs until an admin approves them.
type RecruiterProfile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Company   string    `json:"company,omitempty"`
	Position  string    `json:"position,omitempty"`
	Approved  bool      `gorm:"not null;default:false" json:"approved"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary is the reduced user view embedded in applications and messages.
type Summary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

// Summarize returns the reduced view of the user.
func (u *User) Summarize() Summary {
	return Summary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
