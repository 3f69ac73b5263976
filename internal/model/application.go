package model

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is the review state of an application
type ApplicationStatus string

const (
	// ApplicationStatusPending indicates that the application is waiting for review
	ApplicationStatusPending ApplicationStatus = "pending"
	// ApplicationStatusShortlisted indicates that the job owner shortlisted the applicant
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	// ApplicationStatusRejected indicates that the application has been rejected
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Application represents a job application record.
// There is at most one application per (job, applicant) pair.
type Application struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	JobID        uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_application_job_applicant;<-:create" json:"job"`
	ApplicantID  uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_application_job_applicant;index;<-:create" json:"-"`
	Applicant    *PublicUser       `gorm:"-" json:"applicant"`
	Experience   float64           `gorm:"not null;check:experience >= 0" json:"experience"`
	CurrentRole  string            `gorm:"type:text;not null" json:"currentRole"`
	Skills       string            `gorm:"type:text;not null;default:''" json:"skills"`
	PortfolioURL string            `gorm:"type:text;not null;default:''" json:"portfolioURL"`
	Resume       string            `gorm:"type:text;not null" json:"resume"`
	Status       ApplicationStatus `gorm:"type:text;not null;default:'pending';check:status IN ('pending', 'shortlisted', 'rejected')" json:"status"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// ApplicationInput holds the fields of an apply request, sent either as
// multipart form data or JSON. A nil Experience means the field was missing.
type ApplicationInput struct {
	Experience   *float64 `form:"experience" json:"experience"`
	CurrentRole  string   `form:"currentRole" json:"currentRole"`
	Skills       string   `form:"skills" json:"skills"`
	PortfolioURL string   `form:"portfolioURL" json:"portfolioURL"`
}
