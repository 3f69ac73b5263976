package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// JobType is the employment type of a job post
type JobType string

// JobType values
const (
	JobTypeFullTime   JobType = "Full Time"
	JobTypePartTime   JobType = "Part Time"
	JobTypeInternship JobType = "Internship"
	JobTypeContract   JobType = "Contract"
)

// Valid reports whether t is one of the known job types.
func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeInternship, JobTypeContract:
		return true
	}
	return false
}

// Job is gorm model for store job post data in DB.
//
// Applications holds application ids in submission order. It is appended to
// when an application is first created and never rewritten afterwards.
type Job struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Title        string         `gorm:"type:text;not null" json:"title"`
	Company      string         `gorm:"type:text;not null" json:"company"`
	Location     string         `gorm:"type:text;not null" json:"location"`
	Description  string         `gorm:"type:text;not null" json:"description"`
	JobType      JobType        `gorm:"type:text;not null" json:"jobType"`
	PostedByID   uuid.UUID      `gorm:"type:uuid;not null;index;<-:create" json:"-"`
	PostedBy     *PublicUser    `gorm:"-" json:"postedBy"`
	Applications pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"applications"`
	IsClosed     bool           `gorm:"not null;default:false" json:"isClosed"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// JobInput is the body accepted when creating a job
type JobInput struct {
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	JobType     JobType `json:"jobType"`
	IsClosed    bool    `json:"isClosed"`
}

// Validate returns the first problem found with in, or "" when valid.
func (in *JobInput) Validate() string {
	in.Title = strings.TrimSpace(in.Title)
	in.Company = strings.TrimSpace(in.Company)
	in.Location = strings.TrimSpace(in.Location)

	switch {
	case in.Title == "", in.Company == "", in.Location == "", strings.TrimSpace(in.Description) == "":
		return "Title, company, location, description, and job type are required."
	case !in.JobType.Valid():
		return invalidJobTypeMessage(in.JobType)
	}
	return ""
}

// ToJob builds a new Job owned by owner
func (in JobInput) ToJob(owner uuid.UUID) Job {
	return Job{
		Title:        in.Title,
		Company:      in.Company,
		Location:     in.Location,
		Description:  in.Description,
		JobType:      in.JobType,
		PostedByID:   owner,
		Applications: pq.StringArray{},
		IsClosed:     in.IsClosed,
	}
}

// JobUpdate is the body accepted when editing a job. Absent fields are left unchanged.
type JobUpdate struct {
	Title       *string  `json:"title"`
	Company     *string  `json:"company"`
	Location    *string  `json:"location"`
	Description *string  `json:"description"`
	JobType     *JobType `json:"jobType"`
	IsClosed    *bool    `json:"isClosed"`
}

// Validate returns the first problem found with up, or "" when valid.
func (up *JobUpdate) Validate() string {
	for _, field := range []*string{up.Title, up.Company, up.Location} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
	for _, field := range []*string{up.Title, up.Company, up.Location, up.Description} {
		if field != nil && strings.TrimSpace(*field) == "" {
			return "Title, company, location, description, and job type cannot be empty."
		}
	}
	if up.JobType != nil && !up.JobType.Valid() {
		return invalidJobTypeMessage(*up.JobType)
	}
	return ""
}

// Columns returns the column/value map of fields present in up
func (up JobUpdate) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if up.Title != nil {
		cols["title"] = *up.Title
	}
	if up.Company != nil {
		cols["company"] = *up.Company
	}
	if up.Location != nil {
		cols["location"] = *up.Location
	}
	if up.Description != nil {
		cols["description"] = *up.Description
	}
	if up.JobType != nil {
		cols["job_type"] = *up.JobType
	}
	if up.IsClosed != nil {
		cols["is_closed"] = *up.IsClosed
	}
	return cols
}

func invalidJobTypeMessage(t JobType) string {
	return "`" + string(t) + "` is not a valid job type. Allowed: Full Time, Part Time, Internship, Contract."
}

// EmployerJob is a job together with its resolved applications
type EmployerJob struct {
	Job
	Applications []Application `json:"applications"`
}
