// Package application provides HTTP handlers for job application operations.
package application

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"jobboard-backend/internal/apperror"
	"jobboard-backend/internal/database"
	"jobboard-backend/internal/metrics"
	"jobboard-backend/internal/middleware"
	"jobboard-backend/internal/model"
	"jobboard-backend/internal/notify"
	"jobboard-backend/internal/utilities"
)

const (
	msgRequired           = "Experience, current role, and resume are required."
	msgInvalidExperience  = "Experience must be a non-negative number."
	msgJobNotFound        = "Job not found"
	msgApplicationMissing = "Application not found"
)

// ApplicationController handles job application related endpoints
type ApplicationController struct {
	DB       *database.DBinstanceStruct
	Notifier *notify.Notifier
	Logger   *zap.Logger
}

// NewApplicationController creates a new instance of ApplicationController.
func NewApplicationController(db *database.DBinstanceStruct, notifier *notify.Notifier, logger *zap.Logger) *ApplicationController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationController{
		DB:       db,
		Notifier: notifier,
		Logger:   logger,
	}
}

// ApplyHandler creates the caller's application to a job, or overwrites it
// when one already exists. The resume is optional on an overwrite.
// @Summary Apply to a job
// @Description Multipart form with an optional `resume` file (.pdf, .doc, .docx). JSON bodies are accepted when re-applying without a new file.
// @Tags Application
// @Accept multipart/form-data
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Job ID"
// @Param experience formData number true "Years of experience"
// @Param currentRole formData string true "Current role"
// @Param skills formData string false "Skills"
// @Param portfolioURL formData string false "Portfolio URL"
// @Param resume formData file false "Resume file"
// @Success 200 {object} model.ApplicationResponse "Application updated successfully."
// @Success 201 {object} model.ApplicationResponse "Application submitted successfully."
// @Failure 400 {object} utilities.ErrorResponse "Missing field, invalid experience or file type"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 413 {object} utilities.ErrorResponse "File too large"
// @Failure 500 {object} utilities.ErrorResponse "Database or storage error"
// @Router /applications/{id}/apply [post]
func (ac *ApplicationController) ApplyHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		apperror.Respond(c, apperror.Unauthorized("Not authorized, no token", err))
		return
	}

	var input model.ApplicationInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Message: bindErrorMessage(err),
			Error:   err.Error(),
		})
		return
	}
	input.CurrentRole = strings.TrimSpace(input.CurrentRole)
	if input.Experience == nil || emptyFormField(c, "experience") || input.CurrentRole == "" {
		apperror.Respond(c, apperror.Validation(msgRequired))
		return
	}
	if *input.Experience < 0 {
		apperror.Respond(c, apperror.Validation(msgInvalidExperience))
		return
	}

	ctx := c.Request.Context()
	db := ac.DB.WithContext(ctx)
	resume, hasResume := middleware.ResumePath(c)

	// without a file only an existing application can be overwritten
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		if !hasResume {
			apperror.Respond(c, apperror.Validation(msgRequired))
			return
		}
		apperror.Respond(c, apperror.NotFound(msgJobNotFound))
		return
	}

	existing, found, err := ac.findApplication(db, jobID, user.ID)
	if err != nil {
		apperror.Respond(c, apperror.Internal("Server error while applying for job.", err))
		return
	}
	if !found && !hasResume {
		apperror.Respond(c, apperror.Validation(msgRequired))
		return
	}

	var job model.Job
	if err := db.Where("id = ?", jobID).First(&job).Error; err != nil {
		if database.IsNotFound(err) {
			apperror.Respond(c, apperror.NotFound(msgJobNotFound))
			return
		}
		apperror.Respond(c, apperror.Internal("Server error while applying for job.", err))
		return
	}

	if !found {
		app := model.Application{
			JobID:        jobID,
			ApplicantID:  user.ID,
			Experience:   *input.Experience,
			CurrentRole:  input.CurrentRole,
			Skills:       input.Skills,
			PortfolioURL: input.PortfolioURL,
			Resume:       resume,
			Status:       model.ApplicationStatusPending,
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&app).Error; err != nil {
				return err
			}
			return tx.Model(&model.Job{}).
				Where("id = ?", jobID).
				Update("applications", gorm.Expr("array_append(applications, ?)", app.ID.String())).Error
		})
		if err == nil {
			metrics.ApplicationSubmitted("created")
			applicant := user.Public()
			app.Applicant = &applicant
			c.JSON(http.StatusCreated, model.ApplicationResponse{
				Success:     true,
				Message:     "Application submitted successfully.",
				Application: app,
			})
			return
		}
		if !database.IsUniqueViolation(err) {
			ac.Logger.Error("failed to create application", zap.Error(err))
			apperror.Respond(c, apperror.Internal("Server error while applying for job.", err))
			return
		}

		// a concurrent request created it first
		existing, found, err = ac.findApplication(db, jobID, user.ID)
		if err != nil || !found {
			apperror.Respond(c, apperror.Internal("Server error while applying for job.", err))
			return
		}
	}

	existing.Experience = *input.Experience
	existing.CurrentRole = input.CurrentRole
	existing.Skills = input.Skills
	existing.PortfolioURL = input.PortfolioURL
	if resume != "" {
		existing.Resume = resume
	}
	if err := db.Model(&existing).Updates(map[string]interface{}{
		"experience":    existing.Experience,
		"current_role":  existing.CurrentRole,
		"skills":        existing.Skills,
		"portfolio_url": existing.PortfolioURL,
		"resume":        existing.Resume,
	}).Error; err != nil {
		apperror.Respond(c, apperror.Internal("Server error while applying for job.", err))
		return
	}

	metrics.ApplicationSubmitted("updated")
	applicant := user.Public()
	existing.Applicant = &applicant
	c.JSON(http.StatusOK, model.ApplicationResponse{
		Success:     true,
		Message:     "Application updated successfully.",
		Application: existing,
	})
}

// ListApplicationsHandler returns the applications of a job with their applicants.
// @Summary Get applications of a job
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Job ID"
// @Success 200 {array} model.Application "Applications in submission order"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id}/applications [get]
func (ac *ApplicationController) ListApplicationsHandler(c *gin.Context) {
	ctx := c.Request.Context()

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperror.Respond(c, apperror.NotFound(msgJobNotFound))
		return
	}

	var job model.Job
	if err := ac.DB.WithContext(ctx).Where("id = ?", jobID).First(&job).Error; err != nil {
		if database.IsNotFound(err) {
			apperror.Respond(c, apperror.NotFound(msgJobNotFound))
			return
		}
		apperror.Respond(c, apperror.Internal("Server error while fetching applications.", err))
		return
	}

	apps, err := ac.DB.ApplicationsInOrder(ctx, job.Applications)
	if err != nil {
		apperror.Respond(c, apperror.Internal("Server error while fetching applications.", err))
		return
	}

	c.JSON(http.StatusOK, apps)
}

// ShortlistHandler marks an application as shortlisted and notifies the applicant.
// @Summary Shortlist an application
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Application ID"
// @Success 200 {object} model.ApplicationResponse "Application shortlisted successfully."
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id}/shortlist [put]
func (ac *ApplicationController) ShortlistHandler(c *gin.Context) {
	ac.changeStatus(c, model.ApplicationStatusShortlisted, "Application shortlisted successfully.")
}

// RejectHandler marks an application as rejected and notifies the applicant.
// @Summary Reject an application
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Application ID"
// @Success 200 {object} model.ApplicationResponse "Application rejected successfully."
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id}/reject [put]
func (ac *ApplicationController) RejectHandler(c *gin.Context) {
	ac.changeStatus(c, model.ApplicationStatusRejected, "Application rejected successfully.")
}

// changeStatus sets status regardless of the current one, then emails the
// applicant. Notification failures do not change the response.
func (ac *ApplicationController) changeStatus(c *gin.Context, status model.ApplicationStatus, message string) {
	ctx := c.Request.Context()
	db := ac.DB.WithContext(ctx)
	serverError := "Server error while updating application."

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperror.Respond(c, apperror.NotFound(msgApplicationMissing))
		return
	}

	var app model.Application
	if err := db.Where("id = ?", id).First(&app).Error; err != nil {
		if database.IsNotFound(err) {
			apperror.Respond(c, apperror.NotFound(msgApplicationMissing))
			return
		}
		apperror.Respond(c, apperror.Internal(serverError, err))
		return
	}

	if err := db.Model(&app).Update("status", status).Error; err != nil {
		apperror.Respond(c, apperror.Internal(serverError, err))
		return
	}
	app.Status = status
	metrics.ApplicationStatusChanged(string(status))

	var applicant model.User
	if err := db.Where("id = ?", app.ApplicantID).First(&applicant).Error; err != nil {
		// the status change is already saved
		ac.Logger.Warn("could not load applicant, skipping notification",
			zap.String("application_id", app.ID.String()),
			zap.Error(err))
	} else {
		public := applicant.Public()
		app.Applicant = &public
		if ac.Notifier != nil {
			ac.Notifier.StatusChanged(ctx, app, applicant)
		}
	}

	c.JSON(http.StatusOK, model.ApplicationResponse{
		Success:     true,
		Message:     message,
		Application: app,
	})
}

func (ac *ApplicationController) findApplication(db *gorm.DB, jobID, applicantID uuid.UUID) (model.Application, bool, error) {
	var app model.Application
	err := db.Where("job_id = ? AND applicant_id = ?", jobID, applicantID).First(&app).Error
	if database.IsNotFound(err) {
		return model.Application{}, false, nil
	}
	if err != nil {
		return model.Application{}, false, err
	}
	return app, true, nil
}

// bindErrorMessage picks the response message for a binding failure.
// Only a non-numeric experience gets the experience message.
func bindErrorMessage(err error) string {
	var numErr *strconv.NumError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &numErr) || (errors.As(err, &typeErr) && typeErr.Field == "experience") {
		return msgInvalidExperience
	}
	return "Invalid request body"
}

// emptyFormField reports whether a form field was sent with a blank value.
// Form binding reads a blank number as zero.
func emptyFormField(c *gin.Context, key string) bool {
	if c.ContentType() == gin.MIMEJSON {
		return false
	}
	v, ok := c.GetPostForm(key)
	return ok && strings.TrimSpace(v) == ""
}
