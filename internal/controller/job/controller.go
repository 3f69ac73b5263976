// Package job provides HTTP handlers for creating and managing job posts.
package job

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"jobboard-backend/internal/apperror"
	"jobboard-backend/internal/database"
	"jobboard-backend/internal/model"
	"jobboard-backend/internal/utilities"
)

const notFoundOrUnauthorized = "Job not found or unauthorized"

// JobController handles job post related endpoints
type JobController struct {
	DB     *database.DBinstanceStruct
	Logger *zap.Logger
}

// NewJobController creates a new instance of JobController
func NewJobController(db *database.DBinstanceStruct, logger *zap.Logger) *JobController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobController{
		DB:     db,
		Logger: logger,
	}
}

// CreateJobHandler handles the creation of a new job post by an employer.
// @Summary Create job post
// @Description Only employers have access to this endpoint
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param job body model.JobInput true "Job information"
// @Success 201 {object} model.JobResponse "Job created successfully"
// @Failure 400 {object} utilities.ErrorResponse "Missing field or invalid job type"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as employer"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [post]
func (jc *JobController) CreateJobHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		apperror.Respond(c, apperror.Unauthorized("Not authorized, no token", err))
		return
	}

	var input model.JobInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Message: "Invalid request body",
			Error:   err.Error(),
		})
		return
	}
	if msg := input.Validate(); msg != "" {
		apperror.Respond(c, apperror.Validation(msg))
		return
	}

	job := input.ToJob(user.ID)
	if err := jc.DB.WithContext(c.Request.Context()).Create(&job).Error; err != nil {
		jc.Logger.Error("failed to create job", zap.Error(err))
		apperror.Respond(c, apperror.Internal("Server error while creating job.", err))
		return
	}

	poster := user.Public()
	job.PostedBy = &poster

	c.JSON(http.StatusCreated, model.JobResponse{
		Message: "Job created successfully",
		Job:     job,
	})
}

// ListJobsHandler returns every job, newest first, with its poster.
// @Summary Get all job posts
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.Job "All job posts"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [get]
func (jc *JobController) ListJobsHandler(c *gin.Context) {
	ctx := c.Request.Context()

	jobs := []model.Job{}
	if err := jc.DB.WithContext(ctx).Order("created_at DESC").Find(&jobs).Error; err != nil {
		apperror.Respond(c, apperror.Internal("Server error while fetching jobs.", err))
		return
	}

	posterIDs := make([]uuid.UUID, 0, len(jobs))
	for _, j := range jobs {
		posterIDs = append(posterIDs, j.PostedByID)
	}
	posters, err := jc.DB.PublicUsers(ctx, posterIDs)
	if err != nil {
		apperror.Respond(c, apperror.Internal("Server error while fetching jobs.", err))
		return
	}

	for i := range jobs {
		if p, ok := posters[jobs[i].PostedByID]; ok {
			jobs[i].PostedBy = &p
		}
	}

	c.JSON(http.StatusOK, jobs)
}

// ListEmployerJobsHandler returns the caller's own jobs, newest first, each
// with its applications and their applicants.
// @Summary Get my job posts with applications
// @Description Only employers have access to this endpoint
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.EmployerJob "Jobs owned by the caller"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as employer"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/employer/jobs [get]
func (jc *JobController) ListEmployerJobsHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		apperror.Respond(c, apperror.Unauthorized("Not authorized, no token", err))
		return
	}
	ctx := c.Request.Context()

	var jobs []model.Job
	if err := jc.DB.WithContext(ctx).
		Where("posted_by_id = ?", user.ID).
		Order("created_at DESC").
		Find(&jobs).Error; err != nil {
		apperror.Respond(c, apperror.Internal("Server error while fetching employer jobs.", err))
		return
	}

	resp := make([]model.EmployerJob, 0, len(jobs))
	for _, j := range jobs {
		apps, err := jc.DB.ApplicationsInOrder(ctx, j.Applications)
		if err != nil {
			apperror.Respond(c, apperror.Internal("Server error while fetching employer jobs.", err))
			return
		}
		resp = append(resp, model.EmployerJob{Job: j, Applications: apps})
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateJobHandler applies a partial update to a job owned by the caller.
// @Summary Edit job post
// @Description Only the employer that posted the job can edit it
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Job ID"
// @Param job body model.JobUpdate true "Fields to change"
// @Success 200 {object} model.JobResponse "Job updated successfully"
// @Failure 400 {object} utilities.ErrorResponse "Empty field or invalid job type"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as employer"
// @Failure 404 {object} utilities.ErrorResponse "Job not found or unauthorized"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [put]
func (jc *JobController) UpdateJobHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		apperror.Respond(c, apperror.Unauthorized("Not authorized, no token", err))
		return
	}

	job, err := jc.findOwnedJob(c, user.ID)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	var update model.JobUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Message: "Invalid request body",
			Error:   err.Error(),
		})
		return
	}
	if msg := update.Validate(); msg != "" {
		apperror.Respond(c, apperror.Validation(msg))
		return
	}

	db := jc.DB.WithContext(c.Request.Context())
	if cols := update.Columns(); len(cols) > 0 {
		if err := db.Model(&job).Updates(cols).Error; err != nil {
			apperror.Respond(c, apperror.Internal("Server error while updating job.", err))
			return
		}
	}

	if err := db.Where("id = ?", job.ID).First(&job).Error; err != nil {
		apperror.Respond(c, apperror.Internal("Server error while updating job.", err))
		return
	}
	poster := user.Public()
	job.PostedBy = &poster

	c.JSON(http.StatusOK, model.JobResponse{
		Message: "Job updated successfully",
		Job:     job,
	})
}

// DeleteJobHandler deletes a job owned by the caller. Its applications are kept.
// @Summary Delete job post
// @Description Only the employer that posted the job can delete it
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Job ID"
// @Success 200 {object} utilities.MessageResponse "Job deleted successfully"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as employer"
// @Failure 404 {object} utilities.ErrorResponse "Job not found or unauthorized"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [delete]
func (jc *JobController) DeleteJobHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		apperror.Respond(c, apperror.Unauthorized("Not authorized, no token", err))
		return
	}

	job, err := jc.findOwnedJob(c, user.ID)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	if err := jc.DB.WithContext(c.Request.Context()).Delete(&job).Error; err != nil {
		apperror.Respond(c, apperror.Internal("Server error while deleting job.", err))
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Job deleted successfully"})
}

// findOwnedJob loads the job in the :id path param if owner posted it.
// Malformed ids, missing jobs and jobs of other employers are all NotFound.
func (jc *JobController) findOwnedJob(c *gin.Context, owner uuid.UUID) (model.Job, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return model.Job{}, apperror.NotFound(notFoundOrUnauthorized)
	}

	var job model.Job
	if err := jc.DB.WithContext(c.Request.Context()).
		Where("id = ? AND posted_by_id = ?", id, owner).
		First(&job).Error; err != nil {
		if database.IsNotFound(err) {
			return model.Job{}, apperror.NotFound(notFoundOrUnauthorized)
		}
		return model.Job{}, apperror.Internal("Server error while fetching job.", err)
	}
	return job, nil
}
