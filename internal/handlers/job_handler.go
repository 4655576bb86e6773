package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hirelens/assessment-service/internal/repositories"
	"github.com/hirelens/assessment-service/internal/services"
	"github.com/hirelens/assessment-service/internal/utils"
)

type JobHandler struct {
	BaseHandler
	jobService services.JobService
	validator  *utils.Validator
}

func NewJobHandler(
	jobService services.JobService,
	validator *utils.Validator,
	logger utils.Logger,
) *JobHandler {
	return &JobHandler{
		BaseHandler: NewBaseHandler(logger),
		jobService:  jobService,
		validator:   validator,
	}
}

// CreateJob creates a job and generates its assessment question set
// @Summary Create job
// @Description Creates a job posting and generates its question set from the description
// @Tags jobs
// @Accept json
// @Produce json
// @Param job body services.CreateJobRequest true "Job data"
// @Success 201 {object} models.Job
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /jobs [post]
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req services.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	recruiterID := requesterID(c)
	if recruiterID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	h.LogRequest(c, "Creating job", "title", req.Title)

	job, err := h.jobService.Create(c.Request.Context(), &req, recruiterID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

// GetJob retrieves a job by ID
// @Summary Get job
// @Tags jobs
// @Produce json
// @Param id path uint true "Job ID"
// @Success 200 {object} models.Job
// @Failure 404 {object} ErrorResponse
// @Router /jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	id := parseUintParam(c, "id")
	if id == 0 {
		return
	}

	job, err := h.jobService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListJobs lists jobs with filters
// @Summary List jobs
// @Tags jobs
// @Produce json
// @Param recruiter_id query string false "Filter by recruiter"
// @Param active query bool false "Only active jobs"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} ListResponse
// @Router /jobs [get]
func (h *JobHandler) ListJobs(c *gin.Context) {
	filters := repositories.JobFilters{
		ActiveOnly: c.Query("active") == "true",
		Limit:      20,
	}
	if recruiterID := c.Query("recruiter_id"); recruiterID != "" {
		filters.RecruiterID = &recruiterID
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit <= 100 {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil && offset >= 0 {
		filters.Offset = offset
	}

	jobs, total, err := h.jobService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Items: jobs,
		Total: total,
	})
}

// GetJobQuestions returns the job's generated question set
// @Summary Get job questions
// @Tags jobs
// @Produce json
// @Param id path uint true "Job ID"
// @Success 200 {array} models.Question
// @Failure 404 {object} ErrorResponse
// @Router /jobs/{id}/questions [get]
func (h *JobHandler) GetJobQuestions(c *gin.Context) {
	id := parseUintParam(c, "id")
	if id == 0 {
		return
	}

	questions, err := h.jobService.GetQuestions(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}
