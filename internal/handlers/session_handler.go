package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hirelens/assessment-service/internal/services"
	"github.com/hirelens/assessment-service/internal/utils"
)

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
	scoringService services.ScoringService
	validator      *utils.Validator
}

func NewSessionHandler(
	sessionService services.SessionService,
	scoringService services.ScoringService,
	validator *utils.Validator,
	logger utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
		scoringService: scoringService,
		validator:      validator,
	}
}

// StartSessionRequest identifies the job the candidate wants to attempt.
type StartSessionRequest struct {
	JobID uint `json:"job_id" validate:"required"`
}

// StartSession opens an assessment session
// @Summary Start session
// @Description Opens a session for the candidate and freezes the question set
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body StartSessionRequest true "Target job"
// @Success 201 {object} models.Session
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if req.JobID == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "job_id is required",
		})
		return
	}

	candidateID := requesterID(c)
	if candidateID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	h.LogRequest(c, "Starting session", "job_id", req.JobID)

	session, err := h.sessionService.Create(c.Request.Context(), req.JobID, candidateID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// GetSession retrieves a session by ID
// @Summary Get session
// @Tags sessions
// @Produce json
// @Param id path uint true "Session ID"
// @Success 200 {object} models.Session
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	id := parseUintParam(c, "id")
	if id == 0 {
		return
	}

	session, err := h.sessionService.GetByID(c.Request.Context(), id, requesterID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// GetSessionQuestions returns the session's questions in snapshot order
// @Summary Get session questions
// @Tags sessions
// @Produce json
// @Param id path uint true "Session ID"
// @Success 200 {array} models.Question
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/questions [get]
func (h *SessionHandler) GetSessionQuestions(c *gin.Context) {
	id := parseUintParam(c, "id")
	if id == 0 {
		return
	}

	questions, err := h.sessionService.GetQuestions(c.Request.Context(), id, requesterID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

// SubmitAnswer records an answer; resubmission replaces the prior one
// @Summary Submit answer
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path uint true "Session ID"
// @Param answer body services.SubmitAnswerRequest true "Answer payload"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /sessions/{id}/answers [put]
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	id := parseUintParam(c, "id")
	if id == 0 {
		return
	}

	var req services.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.sessionService.SubmitAnswer(c.Request.Context(), id, &req, requesterID(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Answer recorded",
	})
}

// CompleteSession finalizes a session and triggers scoring
// @Summary Complete session
// @Tags sessions
// @Produce json
// @Param id path uint true "Session ID"
// @Success 200 {object} services.CompleteResult
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /sessions/{id}/complete [post]
func (h *SessionHandler) CompleteSession(c *gin.Context) {
	id := parseUintParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Completing session", "session_id", id)

	result, err := h.sessionService.Complete(c.Request.Context(), id, requesterID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSessionProgress reports answered counts per snapshot question
// @Summary Get session progress
// @Tags sessions
// @Produce json
// @Param id path uint true "Session ID"
// @Success 200 {object} services.SessionProgress
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/progress [get]
func (h *SessionHandler) GetSessionProgress(c *gin.Context) {
	id := parseUintParam(c, "id")
	if id == 0 {
		return
	}

	progress, err := h.sessionService.Progress(c.Request.Context(), id, requesterID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// GetSessionResults returns the persisted score record
// @Summary Get session results
// @Tags sessions
// @Produce json
// @Param id path uint true "Session ID"
// @Success 200 {object} models.Score
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /sessions/{id}/results [get]
func (h *SessionHandler) GetSessionResults(c *gin.Context) {
	id := parseUintParam(c, "id")
	if id == 0 {
		return
	}

	score, err := h.scoringService.GetResults(c.Request.Context(), id, requesterID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, score)
}

// RescoreSession retries scoring for a completed-but-unscored session
// @Summary Rescore session
// @Tags sessions
// @Produce json
// @Param id path uint true "Session ID"
// @Success 200 {object} models.Score
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /sessions/{id}/rescore [post]
func (h *SessionHandler) RescoreSession(c *gin.Context) {
	id := parseUintParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Rescoring session", "session_id", id)

	score, err := h.scoringService.ScoreSession(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, score)
}
