package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hirelens/assessment-service/internal/events"
	"github.com/hirelens/assessment-service/internal/models"
	"github.com/hirelens/assessment-service/internal/repositories"
	"github.com/hirelens/assessment-service/internal/utils"
)

type sessionService struct {
	repo      repositories.Repository
	scoring   ScoringService
	publisher events.EventPublisher
	logger    utils.Logger
	validator *utils.Validator
}

func NewSessionService(repo repositories.Repository, scoring ScoringService, publisher events.EventPublisher, logger utils.Logger, validator *utils.Validator) SessionService {
	return &sessionService{
		repo:      repo,
		scoring:   scoring,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// Create opens a new session for the candidate against the job, freezing the
// job's question order into the session snapshot. A candidate holds at most
// one open session per job; the database index backs this check under races.
func (s *sessionService) Create(ctx context.Context, jobID uint, candidateID string) (*models.Session, error) {
	job, err := s.repo.Job().GetByID(ctx, jobID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if !job.IsActive {
		return nil, ErrJobNotFound
	}

	if _, err := s.repo.User().GetByID(ctx, candidateID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}

	if existing, err := s.repo.Session().GetOpen(ctx, candidateID, jobID); err == nil && existing != nil {
		return nil, ErrSessionConflict
	} else if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check open session: %w", err)
	}

	questions, err := s.repo.Question().GetByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrJobHasNoQuestions
	}

	snapshot := make([]uint, len(questions))
	for i, q := range questions {
		snapshot[i] = q.ID
	}

	session := &models.Session{
		JobID:            jobID,
		CandidateID:      candidateID,
		Status:           models.SessionOpen,
		QuestionSnapshot: models.MustJSON(snapshot),
	}
	if err := s.repo.Session().Create(ctx, session); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrSessionConflict
		}
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("Session created",
		"session_id", session.ID,
		"job_id", jobID,
		"candidate_id", candidateID,
		"questions", len(snapshot))

	s.publish(ctx, events.EventSessionCreated, events.SessionCreatedEvent{
		SessionID:   session.ID,
		JobID:       jobID,
		CandidateID: candidateID,
		Questions:   len(snapshot),
	})

	return session, nil
}

func (s *sessionService) GetByID(ctx context.Context, id uint, candidateID string) (*models.Session, error) {
	return s.getOwned(ctx, id, candidateID)
}

// GetQuestions returns the session's questions in snapshot order, regardless
// of any later changes to the job's question set.
func (s *sessionService) GetQuestions(ctx context.Context, sessionID uint, candidateID string) ([]*models.Question, error) {
	session, err := s.getOwned(ctx, sessionID, candidateID)
	if err != nil {
		return nil, err
	}

	ids := session.SnapshotIDs()
	questions, err := s.repo.Question().GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}

	byID := make(map[uint]*models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	ordered := make([]*models.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			ordered = append(ordered, q)
		}
	}
	return ordered, nil
}

// SubmitAnswer records one answer against an open session. Resubmission for
// the same question replaces the prior answer atomically.
func (s *sessionService) SubmitAnswer(ctx context.Context, sessionID uint, req *SubmitAnswerRequest, candidateID string) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	session, err := s.getOwned(ctx, sessionID, candidateID)
	if err != nil {
		return err
	}
	if !session.IsOpen() {
		return ErrSessionNotOpen
	}
	if !session.InSnapshot(req.QuestionID) {
		return ErrQuestionNotInSession
	}

	questions, err := s.repo.Question().GetByIDs(ctx, []uint{req.QuestionID})
	if err != nil || len(questions) == 0 {
		if err == nil {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to get question: %w", err)
	}
	question := questions[0]

	answer := &models.Answer{
		SessionID:   sessionID,
		QuestionID:  req.QuestionID,
		SubmittedAt: time.Now(),
	}
	switch question.Type {
	case models.MultipleChoice:
		if req.SelectedOption == nil || req.Text != nil || req.Code != nil {
			return ErrAnswerTypeMismatch
		}
		if !question.HasOption(*req.SelectedOption) {
			return ErrAnswerTypeMismatch
		}
		answer.SelectedOption = req.SelectedOption
	case models.Subjective:
		if req.Text == nil || req.SelectedOption != nil || req.Code != nil {
			return ErrAnswerTypeMismatch
		}
		answer.Text = req.Text
	case models.Coding:
		if req.Code == nil || req.SelectedOption != nil || req.Text != nil {
			return ErrAnswerTypeMismatch
		}
		answer.Code = req.Code
	}
	if answer.IsEmpty() || answer.Content() == "" {
		return ErrAnswerEmpty
	}

	written, err := s.repo.Answer().Upsert(ctx, answer)
	if err != nil {
		return fmt.Errorf("failed to record answer: %w", err)
	}
	if !written {
		// The session completed between the open check and the write; the
		// status predicate on the upsert kept the frozen answer set intact.
		return ErrSessionNotOpen
	}

	s.logger.Debug("Answer recorded",
		"session_id", sessionID,
		"question_id", req.QuestionID,
		"question_type", string(question.Type))

	return nil
}

// Complete transitions the session from open to completed and triggers
// scoring. Unanswered questions are allowed and score zero. A grading outage
// does not roll back the transition; the result reports scoring as pending.
func (s *sessionService) Complete(ctx context.Context, sessionID uint, candidateID string) (*CompleteResult, error) {
	session, err := s.getOwned(ctx, sessionID, candidateID)
	if err != nil {
		return nil, err
	}
	if !session.IsOpen() {
		return nil, ErrSessionAlreadyCompleted
	}

	completedAt := time.Now()
	done, err := s.repo.Session().CompleteIfOpen(ctx, sessionID, completedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}
	if !done {
		// A concurrent completion won the conditional update.
		return nil, ErrSessionAlreadyCompleted
	}
	session.Status = models.SessionCompleted
	session.CompletedAt = &completedAt

	answered, err := s.repo.Answer().CountBySession(ctx, sessionID)
	if err != nil {
		s.logger.Warn("Failed to count answers for completion event", "session_id", sessionID, "error", err)
	}

	s.logger.Info("Session completed",
		"session_id", sessionID,
		"candidate_id", candidateID,
		"answered", answered)

	s.publish(ctx, events.EventSessionCompleted, events.SessionCompletedEvent{
		SessionID:   sessionID,
		JobID:       session.JobID,
		CandidateID: candidateID,
		CompletedAt: completedAt,
		Answered:    int(answered),
		Questions:   len(session.SnapshotIDs()),
	})

	result := &CompleteResult{Session: session}
	score, err := s.scoring.ScoreSession(ctx, sessionID)
	if err != nil {
		if IsScoringUnavailable(err) {
			s.logger.Warn("Scoring unavailable at completion, left pending", "session_id", sessionID, "error", err)
			result.ScoringPending = true
			return result, nil
		}
		return nil, err
	}
	result.Score = score
	return result, nil
}

// Progress reports which snapshot questions currently hold an answer.
func (s *sessionService) Progress(ctx context.Context, sessionID uint, candidateID string) (*SessionProgress, error) {
	session, err := s.getOwned(ctx, sessionID, candidateID)
	if err != nil {
		return nil, err
	}

	answers, err := s.repo.Answer().GetBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}

	answeredByID := make(map[uint]bool, len(session.SnapshotIDs()))
	for _, id := range session.SnapshotIDs() {
		answeredByID[id] = false
	}
	answered := 0
	for _, a := range answers {
		if _, ok := answeredByID[a.QuestionID]; ok && !answeredByID[a.QuestionID] {
			answeredByID[a.QuestionID] = true
			answered++
		}
	}

	return &SessionProgress{
		SessionID:    sessionID,
		Total:        len(answeredByID),
		Answered:     answered,
		AnsweredByID: answeredByID,
		Status:       session.Status,
	}, nil
}

func (s *sessionService) getOwned(ctx context.Context, id uint, candidateID string) (*models.Session, error) {
	session, err := s.repo.Session().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if candidateID != "" && session.CandidateID != candidateID {
		return nil, ErrForbidden
	}
	return session, nil
}

func (s *sessionService) publish(ctx context.Context, eventType events.EventType, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSessionEvent(ctx, events.NewSessionEvent(eventType, payload)); err != nil {
		s.logger.Warn("Failed to publish session event", "type", string(eventType), "error", err)
	}
}
