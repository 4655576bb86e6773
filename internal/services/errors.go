package services

import (
	"errors"

	apperrors "github.com/hirelens/assessment-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound      = errors.New("resource not found")
	ErrConflict      = errors.New("resource conflict")
	ErrInvalidState  = errors.New("operation not allowed in current state")
	ErrForbidden     = errors.New("forbidden - insufficient permissions")
	ErrInternalError = errors.New("internal server error")

	// Job specific errors
	ErrJobNotFound       = errors.New("job not found")
	ErrJobHasNoQuestions = errors.New("job has no generated questions")

	// Question specific errors
	ErrQuestionNotFound     = errors.New("question not found")
	ErrQuestionNotInSession = errors.New("question not part of session snapshot")

	// Session specific errors
	ErrSessionNotFound         = errors.New("session not found")
	ErrSessionConflict         = errors.New("candidate already has an open session for this job")
	ErrSessionNotOpen          = errors.New("session is not open")
	ErrSessionAlreadyCompleted = errors.New("session already completed")
	ErrSessionNotCompleted     = errors.New("session is not completed")

	// Answer specific errors
	ErrAnswerTypeMismatch = errors.New("answer payload does not match question type")
	ErrAnswerEmpty        = errors.New("answer payload is empty")

	// Scoring specific errors
	ErrScoringUnavailable = errors.New("grading collaborator unavailable")
	ErrScoreNotReady      = errors.New("session not scored yet")
	ErrScoreAlreadyExists = errors.New("score record already exists for session")

	// User errors
	ErrUserNotFound = errors.New("user not found")
)

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrJobNotFound) ||
		errors.Is(err, ErrJobHasNoQuestions) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrScoreNotReady) ||
		errors.Is(err, ErrUserNotFound)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrSessionConflict) ||
		errors.Is(err, ErrScoreAlreadyExists)
}

// IsInvalidState checks if error represents a write against the wrong state
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrSessionNotOpen) ||
		errors.Is(err, ErrSessionAlreadyCompleted) ||
		errors.Is(err, ErrSessionNotCompleted)
}

// IsBadSubmission checks if error represents a rejected answer payload
func IsBadSubmission(err error) bool {
	return errors.Is(err, ErrQuestionNotInSession) ||
		errors.Is(err, ErrAnswerTypeMismatch) ||
		errors.Is(err, ErrAnswerEmpty)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsScoringUnavailable checks if scoring failed because the external grading
// collaborator could not be reached; completion stays recorded and scoring
// may be retried.
func IsScoringUnavailable(err error) bool {
	return errors.Is(err, ErrScoringUnavailable)
}
