package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirelens/assessment-service/internal/events"
	"github.com/hirelens/assessment-service/internal/grading"
	"github.com/hirelens/assessment-service/internal/models"
	"github.com/hirelens/assessment-service/internal/utils"
)

type sessionFixture struct {
	repo      *memoryRepository
	publisher *events.MockEventPublisher
	grader    *grading.MockGrader
	service   SessionService
	scoring   ScoringService
	job       *models.Job
	questions []*models.Question
}

func newSessionFixture(t *testing.T, cutoff float64) *sessionFixture {
	t.Helper()

	repo := newMemoryRepository()
	job, questions := seedJob(repo, cutoff)
	seedCandidate(repo, "candidate-1", "Ada Lovelace")
	seedCandidate(repo, "candidate-2", "Grace Hopper")

	logger := testLogger()
	publisher := events.NewMockEventPublisher(utils.ToSlogLogger(logger))
	grader := &grading.MockGrader{Default: 10}

	leaderboard := NewLeaderboardService(repo, nil, logger)
	scoring := NewScoringService(repo, grader, nil, leaderboard, publisher, logger, testScoringConfig())
	service := NewSessionService(repo, scoring, publisher, logger, utils.NewValidator())

	return &sessionFixture{
		repo:      repo,
		publisher: publisher,
		grader:    grader,
		service:   service,
		scoring:   scoring,
		job:       job,
		questions: questions,
	}
}

func TestSessionService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("freezes question order into snapshot", func(t *testing.T) {
		f := newSessionFixture(t, 60)

		session, err := f.service.Create(ctx, f.job.ID, "candidate-1")
		require.NoError(t, err)

		assert.Equal(t, models.SessionOpen, session.Status)
		ids := session.SnapshotIDs()
		require.Len(t, ids, 3)
		assert.Equal(t, f.questions[0].ID, ids[0])
		assert.Equal(t, f.questions[1].ID, ids[1])
		assert.Equal(t, f.questions[2].ID, ids[2])

		created := f.publisher.EventsOfType(events.EventSessionCreated)
		assert.Len(t, created, 1)
	})

	t.Run("rejects second open session for same job", func(t *testing.T) {
		f := newSessionFixture(t, 60)

		_, err := f.service.Create(ctx, f.job.ID, "candidate-1")
		require.NoError(t, err)

		_, err = f.service.Create(ctx, f.job.ID, "candidate-1")
		assert.ErrorIs(t, err, ErrSessionConflict)
	})

	t.Run("allows open sessions for different candidates", func(t *testing.T) {
		f := newSessionFixture(t, 60)

		_, err := f.service.Create(ctx, f.job.ID, "candidate-1")
		require.NoError(t, err)
		_, err = f.service.Create(ctx, f.job.ID, "candidate-2")
		assert.NoError(t, err)
	})

	t.Run("allows retake after completion", func(t *testing.T) {
		f := newSessionFixture(t, 60)

		session, err := f.service.Create(ctx, f.job.ID, "candidate-1")
		require.NoError(t, err)
		_, err = f.service.Complete(ctx, session.ID, "candidate-1")
		require.NoError(t, err)

		_, err = f.service.Create(ctx, f.job.ID, "candidate-1")
		assert.NoError(t, err)
	})

	t.Run("rejects job without questions", func(t *testing.T) {
		f := newSessionFixture(t, 60)
		empty := &models.Job{
			Title:       "Empty",
			Description: "No questions yet",
			RecruiterID: "recruiter-1",
			IsActive:    true,
		}
		require.NoError(t, f.repo.Job().Create(ctx, empty))

		_, err := f.service.Create(ctx, empty.ID, "candidate-1")
		assert.ErrorIs(t, err, ErrJobHasNoQuestions)
		assert.True(t, IsNotFound(err))
	})

	t.Run("rejects unknown job", func(t *testing.T) {
		f := newSessionFixture(t, 60)

		_, err := f.service.Create(ctx, 999, "candidate-1")
		assert.ErrorIs(t, err, ErrJobNotFound)
	})

	t.Run("rejects unknown candidate", func(t *testing.T) {
		f := newSessionFixture(t, 60)

		_, err := f.service.Create(ctx, f.job.ID, "ghost")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestSessionService_SnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t, 60)

	session, err := f.service.Create(ctx, f.job.ID, "candidate-1")
	require.NoError(t, err)

	// Questions added to the job after session creation must stay invisible.
	late := &models.Question{
		JobID:      f.job.ID,
		Type:       models.Subjective,
		Text:       "Late addition",
		Difficulty: models.DifficultyEasy,
		Skill:      "go",
		MaxScore:   10,
		Position:   4,
	}
	require.NoError(t, f.repo.Question().CreateBatch(ctx, []*models.Question{late}))

	questions, err := f.service.GetQuestions(ctx, session.ID, "candidate-1")
	require.NoError(t, err)
	assert.Len(t, questions, 3)

	err = f.service.SubmitAnswer(ctx, session.ID, &SubmitAnswerRequest{
		QuestionID: late.ID,
		Text:       strPtr("should not land"),
	}, "candidate-1")
	assert.ErrorIs(t, err, ErrQuestionNotInSession)
}

func TestSessionService_SubmitAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("last write wins on resubmission", func(t *testing.T) {
		f := newSessionFixture(t, 60)
		session, err := f.service.Create(ctx, f.job.ID, "candidate-1")
		require.NoError(t, err)

		mcq := f.questions[0]
		require.NoError(t, f.service.SubmitAnswer(ctx, session.ID, &SubmitAnswerRequest{
			QuestionID:     mcq.ID,
			SelectedOption: strPtr("run"),
		}, "candidate-1"))
		require.NoError(t, f.service.SubmitAnswer(ctx, session.ID, &SubmitAnswerRequest{
			QuestionID:     mcq.ID,
			SelectedOption: strPtr("go"),
		}, "candidate-1"))

		answer, err := f.repo.Answer().GetBySessionAndQuestion(ctx, session.ID, mcq.ID)
		require.NoError(t, err)
		assert.Equal(t, "go", *answer.SelectedOption)

		progress, err := f.service.Progress(ctx, session.ID, "candidate-1")
		require.NoError(t, err)
		assert.Equal(t, 1, progress.Answered)
		assert.Equal(t, 3, progress.Total)
	})

	t.Run("rejects payload not matching question type", func(t *testing.T) {
		f := newSessionFixture(t, 60)
		session, err := f.service.Create(ctx, f.job.ID, "candidate-1")
		require.NoError(t, err)

		tests := []struct {
			name string
			req  *SubmitAnswerRequest
		}{
			{"text for mcq", &SubmitAnswerRequest{QuestionID: f.questions[0].ID, Text: strPtr("essay")}},
			{"option for subjective", &SubmitAnswerRequest{QuestionID: f.questions[1].ID, SelectedOption: strPtr("go")}},
			{"text for coding", &SubmitAnswerRequest{QuestionID: f.questions[2].ID, Text: strPtr("prose")}},
			{"two payloads at once", &SubmitAnswerRequest{QuestionID: f.questions[0].ID, SelectedOption: strPtr("go"), Text: strPtr("extra")}},
			{"option outside declared set", &SubmitAnswerRequest{QuestionID: f.questions[0].ID, SelectedOption: strPtr("await")}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := f.service.SubmitAnswer(ctx, session.ID, tt.req, "candidate-1")
				assert.ErrorIs(t, err, ErrAnswerTypeMismatch)
			})
		}
	})

	t.Run("rejects empty payload", func(t *testing.T) {
		f := newSessionFixture(t, 60)
		session, err := f.service.Create(ctx, f.job.ID, "candidate-1")
		require.NoError(t, err)

		err = f.service.SubmitAnswer(ctx, session.ID, &SubmitAnswerRequest{
			QuestionID: f.questions[1].ID,
			Text:       strPtr(""),
		}, "candidate-1")
		assert.ErrorIs(t, err, ErrAnswerEmpty)
	})

	t.Run("rejects writes to completed session", func(t *testing.T) {
		f := newSessionFixture(t, 60)
		session, err := f.service.Create(ctx, f.job.ID, "candidate-1")
		require.NoError(t, err)
		_, err = f.service.Complete(ctx, session.ID, "candidate-1")
		require.NoError(t, err)

		err = f.service.SubmitAnswer(ctx, session.ID, &SubmitAnswerRequest{
			QuestionID:     f.questions[0].ID,
			SelectedOption: strPtr("go"),
		}, "candidate-1")
		assert.ErrorIs(t, err, ErrSessionNotOpen)
	})

	t.Run("write racing a completion leaves the answer set frozen", func(t *testing.T) {
		f := newSessionFixture(t, 60)
		session, err := f.service.Create(ctx, f.job.ID, "candidate-1")
		require.NoError(t, err)

		mcq := f.questions[0]
		require.NoError(t, f.service.SubmitAnswer(ctx, session.ID, &SubmitAnswerRequest{
			QuestionID:     mcq.ID,
			SelectedOption: strPtr("run"),
		}, "candidate-1"))

		// Completion lands between a submitter's open check and its write.
		// The upsert carries the open-status predicate, so the late write
		// must affect nothing.
		done, err := f.repo.Session().CompleteIfOpen(ctx, session.ID, time.Now())
		require.NoError(t, err)
		require.True(t, done)

		written, err := f.repo.Answer().Upsert(ctx, &models.Answer{
			SessionID:      session.ID,
			QuestionID:     mcq.ID,
			SelectedOption: strPtr("go"),
		})
		require.NoError(t, err)
		assert.False(t, written)

		written, err = f.repo.Answer().Upsert(ctx, &models.Answer{
			SessionID:  session.ID,
			QuestionID: f.questions[1].ID,
			Text:       strPtr("late essay"),
		})
		require.NoError(t, err)
		assert.False(t, written)

		answer, err := f.repo.Answer().GetBySessionAndQuestion(ctx, session.ID, mcq.ID)
		require.NoError(t, err)
		assert.Equal(t, "run", *answer.SelectedOption)
		count, err := f.repo.Answer().CountBySession(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("rejects another candidate's session", func(t *testing.T) {
		f := newSessionFixture(t, 60)
		session, err := f.service.Create(ctx, f.job.ID, "candidate-1")
		require.NoError(t, err)

		err = f.service.SubmitAnswer(ctx, session.ID, &SubmitAnswerRequest{
			QuestionID:     f.questions[0].ID,
			SelectedOption: strPtr("go"),
		}, "candidate-2")
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestSessionService_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("completes and scores in one call", func(t *testing.T) {
		f := newSessionFixture(t, 60)
		session, err := f.service.Create(ctx, f.job.ID, "candidate-1")
		require.NoError(t, err)

		require.NoError(t, f.service.SubmitAnswer(ctx, session.ID, &SubmitAnswerRequest{
			QuestionID:     f.questions[0].ID,
			SelectedOption: strPtr("go"),
		}, "candidate-1"))

		result, err := f.service.Complete(ctx, session.ID, "candidate-1")
		require.NoError(t, err)

		assert.Equal(t, models.SessionCompleted, result.Session.Status)
		assert.NotNil(t, result.Session.CompletedAt)
		assert.False(t, result.ScoringPending)
		require.NotNil(t, result.Score)
		assert.Equal(t, float64(10), result.Score.MCQScore)

		completed := f.publisher.EventsOfType(events.EventSessionCompleted)
		require.Len(t, completed, 1)
		scored := f.publisher.EventsOfType(events.EventSessionScored)
		assert.Len(t, scored, 1)
	})

	t.Run("second completion fails", func(t *testing.T) {
		f := newSessionFixture(t, 60)
		session, err := f.service.Create(ctx, f.job.ID, "candidate-1")
		require.NoError(t, err)

		_, err = f.service.Complete(ctx, session.ID, "candidate-1")
		require.NoError(t, err)
		_, err = f.service.Complete(ctx, session.ID, "candidate-1")
		assert.ErrorIs(t, err, ErrSessionAlreadyCompleted)
	})

	t.Run("grading outage leaves session completed and scoring pending", func(t *testing.T) {
		f := newSessionFixture(t, 60)
		session, err := f.service.Create(ctx, f.job.ID, "candidate-1")
		require.NoError(t, err)
		require.NoError(t, f.service.SubmitAnswer(ctx, session.ID, &SubmitAnswerRequest{
			QuestionID: f.questions[1].ID,
			Text:       strPtr("B-tree leaves carry all needed columns"),
		}, "candidate-1"))

		f.grader.Err = assert.AnError

		result, err := f.service.Complete(ctx, session.ID, "candidate-1")
		require.NoError(t, err)
		assert.True(t, result.ScoringPending)
		assert.Nil(t, result.Score)
		assert.Equal(t, models.SessionCompleted, result.Session.Status)

		// Retry succeeds once the grader is back.
		f.grader.Err = nil
		score, err := f.scoring.ScoreSession(ctx, session.ID)
		require.NoError(t, err)
		assert.NotNil(t, score)
	})
}
