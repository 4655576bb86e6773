package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/hirelens/assessment-service/internal/config"
	"github.com/hirelens/assessment-service/internal/events"
	"github.com/hirelens/assessment-service/internal/grading"
	"github.com/hirelens/assessment-service/internal/models"
	"github.com/hirelens/assessment-service/internal/repositories"
	"github.com/hirelens/assessment-service/internal/utils"
)

type scoringService struct {
	repo        repositories.Repository
	grader      grading.Grader
	reporter    grading.Reporter
	leaderboard LeaderboardService
	publisher   events.EventPublisher
	logger      utils.Logger
	cfg         config.ScoringConfig
}

func NewScoringService(repo repositories.Repository, grader grading.Grader, reporter grading.Reporter, leaderboard LeaderboardService, publisher events.EventPublisher, logger utils.Logger, cfg config.ScoringConfig) ScoringService {
	return &scoringService{
		repo:        repo,
		grader:      grader,
		reporter:    reporter,
		leaderboard: leaderboard,
		publisher:   publisher,
		logger:      logger,
		cfg:         cfg,
	}
}

// ScoreSession aggregates the session's answers into its permanent score
// record. MCQ answers are matched locally; subjective and coding answers go
// through the grader, and any grader failure aborts the run with nothing
// persisted so a retry re-grades from scratch. The final insert is guarded by
// the unique session index, so concurrent runs produce exactly one record.
func (s *scoringService) ScoreSession(ctx context.Context, sessionID uint) (*models.Score, error) {
	session, err := s.repo.Session().GetByID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session.IsOpen() {
		return nil, ErrSessionNotCompleted
	}

	if existing, err := s.repo.Score().GetBySession(ctx, sessionID); err == nil {
		if err := s.fillPercentile(ctx, session.JobID, existing); err != nil {
			return nil, err
		}
		return existing, nil
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check existing score: %w", err)
	}

	job, err := s.repo.Job().GetByID(ctx, session.JobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	questions, err := s.repo.Question().GetByIDs(ctx, session.SnapshotIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	answers, err := s.repo.Answer().GetBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}
	answerByQuestion := make(map[uint]*models.Answer, len(answers))
	for _, a := range answers {
		answerByQuestion[a.QuestionID] = a
	}

	var mcqScore, subjectiveScore, codingScore, maxPossible float64
	skillEarned := make(map[string]float64)
	skillMax := make(map[string]float64)

	for _, q := range questions {
		maxPossible += q.MaxScore
		skillMax[q.Skill] += q.MaxScore

		answer := answerByQuestion[q.ID]
		var earned float64
		switch q.Type {
		case models.MultipleChoice:
			if answer != nil && q.CorrectOption != nil && answer.SelectedOption != nil &&
				*answer.SelectedOption == *q.CorrectOption {
				earned = q.MaxScore
			}
			mcqScore += earned
		case models.Subjective, models.Coding:
			if answer != nil {
				outcome, err := s.grader.GradeAnswer(ctx, q, answer.Content(), q.MaxScore)
				if err != nil {
					return nil, fmt.Errorf("%w: question %d: %v", ErrScoringUnavailable, q.ID, err)
				}
				earned = clamp(outcome.Score, 0, q.MaxScore)
			}
			if q.Type == models.Subjective {
				subjectiveScore += earned
			} else {
				codingScore += earned
			}
		}
		skillEarned[q.Skill] += earned
	}

	totalScore := mcqScore + subjectiveScore + codingScore
	var percentage float64
	if maxPossible > 0 {
		percentage = totalScore / maxPossible * 100
	}
	qualified := percentage >= job.CutoffPercentage

	skillFractions := make(map[string]float64, len(skillMax))
	for skill, max := range skillMax {
		if max > 0 {
			skillFractions[skill] = skillEarned[skill] / max
		}
	}
	strengths, weaknesses, gaps := s.skillLabels(skillFractions)

	report := s.buildReport(ctx, grading.ReportInput{
		TotalScore:  totalScore,
		MaxPossible: maxPossible,
		Percentage:  percentage,
		SkillScores: skillFractions,
	}, strengths, weaknesses, gaps, qualified)

	score := &models.Score{
		SessionID:       sessionID,
		MCQScore:        mcqScore,
		SubjectiveScore: subjectiveScore,
		CodingScore:     codingScore,
		TotalScore:      totalScore,
		MaxPossible:     maxPossible,
		Percentage:      percentage,
		SkillScores:     models.MustJSON(skillFractions),
		Qualified:       qualified,
		Strengths:       models.MustJSON(report.Strengths),
		Weaknesses:      models.MustJSON(report.Weaknesses),
		SkillGaps:       models.MustJSON(report.SkillGaps),
		Summary:         report.Summary,
		Recommendation:  report.Recommendation,
	}

	created, err := s.repo.Score().CreateIfAbsent(ctx, score)
	if err != nil {
		return nil, fmt.Errorf("failed to persist score: %w", err)
	}
	if !created {
		// A concurrent run persisted first; its record is the one that counts.
		winner, err := s.repo.Score().GetBySession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if err := s.fillPercentile(ctx, session.JobID, winner); err != nil {
			return nil, err
		}
		return winner, nil
	}

	s.logger.Info("Session scored",
		"session_id", sessionID,
		"job_id", session.JobID,
		"total", totalScore,
		"percentage", percentage,
		"qualified", qualified)

	if s.publisher != nil {
		event := events.NewSessionEvent(events.EventSessionScored, events.SessionScoredEvent{
			SessionID:  sessionID,
			JobID:      session.JobID,
			TotalScore: totalScore,
			Percentage: percentage,
			Qualified:  qualified,
		})
		if err := s.publisher.PublishSessionEvent(ctx, event); err != nil {
			s.logger.Warn("Failed to publish scored event", "session_id", sessionID, "error", err)
		}
	}

	s.leaderboard.Invalidate(ctx, session.JobID)

	if err := s.fillPercentile(ctx, session.JobID, score); err != nil {
		return nil, err
	}
	return score, nil
}

// GetResults returns the persisted score for a completed session. Results
// are visible to the session's candidate and to the job's recruiter.
func (s *scoringService) GetResults(ctx context.Context, sessionID uint, requesterID string) (*models.Score, error) {
	session, err := s.repo.Session().GetByID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if requesterID != "" && requesterID != session.CandidateID {
		job, err := s.repo.Job().GetByID(ctx, session.JobID)
		if err != nil {
			return nil, fmt.Errorf("failed to get job: %w", err)
		}
		if requesterID != job.RecruiterID {
			return nil, ErrForbidden
		}
	}
	if session.IsOpen() {
		return nil, ErrSessionNotCompleted
	}

	score, err := s.repo.Score().GetBySession(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrScoreNotReady
		}
		return nil, fmt.Errorf("failed to get score: %w", err)
	}
	if err := s.fillPercentile(ctx, session.JobID, score); err != nil {
		return nil, err
	}
	return score, nil
}

// fillPercentile derives the score's percentile from the job's current
// scored set: the share of scored participants strictly below this total.
// Equal totals always land on the same percentile, and the value moves as
// later candidates finish, so it is computed per read and never stored.
func (s *scoringService) fillPercentile(ctx context.Context, jobID uint, score *models.Score) error {
	rows, err := s.repo.Score().GetScoreboard(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to get scoreboard: %w", err)
	}
	if len(rows) == 0 {
		score.Percentile = 0
		return nil
	}
	lower := 0
	for _, row := range rows {
		if row.TotalScore < score.TotalScore {
			lower++
		}
	}
	score.Percentile = float64(lower) / float64(len(rows)) * 100
	return nil
}

// skillLabels derives strength, weakness and gap lists from per-skill score
// fractions. Strengths are sorted strongest first, the rest weakest first.
func (s *scoringService) skillLabels(fractions map[string]float64) (strengths, weaknesses, gaps []string) {
	strengths = []string{}
	weaknesses = []string{}
	gaps = []string{}
	for skill, f := range fractions {
		switch {
		case f >= s.cfg.StrengthThreshold:
			strengths = append(strengths, skill)
		default:
			weaknesses = append(weaknesses, skill)
			if f < s.cfg.GapThreshold {
				gaps = append(gaps, skill)
			}
		}
	}
	sort.Slice(strengths, func(i, j int) bool {
		if fractions[strengths[i]] != fractions[strengths[j]] {
			return fractions[strengths[i]] > fractions[strengths[j]]
		}
		return strengths[i] < strengths[j]
	})
	byWeakest := func(list []string) func(i, j int) bool {
		return func(i, j int) bool {
			if fractions[list[i]] != fractions[list[j]] {
				return fractions[list[i]] < fractions[list[j]]
			}
			return list[i] < list[j]
		}
	}
	sort.Slice(weaknesses, byWeakest(weaknesses))
	sort.Slice(gaps, byWeakest(gaps))
	return strengths, weaknesses, gaps
}

// buildReport asks the reporter for the qualitative sections and falls back
// to the threshold-derived labels when no reporter is wired or it fails. A
// reporter outage never fails the scoring run.
func (s *scoringService) buildReport(ctx context.Context, input grading.ReportInput, strengths, weaknesses, gaps []string, qualified bool) *grading.Report {
	if s.reporter != nil {
		report, err := s.reporter.GenerateReport(ctx, input)
		if err == nil {
			if report.Strengths == nil {
				report.Strengths = strengths
			}
			if report.Weaknesses == nil {
				report.Weaknesses = weaknesses
			}
			if report.SkillGaps == nil {
				report.SkillGaps = gaps
			}
			return report
		}
		s.logger.Warn("Report generation failed, using derived labels", "error", err)
	}

	recommendation := "Review"
	if qualified {
		recommendation = "Proceed"
	}
	return &grading.Report{
		Strengths:      strengths,
		Weaknesses:     weaknesses,
		SkillGaps:      gaps,
		Summary:        fmt.Sprintf("Scored %.1f of %.1f (%.1f%%).", input.TotalScore, input.MaxPossible, input.Percentage),
		Recommendation: recommendation,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
