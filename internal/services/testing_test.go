package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/hirelens/assessment-service/internal/config"
	"github.com/hirelens/assessment-service/internal/models"
	"github.com/hirelens/assessment-service/internal/repositories"
	"github.com/hirelens/assessment-service/internal/utils"
)

// memoryRepository backs service tests with map storage while keeping the
// same concurrency semantics as the SQL implementation: answer upsert is
// last-write-wins and refuses writes once the owning session is no longer
// open, completion is a compare-and-set on status, and score insertion is
// first-writer-wins.
type memoryRepository struct {
	mu sync.Mutex

	jobs      map[uint]*models.Job
	questions map[uint]*models.Question
	sessions  map[uint]*models.Session
	answers   map[uint]map[uint]*models.Answer // sessionID -> questionID
	scores    map[uint]*models.Score           // sessionID
	users     map[string]*models.User

	nextJobID      uint
	nextQuestionID uint
	nextSessionID  uint
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		jobs:      make(map[uint]*models.Job),
		questions: make(map[uint]*models.Question),
		sessions:  make(map[uint]*models.Session),
		answers:   make(map[uint]map[uint]*models.Answer),
		scores:    make(map[uint]*models.Score),
		users:     make(map[string]*models.User),
	}
}

func (r *memoryRepository) Job() repositories.JobRepository           { return (*memJobRepo)(r) }
func (r *memoryRepository) Question() repositories.QuestionRepository { return (*memQuestionRepo)(r) }
func (r *memoryRepository) Session() repositories.SessionRepository   { return (*memSessionRepo)(r) }
func (r *memoryRepository) Answer() repositories.AnswerRepository     { return (*memAnswerRepo)(r) }
func (r *memoryRepository) Score() repositories.ScoreRepository       { return (*memScoreRepo)(r) }
func (r *memoryRepository) User() repositories.UserRepository         { return (*memUserRepo)(r) }

func (r *memoryRepository) WithTx(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(r)
}

type memJobRepo memoryRepository

func (r *memJobRepo) Create(ctx context.Context, job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextJobID++
	job.ID = r.nextJobID
	r.jobs[job.ID] = job
	return nil
}

func (r *memJobRepo) GetByID(ctx context.Context, id uint) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return job, nil
}

func (r *memJobRepo) List(ctx context.Context, filters repositories.JobFilters) ([]*models.Job, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var jobs []*models.Job
	for _, job := range r.jobs {
		if filters.ActiveOnly && !job.IsActive {
			continue
		}
		if filters.RecruiterID != nil && job.RecruiterID != *filters.RecruiterID {
			continue
		}
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].ID < jobs[j].ID })
	return jobs, int64(len(jobs)), nil
}

type memQuestionRepo memoryRepository

func (r *memQuestionRepo) CreateBatch(ctx context.Context, questions []*models.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range questions {
		r.nextQuestionID++
		q.ID = r.nextQuestionID
		r.questions[q.ID] = q
	}
	return nil
}

func (r *memQuestionRepo) GetByJob(ctx context.Context, jobID uint) ([]*models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var questions []*models.Question
	for _, q := range r.questions {
		if q.JobID == jobID {
			questions = append(questions, q)
		}
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].Position < questions[j].Position })
	return questions, nil
}

func (r *memQuestionRepo) GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var questions []*models.Question
	for _, id := range ids {
		if q, ok := r.questions[id]; ok {
			questions = append(questions, q)
		}
	}
	return questions, nil
}

func (r *memQuestionRepo) CountByJob(ctx context.Context, jobID uint) (int64, error) {
	questions, _ := r.GetByJob(ctx, jobID)
	return int64(len(questions)), nil
}

type memSessionRepo memoryRepository

func (r *memSessionRepo) Create(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.sessions {
		if existing.CandidateID == session.CandidateID &&
			existing.JobID == session.JobID &&
			existing.Status == models.SessionOpen {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextSessionID++
	session.ID = r.nextSessionID
	session.CreatedAt = time.Now()
	r.sessions[session.ID] = session
	return nil
}

func (r *memSessionRepo) GetByID(ctx context.Context, id uint) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *session
	return &copied, nil
}

func (r *memSessionRepo) GetOpen(ctx context.Context, candidateID string, jobID uint) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, session := range r.sessions {
		if session.CandidateID == candidateID && session.JobID == jobID && session.Status == models.SessionOpen {
			copied := *session
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memSessionRepo) GetByCandidate(ctx context.Context, candidateID string) ([]*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sessions []*models.Session
	for _, session := range r.sessions {
		if session.CandidateID == candidateID {
			copied := *session
			sessions = append(sessions, &copied)
		}
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID < sessions[j].ID })
	return sessions, nil
}

func (r *memSessionRepo) CompleteIfOpen(ctx context.Context, id uint, completedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok || session.Status != models.SessionOpen {
		return false, nil
	}
	session.Status = models.SessionCompleted
	session.CompletedAt = &completedAt
	return true, nil
}

type memAnswerRepo memoryRepository

func (r *memAnswerRepo) Upsert(ctx context.Context, answer *models.Answer) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[answer.SessionID]
	if !ok || session.Status != models.SessionOpen {
		return false, nil
	}
	if r.answers[answer.SessionID] == nil {
		r.answers[answer.SessionID] = make(map[uint]*models.Answer)
	}
	r.answers[answer.SessionID][answer.QuestionID] = answer
	return true, nil
}

func (r *memAnswerRepo) GetBySession(ctx context.Context, sessionID uint) ([]*models.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var answers []*models.Answer
	for _, a := range r.answers[sessionID] {
		answers = append(answers, a)
	}
	sort.Slice(answers, func(i, j int) bool { return answers[i].QuestionID < answers[j].QuestionID })
	return answers, nil
}

func (r *memAnswerRepo) GetBySessionAndQuestion(ctx context.Context, sessionID, questionID uint) (*models.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	answer, ok := r.answers[sessionID][questionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return answer, nil
}

func (r *memAnswerRepo) CountBySession(ctx context.Context, sessionID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.answers[sessionID])), nil
}

type memScoreRepo memoryRepository

func (r *memScoreRepo) CreateIfAbsent(ctx context.Context, score *models.Score) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.scores[score.SessionID]; exists {
		return false, nil
	}
	score.CreatedAt = time.Now()
	r.scores[score.SessionID] = score
	return true, nil
}

func (r *memScoreRepo) GetBySession(ctx context.Context, sessionID uint) (*models.Score, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	score, ok := r.scores[sessionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return score, nil
}

func (r *memScoreRepo) GetScoreboard(ctx context.Context, jobID uint) ([]*repositories.ScoreboardRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows []*repositories.ScoreboardRow
	for sessionID, score := range r.scores {
		session, ok := r.sessions[sessionID]
		if !ok || session.JobID != jobID || session.Status != models.SessionCompleted {
			continue
		}
		name := session.CandidateID
		if user, ok := r.users[session.CandidateID]; ok {
			name = user.FullName
		}
		var completedAt time.Time
		if session.CompletedAt != nil {
			completedAt = *session.CompletedAt
		}
		rows = append(rows, &repositories.ScoreboardRow{
			SessionID:     sessionID,
			CandidateID:   session.CandidateID,
			CandidateName: name,
			TotalScore:    score.TotalScore,
			Percentage:    score.Percentage,
			CompletedAt:   completedAt,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SessionID < rows[j].SessionID })
	return rows, nil
}

type memUserRepo memoryRepository

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

// ===== FIXTURE HELPERS =====

func testScoringConfig() config.ScoringConfig {
	return config.ScoringConfig{
		StrengthThreshold: 0.7,
		GapThreshold:      0.4,
	}
}

func testLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func strPtr(s string) *string {
	return &s
}

// seedJob creates a job with a fixed three-question set: one mcq, one
// subjective, one coding, all testing different skills.
func seedJob(repo *memoryRepository, cutoff float64) (*models.Job, []*models.Question) {
	ctx := context.Background()
	job := &models.Job{
		Title:            "Backend Engineer",
		Description:      "Build APIs",
		RecruiterID:      "recruiter-1",
		RequiredSkills:   models.MustJSON([]string{"go", "sql", "system design"}),
		ExperienceLevel:  models.ExperienceMid,
		RoleType:         "backend",
		DurationMinutes:  60,
		CutoffPercentage: cutoff,
		IsActive:         true,
	}
	_ = repo.Job().Create(ctx, job)

	questions := []*models.Question{
		{
			JobID:         job.ID,
			Type:          models.MultipleChoice,
			Text:          "Which keyword starts a goroutine?",
			Difficulty:    models.DifficultyEasy,
			Skill:         "go",
			Options:       models.MustJSON([]string{"go", "run", "async", "spawn"}),
			CorrectOption: strPtr("go"),
			MaxScore:      10,
			Position:      1,
		},
		{
			JobID:      job.ID,
			Type:       models.Subjective,
			Text:       "Explain index-only scans.",
			Difficulty: models.DifficultyMedium,
			Skill:      "sql",
			MaxScore:   20,
			Position:   2,
		},
		{
			JobID:      job.ID,
			Type:       models.Coding,
			Text:       "Implement an LRU cache.",
			Difficulty: models.DifficultyHard,
			Skill:      "system design",
			MaxScore:   20,
			Position:   3,
		},
	}
	_ = repo.Question().CreateBatch(ctx, questions)
	return job, questions
}

func seedCandidate(repo *memoryRepository, id, name string) {
	_ = repo.User().Create(context.Background(), &models.User{
		ID:       id,
		FullName: name,
		Email:    id + "@example.com",
		Role:     models.RoleCandidate,
		IsActive: true,
	})
}
