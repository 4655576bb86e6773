package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hirelens/assessment-service/internal/cache"
	"github.com/hirelens/assessment-service/internal/repositories"
	"github.com/hirelens/assessment-service/internal/utils"
)

const leaderboardTTL = 30 * time.Second

type leaderboardService struct {
	repo   repositories.Repository
	cache  cache.CacheService
	logger utils.Logger
}

func NewLeaderboardService(repo repositories.Repository, cacheService cache.CacheService, logger utils.Logger) LeaderboardService {
	return &leaderboardService{
		repo:   repo,
		cache:  cacheService,
		logger: logger,
	}
}

// RankScoreboard orders scored sessions into leaderboard entries. Equal
// totals order by earliest completion, then candidate ID, and ranks are
// strictly 1..N with no gaps: the earlier completer of a tied total ranks
// above the later one.
func RankScoreboard(rows []*repositories.ScoreboardRow) []LeaderboardEntry {
	sorted := make([]*repositories.ScoreboardRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		if !a.CompletedAt.Equal(b.CompletedAt) {
			return a.CompletedAt.Before(b.CompletedAt)
		}
		return a.CandidateID < b.CandidateID
	})

	entries := make([]LeaderboardEntry, len(sorted))
	for i, row := range sorted {
		entries[i] = LeaderboardEntry{
			Rank:          i + 1,
			CandidateName: row.CandidateName,
			TotalScore:    row.TotalScore,
			Percentage:    row.Percentage,
			CompletedAt:   row.CompletedAt,
		}
	}
	return entries
}

// Get returns the job's ranked leaderboard, serving from cache when a fresh
// copy exists. The leaderboard is always derived; a stale cache entry only
// ever lags, it never diverges from the scoreboard.
func (s *leaderboardService) Get(ctx context.Context, jobID uint) ([]LeaderboardEntry, error) {
	key := s.cacheKey(jobID)

	if s.cache != nil {
		var cached []LeaderboardEntry
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("Leaderboard cache read failed", "job_id", jobID, "error", err)
		}
	}

	if _, err := s.repo.Job().GetByID(ctx, jobID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	rows, err := s.repo.Score().GetScoreboard(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get scoreboard: %w", err)
	}
	entries := RankScoreboard(rows)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, entries, leaderboardTTL); err != nil {
			s.logger.Warn("Leaderboard cache write failed", "job_id", jobID, "error", err)
		}
	}

	return entries, nil
}

// Invalidate drops the cached leaderboard after a new score lands. Failure is
// tolerable: the entry expires on its own shortly after.
func (s *leaderboardService) Invalidate(ctx context.Context, jobID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.cacheKey(jobID)); err != nil {
		s.logger.Warn("Leaderboard cache invalidation failed", "job_id", jobID, "error", err)
	}
}

// ExportXLSX renders the current leaderboard as a spreadsheet for recruiters.
func (s *leaderboardService) ExportXLSX(ctx context.Context, jobID uint) ([]byte, error) {
	entries, err := s.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Leaderboard"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Rank", "Candidate", "Total Score", "Percentage", "Completed At"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, entry := range entries {
		row := []interface{}{
			entry.Rank,
			entry.CandidateName,
			entry.TotalScore,
			entry.Percentage,
			entry.CompletedAt.Format("2006-01-02 15:04:05"),
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *leaderboardService) cacheKey(jobID uint) string {
	return fmt.Sprintf("leaderboard:job:%d", jobID)
}
