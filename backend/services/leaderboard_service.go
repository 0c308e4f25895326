package services

import (
	"context"
	"errors"
	"log"
	"sort"

	"quizserver/backend/models"
	"quizserver/backend/repository"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

// ScoreBoard is a cache of each user's best attempt per test. Top reports complete only
// after Fill has loaded every attempt from the result store.
type ScoreBoard interface {
	ScoreRecorder
	Fill(ctx context.Context, testID uint, scores []repository.LeaderboardScore) error
	Top(ctx context.Context, testID uint, limit int64) (scores []repository.LeaderboardScore, complete bool, err error)
}

// LeaderboardService builds per-test rankings and statistics. The board is optional; the
// result store is always the source of truth.
type LeaderboardService struct {
	tests   repository.TestStore
	results repository.ResultStore
	users   repository.UserStore
	board   ScoreBoard
	logger  *log.Logger
}

func NewLeaderboardService(
	tests repository.TestStore,
	results repository.ResultStore,
	users repository.UserStore,
	board ScoreBoard,
	logger *log.Logger,
) *LeaderboardService {
	if logger == nil {
		logger = log.Default()
	}
	return &LeaderboardService{tests: tests, results: results, users: users, board: board, logger: logger}
}

// Leaderboard ranks users by their best percentage on the test. Equal scores are ordered
// by user id.
func (s *LeaderboardService) Leaderboard(ctx context.Context, testID uint, limit int) ([]models.LeaderboardEntryDTO, error) {
	switch {
	case limit <= 0:
		limit = DefaultLeaderboardLimit
	case limit > MaxLeaderboardLimit:
		limit = MaxLeaderboardLimit
	}
	if err := s.ensureTest(ctx, testID); err != nil {
		return nil, err
	}

	scores, cached := s.cachedScores(ctx, testID)
	if !cached {
		results, err := s.results.ListByTest(ctx, testID)
		if err != nil {
			return nil, Internal("could not list results", err)
		}
		scores = bestScores(results)
		if s.board != nil {
			if err := s.board.Fill(ctx, testID, scores); err != nil {
				s.logger.Printf("Leaderboard backfill failed for test %d: %v", testID, err)
			}
		}
	}

	sortScores(scores)
	if len(scores) > limit {
		scores = scores[:limit]
	}

	names := newNameCache(s.tests, s.users)
	entries := make([]models.LeaderboardEntryDTO, 0, len(scores))
	for i, score := range scores {
		name, err := names.userName(ctx, score.UserID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, models.LeaderboardEntryDTO{
			Rank:           i + 1,
			UserID:         score.UserID,
			UserName:       name,
			Percentage:     score.Percentage,
			CorrectAnswers: score.CorrectAnswers,
			TotalQuestions: score.TotalQuestions,
		})
	}
	return entries, nil
}

func (s *LeaderboardService) cachedScores(ctx context.Context, testID uint) ([]repository.LeaderboardScore, bool) {
	if s.board == nil {
		return nil, false
	}
	scores, complete, err := s.board.Top(ctx, testID, 0)
	if err != nil {
		s.logger.Printf("Leaderboard cache read failed for test %d: %v", testID, err)
		return nil, false
	}
	return scores, complete
}

func (s *LeaderboardService) TestAnalytics(ctx context.Context, testID uint) (*models.TestAnalyticsDTO, error) {
	if err := s.ensureTest(ctx, testID); err != nil {
		return nil, err
	}
	results, err := s.results.ListByTest(ctx, testID)
	if err != nil {
		return nil, Internal("could not list results", err)
	}

	stats := &models.TestAnalyticsDTO{TestID: testID, Attempts: len(results)}
	if len(results) == 0 {
		return stats, nil
	}
	participants := make(map[uint]struct{})
	sum := 0.0
	stats.Highest = results[0].Percentage
	stats.Lowest = results[0].Percentage
	for _, r := range results {
		participants[r.UserID] = struct{}{}
		sum += r.Percentage
		if r.Percentage > stats.Highest {
			stats.Highest = r.Percentage
		}
		if r.Percentage < stats.Lowest {
			stats.Lowest = r.Percentage
		}
	}
	stats.Participants = len(participants)
	stats.Average = sum / float64(len(results))
	return stats, nil
}

func (s *LeaderboardService) ensureTest(ctx context.Context, testID uint) error {
	if _, err := s.tests.FindByID(ctx, testID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFound("test %d not found", testID)
		}
		return Internal("could not load test", err)
	}
	return nil
}

// bestScores keeps each user's highest-scoring attempt; among equal percentages the
// earliest attempt wins.
func bestScores(results []models.TestResult) []repository.LeaderboardScore {
	best := make(map[uint]repository.LeaderboardScore)
	for _, r := range results {
		if current, ok := best[r.UserID]; !ok || r.Percentage > current.Percentage {
			best[r.UserID] = repository.LeaderboardScore{
				UserID:         r.UserID,
				Percentage:     r.Percentage,
				CorrectAnswers: r.CorrectAnswers,
				TotalQuestions: r.TotalQuestions,
			}
		}
	}
	scores := make([]repository.LeaderboardScore, 0, len(best))
	for _, score := range best {
		scores = append(scores, score)
	}
	return scores
}

func sortScores(scores []repository.LeaderboardScore) {
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Percentage != scores[j].Percentage {
			return scores[i].Percentage > scores[j].Percentage
		}
		return scores[i].UserID < scores[j].UserID
	})
}
