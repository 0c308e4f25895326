package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"quizserver/backend/models"
	"quizserver/backend/repository"
)

// ScoreRecorder is told about every persisted attempt. When Record fails the recorder is
// invalidated so it cannot serve a board that misses the attempt.
type ScoreRecorder interface {
	Record(ctx context.Context, testID uint, score repository.LeaderboardScore) error
	Invalidate(ctx context.Context, testID uint) error
}

type ScoringService struct {
	tests     repository.TestStore
	questions repository.QuestionStore
	results   repository.ResultStore
	users     repository.UserStore
	recorder  ScoreRecorder
	logger    *log.Logger
}

// NewScoringService wires the scoring engine. recorder may be nil.
func NewScoringService(
	tests repository.TestStore,
	questions repository.QuestionStore,
	results repository.ResultStore,
	users repository.UserStore,
	recorder ScoreRecorder,
	logger *log.Logger,
) *ScoringService {
	if logger == nil {
		logger = log.Default()
	}
	return &ScoringService{
		tests:     tests,
		questions: questions,
		results:   results,
		users:     users,
		recorder:  recorder,
		logger:    logger,
	}
}

// SubmitTest scores one attempt against the test's full question set and stores the
// result. Any bad response fails the whole submission before anything is written.
func (s *ScoringService) SubmitTest(ctx context.Context, in models.SubmitTestDTO) (*models.TestResultDTO, error) {
	test, err := s.tests.FindByID(ctx, in.TestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound("test %d not found", in.TestID)
		}
		return nil, Internal("could not load test", err)
	}
	user, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound("user %d not found", in.UserID)
		}
		return nil, Internal("could not load user", err)
	}

	seen := make(map[uint]struct{}, len(in.Responses))
	correct := 0
	for _, response := range in.Responses {
		if _, dup := seen[response.QuestionID]; dup {
			return nil, InvalidInput("question %d answered more than once", response.QuestionID)
		}
		seen[response.QuestionID] = struct{}{}

		question, err := s.questions.FindByID(ctx, response.QuestionID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, NotFound("question %d not found", response.QuestionID)
			}
			return nil, Internal("could not load question", err)
		}
		if question.TestID != test.ID {
			return nil, InvalidInput("question %d does not belong to test %d", question.ID, test.ID)
		}
		if strings.EqualFold(strings.TrimSpace(response.SelectedOption), question.CorrectOption) {
			correct++
		}
	}

	total := len(test.Questions)
	if total == 0 {
		return nil, InvalidInput("test %d has no questions", test.ID)
	}

	result := models.NewTestResult(test.ID, user.ID, total, correct)
	if err := s.results.Create(ctx, &result); err != nil {
		return nil, Internal("could not save result", err)
	}

	if s.recorder != nil {
		score := repository.LeaderboardScore{
			UserID:         result.UserID,
			Percentage:     result.Percentage,
			CorrectAnswers: result.CorrectAnswers,
			TotalQuestions: result.TotalQuestions,
		}
		if err := s.recorder.Record(ctx, result.TestID, score); err != nil {
			s.logger.Printf("Leaderboard update failed for test %d: %v", result.TestID, err)
			if err := s.recorder.Invalidate(ctx, result.TestID); err != nil {
				s.logger.Printf("Leaderboard invalidation failed for test %d: %v", result.TestID, err)
			}
		}
	}

	dto := result.ToDTO()
	dto.TestName = test.Title
	dto.UserName = user.Name
	return &dto, nil
}
