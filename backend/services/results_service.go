package services

import (
	"context"
	"errors"

	"quizserver/backend/models"
	"quizserver/backend/repository"
)

type ResultsService struct {
	results repository.ResultStore
	tests   repository.TestStore
	users   repository.UserStore
}

func NewResultsService(results repository.ResultStore, tests repository.TestStore, users repository.UserStore) *ResultsService {
	return &ResultsService{results: results, tests: tests, users: users}
}

func (s *ResultsService) ListAllResults(ctx context.Context) ([]models.TestResultDTO, error) {
	results, err := s.results.List(ctx)
	if err != nil {
		return nil, Internal("could not list results", err)
	}
	return s.named(ctx, results)
}

// ListResultsForUser returns an empty slice when the user has no attempts.
func (s *ResultsService) ListResultsForUser(ctx context.Context, userID uint) ([]models.TestResultDTO, error) {
	results, err := s.results.ListByUser(ctx, userID)
	if err != nil {
		return nil, Internal("could not list results", err)
	}
	return s.named(ctx, results)
}

func (s *ResultsService) ListResultsForTest(ctx context.Context, testID uint) ([]models.TestResultDTO, error) {
	if _, err := s.tests.FindByID(ctx, testID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound("test %d not found", testID)
		}
		return nil, Internal("could not load test", err)
	}
	results, err := s.results.ListByTest(ctx, testID)
	if err != nil {
		return nil, Internal("could not list results", err)
	}
	return s.named(ctx, results)
}

// named maps results to DTOs carrying the test title and user name. Rows whose test or
// user has vanished keep blank names.
func (s *ResultsService) named(ctx context.Context, results []models.TestResult) ([]models.TestResultDTO, error) {
	names := newNameCache(s.tests, s.users)
	out := make([]models.TestResultDTO, 0, len(results))
	for i := range results {
		dto := results[i].ToDTO()
		var err error
		if dto.TestName, err = names.testTitle(ctx, dto.TestID); err != nil {
			return nil, err
		}
		if dto.UserName, err = names.userName(ctx, dto.UserID); err != nil {
			return nil, err
		}
		out = append(out, dto)
	}
	return out, nil
}

type nameCache struct {
	tests  repository.TestStore
	users  repository.UserStore
	titles map[uint]string
	names  map[uint]string
}

func newNameCache(tests repository.TestStore, users repository.UserStore) *nameCache {
	return &nameCache{
		tests:  tests,
		users:  users,
		titles: make(map[uint]string),
		names:  make(map[uint]string),
	}
}

func (c *nameCache) testTitle(ctx context.Context, id uint) (string, error) {
	if title, ok := c.titles[id]; ok {
		return title, nil
	}
	test, err := c.tests.FindByID(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.titles[id] = ""
	case err != nil:
		return "", Internal("could not load test", err)
	default:
		c.titles[id] = test.Title
	}
	return c.titles[id], nil
}

func (c *nameCache) userName(ctx context.Context, id uint) (string, error) {
	if name, ok := c.names[id]; ok {
		return name, nil
	}
	user, err := c.users.FindByID(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.names[id] = ""
	case err != nil:
		return "", Internal("could not load user", err)
	default:
		c.names[id] = user.Name
	}
	return c.names[id], nil
}
