// Package repository is the persistence path for tests, questions, results and users.
package repository

import (
	"context"
	"errors"

	"quizserver/backend/models"

	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrMissingParent is returned when a foreign key points at a row that does not exist.
	ErrMissingParent = errors.New("referenced record does not exist")
)

type TestStore interface {
	Create(ctx context.Context, test *models.Test) error
	// FindByID loads the test with its questions.
	FindByID(ctx context.Context, id uint) (*models.Test, error)
	FindByCode(ctx context.Context, code string) (*models.Test, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	List(ctx context.Context) ([]models.Test, error)
	// Save writes the test's own columns; questions are left alone.
	Save(ctx context.Context, test *models.Test) error
}

type QuestionStore interface {
	Create(ctx context.Context, question *models.Question) error
	FindByID(ctx context.Context, id uint) (*models.Question, error)
	ListByTest(ctx context.Context, testID uint) ([]models.Question, error)
}

type ResultStore interface {
	Create(ctx context.Context, result *models.TestResult) error
	List(ctx context.Context) ([]models.TestResult, error)
	ListByUser(ctx context.Context, userID uint) ([]models.TestResult, error)
	ListByTest(ctx context.Context, testID uint) ([]models.TestResult, error)
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByName(ctx context.Context, name string) (*models.User, error)
}

// translate maps GORM sentinels onto the repository's own.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrMissingParent
	default:
		return err
	}
}
