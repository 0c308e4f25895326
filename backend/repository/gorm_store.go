package repository

import (
	"context"
	"fmt"

	"quizserver/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTestStore expects a *gorm.DB opened with TranslateError so unique violations
// surface as ErrDuplicateKey.
type GormTestStore struct {
	db *gorm.DB
}

func NewTestStore(db *gorm.DB) *GormTestStore {
	return &GormTestStore{db: db}
}

func (s *GormTestStore) Create(ctx context.Context, test *models.Test) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(test).Error; err != nil {
		return fmt.Errorf("create test: %w", translate(err))
	}
	return nil
}

func (s *GormTestStore) FindByID(ctx context.Context, id uint) (*models.Test, error) {
	var test models.Test
	err := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&test, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &test, nil
}

func (s *GormTestStore) FindByCode(ctx context.Context, code string) (*models.Test, error) {
	var test models.Test
	err := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("test_code = ?", code).
		First(&test).Error
	if err != nil {
		return nil, translate(err)
	}
	return &test, nil
}

func (s *GormTestStore) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Test{}).Where("test_code = ?", code).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count test code: %w", err)
	}
	return count > 0, nil
}

func (s *GormTestStore) List(ctx context.Context) ([]models.Test, error) {
	var tests []models.Test
	err := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Order("id").
		Find(&tests).Error
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	return tests, nil
}

func (s *GormTestStore) Save(ctx context.Context, test *models.Test) error {
	err := s.db.WithContext(ctx).Model(test).
		Select("title", "description", "time", "status", "test_code").
		Updates(test).Error
	if err != nil {
		return fmt.Errorf("save test %d: %w", test.ID, translate(err))
	}
	return nil
}

type GormQuestionStore struct {
	db *gorm.DB
}

func NewQuestionStore(db *gorm.DB) *GormQuestionStore {
	return &GormQuestionStore{db: db}
}

func (s *GormQuestionStore) Create(ctx context.Context, question *models.Question) error {
	if err := s.db.WithContext(ctx).Create(question).Error; err != nil {
		return fmt.Errorf("create question: %w", translate(err))
	}
	return nil
}

func (s *GormQuestionStore) FindByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	if err := s.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, translate(err)
	}
	return &question, nil
}

func (s *GormQuestionStore) ListByTest(ctx context.Context, testID uint) ([]models.Question, error) {
	var questions []models.Question
	err := s.db.WithContext(ctx).Where("test_id = ?", testID).Order("id").Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("list questions of test %d: %w", testID, err)
	}
	return questions, nil
}

type GormResultStore struct {
	db *gorm.DB
}

func NewResultStore(db *gorm.DB) *GormResultStore {
	return &GormResultStore{db: db}
}

func (s *GormResultStore) Create(ctx context.Context, result *models.TestResult) error {
	if err := s.db.WithContext(ctx).Create(result).Error; err != nil {
		return fmt.Errorf("create result: %w", translate(err))
	}
	return nil
}

func (s *GormResultStore) List(ctx context.Context) ([]models.TestResult, error) {
	return s.find(ctx, "")
}

func (s *GormResultStore) ListByUser(ctx context.Context, userID uint) ([]models.TestResult, error) {
	return s.find(ctx, "user_id = ?", userID)
}

func (s *GormResultStore) ListByTest(ctx context.Context, testID uint) ([]models.TestResult, error) {
	return s.find(ctx, "test_id = ?", testID)
}

func (s *GormResultStore) find(ctx context.Context, where string, args ...interface{}) ([]models.TestResult, error) {
	query := s.db.WithContext(ctx).Order("id")
	if where != "" {
		query = query.Where(where, args...)
	}
	results := []models.TestResult{}
	if err := query.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return results, nil
}

type GormUserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) Create(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", translate(err))
	}
	return nil
}

func (s *GormUserStore) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormUserStore) FindByName(ctx context.Context, name string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}
