package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"quizserver/backend/models"
	"quizserver/backend/repository"

	"gorm.io/gorm"
)

type CreateTestInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Time        int64  `json:"time"`
	TestCode    string `json:"testCode"`
}

// TestService manages tests and their questions.
type TestService struct {
	tests     repository.TestStore
	questions repository.QuestionStore
	codes     *CodeGenerator
	logger    *log.Logger
}

func NewTestService(tests repository.TestStore, questions repository.QuestionStore, codes *CodeGenerator, logger *log.Logger) *TestService {
	if logger == nil {
		logger = log.Default()
	}
	return &TestService{tests: tests, questions: questions, codes: codes, logger: logger}
}

// CreateTest persists an empty ACTIVE test. A supplied code must be free; otherwise one is
// generated. The unique index on the code column has the final word on both paths.
func (s *TestService) CreateTest(ctx context.Context, in CreateTestInput) (*models.TestDTO, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, InvalidInput("title is required")
	}
	if in.Time < 0 {
		return nil, InvalidInput("time must not be negative")
	}

	test := &models.Test{
		Title:       title,
		Description: in.Description,
		Time:        in.Time,
		Status:      models.StatusActive,
	}

	if requested := NormalizeCode(in.TestCode); requested != "" {
		if !ValidCode(requested) {
			return nil, InvalidInput("test code must be %d letters or digits", CodeLength)
		}
		taken, err := s.tests.CodeExists(ctx, requested)
		if err != nil {
			return nil, Internal("could not check test code", err)
		}
		if taken {
			return nil, Conflict("test code %s is already in use", requested)
		}
		test.SetCode(requested)
		if err := s.tests.Create(ctx, test); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return nil, Conflict("test code %s is already in use", requested)
			}
			return nil, Internal("could not create test", err)
		}
		dto := test.ToDTO()
		return &dto, nil
	}

	// A generated code can still lose a race with a concurrent insert; draw once more.
	for retried := false; ; retried = true {
		code, err := s.codes.Generate(ctx)
		if err != nil {
			return nil, Internal("could not assign a test code", err)
		}
		test.SetCode(code)
		err = s.tests.Create(ctx, test)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicateKey) || retried {
			return nil, Internal("could not create test", err)
		}
		test.Model = gorm.Model{}
	}
	dto := test.ToDTO()
	return &dto, nil
}

func (s *TestService) AddQuestion(ctx context.Context, in models.QuestionDTO) (*models.QuestionDTO, error) {
	if _, err := s.tests.FindByID(ctx, in.TestID); err != nil {
		return nil, s.lookupError(err, NotFound("test %d not found", in.TestID))
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, InvalidInput("question content is required")
	}
	correct, ok := models.NormalizeOption(in.CorrectOption)
	if !ok {
		return nil, InvalidInput("correct option must be one of %s", strings.Join(models.OptionSlots, ", "))
	}

	question := &models.Question{
		TestID:        in.TestID,
		Content:       content,
		OptionA:       in.OptionA,
		OptionB:       in.OptionB,
		OptionC:       in.OptionC,
		OptionD:       in.OptionD,
		CorrectOption: correct,
	}
	if err := s.questions.Create(ctx, question); err != nil {
		if errors.Is(err, repository.ErrMissingParent) {
			return nil, NotFound("test %d not found", in.TestID)
		}
		return nil, Internal("could not add question", err)
	}
	dto := question.ToDTO()
	return &dto, nil
}

// ListAllTests returns every test regardless of status. Tests stored without a code get
// one on the way out.
func (s *TestService) ListAllTests(ctx context.Context) ([]models.TestDTO, error) {
	return s.list(ctx, func(*models.Test) bool { return true })
}

func (s *TestService) ListActiveTests(ctx context.Context) ([]models.TestDTO, error) {
	return s.list(ctx, (*models.Test).IsActive)
}

func (s *TestService) list(ctx context.Context, keep func(*models.Test) bool) ([]models.TestDTO, error) {
	tests, err := s.tests.List(ctx)
	if err != nil {
		return nil, Internal("could not list tests", err)
	}
	out := make([]models.TestDTO, 0, len(tests))
	for i := range tests {
		test := &tests[i]
		if test.Code() == "" {
			if err := s.assignCode(ctx, test); err != nil {
				return nil, err
			}
		}
		if keep(test) {
			out = append(out, displayDTO(test))
		}
	}
	return out, nil
}

func (s *TestService) assignCode(ctx context.Context, test *models.Test) error {
	for retried := false; ; retried = true {
		code, err := s.codes.Generate(ctx)
		if err != nil {
			return Internal("could not assign a test code", err)
		}
		test.SetCode(code)
		err = s.tests.Save(ctx, test)
		if err == nil {
			s.logger.Printf("Assigned code %s to test %d", code, test.ID)
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicateKey) || retried {
			return Internal("could not assign a test code", err)
		}
	}
}

func (s *TestService) GetTestDetails(ctx context.Context, id uint) (*models.TestDetailsDTO, error) {
	test, err := s.tests.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, NotFound("test %d not found", id))
	}
	questions := make([]models.QuestionDTO, 0, len(test.Questions))
	for i := range test.Questions {
		questions = append(questions, test.Questions[i].ToDTO())
	}
	return &models.TestDetailsDTO{TestDTO: displayDTO(test), Questions: questions}, nil
}

func (s *TestService) CancelTest(ctx context.Context, id uint) (*models.TestDTO, error) {
	return s.setStatus(ctx, id, models.StatusCancelled)
}

func (s *TestService) ActivateTest(ctx context.Context, id uint) (*models.TestDTO, error) {
	return s.setStatus(ctx, id, models.StatusActive)
}

func (s *TestService) setStatus(ctx context.Context, id uint, status models.TestStatus) (*models.TestDTO, error) {
	test, err := s.tests.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, NotFound("test %d not found", id))
	}
	test.Status = status
	if err := s.tests.Save(ctx, test); err != nil {
		return nil, Internal("could not update test", err)
	}
	dto := test.ToDTO()
	return &dto, nil
}

// GetTestByCode is the participant entry point; cancelled tests are refused.
func (s *TestService) GetTestByCode(ctx context.Context, code string) (*models.TestDTO, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, NotFound("no test with code %q", code)
	}
	test, err := s.tests.FindByCode(ctx, normalized)
	if err != nil {
		return nil, s.lookupError(err, NotFound("no test with code %s", normalized))
	}
	if !test.IsActive() {
		return nil, BusinessRule("test %s is not active", normalized)
	}
	dto := displayDTO(test)
	return &dto, nil
}

func (s *TestService) lookupError(err error, notFound *Error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return Internal("could not load test", err)
}

// displayDTO reports the total time for the test instead of the per-question value.
func displayDTO(test *models.Test) models.TestDTO {
	dto := test.ToDTO()
	dto.Time = test.TotalTime()
	return dto
}
