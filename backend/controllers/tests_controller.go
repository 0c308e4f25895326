package controllers

import (
	"log"

	"quizserver/backend/middleware"
	"quizserver/backend/models"
	"quizserver/backend/services"
	"quizserver/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type TestsController struct {
	Tests   *services.TestService
	Scoring *services.ScoringService
	Results *services.ResultsService
	Logger  *log.Logger
}

func NewTestsController(tests *services.TestService, scoring *services.ScoringService, results *services.ResultsService, logger *log.Logger) *TestsController {
	return &TestsController{Tests: tests, Scoring: scoring, Results: results, Logger: logger}
}

// CreateTest godoc
// @Summary Create a test
// @Description Creates an empty ACTIVE test. A missing testCode is generated.
// @Tags tests
// @Accept json
// @Produce json
// @Param input body services.CreateTestInput true "Test data"
// @Success 201 {object} models.TestDTO
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /test [post]
func (tc *TestsController) CreateTest(c *fiber.Ctx) error {
	var input services.CreateTestInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	test, err := tc.Tests.CreateTest(c.UserContext(), input)
	if err != nil {
		return respondError(c, tc.Logger, err)
	}
	return utils.Created(c, test)
}

// AddQuestion godoc
// @Summary Add a question to a test
// @Tags tests
// @Accept json
// @Produce json
// @Param input body models.QuestionDTO true "Question data"
// @Success 201 {object} models.QuestionDTO
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /test/question [post]
func (tc *TestsController) AddQuestion(c *fiber.Ctx) error {
	var input models.QuestionDTO
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	question, err := tc.Tests.AddQuestion(c.UserContext(), input)
	if err != nil {
		return respondError(c, tc.Logger, err)
	}
	return utils.Created(c, question)
}

// GetActiveTests godoc
// @Summary List active tests
// @Description time is the total for the test, per-question time × question count
// @Tags tests
// @Produce json
// @Success 200 {array} models.TestDTO
// @Security ApiKeyAuth
// @Router /test [get]
func (tc *TestsController) GetActiveTests(c *fiber.Ctx) error {
	tests, err := tc.Tests.ListActiveTests(c.UserContext())
	if err != nil {
		return respondError(c, tc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, tests)
}

// GetAllTests godoc
// @Summary List all tests, cancelled included
// @Tags tests
// @Produce json
// @Success 200 {array} models.TestDTO
// @Security ApiKeyAuth
// @Router /test/admin/all [get]
func (tc *TestsController) GetAllTests(c *fiber.Ctx) error {
	tests, err := tc.Tests.ListAllTests(c.UserContext())
	if err != nil {
		return respondError(c, tc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, tests)
}

// GetTestDetails godoc
// @Summary Get a test with its questions
// @Description Correct options are only returned to administrators
// @Tags tests
// @Produce json
// @Param id path int true "Test ID"
// @Success 200 {object} models.TestDetailsDTO
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /test/{id} [get]
func (tc *TestsController) GetTestDetails(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid test ID")
	}

	details, err := tc.Tests.GetTestDetails(c.UserContext(), id)
	if err != nil {
		return respondError(c, tc.Logger, err)
	}
	// Ответы видит только администратор
	if !middleware.IsAdmin(c) {
		hidden := details.WithoutAnswers()
		details = &hidden
	}
	return utils.Success(c, fiber.StatusOK, details)
}

// SubmitTest godoc
// @Summary Submit answers for scoring
// @Description userId defaults to the caller. Only admins may submit for someone else.
// @Tags tests
// @Accept json
// @Produce json
// @Param input body models.SubmitTestDTO true "Answers"
// @Success 201 {object} models.TestResultDTO
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 429 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /test/submit-test [post]
func (tc *TestsController) SubmitTest(c *fiber.Ctx) error {
	var input models.SubmitTestDTO
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	callerID := middleware.CurrentUserID(c)
	switch {
	case input.UserID == 0:
		input.UserID = callerID
	case input.UserID != callerID && !middleware.IsAdmin(c):
		return utils.Forbidden(c, "Cannot submit on behalf of another user")
	}

	result, err := tc.Scoring.SubmitTest(c.UserContext(), input)
	if err != nil {
		return respondError(c, tc.Logger, err)
	}
	return utils.Created(c, result)
}

// GetAllResults godoc
// @Summary List every result
// @Tags results
// @Produce json
// @Success 200 {array} models.TestResultDTO
// @Security ApiKeyAuth
// @Router /test/test-result [get]
func (tc *TestsController) GetAllResults(c *fiber.Ctx) error {
	results, err := tc.Results.ListAllResults(c.UserContext())
	if err != nil {
		return respondError(c, tc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, results)
}

// GetUserResults godoc
// @Summary List a user's results
// @Description Users may read only their own results; admins may read anyone's.
// @Tags results
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.TestResultDTO
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /test/test-result/{id} [get]
func (tc *TestsController) GetUserResults(c *fiber.Ctx) error {
	userID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid user ID")
	}
	if userID != middleware.CurrentUserID(c) && !middleware.IsAdmin(c) {
		return utils.Forbidden(c, "Cannot read another user's results")
	}

	results, err := tc.Results.ListResultsForUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, tc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, results)
}

// GetTestResults godoc
// @Summary List the results of one test
// @Tags results
// @Produce json
// @Param id path int true "Test ID"
// @Success 200 {array} models.TestResultDTO
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /test/{id}/results [get]
func (tc *TestsController) GetTestResults(c *fiber.Ctx) error {
	testID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid test ID")
	}

	results, err := tc.Results.ListResultsForTest(c.UserContext(), testID)
	if err != nil {
		return respondError(c, tc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, results)
}

// CancelTest godoc
// @Summary Cancel a test
// @Tags tests
// @Produce json
// @Param id path int true "Test ID"
// @Success 200 {object} models.TestDTO
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /test/cancel/{id} [post]
func (tc *TestsController) CancelTest(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid test ID")
	}

	test, err := tc.Tests.CancelTest(c.UserContext(), id)
	if err != nil {
		return respondError(c, tc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, test)
}

// ActivateTest godoc
// @Summary Activate a test
// @Tags tests
// @Produce json
// @Param id path int true "Test ID"
// @Success 200 {object} models.TestDTO
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /test/activate/{id} [post]
func (tc *TestsController) ActivateTest(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid test ID")
	}

	test, err := tc.Tests.ActivateTest(c.UserContext(), id)
	if err != nil {
		return respondError(c, tc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, test)
}

// GetTestByCode godoc
// @Summary Join a test by its code
// @Description Cancelled tests answer 422.
// @Tags tests
// @Produce json
// @Param code path string true "Test code"
// @Success 200 {object} models.TestDTO
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /test/code/{code} [get]
func (tc *TestsController) GetTestByCode(c *fiber.Ctx) error {
	test, err := tc.Tests.GetTestByCode(c.UserContext(), c.Params("code"))
	if err != nil {
		return respondError(c, tc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, test)
}
