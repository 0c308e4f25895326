package routes

import (
	"log"
	"time"

	"quizserver/backend/config"
	"quizserver/backend/controllers"
	"quizserver/backend/middleware"
	"quizserver/backend/repository"
	"quizserver/backend/services"
	"quizserver/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupRoutes wires stores, services and controllers onto app. rdb may be nil, which
// leaves the leaderboard on the database.
func SetupRoutes(app *fiber.App, db *gorm.DB, rdb *redis.Client, cfg *config.Config, logger *log.Logger) {
	testStore := repository.NewTestStore(db)
	questionStore := repository.NewQuestionStore(db)
	resultStore := repository.NewResultStore(db)
	userStore := repository.NewUserStore(db)

	var board services.ScoreBoard
	if rdb != nil {
		board = repository.NewLeaderboardCache(rdb)
	}

	codes := services.NewCodeGenerator(testStore, cfg.CodeMaxAttempts)
	testService := services.NewTestService(testStore, questionStore, codes, logger)
	scoringService := services.NewScoringService(testStore, questionStore, resultStore, userStore, board, logger)
	resultsService := services.NewResultsService(resultStore, testStore, userStore)
	leaderboardService := services.NewLeaderboardService(testStore, resultStore, userStore, board, logger)

	// Health
	healthController := controllers.NewHealthController(db, rdb)
	app.Get("/api/health", healthController.Health)

	// Auth routes
	authController := controllers.NewAuthController(userStore, cfg, logger)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(userStore)
	submitLimiter := limiter.New(limiter.Config{
		Max:          cfg.SubmitRateLimit,
		Expiration:   time.Minute,
		KeyGenerator: middleware.RateLimitKeyByUser,
		LimitReached: func(c *fiber.Ctx) error {
			return utils.Error(c, fiber.StatusTooManyRequests, "Too many submissions. Please try again later.")
		},
	})

	// User routes
	userController := controllers.NewUserController(userStore, resultsService, logger)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)

	// Tests routes; literal paths go before /:id
	testsController := controllers.NewTestsController(testService, scoringService, resultsService, logger)
	analyticsController := controllers.NewAnalyticsController(leaderboardService, logger)
	tests := app.Group("/api/test", authMiddleware)
	tests.Post("/", adminMiddleware, testsController.CreateTest)
	tests.Post("/question", adminMiddleware, testsController.AddQuestion)
	tests.Post("/submit-test", submitLimiter, testsController.SubmitTest)
	tests.Post("/cancel/:id", adminMiddleware, testsController.CancelTest)
	tests.Post("/activate/:id", adminMiddleware, testsController.ActivateTest)
	tests.Get("/", testsController.GetActiveTests)
	tests.Get("/admin/all", adminMiddleware, testsController.GetAllTests)
	tests.Get("/test-result", adminMiddleware, testsController.GetAllResults)
	tests.Get("/test-result/:id", testsController.GetUserResults)
	tests.Get("/code/:code", testsController.GetTestByCode)
	tests.Get("/leaderboard/:id", analyticsController.GetLeaderboard)
	tests.Get("/:id/results", adminMiddleware, testsController.GetTestResults)
	tests.Get("/:id/analytics", adminMiddleware, analyticsController.GetTestAnalytics)
	tests.Get("/:id", testsController.GetTestDetails)
}
