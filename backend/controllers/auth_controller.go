package controllers

import (
	"errors"
	"log"
	"strings"

	"quizserver/backend/config"
	"quizserver/backend/models"
	"quizserver/backend/repository"
	"quizserver/backend/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type AuthController struct {
	Users  repository.UserStore
	Cfg    *config.Config
	Logger *log.Logger
}

func NewAuthController(users repository.UserStore, cfg *config.Config, logger *log.Logger) *AuthController {
	return &AuthController{Users: users, Cfg: cfg, Logger: logger}
}

type RegisterRequest struct {
	Name     string `json:"name" example:"alice"`
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"secret123" minLength:"6"`
	Role     string `json:"role" example:"USER" enums:"ADMIN,USER"`
}

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Register godoc
// @Summary Register a new user
// @Description Creates a new user account and returns a token
// @Tags auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "User registration data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input RegisterRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if input.Name == "" || input.Email == "" {
		return utils.BadRequest(c, "Name and email are required")
	}
	if len(input.Password) < minPasswordLength {
		return utils.BadRequest(c, "Password is too short")
	}

	role := strings.ToUpper(strings.TrimSpace(input.Role))
	switch role {
	case "":
		role = models.RoleUser
	case models.RoleAdmin, models.RoleUser:
	default:
		return utils.BadRequest(c, "Role must be ADMIN or USER")
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash password")
	}

	user := models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}
	if err := ac.Users.Create(c.UserContext(), &user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return utils.Conflict(c, "Name or email already registered")
		}
		ac.Logger.Printf("Register failed: %v", err)
		return utils.InternalServerError(c, "Could not create user")
	}

	return ac.respondWithToken(c, &user)
}

// Login godoc
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input LoginRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	// Find user
	user, err := ac.Users.FindByName(c.UserContext(), strings.TrimSpace(input.Name))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.Unauthorized(c, "Invalid credentials")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	// Check password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return utils.Unauthorized(c, "Invalid credentials")
	}

	return ac.respondWithToken(c, user)
}

func (ac *AuthController) respondWithToken(c *fiber.Ctx, user *models.User) error {
	token, err := utils.GenerateJWTToken(user.ID, user.Role, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user.ToDTO(),
	})
}
