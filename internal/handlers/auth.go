package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/foxxcyber/receipt-feed/internal/database"
	"github.com/foxxcyber/receipt-feed/internal/logger"
	"github.com/foxxcyber/receipt-feed/internal/middleware"
	"github.com/foxxcyber/receipt-feed/internal/models"
)

// Register handles user registration
func (h *Handler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := validate.Struct(&req); err != nil {
		if field, _ := firstInvalid(err); field == "email" {
			return Error(c, fiber.StatusBadRequest, "invalid email format")
		}
		return Error(c, fiber.StatusBadRequest, "password must be between 8 and 72 characters")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return serverError(c, "failed to process password", err)
	}

	user, err := h.db.CreateUser(c.Context(), req.Email, string(hashedPassword))
	if err != nil {
		if errors.Is(err, database.ErrEmailExists) {
			return Error(c, fiber.StatusConflict, "email already registered")
		}
		return serverError(c, "failed to create user", err)
	}

	token, err := middleware.IssueToken(h.cfg, user.ID, user.Email)
	if err != nil {
		return serverError(c, "failed to generate token", err)
	}

	logger.Info("User registered", "user_id", user.ID)
	return c.Status(fiber.StatusCreated).JSON(models.AuthResponse{
		Token: token,
		User:  user,
	})
}

// Login handles user authentication
func (h *Handler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Email == "" || req.Password == "" {
		return Error(c, fiber.StatusBadRequest, "email and password are required")
	}

	user, err := h.db.GetUserByEmail(c.Context(), req.Email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return Error(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		return serverError(c, "authentication failed", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return Error(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	if err := h.db.UpdateLastLogin(c.Context(), user.ID); err != nil {
		logger.Warn("Failed to update last login", "user_id", user.ID, "error", err)
	}

	token, err := middleware.IssueToken(h.cfg, user.ID, user.Email)
	if err != nil {
		return serverError(c, "failed to generate token", err)
	}

	return c.JSON(models.AuthResponse{
		Token: token,
		User:  user,
	})
}

// Logout handles user logout. Tokens are dropped client-side.
func (h *Handler) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "logged out successfully",
	})
}

// GetCurrentUser returns the currently authenticated user
func (h *Handler) GetCurrentUser(c *fiber.Ctx) error {
	user, err := h.db.GetUserByID(c.Context(), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return Error(c, fiber.StatusNotFound, "user not found")
		}
		return serverError(c, "failed to get user", err)
	}

	return Success(c, user)
}
