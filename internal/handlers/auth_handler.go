package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/Felixnganga-max/kamson/internal/models"
)

type AuthAPI interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
}

type AuthHandler struct {
	svc AuthAPI
}

func NewAuthHandler(svc AuthAPI) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type credentialsBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var body credentialsBody
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	u, err := h.svc.Register(c.Context(), body.Name, body.Email, body.Password)
	if err != nil {
		return err
	}
	return Success(c, fiber.StatusCreated, fiber.Map{"user": u})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body credentialsBody
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	token, u, err := h.svc.Login(c.Context(), body.Email, body.Password)
	if err != nil {
		return err
	}
	return Success(c, fiber.StatusOK, fiber.Map{"token": token, "user": u})
}

// GET /api/auth/user (behind the auth middleware)
func (h *AuthHandler) CurrentUser(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "User authenticated",
		"userId":  c.Locals("userID"),
	})
}
