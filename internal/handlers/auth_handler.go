package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/arzan03/pdftoolbox/internal/models"
	"github.com/arzan03/pdftoolbox/internal/services"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var request struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if request.Email == "" || request.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email and password are required"})
	}

	user, token, err := h.auth.Register(c.Context(), request.Name, request.Email, request.Password)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user, "token": token})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	user, token, err := h.auth.Login(c.Context(), request.Email, request.Password)
	if err != nil {
		// Bad credentials surface as a plain bad request, not 401,
		// so the response never hints at which field was wrong.
		if errors.Is(err, models.ErrUnauthorized) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid credentials"})
		}
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"user": user, "token": token})
}

func (h *AuthHandler) Validate(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	user, err := h.auth.Validate(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}
