package handler

import (
	"github.com/gofiber/fiber/v2"

	"awdtrack/internal/http/middleware"
	"awdtrack/internal/model"
	"awdtrack/internal/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionOf returns the session stored by middleware.Authenticate. Routes
// that call it are always mounted behind that middleware.
func sessionOf(c *fiber.Ctx) model.Session {
	sess, _ := middleware.SessionFrom(c)
	return sess
}

// Login exchanges credentials for a bearer token.
//
// @Summary  Log in
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body loginRequest true "Credentials"
// @Success  200 {object} service.LoginResult
// @Failure  401 {object} errorPayload
// @Router   /api/v1/auth/login [post]
func Login(svc service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		res, err := svc.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// Logout ends the current session.
//
// @Summary  Log out
// @Tags     auth
// @Security BearerAuth
// @Success  204
// @Router   /api/v1/auth/logout [post]
func Logout(svc service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Logout(c.UserContext(), sessionOf(c)); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// VerifySession returns the session behind the bearer token.
//
// @Summary  Current session
// @Tags     auth
// @Security BearerAuth
// @Produce  json
// @Success  200 {object} model.Session
// @Failure  401 {object} errorPayload
// @Router   /api/v1/auth/verify [get]
func VerifySession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(sessionOf(c))
	}
}
