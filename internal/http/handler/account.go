package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"awdtrack/internal/service"
)

// ListAccounts returns a page of accounts.
//
// @Summary  List accounts
// @Tags     accounts
// @Security BearerAuth
// @Produce  json
// @Param    limit  query int false "Page size" default(10)
// @Param    offset query int false "Offset" default(0)
// @Success  200 {object} service.AccountListResult
// @Router   /api/v1/accounts [get]
func ListAccounts(svc service.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		res, err := svc.List(c.UserContext(), sessionOf(c), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// CreateAccount registers a login identity.
//
// @Summary  Create an account
// @Tags     accounts
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    body body service.AccountInput true "Account"
// @Success  201 {object} model.Account
// @Failure  409 {object} errorPayload
// @Router   /api/v1/accounts [post]
func CreateAccount(svc service.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.AccountInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		acc, err := svc.Create(c.UserContext(), sessionOf(c), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(acc)
	}
}

// GetAccount returns one account.
//
// @Summary  Get an account
// @Tags     accounts
// @Security BearerAuth
// @Produce  json
// @Param    id path string true "Account ID"
// @Success  200 {object} model.Account
// @Failure  404 {object} errorPayload
// @Router   /api/v1/accounts/{id} [get]
func GetAccount(svc service.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		acc, err := svc.Get(c.UserContext(), sessionOf(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(acc)
	}
}

// UpdateAccount changes name, email, division and optionally the password.
//
// @Summary  Update an account
// @Tags     accounts
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    id   path string               true "Account ID"
// @Param    body body service.AccountInput true "Account"
// @Success  200 {object} model.Account
// @Router   /api/v1/accounts/{id} [put]
func UpdateAccount(svc service.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var in service.AccountInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		acc, err := svc.Update(c.UserContext(), sessionOf(c), id, in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(acc)
	}
}

// DeleteAccount removes an account.
//
// @Summary  Delete an account
// @Tags     accounts
// @Security BearerAuth
// @Param    id path string true "Account ID"
// @Success  204
// @Router   /api/v1/accounts/{id} [delete]
func DeleteAccount(svc service.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), sessionOf(c), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
