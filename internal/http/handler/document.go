package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"awdtrack/internal/model"
	"awdtrack/internal/service"
)

type returnRequest struct {
	IDs     []string   `json:"ids"`
	Target  model.Role `json:"target"`
	Remarks string     `json:"remarks"`
}

type purgeRequest struct {
	References []string `json:"references"`
}

type badRequest struct {
	code    string
	message string
}

// parseListQuery reads listing filters from the query string:
// status (comma separated), forwardedTo, division, q, year, sort, order, limit, offset.
func parseListQuery(c *fiber.Ctx) (service.ListQuery, *badRequest) {
	var q service.ListQuery
	var err error

	if q.Limit, err = strconv.Atoi(c.Query("limit", "10")); err != nil {
		return q, &badRequest{"INVALID_LIMIT", "invalid limit"}
	}
	if q.Offset, err = strconv.Atoi(c.Query("offset", "0")); err != nil {
		return q, &badRequest{"INVALID_OFFSET", "invalid offset"}
	}
	if y := c.Query("year"); y != "" {
		if q.Year, err = strconv.Atoi(y); err != nil || q.Year < 0 {
			return q, &badRequest{"INVALID_YEAR", "invalid year"}
		}
	}
	for _, s := range strings.Split(c.Query("status"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			q.Status = append(q.Status, model.Status(s))
		}
	}
	q.ForwardedTo = model.Role(c.Query("forwardedTo"))
	q.Division = model.Role(c.Query("division"))
	q.Search = c.Query("q")
	q.SortBy = c.Query("sort")
	switch strings.ToLower(c.Query("order")) {
	case "", "desc":
		q.SortDesc = true
	case "asc":
		q.SortDesc = false
	default:
		return q, &badRequest{"INVALID_ORDER", "order must be asc or desc"}
	}
	return q, nil
}

func validID(c *fiber.Ctx, name string) (string, bool) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// ListDocuments returns a page of documents visible to the caller.
//
// @Summary  List documents
// @Tags     documents
// @Security BearerAuth
// @Produce  json
// @Param    status      query string false "Comma separated statuses"
// @Param    forwardedTo query string false "Current holder"
// @Param    division    query string false "Division"
// @Param    q           query string false "Search reference, subject, office, FSIS number"
// @Param    year        query int    false "Reference year"
// @Param    sort        query string false "Sort column"
// @Param    order       query string false "asc or desc"
// @Param    limit       query int    false "Page size" default(10)
// @Param    offset      query int    false "Offset" default(0)
// @Success  200 {object} service.DocumentListResult
// @Failure  400 {object} errorPayload
// @Router   /api/v1/documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, br := parseListQuery(c)
		if br != nil {
			return writeError(c, fiber.StatusBadRequest, br.code, br.message)
		}
		res, err := svc.List(c.UserContext(), sessionOf(c), q)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// CreateDocument registers a document at intake.
//
// @Summary  Register a document
// @Tags     documents
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    body body service.CreateDocumentInput true "Intake form"
// @Success  201 {object} service.DocumentView
// @Failure  400 {object} errorPayload
// @Failure  409 {object} errorPayload
// @Router   /api/v1/documents [post]
func CreateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreateDocumentInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		doc, err := svc.Create(c.UserContext(), sessionOf(c), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// NextReference previews the next AWD reference number.
//
// @Summary  Next reference number
// @Tags     documents
// @Security BearerAuth
// @Produce  json
// @Success  200 {object} map[string]string
// @Router   /api/v1/documents/next-reference [get]
func NextReference(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ref, err := svc.NextReference(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"awdReferenceNumber": ref})
	}
}

// GetDocument returns one document with its badge and available actions.
//
// @Summary  Get a document
// @Tags     documents
// @Security BearerAuth
// @Produce  json
// @Param    id path string true "Document ID"
// @Success  200 {object} service.DocumentView
// @Failure  404 {object} errorPayload
// @Router   /api/v1/documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Get(c.UserContext(), sessionOf(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DocumentHistory returns the tracking entries of a document, oldest first.
//
// @Summary  Document history
// @Tags     documents
// @Security BearerAuth
// @Produce  json
// @Param    id path string true "Document ID"
// @Success  200 {array} model.TrackingEntry
// @Failure  404 {object} errorPayload
// @Router   /api/v1/documents/{id}/history [get]
func DocumentHistory(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		entries, err := svc.History(c.UserContext(), sessionOf(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(entries)
	}
}

// ApplyAction runs one routing action on a document.
//
// @Summary  Apply a routing action
// @Tags     documents
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    id   path string              true "Document ID"
// @Param    body body service.ActionInput true "Action"
// @Success  200 {object} service.DocumentView
// @Failure  400 {object} errorPayload
// @Failure  403 {object} errorPayload
// @Failure  409 {object} errorPayload
// @Router   /api/v1/documents/{id}/actions [post]
func ApplyAction(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var in service.ActionInput
		if err := c.BodyParser(&in); err != nil || in.Action == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "action is required")
		}
		doc, err := svc.ApplyAction(c.UserContext(), sessionOf(c), id, in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// ReturnDocuments sends closed documents back with remarks. Each document
// succeeds or fails on its own.
//
// @Summary  Bulk return closed documents
// @Tags     documents
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    body body returnRequest true "Documents, target and remarks"
// @Success  200 {object} service.BulkResult
// @Success  207 {object} service.BulkResult "Some items failed"
// @Failure  400 {object} errorPayload
// @Router   /api/v1/documents/return [post]
func ReturnDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req returnRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		res, err := svc.ReturnClosed(c.UserContext(), sessionOf(c), req.IDs, req.Target, req.Remarks)
		if err != nil {
			return writeServiceError(c, err)
		}
		return writeBulk(c, res)
	}
}

// PurgeDocuments hard-deletes documents by reference number.
//
// @Summary  Purge documents
// @Tags     documents
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    body body purgeRequest true "Reference numbers"
// @Success  200 {object} service.BulkResult
// @Success  207 {object} service.BulkResult "Some items failed"
// @Failure  403 {object} errorPayload
// @Router   /api/v1/documents/purge [post]
func PurgeDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req purgeRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		res, err := svc.Purge(c.UserContext(), sessionOf(c), req.References)
		if err != nil {
			return writeServiceError(c, err)
		}
		return writeBulk(c, res)
	}
}

// writeBulk answers 207 Multi-Status when any item failed.
func writeBulk(c *fiber.Ctx, res *service.BulkResult) error {
	if len(res.Failed) > 0 {
		return c.Status(fiber.StatusMultiStatus).JSON(res)
	}
	return c.JSON(res)
}
