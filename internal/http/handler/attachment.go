package handler

import (
	"mime"

	"github.com/gofiber/fiber/v2"

	"awdtrack/internal/service"
)

// UploadAttachment stores a file for a document (multipart/form-data, field name: file).
//
// @Summary  Upload an attachment
// @Tags     attachments
// @Security BearerAuth
// @Accept   mpfd
// @Produce  json
// @Param    id   path     string true "Document ID"
// @Param    file formData file   true "File"
// @Success  201 {object} model.Attachment
// @Failure  400 {object} errorPayload
// @Router   /api/v1/documents/{id}/attachments [post]
func UploadAttachment(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		att, err := svc.AddAttachment(c.UserContext(), sessionOf(c), id, service.Upload{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(att)
	}
}

// ListAttachments returns attachment metadata with presigned download URLs.
//
// @Summary  List attachments
// @Tags     attachments
// @Security BearerAuth
// @Produce  json
// @Param    id path string true "Document ID"
// @Success  200 {array} service.AttachmentView
// @Router   /api/v1/documents/{id}/attachments [get]
func ListAttachments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		atts, err := svc.ListAttachments(c.UserContext(), sessionOf(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(atts)
	}
}

// DownloadAttachment streams an attachment through the API.
//
// @Summary  Download an attachment
// @Tags     attachments
// @Security BearerAuth
// @Produce  octet-stream
// @Param    id           path string true "Document ID"
// @Param    attachmentId path string true "Attachment ID"
// @Success  200 {file} file
// @Failure  404 {object} errorPayload
// @Router   /api/v1/documents/{id}/attachments/{attachmentId} [get]
func DownloadAttachment(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		attID, ok2 := validID(c, "attachmentId")
		if !ok || !ok2 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		att, err := svc.OpenAttachment(c.UserContext(), sessionOf(c), id, attID)
		if err != nil {
			return writeServiceError(c, err)
		}

		ct := att.Attachment.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		c.Set(fiber.HeaderContentType, ct)
		c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": att.Attachment.Filename}))
		size := int(att.Size)
		if size <= 0 {
			size = -1
		}
		// fasthttp closes the stream once the body is written.
		return c.SendStream(att, size)
	}
}

// DeleteAttachment removes an attachment from storage and the database.
//
// @Summary  Delete an attachment
// @Tags     attachments
// @Security BearerAuth
// @Param    id           path string true "Document ID"
// @Param    attachmentId path string true "Attachment ID"
// @Success  204
// @Failure  404 {object} errorPayload
// @Router   /api/v1/documents/{id}/attachments/{attachmentId} [delete]
func DeleteAttachment(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		attID, ok2 := validID(c, "attachmentId")
		if !ok || !ok2 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.DeleteAttachment(c.UserContext(), sessionOf(c), id, attID); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
