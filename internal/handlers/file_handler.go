package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/arzan03/pdftoolbox/internal/services"
)

type FileHandler struct {
	ledger  services.Ledger
	process *services.ProcessService
}

func NewFileHandler(ledger services.Ledger, process *services.ProcessService) *FileHandler {
	return &FileHandler{ledger: ledger, process: process}
}

// List returns the caller's files, newest first, capped at 50.
func (h *FileHandler) List(c *fiber.Ctx) error {
	owner, _ := c.Locals("user_id").(string)

	records, err := h.ledger.ListByOwner(c.Context(), owner, 50)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"files": records})
}

// Download streams the bytes of one owned file. Unknown, reaped and
// foreign records all read as 404.
func (h *FileHandler) Download(c *fiber.Ctx) error {
	owner, _ := c.Locals("user_id").(string)
	id := c.Params("id")

	record, data, err := h.process.Download(c.Context(), id, owner)
	if err != nil {
		return fail(c, err)
	}

	c.Set(fiber.HeaderContentType, record.ToolType.ContentType())
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", record.ToolType.OutputName()))
	return c.Send(data)
}
