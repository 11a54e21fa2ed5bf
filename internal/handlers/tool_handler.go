package handlers

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/arzan03/pdftoolbox/internal/models"
	"github.com/arzan03/pdftoolbox/internal/services"
)

// ToolHandler serves every tool endpoint through one parameterized
// code path instead of one handler per tool.
type ToolHandler struct {
	process *services.ProcessService
}

func NewToolHandler(process *services.ProcessService) *ToolHandler {
	return &ToolHandler{process: process}
}

// Handle returns the fiber handler for one tool type.
func (h *ToolHandler) Handle(tool models.ToolType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, _ := c.Locals("user_id").(string)

		uploads, err := readUploads(c)
		if err != nil {
			return fail(c, err)
		}

		result, err := h.process.Process(c.Context(), owner, tool, uploads)
		if err != nil {
			return fail(c, err)
		}

		// Anonymous results are one-shot: the bytes are already in
		// hand, so the record and blob go away before delivery. The
		// reaper catches anything this best-effort pass misses.
		if owner == "" {
			h.process.DiscardOneShot(c.Context(), result.Record)
		} else {
			c.Set("X-File-Id", result.Record.ID.Hex())
		}

		c.Set(fiber.HeaderContentType, result.ContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", result.Filename))
		return c.Send(result.Data)
	}
}

// readUploads decodes the multipart form. Both the multi-file "files"
// field and the single-file "file" field are accepted.
func readUploads(c *fiber.Ctx) ([]services.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("%w: expected multipart form upload", models.ErrValidation)
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		headers = form.File["file"]
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("%w: no file uploaded", models.ErrValidation)
	}

	uploads := make([]services.Upload, 0, len(headers))
	for _, header := range headers {
		data, err := readUpload(header)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, services.Upload{Name: header.Filename, Data: data})
	}
	return uploads, nil
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s", models.ErrValidation, header.Filename)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s", models.ErrValidation, header.Filename)
	}
	return data, nil
}
