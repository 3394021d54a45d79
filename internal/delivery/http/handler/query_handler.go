package handler

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"promptlab-api/internal/delivery/http/dto"
	"promptlab-api/internal/domain/entity"
	"promptlab-api/internal/usecase/rag"
)

var allowedMimeTypes = []string{"application/pdf", "text/plain"}

type QueryHandler struct {
	ragUsecase  *rag.RagUsecase
	maxFileSize int64
}

func NewQueryHandler(ragUsecase *rag.RagUsecase, maxFileSize int64) *QueryHandler {
	return &QueryHandler{ragUsecase: ragUsecase, maxFileSize: maxFileSize}
}

// Query godoc
// @Summary      Ask a question about a document
// @Description  Upload a PDF or TXT file and get an answer grounded in its content
// @Tags         Query
// @Accept       multipart/form-data
// @Produce      json
// @Param        X-User-ID  header    string  true  "User identifier"
// @Param        document   formData  file    true  "PDF or TXT file"
// @Param        question   formData  string  true  "Question about the document"
// @Success      200  {object}  dto.QueryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      413  {object}  dto.ErrorResponse
// @Failure      415  {object}  dto.ErrorResponse
// @Router       /api/query [post]
func (h *QueryHandler) Query(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	question := strings.TrimSpace(c.FormValue("question"))
	if question == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Question is required and cannot be empty")
	}

	file, err := c.FormFile("document")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Document file is required")
	}

	if file.Size > h.maxFileSize {
		return errorJSON(c, fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("File size exceeds maximum allowed size of %dMB", h.maxFileSize/1024/1024))
	}

	if !allowedMime(file.Header.Get("Content-Type")) {
		return errorJSON(c, fiber.StatusUnsupportedMediaType, "Only PDF and TXT files are allowed")
	}

	fileData, err := file.Open()
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "failed to open file")
	}
	defer fileData.Close()

	buf, err := io.ReadAll(fileData)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "failed to read file")
	}

	result, err := h.ragUsecase.ProcessAndQuery(c.Context(), userID, file.Filename, buf, question)
	if err != nil {
		return errorJSON(c, statusFor(err), fmt.Sprintf("Failed to process query: %v", err))
	}

	return c.Status(fiber.StatusOK).JSON(dto.QueryResponse{
		Success: true,
		Data:    result,
	})
}

// Cleanup godoc
// @Summary      Delete old documents
// @Description  Delete the user's indexed chunks older than the given number of days
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        X-User-ID  header  string              true   "User identifier"
// @Param        body       body    dto.CleanupRequest  false  "Retention threshold in days"
// @Success      200  {object}  dto.CleanupResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/query/cleanup [delete]
func (h *QueryHandler) Cleanup(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	var req dto.CleanupRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}

	deleted, err := h.ragUsecase.CleanupOldDocuments(c.Context(), userID, req.OlderThanDays)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, fmt.Sprintf("Failed to cleanup documents: %v", err))
	}

	return c.Status(fiber.StatusOK).JSON(dto.CleanupResponse{
		Success: true,
		Deleted: deleted,
		Message: "Cleanup completed",
	})
}

func allowedMime(mimeType string) bool {
	// text/plain may carry a charset parameter
	for _, allowed := range allowedMimeTypes {
		if mimeType == allowed || strings.HasPrefix(mimeType, allowed+";") {
			return true
		}
	}
	return false
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrUnsupportedFileType):
		return fiber.StatusUnsupportedMediaType
	case errors.Is(err, entity.ErrExtractionFailed), errors.Is(err, entity.ErrNoContent):
		return fiber.StatusBadRequest
	case errors.Is(err, entity.ErrIndexingFailed), errors.Is(err, entity.ErrRetrievalFailed):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Success: false, Error: message})
}
