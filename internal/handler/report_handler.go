package handler

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/medpredict/alert-service/internal/objectstore"
	"go.uber.org/zap"
)

const defaultPresignExpiry = 15 * time.Minute

// ReportHandler exposes the S3-backed report bucket.
type ReportHandler struct {
	store  objectstore.ReportStore
	logger *zap.Logger
}

func NewReportHandler(store objectstore.ReportStore, logger *zap.Logger) (*ReportHandler, error) {
	if store == nil {
		return nil, fmt.Errorf("report store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{store: store, logger: logger}, nil
}

func RegisterReportRoutes(router fiber.Router, store objectstore.ReportStore, logger *zap.Logger) error {
	h, err := NewReportHandler(store, logger)
	if err != nil {
		return err
	}

	reports := router.Group("/reports")
	reports.Post("/upload", h.Upload)
	reports.Get("/list", h.List)
	reports.Delete("/delete", h.Delete)
	reports.Get("/presign", h.Presign)

	return nil
}

func (h *ReportHandler) Upload(c *fiber.Ctx) error {
	header, err := c.FormFile(uploadFieldName)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "report file is required")
	}

	key := sanitizeReportKey(header.Filename)
	if !strings.HasSuffix(strings.ToLower(key), ".pdf") {
		return fiber.NewError(fiber.StatusBadRequest, "only PDF reports can be uploaded")
	}

	file, err := header.Open()
	if err != nil {
		return fmt.Errorf("open uploaded report: %w", err)
	}
	defer file.Close()

	object, err := h.store.Upload(c.Context(), key, file, header.Size, "application/pdf")
	if err != nil {
		h.logger.Error("report upload failed", zap.String("key", key), zap.Error(err))
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(object)
}

func (h *ReportHandler) List(c *fiber.Ctx) error {
	objects, err := h.store.List(c.Context())
	if err != nil {
		h.logger.Error("report listing failed", zap.Error(err))
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"reports": objects,
		"count":   len(objects),
	})
}

func (h *ReportHandler) Delete(c *fiber.Ctx) error {
	key := strings.TrimSpace(c.Query("key"))
	if key == "" {
		return fiber.NewError(fiber.StatusBadRequest, "key query parameter is required")
	}

	if err := h.store.Delete(c.Context(), key); err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"deleted": key,
	})
}

func (h *ReportHandler) Presign(c *fiber.Ctx) error {
	key := strings.TrimSpace(c.Query("key"))
	if key == "" {
		return fiber.NewError(fiber.StatusBadRequest, "key query parameter is required")
	}

	disposition := objectstore.Disposition(c.Query("disposition", string(objectstore.DispositionInline)))

	url, err := h.store.PresignGet(c.Context(), key, disposition, defaultPresignExpiry)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"url": url,
	})
}

// sanitizeReportKey strips any path component and whitespace from a client
// supplied filename so it is safe as an object key.
func sanitizeReportKey(filename string) string {
	base := filepath.Base(strings.TrimSpace(filename))
	base = strings.ReplaceAll(base, " ", "_")
	return base
}
