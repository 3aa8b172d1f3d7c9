package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/medpredict/alert-service/internal/predict"
	"go.uber.org/zap"
)

// Predictor is the slice of the prediction client the routes need.
type Predictor interface {
	Predict(ctx context.Context, deviceID string) (*predict.Prediction, error)
	Device(ctx context.Context, id string) (*predict.Device, error)
	CompanyDetails(ctx context.Context, id string) (*predict.Company, error)
	SampleDevices(ctx context.Context) ([]predict.Device, error)
	SearchDevices(ctx context.Context, query string) ([]predict.Device, error)
}

// PredictHandler proxies the prediction API for the dashboard.
type PredictHandler struct {
	client Predictor
	logger *zap.Logger
}

func NewPredictHandler(client Predictor, logger *zap.Logger) (*PredictHandler, error) {
	if client == nil {
		return nil, fmt.Errorf("prediction client is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PredictHandler{client: client, logger: logger}, nil
}

func RegisterPredictRoutes(router fiber.Router, client Predictor, logger *zap.Logger) error {
	h, err := NewPredictHandler(client, logger)
	if err != nil {
		return err
	}

	router.Get("/predict/:deviceId", h.Predict)
	// Static segments before the id wildcard so "sample" and "search" are
	// never captured as device ids.
	router.Get("/devices/sample", h.SampleDevices)
	router.Get("/devices/search", h.SearchDevices)
	router.Get("/devices/:id", h.Device)
	router.Get("/company/:id/details", h.CompanyDetails)

	return nil
}

func (h *PredictHandler) Predict(c *fiber.Ctx) error {
	deviceID := strings.TrimSpace(c.Params("deviceId"))

	prediction, err := h.client.Predict(c.Context(), deviceID)
	if err != nil {
		h.logger.Warn("prediction request failed",
			zap.String("deviceId", deviceID),
			zap.Error(err),
		)
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(prediction)
}

func (h *PredictHandler) Device(c *fiber.Ctx) error {
	device, err := h.client.Device(c.Context(), strings.TrimSpace(c.Params("id")))
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(device)
}

func (h *PredictHandler) CompanyDetails(c *fiber.Ctx) error {
	company, err := h.client.CompanyDetails(c.Context(), strings.TrimSpace(c.Params("id")))
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(company)
}

func (h *PredictHandler) SampleDevices(c *fiber.Ctx) error {
	devices, err := h.client.SampleDevices(c.Context())
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"devices": devices,
		"count":   len(devices),
	})
}

func (h *PredictHandler) SearchDevices(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "query parameter is required")
	}

	devices, err := h.client.SearchDevices(c.Context(), query)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"devices": devices,
		"count":   len(devices),
	})
}
