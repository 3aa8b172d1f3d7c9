package handler

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/medpredict/alert-service/internal/domain"
	"github.com/medpredict/alert-service/internal/observability"
	"github.com/medpredict/alert-service/internal/repository"
	"github.com/medpredict/alert-service/internal/upload"
	"go.uber.org/zap"
)

const uploadFieldName = "file"

// FileStore abstracts the upload store for handler tests.
type FileStore interface {
	Save(fieldName string, header *multipart.FileHeader) (*domain.UploadedFile, error)
}

// AlertDispatcher is the slice of the dispatch service the route needs.
type AlertDispatcher interface {
	BuildEquipmentAlert(ctx context.Context, message, productID string) domain.EquipmentAlert
	Dispatch(ctx context.Context, event domain.AlertEvent) (*domain.DispatchResult, error)
}

type AlertHandler struct {
	store      FileStore
	dispatcher AlertDispatcher
	alerts     repository.AlertRepository
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

func NewAlertHandler(
	store FileStore,
	dispatcher AlertDispatcher,
	alerts repository.AlertRepository,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*AlertHandler, error) {
	if store == nil {
		return nil, fmt.Errorf("file store is required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("alert dispatcher is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AlertHandler{
		store:      store,
		dispatcher: dispatcher,
		alerts:     alerts,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}, nil
}

func RegisterAlertRoutes(
	router fiber.Router,
	store FileStore,
	dispatcher AlertDispatcher,
	alerts repository.AlertRepository,
	metrics *observability.Metrics,
	logger *zap.Logger,
) error {
	h, err := NewAlertHandler(store, dispatcher, alerts, metrics, logger)
	if err != nil {
		return err
	}

	router.Post("/alerts/send-alert", h.SendAlert)
	if alerts != nil {
		router.Get("/alerts", h.ListAlerts)
		router.Get("/alerts/:id", h.GetAlert)
	}
	return nil
}

type alertNotification struct {
	Sent bool   `json:"sent"`
	ID   string `json:"id"`
}

type alertData struct {
	Filename     string            `json:"filename"`
	OriginalName string            `json:"originalname"`
	Size         int64             `json:"size"`
	Path         string            `json:"path"`
	Notification alertNotification `json:"notification"`
}

type alertResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Data    alertData `json:"data"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type alertRecordResponse struct {
	ID              string                  `json:"id"`
	Workflow        string                  `json:"workflow"`
	Message         string                  `json:"message"`
	Priority        string                  `json:"priority"`
	Filename        string                  `json:"filename"`
	OriginalName    string                  `json:"originalname"`
	Size            int64                   `json:"size"`
	SentCount       int                     `json:"sentCount"`
	TotalRecipients int                     `json:"totalRecipients"`
	TransactionID   *string                 `json:"transactionId,omitempty"`
	CreatedAt       time.Time               `json:"createdAt"`
	Deliveries      []alertDeliveryResponse `json:"deliveries,omitempty"`
}

type alertDeliveryResponse struct {
	Recipient     string  `json:"recipient"`
	TransactionID *string `json:"transactionId,omitempty"`
	Error         *string `json:"error,omitempty"`
}

type listAlertsResponse struct {
	Data []alertRecordResponse `json:"data"`
	Meta listMeta              `json:"meta"`
}

type listMeta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

// SendAlert accepts a multipart report upload, stores the file, and fans the
// alert out to every configured recipient. Upload problems fail the request;
// delivery problems never do, they only shape the notification sub-object.
func (h *AlertHandler) SendAlert(c *fiber.Ctx) error {
	header, err := c.FormFile(uploadFieldName)
	if err != nil {
		h.metrics.IncUploadRejected("missing_file")
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Status:  "error",
			Message: "Please upload a PDF file",
		})
	}

	stored, err := h.store.Save(uploadFieldName, header)
	if err != nil {
		return h.uploadErrorResponse(c, err)
	}
	h.metrics.IncUploadAccepted()

	message := c.FormValue("message")
	productID := c.FormValue("productId")

	event := h.dispatcher.BuildEquipmentAlert(c.Context(), message, productID)
	result, dispatchErr := h.dispatcher.Dispatch(c.Context(), event)
	if dispatchErr != nil {
		// File is stored; the response reports the notification as unsent.
		h.logger.Error("alert dispatch failed",
			zap.String("filename", stored.Filename),
			zap.Error(dispatchErr),
		)
	}
	if result == nil {
		result = &domain.DispatchResult{FailedRecipients: []string{}}
	}

	h.persistRecord(c.Context(), event, stored, result)

	return c.Status(fiber.StatusOK).JSON(alertResponse{
		Status:  "success",
		Message: "Alert processed successfully",
		Data: alertData{
			Filename:     stored.Filename,
			OriginalName: stored.OriginalName,
			Size:         stored.SizeBytes,
			Path:         "/uploads/" + stored.Filename,
			Notification: alertNotification{
				Sent: result.Success,
				ID:   result.TransactionID,
			},
		},
	})
}

// ListAlerts pages through the audit trail, newest first.
func (h *AlertHandler) ListAlerts(c *fiber.Ctx) error {
	params := repository.ListParams{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("pageSize", 50),
	}
	if params.Page < 1 {
		return toHTTPError(fmt.Errorf("%w: page must be >= 1", domain.ErrValidation))
	}
	if workflow := strings.TrimSpace(c.Query("workflow")); workflow != "" {
		params.Workflow = &workflow
	}

	records, total, err := h.alerts.List(c.Context(), params)
	if err != nil {
		return toHTTPError(err)
	}

	data := make([]alertRecordResponse, 0, len(records))
	for i := range records {
		data = append(data, toAlertRecordResponse(&records[i]))
	}

	return c.Status(fiber.StatusOK).JSON(listAlertsResponse{
		Data: data,
		Meta: listMeta{
			Page:     params.Page,
			PageSize: params.PageSize,
			Total:    total,
		},
	})
}

func (h *AlertHandler) GetAlert(c *fiber.Ctx) error {
	record, err := h.alerts.GetByID(c.Context(), strings.TrimSpace(c.Params("id")))
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toAlertRecordResponse(record))
}

func toAlertRecordResponse(record *domain.AlertRecord) alertRecordResponse {
	resp := alertRecordResponse{
		ID:              record.ID,
		Workflow:        record.Workflow,
		Message:         record.Message,
		Priority:        record.Priority.String(),
		Filename:        record.Filename,
		OriginalName:    record.OriginalName,
		Size:            record.SizeBytes,
		SentCount:       record.SentCount,
		TotalRecipients: record.TotalRecipients,
		TransactionID:   record.TransactionID,
		CreatedAt:       record.CreatedAt,
	}
	for _, delivery := range record.Deliveries {
		resp.Deliveries = append(resp.Deliveries, alertDeliveryResponse{
			Recipient:     delivery.Recipient,
			TransactionID: delivery.TransactionID,
			Error:         delivery.Error,
		})
	}
	return resp
}

func (h *AlertHandler) uploadErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, upload.ErrUnsupportedMediaType):
		h.metrics.IncUploadRejected("unsupported_media_type")
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Status:  "error",
			Message: "Only PDF and text files are allowed",
		})
	case errors.Is(err, upload.ErrPayloadTooLarge):
		h.metrics.IncUploadRejected("payload_too_large")
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(errorResponse{
			Status:  "error",
			Message: "File too large. Maximum size is 5MB.",
		})
	default:
		h.metrics.IncUploadRejected("storage_failure")
		h.logger.Error("failed to store uploaded file", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
			Status:  "error",
			Message: "Failed to store uploaded file",
		})
	}
}

// persistRecord writes the audit row best-effort. A storage failure is
// logged and the request still succeeds.
func (h *AlertHandler) persistRecord(
	ctx context.Context,
	event domain.EquipmentAlert,
	stored *domain.UploadedFile,
	result *domain.DispatchResult,
) {
	if h.alerts == nil {
		return
	}

	record := &domain.AlertRecord{
		ID:              uuid.NewString(),
		Workflow:        event.EventName(),
		Message:         event.Alert.Message,
		Priority:        event.Alert.Priority,
		Filename:        stored.Filename,
		OriginalName:    stored.OriginalName,
		StoragePath:     stored.StoragePath,
		SizeBytes:       stored.SizeBytes,
		SentCount:       result.SentCount,
		TotalRecipients: result.TotalRecipients,
		CreatedAt:       h.now().UTC(),
	}
	if result.TransactionID != "" {
		txn := result.TransactionID
		record.TransactionID = &txn
	}

	for _, outcome := range result.Outcomes {
		delivery := domain.AlertDelivery{
			ID:        uuid.NewString(),
			AlertID:   record.ID,
			Recipient: outcome.Recipient,
			CreatedAt: record.CreatedAt,
		}
		if outcome.Succeeded() {
			txn := outcome.TransactionID
			delivery.TransactionID = &txn
		} else {
			msg := outcome.Err.Error()
			delivery.Error = &msg
		}
		record.Deliveries = append(record.Deliveries, delivery)
	}

	if err := h.alerts.Create(ctx, record); err != nil {
		h.logger.Error("failed to persist alert record",
			zap.String("alertId", record.ID),
			zap.Error(err),
		)
	}
}
