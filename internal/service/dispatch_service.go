package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medpredict/alert-service/internal/catalog"
	"github.com/medpredict/alert-service/internal/domain"
	"github.com/medpredict/alert-service/internal/observability"
	"github.com/medpredict/alert-service/internal/provider"
	"github.com/medpredict/alert-service/internal/ratelimit"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultAlertMessage  = "New alert received"
	defaultActionMessage = "Please check the system for details"
)

// DispatchService notifies every configured recipient of an alert event
// through the notification provider, tolerating independent per-recipient
// failure. It holds no mutable dispatch state between calls.
type DispatchService struct {
	recipients catalog.RecipientSource
	products   catalog.ProductSource
	notifier   provider.Notifier
	limiter    ratelimit.RateLimiter
	logger     *zap.Logger
	metrics    *observability.Metrics
	now        func() time.Time
}

func NewDispatchService(
	recipients catalog.RecipientSource,
	products catalog.ProductSource,
	notifier provider.Notifier,
	limiter ratelimit.RateLimiter,
	logger *zap.Logger,
) (*DispatchService, error) {
	if recipients == nil {
		return nil, fmt.Errorf("recipient source is required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	if limiter == nil {
		limiter = ratelimit.NopLimiter{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DispatchService{
		recipients: recipients,
		products:   products,
		notifier:   notifier,
		limiter:    limiter,
		logger:     logger,
		now:        time.Now,
	}, nil
}

func (s *DispatchService) SetMetrics(metrics *observability.Metrics) {
	if s == nil {
		return
	}
	s.metrics = metrics
}

// BuildEquipmentAlert assembles the upload route's alert kind, enriching it
// with product details when the id resolves. An unknown product is not an
// error; the alert simply carries no equipment descriptor.
func (s *DispatchService) BuildEquipmentAlert(ctx context.Context, message, productID string) domain.EquipmentAlert {
	alert := domain.AlertPayload{
		Message:        message,
		Priority:       domain.PriorityMedium,
		ActionRequired: defaultActionMessage,
	}
	if alert.Message == "" {
		alert.Message = defaultAlertMessage
	}

	if productID != "" && s.products != nil {
		product, err := s.products.ProductByID(ctx, productID)
		switch {
		case err == nil:
			alert.Equipment = domain.Equipment{
				ID:              product.ID,
				Name:            product.Name,
				Model:           product.Model,
				Location:        product.Location,
				Status:          product.Status,
				SerialNumber:    product.SerialNumber,
				LastMaintenance: product.LastMaintenance,
				NextMaintenance: product.NextMaintenance,
			}
		case errors.Is(err, domain.ErrNotFound):
			s.logger.Debug("product not found for alert", zap.String("productId", productID))
		default:
			s.logger.Warn("failed to resolve product for alert",
				zap.String("productId", productID),
				zap.Error(err),
			)
		}
	}

	return domain.EquipmentAlert{Alert: alert}
}

// Dispatch loads the recipient list fresh, identifies every recipient with
// the provider, then fans out one trigger per recipient. All identify and
// trigger calls run concurrently; the batch joins on every launched call
// and never short-circuits on a sibling's failure.
//
// A recipient-source failure hard-fails the batch before any dispatch is
// attempted. Per-recipient delivery failures are absorbed into the result.
func (s *DispatchService) Dispatch(ctx context.Context, event domain.AlertEvent) (*domain.DispatchResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if event == nil {
		return nil, fmt.Errorf("%w: alert event is required", domain.ErrValidation)
	}

	workflow := event.EventName()
	start := s.now()

	recipients, err := s.recipients.Recipients(ctx)
	if err != nil {
		s.logger.Error("failed to load alert recipients",
			zap.String("workflow", workflow),
			zap.Error(err),
		)
		return &domain.DispatchResult{
			Success:          false,
			FailedRecipients: []string{},
			Message:          err.Error(),
		}, err
	}

	if len(recipients) == 0 {
		result := domain.AggregateOutcomes(nil)
		s.logger.Info("dispatch skipped, no recipients configured",
			zap.String("workflow", workflow),
		)
		return result, nil
	}

	s.identifyAll(ctx, recipients)

	payload := event.EventPayload()
	outcomes := make([]domain.DeliveryOutcome, len(recipients))

	var g errgroup.Group
	for i := range recipients {
		i := i
		recipient := recipients[i]

		// Goroutines record their outcome and always return nil so one
		// recipient's failure can never cancel a sibling's delivery.
		g.Go(func() error {
			outcomes[i] = s.triggerOne(ctx, workflow, recipient, payload)
			return nil
		})
	}
	_ = g.Wait()

	result := domain.AggregateOutcomes(outcomes)

	if s.metrics != nil {
		s.metrics.IncAlertDispatched(workflow, result.Success)
		s.metrics.ObserveDispatchDuration(workflow, s.now().Sub(start))
	}

	if result.Success {
		s.logger.Info("alert dispatched",
			zap.String("workflow", workflow),
			zap.Int("sentCount", result.SentCount),
			zap.Int("totalRecipients", result.TotalRecipients),
		)
	} else {
		s.logger.Warn("alert dispatched with failures",
			zap.String("workflow", workflow),
			zap.Int("sentCount", result.SentCount),
			zap.Int("totalRecipients", result.TotalRecipients),
			zap.Strings("failedRecipients", result.FailedRecipients),
		)
	}

	return result, nil
}

// identifyAll upserts every recipient's provider identity concurrently.
// Failures are logged and swallowed: the trigger step fails for that
// recipient anyway, and that failure is the one tracked in the result.
func (s *DispatchService) identifyAll(ctx context.Context, recipients []domain.Recipient) {
	var g errgroup.Group
	for i := range recipients {
		recipient := recipients[i]
		g.Go(func() error {
			err := s.notifier.Identify(ctx, provider.Subscriber{
				SubscriberID: recipient.SubscriberID(),
				Email:        recipient.Email,
				Name:         recipient.Name,
			})
			if err != nil {
				s.logger.Warn("failed to identify subscriber",
					zap.String("recipient", recipient.Email),
					zap.Error(err),
				)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (s *DispatchService) triggerOne(
	ctx context.Context,
	workflow string,
	recipient domain.Recipient,
	payload map[string]any,
) domain.DeliveryOutcome {
	outcome := domain.DeliveryOutcome{Recipient: recipient.Email}

	if err := s.limiter.Wait(ctx, workflow); err != nil {
		outcome.Err = fmt.Errorf("rate limiter wait failed: %w", err)
		s.recordDeliveryFailure(workflow, recipient.Email, outcome.Err)
		return outcome
	}

	resp, err := s.notifier.Trigger(ctx, provider.TriggerRequest{
		EventName: workflow,
		To: provider.Subscriber{
			SubscriberID: recipient.SubscriberID(),
			Email:        recipient.Email,
		},
		Payload: payload,
	})
	if err != nil {
		outcome.Err = err
		s.recordDeliveryFailure(workflow, recipient.Email, err)
		return outcome
	}

	outcome.TransactionID = resp.TransactionID
	return outcome
}

func (s *DispatchService) recordDeliveryFailure(workflow, recipient string, err error) {
	if s.metrics != nil {
		s.metrics.IncDeliveryFailed(workflow)
	}
	s.logger.Warn("notification delivery failed",
		zap.String("workflow", workflow),
		zap.String("recipient", recipient),
		zap.Bool("transient", provider.IsTransient(err)),
		zap.Error(err),
	)
}
