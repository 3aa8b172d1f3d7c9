package repository

import (
	"context"
	"errors"
	"time"

	"github.com/medpredict/alert-service/internal/domain"
	"gorm.io/gorm"
)

type ListParams struct {
	Workflow *string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

type AlertRepository interface {
	Create(ctx context.Context, record *domain.AlertRecord) error
	GetByID(ctx context.Context, id string) (*domain.AlertRecord, error)
	List(ctx context.Context, params ListParams) ([]domain.AlertRecord, int64, error)
	DeliveriesByAlertID(ctx context.Context, alertID string) ([]domain.AlertDelivery, error)
}

type GormAlertRepo struct {
	db *gorm.DB
}

func NewGormAlertRepo(db *gorm.DB) *GormAlertRepo {
	return &GormAlertRepo{db: db}
}

var _ AlertRepository = (*GormAlertRepo)(nil)

// Create stores the alert row and its per-recipient delivery rows in a
// single transaction.
func (r *GormAlertRepo) Create(ctx context.Context, record *domain.AlertRecord) error {
	model := alertModelFromDomain(record)
	if model == nil {
		return errors.New("alert record is required")
	}

	deliveries := make([]AlertDeliveryModel, 0, len(record.Deliveries))
	for i := range record.Deliveries {
		delivery := record.Deliveries[i]
		delivery.AlertID = model.ID
		deliveries = append(deliveries, *deliveryModelFromDomain(&delivery))
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		if len(deliveries) == 0 {
			return nil
		}
		return tx.CreateInBatches(&deliveries, 100).Error
	})
	if err != nil {
		return err
	}

	*record = *alertModelToDomain(model)
	record.Deliveries = make([]domain.AlertDelivery, 0, len(deliveries))
	for i := range deliveries {
		record.Deliveries = append(record.Deliveries, *deliveryModelToDomain(&deliveries[i]))
	}
	return nil
}

func (r *GormAlertRepo) GetByID(ctx context.Context, id string) (*domain.AlertRecord, error) {
	var model AlertModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	record := alertModelToDomain(&model)
	deliveries, err := r.DeliveriesByAlertID(ctx, id)
	if err != nil {
		return nil, err
	}
	record.Deliveries = deliveries
	return record, nil
}

func (r *GormAlertRepo) List(ctx context.Context, params ListParams) ([]domain.AlertRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&AlertModel{})

	if params.Workflow != nil {
		query = query.Where("workflow = ?", *params.Workflow)
	}
	if params.From != nil {
		query = query.Where("created_at >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("created_at <= ?", *params.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := max(params.Page, 1)
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 50
	}
	pageSize = min(pageSize, 100)

	var models []AlertModel
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	records := make([]domain.AlertRecord, 0, len(models))
	for i := range models {
		records = append(records, *alertModelToDomain(&models[i]))
	}

	return records, total, nil
}

func (r *GormAlertRepo) DeliveriesByAlertID(ctx context.Context, alertID string) ([]domain.AlertDelivery, error) {
	var models []AlertDeliveryModel
	err := r.db.WithContext(ctx).
		Where("alert_id = ?", alertID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	deliveries := make([]domain.AlertDelivery, 0, len(models))
	for i := range models {
		deliveries = append(deliveries, *deliveryModelToDomain(&models[i]))
	}
	return deliveries, nil
}
