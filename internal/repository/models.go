package repository

import (
	"time"

	"github.com/medpredict/alert-service/internal/domain"
)

// AlertModel is the persistence model for the alerts table.
type AlertModel struct {
	ID              string          `gorm:"type:uuid;primaryKey"`
	Workflow        string          `gorm:"type:varchar(64);not null"`
	Message         string          `gorm:"type:text;not null"`
	Priority        domain.Priority `gorm:"type:varchar(10);not null"`
	Filename        string          `gorm:"type:varchar(255);not null"`
	OriginalName    string          `gorm:"type:varchar(255);not null"`
	StoragePath     string          `gorm:"type:varchar(512);not null"`
	SizeBytes       int64           `gorm:"not null"`
	SentCount       int             `gorm:"not null;default:0"`
	TotalRecipients int             `gorm:"not null;default:0"`
	TransactionID   *string         `gorm:"type:varchar(255)"`
	CreatedAt       time.Time
}

func (AlertModel) TableName() string {
	return "alerts"
}

// AlertDeliveryModel is the persistence model for alert_deliveries.
type AlertDeliveryModel struct {
	ID            string  `gorm:"type:uuid;primaryKey"`
	AlertID       string  `gorm:"type:uuid;not null"`
	Recipient     string  `gorm:"type:varchar(255);not null"`
	TransactionID *string `gorm:"type:varchar(255)"`
	Error         *string `gorm:"type:text"`
	CreatedAt     time.Time
}

func (AlertDeliveryModel) TableName() string {
	return "alert_deliveries"
}

func alertModelFromDomain(a *domain.AlertRecord) *AlertModel {
	if a == nil {
		return nil
	}

	return &AlertModel{
		ID:              a.ID,
		Workflow:        a.Workflow,
		Message:         a.Message,
		Priority:        a.Priority,
		Filename:        a.Filename,
		OriginalName:    a.OriginalName,
		StoragePath:     a.StoragePath,
		SizeBytes:       a.SizeBytes,
		SentCount:       a.SentCount,
		TotalRecipients: a.TotalRecipients,
		TransactionID:   a.TransactionID,
		CreatedAt:       a.CreatedAt,
	}
}

func alertModelToDomain(m *AlertModel) *domain.AlertRecord {
	if m == nil {
		return nil
	}

	return &domain.AlertRecord{
		ID:              m.ID,
		Workflow:        m.Workflow,
		Message:         m.Message,
		Priority:        m.Priority,
		Filename:        m.Filename,
		OriginalName:    m.OriginalName,
		StoragePath:     m.StoragePath,
		SizeBytes:       m.SizeBytes,
		SentCount:       m.SentCount,
		TotalRecipients: m.TotalRecipients,
		TransactionID:   m.TransactionID,
		CreatedAt:       m.CreatedAt,
	}
}

func deliveryModelFromDomain(d *domain.AlertDelivery) *AlertDeliveryModel {
	if d == nil {
		return nil
	}

	return &AlertDeliveryModel{
		ID:            d.ID,
		AlertID:       d.AlertID,
		Recipient:     d.Recipient,
		TransactionID: d.TransactionID,
		Error:         d.Error,
		CreatedAt:     d.CreatedAt,
	}
}

func deliveryModelToDomain(m *AlertDeliveryModel) *domain.AlertDelivery {
	if m == nil {
		return nil
	}

	return &domain.AlertDelivery{
		ID:            m.ID,
		AlertID:       m.AlertID,
		Recipient:     m.Recipient,
		TransactionID: m.TransactionID,
		Error:         m.Error,
		CreatedAt:     m.CreatedAt,
	}
}
