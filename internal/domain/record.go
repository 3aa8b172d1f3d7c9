package domain

import "time"

// AlertRecord is the audit trail of one processed alert: the stored report
// file plus the outcome of the notification fan-out.
type AlertRecord struct {
	ID              string
	Workflow        string
	Message         string
	Priority        Priority
	Filename        string
	OriginalName    string
	StoragePath     string
	SizeBytes       int64
	SentCount       int
	TotalRecipients int
	TransactionID   *string
	CreatedAt       time.Time
	Deliveries      []AlertDelivery
}

// AlertDelivery is one recipient's outcome within a dispatched alert.
type AlertDelivery struct {
	ID            string
	AlertID       string
	Recipient     string
	TransactionID *string
	Error         *string
	CreatedAt     time.Time
}
