package objectstore

import (
	"context"
	"io"
	"time"
)

// ReportObject describes one stored report.
type ReportObject struct {
	Key          string    `json:"key"`
	URL          string    `json:"url"`
	SizeBytes    int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// Disposition controls how a presigned link asks the browser to handle the
// object.
type Disposition string

const (
	DispositionInline     Disposition = "inline"
	DispositionAttachment Disposition = "attachment"
)

// ReportStore is the report bucket facade the handlers depend on.
type ReportStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (*ReportObject, error)
	List(ctx context.Context) ([]ReportObject, error)
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, disposition Disposition, expiry time.Duration) (string, error)
}
