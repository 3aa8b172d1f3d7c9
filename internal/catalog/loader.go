package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/medpredict/alert-service/internal/domain"
)

// RecipientSource yields the alert distribution list. Implementations read
// fresh on every call; the dispatch service owns no recipient cache.
type RecipientSource interface {
	Recipients(ctx context.Context) ([]domain.Recipient, error)
}

// ProductSource resolves product detail records by id.
type ProductSource interface {
	ProductByID(ctx context.Context, id string) (*domain.Product, error)
}

type recipientsFile struct {
	Receivers []domain.Recipient `json:"receivers"`
}

type productsFile struct {
	Products []domain.Product `json:"products"`
}

// FileLoader reads recipients and product details from JSON files. Records
// are validated at the load boundary; a malformed source fails the whole
// read with ErrRecipientLoad rather than letting empty fields leak through.
type FileLoader struct {
	recipientsPath string
	productsPath   string
}

var (
	_ RecipientSource = (*FileLoader)(nil)
	_ ProductSource   = (*FileLoader)(nil)
)

func NewFileLoader(recipientsPath, productsPath string) (*FileLoader, error) {
	if strings.TrimSpace(recipientsPath) == "" {
		return nil, fmt.Errorf("%w: recipients file path is required", domain.ErrConfiguration)
	}

	return &FileLoader{
		recipientsPath: recipientsPath,
		productsPath:   productsPath,
	}, nil
}

func (l *FileLoader) Recipients(ctx context.Context) ([]domain.Recipient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(l.recipientsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", domain.ErrRecipientLoad, l.recipientsPath, err)
	}

	var parsed recipientsFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed recipient source %s: %v", domain.ErrRecipientLoad, l.recipientsPath, err)
	}

	recipients := make([]domain.Recipient, 0, len(parsed.Receivers))
	for i := range parsed.Receivers {
		r := parsed.Receivers[i]
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("%w: invalid recipient at index %d: %v", domain.ErrRecipientLoad, i, err)
		}
		recipients = append(recipients, r)
	}

	return recipients, nil
}

func (l *FileLoader) ProductByID(ctx context.Context, id string) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trimmedID := strings.TrimSpace(id)
	if trimmedID == "" {
		return nil, fmt.Errorf("%w: product id is required", domain.ErrValidation)
	}
	if strings.TrimSpace(l.productsPath) == "" {
		return nil, domain.ErrNotFound
	}

	data, err := os.ReadFile(l.productsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", l.productsPath, err)
	}

	var parsed productsFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("malformed product source %s: %w", l.productsPath, err)
	}

	for i := range parsed.Products {
		p := parsed.Products[i]
		if p.ID != trimmedID {
			continue
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return &p, nil
	}

	return nil, domain.ErrNotFound
}
