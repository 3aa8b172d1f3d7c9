package domain

import (
	"fmt"
	"strings"
)

// Recipient is a member of the alert distribution list.
type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// SubscriberID is the provider-side handle for this recipient, derived
// deterministically from the email address.
func (r Recipient) SubscriberID() string {
	return "user-" + strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *Recipient) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return fmt.Errorf("%w: recipient email is required", ErrValidation)
	}
	if !strings.Contains(r.Email, "@") {
		return fmt.Errorf("%w: invalid recipient email %q", ErrValidation, r.Email)
	}
	return nil
}

// Product is a manufacturer product record from the product-detail source.
type Product struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Model           string `json:"model"`
	Manufacturer    string `json:"manufacturer"`
	Location        string `json:"location"`
	Status          string `json:"status"`
	SerialNumber    string `json:"serialNumber"`
	LastMaintenance string `json:"lastMaintenance"`
	NextMaintenance string `json:"nextMaintenance"`
}

func (p *Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: product id is required", ErrValidation)
	}
	return nil
}
