package predict

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/medpredict/alert-service/internal/domain"
)

// Prediction is the risk assessment returned for a single device. The
// upstream model's payload is consumed as-is; unknown fields are dropped.
type Prediction struct {
	DeviceID       string  `json:"device_id"`
	RiskClass      string  `json:"risk_class"`
	RiskScore      float64 `json:"risk_score"`
	Recommendation string  `json:"recommendation"`
}

type Device struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	Country      string `json:"country"`
}

type Company struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Country     string `json:"country"`
	DeviceCount int    `json:"device_count"`
}

// Client talks to the prediction API. Responses are surfaced black-box; a
// non-2xx reply becomes an error carrying the upstream status and body.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL string) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("%w: prediction api url is required", domain.ErrConfiguration)
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return nil, fmt.Errorf("%w: invalid prediction api url %q", domain.ErrConfiguration, baseURL)
	}

	httpClient := resty.New().
		SetBaseURL(trimmed).
		SetTimeout(15 * time.Second).
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient}, nil
}

// NewClientWithHTTP is for tests that need to point at an httptest server.
func NewClientWithHTTP(httpClient *resty.Client) *Client {
	return &Client{http: httpClient}
}

func (c *Client) Predict(ctx context.Context, deviceID string) (*Prediction, error) {
	if strings.TrimSpace(deviceID) == "" {
		return nil, fmt.Errorf("%w: device id is required", domain.ErrValidation)
	}

	var prediction Prediction
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"device_id": deviceID}).
		SetResult(&prediction).
		Post("/predict")
	if err != nil {
		return nil, fmt.Errorf("prediction request failed: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return &prediction, nil
}

func (c *Client) Device(ctx context.Context, id string) (*Device, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: device id is required", domain.ErrValidation)
	}

	var device Device
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&device).
		Get("/devices/" + url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("device lookup failed: %w", err)
	}
	if resp.StatusCode() == 404 {
		return nil, fmt.Errorf("%w: device %q", domain.ErrNotFound, id)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return &device, nil
}

func (c *Client) CompanyDetails(ctx context.Context, id string) (*Company, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: company id is required", domain.ErrValidation)
	}

	var company Company
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&company).
		Get("/companies/" + url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("company lookup failed: %w", err)
	}
	if resp.StatusCode() == 404 {
		return nil, fmt.Errorf("%w: company %q", domain.ErrNotFound, id)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return &company, nil
}

func (c *Client) SampleDevices(ctx context.Context) ([]Device, error) {
	var devices []Device
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&devices).
		Get("/devices/sample")
	if err != nil {
		return nil, fmt.Errorf("sample devices request failed: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return devices, nil
}

func (c *Client) SearchDevices(ctx context.Context, query string) ([]Device, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is required", domain.ErrValidation)
	}

	var devices []Device
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("query", query).
		SetResult(&devices).
		Get("/devices/search")
	if err != nil {
		return nil, fmt.Errorf("device search failed: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return devices, nil
}

func checkStatus(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	return fmt.Errorf("prediction api returned %d: %s", resp.StatusCode(), strings.TrimSpace(string(resp.Body())))
}
