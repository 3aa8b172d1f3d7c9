package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/medpredict/alert-service/internal/domain"
)

const (
	defaultNovuTimeout = 10 * time.Second
	placeholderAPIKey  = "your_novu_api_key_here"
)

type identifyRequest struct {
	SubscriberID string `json:"subscriberId"`
	Email        string `json:"email,omitempty"`
	FirstName    string `json:"firstName,omitempty"`
}

type triggerRequest struct {
	Name    string         `json:"name"`
	To      triggerTarget  `json:"to"`
	Payload map[string]any `json:"payload,omitempty"`
}

type triggerTarget struct {
	SubscriberID string `json:"subscriberId"`
	Email        string `json:"email,omitempty"`
}

type triggerResponse struct {
	Data struct {
		TransactionID string `json:"transactionId"`
		Acknowledged  bool   `json:"acknowledged"`
		Status        string `json:"status"`
	} `json:"data"`
}

var _ Notifier = (*NovuClient)(nil)

// NovuClient talks to a Novu-compatible notification API. It is constructed
// once at process start; a missing or placeholder credential is fatal.
type NovuClient struct {
	client  *resty.Client
	baseURL string
}

func NewNovuClient(baseURL, apiKey string) (*NovuClient, error) {
	client := resty.New()
	client.SetTimeout(defaultNovuTimeout)
	client.SetRetryCount(0)

	return NewNovuClientWithClient(baseURL, apiKey, client)
}

func NewNovuClientWithClient(baseURL, apiKey string, client *resty.Client) (*NovuClient, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" || trimmedKey == placeholderAPIKey {
		return nil, fmt.Errorf("%w: invalid or missing notification API key", domain.ErrConfiguration)
	}

	trimmedURL := strings.TrimSpace(baseURL)
	if trimmedURL == "" {
		return nil, fmt.Errorf("%w: notification API url is required", domain.ErrConfiguration)
	}
	if _, err := url.ParseRequestURI(trimmedURL); err != nil {
		return nil, fmt.Errorf("%w: invalid notification API url: %v", domain.ErrConfiguration, err)
	}
	if client == nil {
		return nil, fmt.Errorf("%w: resty client is required", domain.ErrConfiguration)
	}

	if client.GetClient().Timeout == 0 {
		client.SetTimeout(defaultNovuTimeout)
	}
	client.SetRetryCount(0)
	client.SetHeader("Authorization", "ApiKey "+trimmedKey)
	client.SetHeader("Content-Type", "application/json")

	return &NovuClient{
		client:  client,
		baseURL: strings.TrimRight(trimmedURL, "/"),
	}, nil
}

// Identify upserts the subscriber record. Idempotent on the provider side.
func (c *NovuClient) Identify(ctx context.Context, subscriber Subscriber) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("provider is not initialized")
	}
	if strings.TrimSpace(subscriber.SubscriberID) == "" {
		return fmt.Errorf("%w: subscriber id is required", domain.ErrValidation)
	}

	body := identifyRequest{
		SubscriberID: subscriber.SubscriberID,
		Email:        subscriber.Email,
		FirstName:    subscriber.Name,
	}

	response, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(c.baseURL + "/subscribers")
	if err != nil {
		return &ProviderError{Message: "identify request failed", Transient: true, Cause: err}
	}

	statusCode := response.StatusCode()
	if statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices {
		return nil
	}

	return &ProviderError{
		StatusCode: statusCode,
		Message:    providerErrorMessage(statusCode, strings.TrimSpace(response.String())),
		Transient:  isTransientHTTPStatus(statusCode),
	}
}

// Trigger issues one workflow trigger call for one subscriber.
func (c *NovuClient) Trigger(ctx context.Context, req TriggerRequest) (*TriggerResponse, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("provider is not initialized")
	}
	if strings.TrimSpace(req.EventName) == "" {
		return nil, fmt.Errorf("%w: event name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(req.To.SubscriberID) == "" {
		return nil, fmt.Errorf("%w: subscriber id is required", domain.ErrValidation)
	}

	body := triggerRequest{
		Name: req.EventName,
		To: triggerTarget{
			SubscriberID: req.To.SubscriberID,
			Email:        req.To.Email,
		},
		Payload: req.Payload,
	}

	var parsed triggerResponse
	response, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&parsed).
		Post(c.baseURL + "/events/trigger")
	if err != nil {
		return nil, &ProviderError{Message: "trigger request failed", Transient: true, Cause: err}
	}

	statusCode := response.StatusCode()
	responseBody := strings.TrimSpace(response.String())

	if statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices {
		return &TriggerResponse{
			TransactionID: parsed.Data.TransactionID,
			StatusCode:    statusCode,
			Body:          responseBody,
		}, nil
	}

	return nil, &ProviderError{
		StatusCode: statusCode,
		Message:    providerErrorMessage(statusCode, responseBody),
		Transient:  isTransientHTTPStatus(statusCode),
	}
}

func isTransientHTTPStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || (statusCode >= http.StatusInternalServerError && statusCode <= 599)
}

func providerErrorMessage(statusCode int, body string) string {
	base := fmt.Sprintf("provider returned status %d", statusCode)
	if body == "" {
		return base
	}
	return fmt.Sprintf("%s: %s", base, body)
}
