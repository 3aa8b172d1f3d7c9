package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/medpredict/alert-service/internal/domain"
)

func TestNovuClientTriggerSuccess(t *testing.T) {
	t.Parallel()

	var gotBody triggerRequest
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/events/trigger" {
			t.Errorf("path = %s, want /events/trigger", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")

		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"transactionId":"txn-42","acknowledged":true,"status":"processed"}}`))
	}))
	defer server.Close()

	client, err := NewNovuClient(server.URL, "nv-test-key")
	if err != nil {
		t.Fatalf("NewNovuClient() error = %v", err)
	}

	resp, err := client.Trigger(context.Background(), TriggerRequest{
		EventName: "medical-equipment-alert",
		To: Subscriber{
			SubscriberID: "user-tech@hospital.org",
			Email:        "tech@hospital.org",
		},
		Payload: map[string]any{"alert": map[string]any{"message": "pump offline"}},
	})
	if err != nil {
		t.Fatalf("Trigger() unexpected error: %v", err)
	}

	if resp.TransactionID != "txn-42" {
		t.Fatalf("TransactionID = %q, want txn-42", resp.TransactionID)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("StatusCode = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	if gotAuth != "ApiKey nv-test-key" {
		t.Fatalf("Authorization = %q, want ApiKey nv-test-key", gotAuth)
	}
	if gotBody.Name != "medical-equipment-alert" {
		t.Fatalf("request.name = %q", gotBody.Name)
	}
	if gotBody.To.SubscriberID != "user-tech@hospital.org" {
		t.Fatalf("request.to.subscriberId = %q", gotBody.To.SubscriberID)
	}
}

func TestNovuClientTriggerStatusClassification(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		statusCode    int
		wantTransient bool
	}{
		{name: "too many requests is transient", statusCode: http.StatusTooManyRequests, wantTransient: true},
		{name: "bad request is permanent", statusCode: http.StatusBadRequest, wantTransient: false},
		{name: "unauthorized is permanent", statusCode: http.StatusUnauthorized, wantTransient: false},
		{name: "internal server error is transient", statusCode: http.StatusInternalServerError, wantTransient: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.statusCode)
				_, _ = w.Write([]byte("provider failed"))
			}))
			defer server.Close()

			client, err := NewNovuClient(server.URL, "nv-test-key")
			if err != nil {
				t.Fatalf("NewNovuClient() error = %v", err)
			}

			_, err = client.Trigger(context.Background(), TriggerRequest{
				EventName: "medical-equipment-alert",
				To:        Subscriber{SubscriberID: "user-a@b.io", Email: "a@b.io"},
			})
			if err == nil {
				t.Fatal("expected error")
			}

			if got := IsTransient(err); got != tc.wantTransient {
				t.Fatalf("IsTransient() = %v, want %v", got, tc.wantTransient)
			}

			var providerErr *ProviderError
			if !errors.As(err, &providerErr) {
				t.Fatalf("expected ProviderError, got %T", err)
			}
			if providerErr.StatusCode != tc.statusCode {
				t.Fatalf("ProviderError.StatusCode = %d, want %d", providerErr.StatusCode, tc.statusCode)
			}
		})
	}
}

func TestNovuClientIdentify(t *testing.T) {
	t.Parallel()

	var gotBody identifyRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/subscribers" {
			t.Errorf("path = %s, want /subscribers", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client, err := NewNovuClient(server.URL, "nv-test-key")
	if err != nil {
		t.Fatalf("NewNovuClient() error = %v", err)
	}

	err = client.Identify(context.Background(), Subscriber{
		SubscriberID: "user-ops@medpredict.io",
		Email:        "ops@medpredict.io",
		Name:         "Ops",
	})
	if err != nil {
		t.Fatalf("Identify() unexpected error: %v", err)
	}
	if gotBody.SubscriberID != "user-ops@medpredict.io" {
		t.Fatalf("subscriberId = %q", gotBody.SubscriberID)
	}
	if gotBody.Email != "ops@medpredict.io" {
		t.Fatalf("email = %q", gotBody.Email)
	}
}

func TestNewNovuClientRejectsBadCredential(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		apiKey string
	}{
		{name: "empty key", apiKey: ""},
		{name: "placeholder key", apiKey: "your_novu_api_key_here"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewNovuClient("https://api.novu.co/v1", tc.apiKey)
			if !errors.Is(err, domain.ErrConfiguration) {
				t.Fatalf("NewNovuClient() error = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestNewNovuClientRejectsBadURL(t *testing.T) {
	t.Parallel()

	_, err := NewNovuClient("", "nv-test-key")
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("NewNovuClient() error = %v, want ErrConfiguration", err)
	}
}
