package predict

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/medpredict/alert-service/internal/domain"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClientWithHTTP(resty.New().SetBaseURL(server.URL))
	return client, server
}

func TestClientPredict(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/predict" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		if body["device_id"] != "dev-1" {
			t.Errorf("device_id = %q, want dev-1", body["device_id"])
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Prediction{
			DeviceID:  "dev-1",
			RiskClass: "HIGH",
			RiskScore: 0.91,
		})
	}))
	defer server.Close()

	prediction, err := client.Predict(context.Background(), "dev-1")
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if prediction.RiskClass != "HIGH" || prediction.RiskScore != 0.91 {
		t.Fatalf("prediction = %+v", prediction)
	}
}

func TestClientPredictRequiresDeviceID(t *testing.T) {
	t.Parallel()

	client := NewClientWithHTTP(resty.New())
	_, err := client.Predict(context.Background(), "  ")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestClientDeviceNotFound(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := client.Device(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestClientSearchDevices(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/devices/search" {
			t.Errorf("path = %s, want /devices/search", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "ventilator" {
			t.Errorf("query = %q, want ventilator", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]Device{{ID: "dev-1", Name: "Ventilator X2"}})
	}))
	defer server.Close()

	devices, err := client.SearchDevices(context.Background(), "ventilator")
	if err != nil {
		t.Fatalf("SearchDevices() error = %v", err)
	}
	if len(devices) != 1 || devices[0].ID != "dev-1" {
		t.Fatalf("devices = %+v", devices)
	}
}

func TestClientUpstreamErrorSurfacesStatus(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := client.SampleDevices(context.Background())
	if err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestNewClientValidatesURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "valid", baseURL: "http://localhost:8000"},
		{name: "trailing slash trimmed", baseURL: "http://localhost:8000/"},
		{name: "empty", baseURL: "   ", wantErr: true},
		{name: "garbage", baseURL: "::not-a-url", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewClient(tt.baseURL)
			if tt.wantErr != (err != nil) {
				t.Fatalf("NewClient(%q) error = %v, wantErr %v", tt.baseURL, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, domain.ErrConfiguration) {
				t.Fatalf("error = %v, want ErrConfiguration", err)
			}
		})
	}
}
