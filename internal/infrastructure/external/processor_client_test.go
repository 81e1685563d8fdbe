package external

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"payment-gateway/internal/domain/entities"
)

func TestProcessorClient_SendPayload(t *testing.T) {
	var captured struct {
		CorrelationID string      `json:"correlationId"`
		Amount        json.Number `json:"amount"`
		RequestedAt   string      `json:"requestedAt"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != PaymentsPath {
			t.Errorf("path = %s, want %s", r.URL.Path, PaymentsPath)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("payload is not valid JSON: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewProcessorClient(server.URL, server.URL)
	requestedAt := time.Date(2025, 7, 15, 12, 30, 0, 123000000, time.UTC)
	item := &entities.QueueItem{
		CorrelationID: uuid.MustParse("4a7901b8-7d26-4d9d-aa19-4dc1c7cf60b3"),
		Amount:        decimal.RequireFromString("19.90"),
		RequestedAt:   requestedAt,
	}

	if err := client.Send(context.Background(), item, entities.ProcessorTypeDefault); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if captured.CorrelationID != "4a7901b8-7d26-4d9d-aa19-4dc1c7cf60b3" {
		t.Errorf("correlationId = %s", captured.CorrelationID)
	}
	if captured.Amount != "19.9" {
		t.Errorf("amount = %s, want 19.9", captured.Amount)
	}
	parsed, err := time.Parse(time.RFC3339Nano, captured.RequestedAt)
	if err != nil {
		t.Fatalf("requestedAt %q is not RFC3339: %v", captured.RequestedAt, err)
	}
	if !parsed.Equal(requestedAt) {
		t.Errorf("requestedAt = %v, want %v", parsed, requestedAt)
	}
}

func TestProcessorClient_SendNon2xxIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewProcessorClient(server.URL, server.URL)
	if err := client.Send(context.Background(), entities.NewQueueItem(uuid.New(), decimal.NewFromInt(1)), entities.ProcessorTypeDefault); err == nil {
		t.Fatal("expected error on 500 response")
	}
}

func TestProcessorClient_SendUnreachableIsError(t *testing.T) {
	client := NewProcessorClient("http://127.0.0.1:1", "http://127.0.0.1:1")
	if err := client.Send(context.Background(), entities.NewQueueItem(uuid.New(), decimal.NewFromInt(1)), entities.ProcessorTypeFallback); err == nil {
		t.Fatal("expected error when processor is unreachable")
	}
}

func TestProcessorClient_RoutesByProcessor(t *testing.T) {
	defaultHits, fallbackHits := 0, 0

	defaultServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defaultHits++
		w.WriteHeader(http.StatusOK)
	}))
	defer defaultServer.Close()

	fallbackServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fallbackHits++
		w.WriteHeader(http.StatusOK)
	}))
	defer fallbackServer.Close()

	client := NewProcessorClient(defaultServer.URL, fallbackServer.URL)
	item := entities.NewQueueItem(uuid.New(), decimal.NewFromInt(1))

	if err := client.Send(context.Background(), item, entities.ProcessorTypeDefault); err != nil {
		t.Fatalf("send to default failed: %v", err)
	}
	if err := client.Send(context.Background(), item, entities.ProcessorTypeFallback); err != nil {
		t.Fatalf("send to fallback failed: %v", err)
	}

	if defaultHits != 1 || fallbackHits != 1 {
		t.Errorf("hits = default %d / fallback %d, want 1 / 1", defaultHits, fallbackHits)
	}
}

func TestProcessorClient_Probe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != HealthCheckPath {
			t.Errorf("path = %s, want %s", r.URL.Path, HealthCheckPath)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"failing": true, "minResponseTime": 350}`))
	}))
	defer server.Close()

	client := NewProcessorClient(server.URL, server.URL)
	health, err := client.Probe(context.Background(), entities.ProcessorTypeDefault)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if !health.Failing || health.MinResponseTime != 350 {
		t.Errorf("health = %+v, want failing=true minResponseTime=350", health)
	}
}

func TestProcessorClient_ProbeNon200IsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewProcessorClient(server.URL, server.URL)
	if _, err := client.Probe(context.Background(), entities.ProcessorTypeDefault); err == nil {
		t.Fatal("expected error on 429 response")
	}
}
