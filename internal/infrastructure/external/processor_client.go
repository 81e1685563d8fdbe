package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"payment-gateway/internal/domain/entities"
)

const (
	PaymentsPath    = "/payments"
	HealthCheckPath = "/payments/service-health"

	// A hung processor must not stall a worker: every outbound call is
	// bounded by this timeout.
	requestTimeout = 1 * time.Second
)

// ProcessorClient implements ProcessorDispatcher and HealthProber against
// the two downstream payment processors.
type ProcessorClient struct {
	client *http.Client
	urls   map[entities.ProcessorType]string
}

// processorPaymentRequest is the payload for POST /payments
type processorPaymentRequest struct {
	CorrelationID string      `json:"correlationId"`
	Amount        json.Number `json:"amount"`
	RequestedAt   string      `json:"requestedAt"`
}

// NewProcessorClient creates a client with a pooled transport
func NewProcessorClient(defaultURL, fallbackURL string) *ProcessorClient {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 50,
		MaxConnsPerHost:     100,
		IdleConnTimeout:     60 * time.Second,
		DisableCompression:  true,
	}

	return &ProcessorClient{
		client: &http.Client{
			Timeout:   requestTimeout,
			Transport: transport,
		},
		urls: map[entities.ProcessorType]string{
			entities.ProcessorTypeDefault:  defaultURL,
			entities.ProcessorTypeFallback: fallbackURL,
		},
	}
}

// Send posts the payment to the given processor. Any transport failure or
// non-2xx status comes back as an error value; nothing panics through this
// boundary.
func (c *ProcessorClient) Send(ctx context.Context, item *entities.QueueItem, processor entities.ProcessorType) error {
	payload, err := json.Marshal(&processorPaymentRequest{
		CorrelationID: item.CorrelationID.String(),
		Amount:        json.Number(item.Amount.String()),
		RequestedAt:   item.RequestedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("erro ao serializar payload de pagamento: %w", err)
	}

	url := c.urls[processor]
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+PaymentsPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("erro ao criar requisição: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("erro ao enviar pagamento para %s: %w", processor.Name(), err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	return fmt.Errorf("processador %s retornou status %d", processor.Name(), resp.StatusCode)
}

// Probe fetches the processor's service-health endpoint
func (c *ProcessorClient) Probe(ctx context.Context, processor entities.ProcessorType) (*entities.ProcessorHealth, error) {
	url := c.urls[processor]
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url+HealthCheckPath, nil)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar requisição de health check: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro ao fazer requisição de health check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("health check retornou status inesperado: %d", resp.StatusCode)
	}

	var health entities.ProcessorHealth
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("erro ao decodificar resposta do health check: %w", err)
	}

	return &health, nil
}
