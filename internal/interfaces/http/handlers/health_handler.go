package handlers

import (
	"time"

	"github.com/valyala/fasthttp"

	"payment-gateway/internal/domain/entities"
	"payment-gateway/internal/domain/services"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	queue       services.PaymentQueue
	healthCache services.HealthCache
	startedAt   time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(queue services.PaymentQueue, healthCache services.HealthCache) *HealthHandler {
	return &HealthHandler{
		queue:       queue,
		healthCache: healthCache,
		startedAt:   time.Now().UTC(),
	}
}

type processorStatus struct {
	Failing         *bool  `json:"failing"`
	MinResponseTime *int64 `json:"minResponseTime"`
	FeeRate         string `json:"feeRate"`
}

type healthResponse struct {
	Status     string                     `json:"status"`
	Uptime     string                     `json:"uptime"`
	QueueDepth int64                      `json:"queueDepth"`
	Processors map[string]processorStatus `json:"processors"`
}

// HandleHealth handles GET /health requests
func (h *HealthHandler) HandleHealth(ctx *fasthttp.RequestCtx) {
	response := healthResponse{
		Status:     "healthy",
		Uptime:     time.Since(h.startedAt).Round(time.Second).String(),
		Processors: make(map[string]processorStatus, 2),
	}

	if depth, err := h.queue.Size(ctx); err == nil {
		response.QueueDepth = depth
	}

	for _, processor := range []entities.ProcessorType{entities.ProcessorTypeDefault, entities.ProcessorTypeFallback} {
		status := processorStatus{FeeRate: processor.FeeRate().String()}
		if verdict, err := h.healthCache.Get(ctx, processor); err == nil && verdict != nil {
			status.Failing = &verdict.Failing
			status.MinResponseTime = &verdict.MinResponseTime
		}
		response.Processors[processor.Name()] = status
	}

	ctx.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusOK)
	body, _ := json.Marshal(response)
	ctx.SetBody(body)
}
