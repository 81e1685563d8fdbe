package handlers

import (
	"errors"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"

	"payment-gateway/internal/application/dtos"
	"payment-gateway/internal/application/usecases"
	"payment-gateway/internal/domain/services"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	submitPaymentUC     *usecases.SubmitPaymentUseCase
	getPaymentSummaryUC *usecases.GetPaymentSummaryUseCase
	purgePaymentsUC     *usecases.PurgePaymentsUseCase
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(
	submitPaymentUC *usecases.SubmitPaymentUseCase,
	getPaymentSummaryUC *usecases.GetPaymentSummaryUseCase,
	purgePaymentsUC *usecases.PurgePaymentsUseCase,
) *PaymentHandler {
	return &PaymentHandler{
		submitPaymentUC:     submitPaymentUC,
		getPaymentSummaryUC: getPaymentSummaryUC,
		purgePaymentsUC:     purgePaymentsUC,
	}
}

// HandlePayments handles POST /payments requests
func (h *PaymentHandler) HandlePayments(ctx *fasthttp.RequestCtx) {
	var req dtos.PaymentRequest

	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.writeErrorResponse(ctx, "Invalid JSON", fasthttp.StatusBadRequest)
		return
	}

	status, err := h.submitPaymentUC.Execute(ctx, &req)
	if err != nil {
		var validationErr *dtos.ValidationError
		if errors.As(err, &validationErr) {
			h.writeErrorResponse(ctx, validationErr.Message, fasthttp.StatusBadRequest)
			return
		}
		if errors.Is(err, services.ErrQueueUnavailable) {
			h.writeErrorResponse(ctx, "Payment queue unavailable, retry later", fasthttp.StatusServiceUnavailable)
			return
		}
		h.writeErrorResponse(ctx, "Internal server error", fasthttp.StatusInternalServerError)
		return
	}

	response := &dtos.PaymentResponse{CorrelationID: req.CorrelationID}
	if status == dtos.AdmissionDuplicate {
		response.Message = "payment already accepted"
		h.writeJSONResponse(ctx, response, fasthttp.StatusOK)
		return
	}

	response.Message = "payment received and queued for processing"
	h.writeJSONResponse(ctx, response, fasthttp.StatusAccepted)
}

// HandlePaymentsSummary handles GET /payments-summary requests
func (h *PaymentHandler) HandlePaymentsSummary(ctx *fasthttp.RequestCtx) {
	req := &dtos.PaymentSummaryRequest{
		From: dtos.ParseSummaryBound(string(ctx.QueryArgs().Peek("from"))),
		To:   dtos.ParseSummaryBound(string(ctx.QueryArgs().Peek("to"))),
	}

	response := h.getPaymentSummaryUC.Execute(ctx, req)
	h.writeJSONResponse(ctx, response, fasthttp.StatusOK)
}

// HandlePurgePayments handles POST /purge-payments requests
func (h *PaymentHandler) HandlePurgePayments(ctx *fasthttp.RequestCtx) {
	if err := h.purgePaymentsUC.Execute(ctx); err != nil {
		h.writeErrorResponse(ctx, "Internal server error", fasthttp.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(ctx, map[string]string{"message": "All payments purged."}, fasthttp.StatusOK)
}

// writeJSONResponse writes a JSON response
func (h *PaymentHandler) writeJSONResponse(ctx *fasthttp.RequestCtx, data interface{}, statusCode int) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(statusCode)
	body, _ := json.Marshal(data)
	ctx.SetBody(body)
}

// writeErrorResponse writes an error response
func (h *PaymentHandler) writeErrorResponse(ctx *fasthttp.RequestCtx, message string, statusCode int) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(statusCode)
	body, _ := json.Marshal(map[string]string{"error": message})
	ctx.SetBody(body)
}
