package handler

import (
	"context"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"loan-feature-engine/internal/dataset"
	"loan-feature-engine/internal/engine"
	"loan-feature-engine/internal/logger"
	"loan-feature-engine/internal/model"
)

const calculationTimeout = 30 * time.Second

type Handler struct {
	opts engine.Options
	log  *logger.Logger
	now  func() time.Time
}

func New(opts engine.Options, log *logger.Logger) *Handler {
	return &Handler{opts: opts, log: log, now: time.Now}
}

func (h *Handler) Handle(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/calculate":
		h.calculate(ctx)
	case "/health":
		writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
	default:
		writeError(ctx, fasthttp.StatusNotFound, "Not found")
	}
}

func (h *Handler) calculate(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req model.CalculationRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if len(req.Clients) == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "At least one client is required")
		return
	}

	// The request clock is read once here and handed to every calculator.
	ref := h.now()
	// A blank reference_date converts to nil and keeps the request clock.
	t, err := dataset.ConvertApplicationDate(req.ReferenceDate)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid reference_date: "+err.Error())
		return
	}
	if t != nil {
		ref = *t
	}

	calcCtx, cancel := context.WithTimeout(context.Background(), calculationTimeout)
	defer cancel()

	resp, err := engine.Process(calcCtx, &req, ref, h.opts)
	if err != nil {
		h.log.Error("Calculation failed", "tenant_id", req.TenantID, "error", err)
		writeError(ctx, fasthttp.StatusInternalServerError, "Calculation failed")
		return
	}

	h.log.Info("Calculation completed",
		"calculation_id", resp.CalculationMetadata.CalculationID,
		"tenant_id", req.TenantID,
		"clients", len(req.Clients),
		"outcome", resp.CalculationMetadata.CalculationOutcome,
		"duration_ms", resp.CalculationMetadata.CalculationDurationMs,
	)
	writeJSON(ctx, fasthttp.StatusOK, resp)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v interface{}) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	if err := json.NewEncoder(ctx).Encode(v); err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
	}
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, model.ErrorResponse{
		Status:  status,
		Message: message,
	})
}
