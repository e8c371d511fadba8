package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Riboost-Studio/order-print-hub/internal/model"
)

// Transport is one way of getting an order onto paper.
type Transport interface {
	Name() string
	Print(ctx context.Context, order model.Order) model.PrintStatus
}

// Orchestrator tries the thermal transport and falls back to PDF. There is
// no further escalation and no retry within a transport.
type Orchestrator struct {
	primary  Transport
	fallback Transport
	logger   *zap.Logger
	metrics  *Metrics
}

type OrchestratorOption func(*Orchestrator)

func WithOrchestratorLogger(logger *zap.Logger) OrchestratorOption {
	return func(o *Orchestrator) { o.logger = logger }
}

func WithMetrics(m *Metrics) OrchestratorOption {
	return func(o *Orchestrator) { o.metrics = m }
}

func NewOrchestrator(thermal, pdf Transport, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		primary:  thermal,
		fallback: pdf,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) PrintOrder(ctx context.Context, order model.Order) model.PrintStatus {
	o.logger.Info("Starting server-side print", zap.String("order_id", order.ID))

	status := o.attempt(ctx, o.primary, order)
	if !status.Success {
		o.logger.Info("Falling back to PDF printing",
			zap.String("order_id", order.ID),
			zap.String("reason", status.Error))
		status = o.attempt(ctx, o.fallback, order)
	}

	if status.Success {
		o.logger.Info("Print successful",
			zap.String("order_id", order.ID),
			zap.String("printer", status.PrinterName),
			zap.String("job_id", status.JobID))
	} else {
		o.logger.Error("Print failed",
			zap.String("order_id", order.ID),
			zap.String("error", status.Error))
	}
	o.metrics.observeOrder(status)
	return status
}

func (o *Orchestrator) attempt(ctx context.Context, t Transport, order model.Order) model.PrintStatus {
	start := time.Now()
	status := t.Print(ctx, order)
	o.metrics.observeAttempt(t.Name(), status, time.Since(start))
	return status
}
