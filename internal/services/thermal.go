package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Riboost-Studio/order-print-hub/internal/model"
	"github.com/Riboost-Studio/order-print-hub/internal/render"
)

const ThermalPrinterName = "thermal"

// ThermalTransport streams rendered receipts to a thermal device. The device
// is owned by the caller and may be nil when none was found at start-up.
type ThermalTransport struct {
	device Device
	layout render.Layout
	logger *zap.Logger
	now    func() time.Time
}

type ThermalOption func(*ThermalTransport)

func WithThermalLogger(logger *zap.Logger) ThermalOption {
	return func(t *ThermalTransport) { t.logger = logger }
}

func WithThermalClock(now func() time.Time) ThermalOption {
	return func(t *ThermalTransport) { t.now = now }
}

func NewThermalTransport(device Device, layout render.Layout, opts ...ThermalOption) *ThermalTransport {
	t := &ThermalTransport{
		device: device,
		layout: layout,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *ThermalTransport) Name() string { return ThermalPrinterName }

// Available reports whether a device handle is present.
func (t *ThermalTransport) Available() bool { return t.device != nil }

// Print never retries; the orchestrator decides what happens on failure.
func (t *ThermalTransport) Print(ctx context.Context, order model.Order) model.PrintStatus {
	if t.device == nil {
		t.logger.Info("No thermal printer available", zap.String("order_id", order.ID))
		return model.PrintFailed(ErrDeviceUnavailable)
	}

	now := t.now()
	job := newESCPOSJob()
	for i, d := range t.layout.Thermal(order, now) {
		if err := job.emit(d); err != nil {
			t.logger.Warn("Thermal directive failed",
				zap.String("order_id", order.ID),
				zap.Int("index", i),
				zap.Stringer("op", d.Op),
				zap.Error(err))
			return model.PrintFailed(fmt.Errorf("thermal emit: %w", err))
		}
	}

	if err := t.device.Send(ctx, job.Bytes()); err != nil {
		t.logger.Warn("Thermal printing failed",
			zap.String("order_id", order.ID),
			zap.String("device", t.device.Name()),
			zap.Error(err))
		return model.PrintFailed(fmt.Errorf("thermal execute: %w", err))
	}

	t.logger.Info("Order printed via thermal printer",
		zap.String("order_id", order.ID),
		zap.String("device", t.device.Name()),
		zap.Int("bytes", len(job.Bytes())))
	return model.PrintSucceeded(ThermalPrinterName, fmt.Sprintf("thermal-%d", now.UnixMilli()))
}
