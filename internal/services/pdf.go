package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Riboost-Studio/order-print-hub/internal/model"
	"github.com/Riboost-Studio/order-print-hub/internal/render"
)

const PDFTransportName = "pdf"

// PDFTransport renders the order to a PDF and hands it to the OS spooler.
type PDFTransport struct {
	layout   render.Layout
	renderer PDFRenderer
	backend  PrinterBackend
	spool    *Spool
	logger   *zap.Logger
	now      func() time.Time
}

type PDFOption func(*PDFTransport)

func WithPDFLogger(logger *zap.Logger) PDFOption {
	return func(t *PDFTransport) { t.logger = logger }
}

func WithPDFClock(now func() time.Time) PDFOption {
	return func(t *PDFTransport) { t.now = now }
}

func NewPDFTransport(layout render.Layout, renderer PDFRenderer, backend PrinterBackend, spool *Spool, opts ...PDFOption) *PDFTransport {
	t := &PDFTransport{
		layout:   layout,
		renderer: renderer,
		backend:  backend,
		spool:    spool,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *PDFTransport) Name() string { return PDFTransportName }

func (t *PDFTransport) Print(ctx context.Context, order model.Order) model.PrintStatus {
	log := t.logger.With(zap.String("order_id", order.ID))
	log.Info("Generating PDF for order")

	html, err := t.layout.Document(order, t.now())
	if err != nil {
		log.Error("PDF printing failed", zap.Error(err))
		return model.PrintFailed(fmt.Errorf("%w: %v", ErrRenderFailed, err))
	}

	file, err := t.spool.Acquire(order.ID)
	if err != nil {
		log.Error("PDF printing failed", zap.Error(err))
		return model.PrintFailed(err)
	}
	defer file.Release()

	pdf, err := t.renderer.RenderPDF(ctx, html)
	if err != nil {
		log.Error("PDF printing failed", zap.Error(err))
		return model.PrintFailed(fmt.Errorf("%w: %v", ErrRenderFailed, err))
	}
	if err := file.Write(pdf); err != nil {
		log.Error("PDF printing failed", zap.Error(err))
		return model.PrintFailed(err)
	}

	printer := t.selectPrinter(ctx)
	jobID, err := t.backend.Print(ctx, file.Path, printer)
	if err == nil {
		log.Info("PDF sent to printer successfully",
			zap.String("printer", printer),
			zap.String("job_id", jobID))
		return model.PrintSucceeded(printer, jobID)
	}
	log.Warn("Print command failed", zap.String("backend", t.backend.Name()), zap.Error(err))

	fallbackJob, fbErr := t.backend.Fallback(ctx, file.Path)
	switch {
	case fbErr == nil:
		log.Info("PDF sent via fallback print", zap.String("job_id", fallbackJob))
		return model.PrintSucceeded(model.DefaultPrinterName, fallbackJob)
	case !errors.Is(fbErr, ErrNoFallback):
		log.Error("Fallback print also failed", zap.Error(fbErr))
	}
	return model.PrintFailed(err)
}

// selectPrinter takes the first discovered printer or "default".
func (t *PDFTransport) selectPrinter(ctx context.Context) string {
	printers, err := t.backend.ListPrinters(ctx)
	if err != nil {
		t.logger.Warn("Failed to get printers", zap.Error(err))
		return model.DefaultPrinterName
	}
	t.logger.Debug("Available printers", zap.Strings("printers", printers))
	if len(printers) == 0 {
		return model.DefaultPrinterName
	}
	return printers[0]
}

// Close removes temp files whose deletion is still pending.
func (t *PDFTransport) Close() {
	t.spool.Close()
}
