package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Riboost-Studio/order-print-hub/internal/model"
)

var fixedNow = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func burgerOrder() model.Order {
	return model.Order{
		ID:           "T1",
		CustomerName: "Jane Doe",
		Items: []model.OrderItem{
			{Name: "Burger", Quantity: 2, Price: decimal.RequireFromString("12.99")},
		},
		Total:     decimal.RequireFromString("25.98"),
		Timestamp: "2026-03-14T18:00:00Z",
	}
}

type fakeDevice struct {
	mu   sync.Mutex
	err  error
	jobs [][]byte
}

func (d *fakeDevice) Name() string { return "fake" }

func (d *fakeDevice) Send(_ context.Context, job []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.jobs = append(d.jobs, append([]byte(nil), job...))
	return nil
}

func (d *fakeDevice) sent() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.jobs)
}

type fakeRenderer struct {
	err   error
	calls int
	html  string
}

func (r *fakeRenderer) RenderPDF(_ context.Context, html string) ([]byte, error) {
	r.calls++
	r.html = html
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

type fakeBackend struct {
	printers    []string
	listErr     error
	printErr    error
	jobID       string
	fallbackErr error
	fallbackJob string

	printCalls    int
	fallbackCalls int
	printedFile   string
	printedTo     string
	fileExisted   bool
	exists        func(string) bool
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) ListPrinters(context.Context) ([]string, error) {
	return b.printers, b.listErr
}

func (b *fakeBackend) Print(_ context.Context, file, printer string) (string, error) {
	b.printCalls++
	b.printedFile = file
	b.printedTo = printer
	if b.exists != nil {
		b.fileExisted = b.exists(file)
	}
	if b.printErr != nil {
		return "", b.printErr
	}
	return b.jobID, nil
}

func (b *fakeBackend) Fallback(context.Context, string) (string, error) {
	b.fallbackCalls++
	if b.fallbackErr != nil {
		return "", b.fallbackErr
	}
	return b.fallbackJob, nil
}

// fakeRunner answers commands by program name.
type fakeRunner struct {
	out   map[string]string
	err   map[string]error
	calls []string
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	if err := r.err[name]; err != nil {
		return nil, err
	}
	return []byte(r.out[name]), nil
}

type stubTransport struct {
	name   string
	status model.PrintStatus
	calls  int
}

func (s *stubTransport) Name() string { return s.name }

func (s *stubTransport) Print(context.Context, model.Order) model.PrintStatus {
	s.calls++
	return s.status
}

var errBoom = errors.New("boom")

func exitError(name string) error {
	return fmt.Errorf("%s: exit status 1", name)
}
