package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Riboost-Studio/order-print-hub/internal/render"
)

func newTestPDFTransport(t *testing.T, renderer *fakeRenderer, backend *fakeBackend) (*PDFTransport, *Spool) {
	t.Helper()
	spool := NewSpool(t.TempDir(), 20*time.Millisecond, nil)
	backend.exists = fileExists
	return NewPDFTransport(render.DefaultLayout(), renderer, backend, spool, WithPDFClock(clock)), spool
}

func TestPDFTransport_Success(t *testing.T) {
	renderer := &fakeRenderer{}
	backend := &fakeBackend{printers: []string{"Office_Laser", "Other"}, jobID: "Office_Laser-3"}
	tr, spool := newTestPDFTransport(t, renderer, backend)

	status := tr.Print(context.Background(), burgerOrder())
	require.True(t, status.Success, status.Error)
	assert.Equal(t, "Office_Laser", status.PrinterName)
	assert.Equal(t, "Office_Laser-3", status.JobID)
	assert.NoError(t, status.Validate())

	assert.Equal(t, spool.Path("T1"), backend.printedFile)
	assert.Equal(t, "Office_Laser", backend.printedTo)
	assert.True(t, backend.fileExisted, "PDF must exist while the spooler reads it")
	assert.Contains(t, renderer.html, "Order #T1")
	assert.Zero(t, backend.fallbackCalls)

	assert.Eventually(t, func() bool { return !fileExists(spool.Path("T1")) }, 2*time.Second, 10*time.Millisecond)
}

func TestPDFTransport_DefaultPrinter(t *testing.T) {
	for name, backend := range map[string]*fakeBackend{
		"none listed": {},
		"list error":  {listErr: errBoom},
	} {
		t.Run(name, func(t *testing.T) {
			tr, _ := newTestPDFTransport(t, &fakeRenderer{}, backend)
			status := tr.Print(context.Background(), burgerOrder())
			require.True(t, status.Success)
			assert.Equal(t, "default", status.PrinterName)
			assert.Equal(t, "default", backend.printedTo)
			assert.Equal(t, "unknown", status.JobID)
		})
	}
}

func TestPDFTransport_RenderFailureIsTerminal(t *testing.T) {
	backend := &fakeBackend{}
	tr, _ := newTestPDFTransport(t, &fakeRenderer{err: errors.New("chrome crashed")}, backend)

	status := tr.Print(context.Background(), burgerOrder())
	assert.False(t, status.Success)
	assert.Contains(t, status.Error, ErrRenderFailed.Error())
	assert.Contains(t, status.Error, "chrome crashed")
	assert.Zero(t, backend.printCalls)
	assert.Zero(t, backend.fallbackCalls)
	assert.NoError(t, status.Validate())
}

func TestPDFTransport_PrintFailureWithoutFallback(t *testing.T) {
	backend := &fakeBackend{printErr: ErrPrintCommandFailed, fallbackErr: ErrNoFallback}
	tr, spool := newTestPDFTransport(t, &fakeRenderer{}, backend)

	status := tr.Print(context.Background(), burgerOrder())
	assert.False(t, status.Success)
	assert.Equal(t, ErrPrintCommandFailed.Error(), status.Error)
	assert.Equal(t, 1, backend.printCalls)
	assert.Equal(t, 1, backend.fallbackCalls)

	assert.Eventually(t, func() bool { return !fileExists(spool.Path("T1")) }, 2*time.Second, 10*time.Millisecond)
}

func TestPDFTransport_WindowsStyleFallback(t *testing.T) {
	backend := &fakeBackend{printErr: ErrPrintCommandFailed, fallbackJob: "fallback"}
	tr, _ := newTestPDFTransport(t, &fakeRenderer{}, backend)

	status := tr.Print(context.Background(), burgerOrder())
	require.True(t, status.Success)
	assert.Equal(t, "default", status.PrinterName)
	assert.Equal(t, "fallback", status.JobID)
	assert.Equal(t, 1, backend.fallbackCalls)
}

func TestPDFTransport_FallbackFailure(t *testing.T) {
	backend := &fakeBackend{printErr: errors.New("primary"), fallbackErr: errors.New("secondary")}
	tr, _ := newTestPDFTransport(t, &fakeRenderer{}, backend)

	status := tr.Print(context.Background(), burgerOrder())
	assert.False(t, status.Success)
	assert.Equal(t, "primary", status.Error)
	assert.Equal(t, 1, backend.fallbackCalls)
}

func TestPDFTransport_CloseRemovesPending(t *testing.T) {
	spool := NewSpool(t.TempDir(), time.Hour, nil)
	tr := NewPDFTransport(render.DefaultLayout(), &fakeRenderer{}, &fakeBackend{}, spool)

	require.True(t, tr.Print(context.Background(), burgerOrder()).Success)
	assert.True(t, fileExists(spool.Path("T1")))

	tr.Close()
	assert.False(t, fileExists(spool.Path("T1")))
}
