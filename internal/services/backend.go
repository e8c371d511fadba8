package services

import (
	"context"
	"fmt"
)

// PrinterBackend is the OS print subsystem. One variant is selected at
// start-up and reused for every PDF print.
type PrinterBackend interface {
	Name() string
	// ListPrinters returns the system printer names, best first.
	ListPrinters(ctx context.Context) ([]string, error)
	// Print sends file to printer ("default" for the system default) and
	// returns the spooler job id when one is reported.
	Print(ctx context.Context, file, printer string) (string, error)
	// Fallback is a secondary mechanism tried once after Print fails.
	// Backends without one return ErrNoFallback.
	Fallback(ctx context.Context, file string) (string, error)
}

// NewPrinterBackend picks the backend for goos (runtime.GOOS values).
func NewPrinterBackend(goos string, runner CommandRunner) (PrinterBackend, error) {
	switch goos {
	case "windows":
		return &WindowsBackend{runner: runner}, nil
	case "darwin":
		return &MacBackend{cups: cups{runner: runner}}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return &LinuxBackend{cups: cups{runner: runner}}, nil
	default:
		return nil, fmt.Errorf("no printer backend for %s", goos)
	}
}
