package services

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Riboost-Studio/order-print-hub/internal/model"
)

// cups holds the parts shared by the macOS and Linux backends.
type cups struct {
	runner CommandRunner
}

// ListPrinters parses `lpstat -p` lines of the form "printer NAME is idle...".
func (c cups) ListPrinters(ctx context.Context) ([]string, error) {
	out, err := c.runner.Run(ctx, "lpstat", "-p")
	if err != nil {
		return nil, err
	}
	var printers []string
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) >= 2 && fields[0] == "printer" {
			printers = append(printers, fields[1])
		}
	}
	return printers, nil
}

func (c cups) Fallback(context.Context, string) (string, error) {
	return "", ErrNoFallback
}

// --- Linux ---

type LinuxBackend struct {
	cups
}

func (b *LinuxBackend) Name() string { return "linux" }

func (b *LinuxBackend) Print(ctx context.Context, file, printer string) (string, error) {
	args := []string{}
	if printer != "" && printer != model.DefaultPrinterName {
		args = append(args, "-d", printer)
	}
	args = append(args, file)

	out, err := b.runner.Run(ctx, "lp", args...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPrintCommandFailed, err)
	}
	job, ok := parseLPRequestID(string(out))
	if !ok {
		return "", fmt.Errorf("%w: unexpected lp output %q", ErrPrintCommandFailed, strings.TrimSpace(string(out)))
	}
	return job, nil
}

// parseLPRequestID extracts "Office-12" from "request id is Office-12 (1 file(s))".
func parseLPRequestID(out string) (string, bool) {
	const marker = "request id is "
	i := strings.Index(out, marker)
	if i < 0 {
		return "", false
	}
	fields := strings.Fields(out[i+len(marker):])
	if len(fields) == 0 {
		return model.UnknownJobID, true
	}
	return fields[0], true
}

// --- macOS ---

type MacBackend struct {
	cups
}

func (b *MacBackend) Name() string { return "darwin" }

// Print uses lpr, which is silent on success, then asks lpq for the job id.
func (b *MacBackend) Print(ctx context.Context, file, printer string) (string, error) {
	var queue []string
	if printer != "" && printer != model.DefaultPrinterName {
		queue = []string{"-P", printer}
	}

	if _, err := b.runner.Run(ctx, "lpr", append(queue, file)...); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPrintCommandFailed, err)
	}

	out, err := b.runner.Run(ctx, "lpq", queue...)
	if err != nil {
		return model.UnknownJobID, nil
	}
	return parseLPQJobID(string(out)), nil
}

// parseLPQJobID reads the Job column of the last queue entry.
func parseLPQJobID(out string) string {
	job := model.UnknownJobID
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 {
			continue
		}
		if _, err := strconv.Atoi(fields[2]); err == nil {
			job = fields[2]
		}
	}
	return job
}
