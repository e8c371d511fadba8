package services

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/Riboost-Studio/order-print-hub/internal/model"
)

const (
	successMarker         = "SUCCESS"
	fallbackSuccessMarker = "FALLBACK_SUCCESS"
	fallbackJobID         = "fallback"
)

// WindowsBackend drives the spooler through PowerShell.
type WindowsBackend struct {
	runner CommandRunner
}

func (b *WindowsBackend) Name() string { return "windows" }

func (b *WindowsBackend) powershell(ctx context.Context, script string) (string, error) {
	out, err := b.runner.Run(ctx, "powershell", "-NoProfile", "-NonInteractive", "-WindowStyle", "Hidden", "-Command", script)
	return string(out), err
}

func (b *WindowsBackend) ListPrinters(ctx context.Context) ([]string, error) {
	out, err := b.powershell(ctx, "Get-CimInstance -ClassName Win32_Printer | Select-Object -ExpandProperty Name")
	if err != nil {
		return nil, err
	}
	var printers []string
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		if name := strings.TrimSpace(sc.Text()); name != "" {
			printers = append(printers, name)
		}
	}
	return printers, nil
}

func (b *WindowsBackend) Print(ctx context.Context, file, printer string) (string, error) {
	verb := "-Verb Print"
	if printer != "" && printer != model.DefaultPrinterName {
		verb = "-Verb PrintTo -ArgumentList " + psQuote(`"`+printer+`"`)
	}
	script := fmt.Sprintf(
		"Start-Process -FilePath %s %s -WindowStyle Hidden -Wait; Write-Output '%s'",
		psQuote(file), verb, successMarker)

	out, err := b.powershell(ctx, script)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPrintCommandFailed, err)
	}
	job, ok := parseMarker(out, successMarker)
	if !ok {
		return "", fmt.Errorf("%w: no %s marker in output", ErrPrintCommandFailed, successMarker)
	}
	return job, nil
}

// Fallback prints through notepad's /p switch on the first installed printer.
func (b *WindowsBackend) Fallback(ctx context.Context, file string) (string, error) {
	script := fmt.Sprintf(
		"$printer = Get-CimInstance -ClassName Win32_Printer | Select-Object -First 1; "+
			"if ($printer) { $proc = Start-Process -FilePath 'notepad.exe' -ArgumentList '/p', %s -WindowStyle Hidden -PassThru; "+
			"$proc.WaitForExit(10000) | Out-Null; "+
			"if ($proc.HasExited) { Write-Output '%s' } else { $proc.Kill(); Write-Output 'TIMEOUT' } } "+
			"else { Write-Output 'NO_PRINTER' }",
		psQuote(file), fallbackSuccessMarker)

	out, err := b.powershell(ctx, script)
	if err != nil {
		return "", fmt.Errorf("%w: fallback: %v", ErrPrintCommandFailed, err)
	}
	if !strings.Contains(out, fallbackSuccessMarker) {
		return "", fmt.Errorf("%w: fallback reported %q", ErrPrintCommandFailed, strings.TrimSpace(out))
	}
	return fallbackJobID, nil
}

// parseMarker finds a line starting with marker, optionally followed by
// ":<job id>".
func parseMarker(out, marker string) (string, bool) {
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, marker) {
			continue
		}
		if _, job, found := strings.Cut(line, ":"); found && strings.TrimSpace(job) != "" {
			return strings.TrimSpace(job), true
		}
		return model.UnknownJobID, true
	}
	return "", false
}

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
