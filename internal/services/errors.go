package services

import "errors"

var (
	// ErrDeviceUnavailable means no thermal device handle was opened at start-up.
	ErrDeviceUnavailable = errors.New("thermal printer not initialized")
	// ErrRenderFailed covers markup and PDF generation failures.
	ErrRenderFailed = errors.New("render failed")
	// ErrPrintCommandFailed means the OS print command did not report success.
	ErrPrintCommandFailed = errors.New("print command failed")
	// ErrNoFallback is returned by backends without a secondary print mechanism.
	ErrNoFallback = errors.New("no fallback print mechanism")
)
