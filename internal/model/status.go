package model

import "errors"

const (
	DefaultPrinterName = "default"
	UnknownJobID       = "unknown"
)

// PrintStatus is the normalized outcome of one print attempt. Build it with
// PrintSucceeded or PrintFailed so that exactly one of the two shapes holds.
type PrintStatus struct {
	Success     bool   `json:"success"`
	PrinterName string `json:"printerName,omitempty"`
	JobID       string `json:"jobId,omitempty"`
	Error       string `json:"error,omitempty"`
}

func PrintSucceeded(printerName, jobID string) PrintStatus {
	if printerName == "" {
		printerName = DefaultPrinterName
	}
	if jobID == "" {
		jobID = UnknownJobID
	}
	return PrintStatus{Success: true, PrinterName: printerName, JobID: jobID}
}

func PrintFailed(err error) PrintStatus {
	msg := "unknown print error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return PrintStatus{Success: false, Error: msg}
}

// Validate reports whether the status is one of the two legal shapes.
func (s PrintStatus) Validate() error {
	if s.Success {
		if s.PrinterName == "" || s.JobID == "" {
			return errors.New("successful status requires printer name and job id")
		}
		if s.Error != "" {
			return errors.New("successful status must not carry an error")
		}
		return nil
	}
	if s.Error == "" {
		return errors.New("failed status requires an error message")
	}
	if s.PrinterName != "" || s.JobID != "" {
		return errors.New("failed status must not carry printer name or job id")
	}
	return nil
}
