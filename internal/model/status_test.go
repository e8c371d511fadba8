package model

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPrintSucceeded(t *testing.T) {
	s := PrintSucceeded("Kitchen", "42")
	assert.True(t, s.Success)
	assert.Equal(t, "Kitchen", s.PrinterName)
	assert.Equal(t, "42", s.JobID)
	assert.NoError(t, s.Validate())

	s = PrintSucceeded("", "")
	assert.Equal(t, DefaultPrinterName, s.PrinterName)
	assert.Equal(t, UnknownJobID, s.JobID)
	assert.NoError(t, s.Validate())
}

func TestPrintFailed(t *testing.T) {
	s := PrintFailed(errors.New("paper jam"))
	assert.False(t, s.Success)
	assert.Equal(t, "paper jam", s.Error)
	assert.NoError(t, s.Validate())

	assert.NoError(t, PrintFailed(nil).Validate())
}

func TestPrintStatusValidate(t *testing.T) {
	cases := map[string]PrintStatus{
		"empty":              {},
		"success no job":     {Success: true, PrinterName: "p"},
		"success with error": {Success: true, PrinterName: "p", JobID: "1", Error: "x"},
		"failed with job":    {Error: "x", JobID: "1"},
	}
	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, s.Validate())
		})
	}
}

func TestOrderItemSubtotal(t *testing.T) {
	item := OrderItem{Name: "Burger", Quantity: 2, Price: decimal.RequireFromString("12.99")}
	assert.Equal(t, "25.98", item.Subtotal().StringFixed(2))
}
