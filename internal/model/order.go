package model

import "github.com/shopspring/decimal"

// --- Order Structures (webhook JSON) ---

type Order struct {
	ID           string      `json:"id"`
	CustomerName string      `json:"customerName"`
	Items        []OrderItem `json:"items"`
	// Total is caller-authoritative and never recomputed from Items.
	Total     decimal.Decimal `json:"total"`
	Timestamp string          `json:"timestamp"`
	Phone     string          `json:"phone,omitempty"`
	Address   string          `json:"address,omitempty"`
}

type OrderItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Subtotal is quantity times unit price for a single line.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
