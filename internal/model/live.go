package model

import "encoding/json"

type EventType string

const (
	EventConnected   EventType = "connected"
	EventOrder       EventType = "message"
	EventPrintStatus EventType = "print_status"
	EventHeartbeat   EventType = "heartbeat"
)

// --- Live listener messages ---

// LiveEvent is one message fanned out to dashboards. Data is pre-encoded JSON.
type LiveEvent struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

type PrintStatusEvent struct {
	OrderID string      `json:"orderId"`
	Status  PrintStatus `json:"status"`
}
