package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Riboost-Studio/order-print-hub/internal/model"
)

const unknownCustomer = "Unknown Customer"

type printResponse struct {
	Success bool              `json:"success"`
	OrderID string            `json:"orderId"`
	Printed bool              `json:"printed"`
	Status  model.PrintStatus `json:"status"`
}

func (h *handler) webhook(c *gin.Context) {
	var order model.Order
	body := http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)
	if err := json.NewDecoder(body).Decode(&order); err != nil {
		h.logger.Error("Webhook error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process order"})
		return
	}
	h.fillDefaults(&order)
	h.logger.Info("New order received via webhook", zap.String("order_id", order.ID))

	h.print(c, order)
}

func (h *handler) testPrint(c *gin.Context) {
	order := TestOrder(h.now())
	h.logger.Info("Test order created", zap.String("order_id", order.ID))

	h.print(c, order)
}

// print runs the pipeline to completion even if the caller goes away, then
// broadcasts the order and its outcome.
func (h *handler) print(c *gin.Context, order model.Order) {
	ctx := context.WithoutCancel(c.Request.Context())
	status := h.printer.PrintOrder(ctx, order)

	if err := h.hub.Publish(model.EventOrder, order); err != nil {
		h.logger.Warn("Failed to broadcast order", zap.String("order_id", order.ID), zap.Error(err))
	}
	if err := h.hub.Publish(model.EventPrintStatus, model.PrintStatusEvent{OrderID: order.ID, Status: status}); err != nil {
		h.logger.Warn("Failed to broadcast print status", zap.String("order_id", order.ID), zap.Error(err))
	}

	c.JSON(http.StatusOK, printResponse{
		Success: true,
		OrderID: order.ID,
		Printed: status.Success,
		Status:  status,
	})
}

func (h *handler) fillDefaults(o *model.Order) {
	now := h.now()
	if o.ID == "" {
		o.ID = fmt.Sprintf("ORD-%d", now.UnixMilli())
	}
	if o.CustomerName == "" {
		o.CustomerName = unknownCustomer
	}
	if o.Items == nil {
		o.Items = []model.OrderItem{}
	}
	if o.Timestamp == "" {
		o.Timestamp = now.UTC().Format(time.RFC3339)
	}
}

// TestOrder is the fixed three-item order printed by the test endpoint.
func TestOrder(now time.Time) model.Order {
	return model.Order{
		ID:           fmt.Sprintf("TEST-%d", now.UnixMilli()),
		CustomerName: "Test Customer",
		Items: []model.OrderItem{
			{Name: "Burger", Quantity: 2, Price: decimal.RequireFromString("12.99")},
			{Name: "Fries", Quantity: 1, Price: decimal.RequireFromString("4.99")},
			{Name: "Drink", Quantity: 2, Price: decimal.RequireFromString("2.99")},
		},
		Total:     decimal.RequireFromString("33.96"),
		Timestamp: now.UTC().Format(time.RFC3339),
		Phone:     "555-0123",
		Address:   "123 Test Street, Test City",
	}
}
