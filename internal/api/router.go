// Package api exposes the print pipeline and the live feed over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Riboost-Studio/order-print-hub/internal/logger"
	"github.com/Riboost-Studio/order-print-hub/internal/model"
	"github.com/Riboost-Studio/order-print-hub/internal/services"
)

// OrderPrinter runs one order through the print pipeline.
type OrderPrinter interface {
	PrintOrder(ctx context.Context, order model.Order) model.PrintStatus
}

// LiveHub is the subset of services.Hub used by the handlers.
type LiveHub interface {
	Publish(eventType model.EventType, payload any) error
	Subscribe() *services.Subscriber
	Unsubscribe(s *services.Subscriber)
	Count() int
	Queued() int
}

type Deps struct {
	Printer OrderPrinter
	Hub     LiveHub
	// Thermal reports whether a receipt printer is attached. Optional.
	Thermal  interface{ Available() bool }
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
	// MaxBodyBytes caps webhook payloads; 0 means 1 MiB.
	MaxBodyBytes int64
	Now          func() time.Time
}

type handler struct {
	printer  OrderPrinter
	hub      LiveHub
	thermal  interface{ Available() bool }
	logger   *zap.Logger
	maxBody  int64
	now      func() time.Time
	upgrader websocket.Upgrader
}

func NewRouter(d Deps) *gin.Engine {
	h := &handler{
		printer: d.Printer,
		hub:     d.Hub,
		thermal: d.Thermal,
		logger:  d.Logger,
		maxBody: d.MaxBodyBytes,
		now:     d.Now,
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	if h.maxBody <= 0 {
		h.maxBody = 1 << 20
	}
	if h.now == nil {
		h.now = time.Now
	}
	h.upgrader = newUpgrader()

	r := gin.New()
	r.Use(logger.Recovery(h.logger), logger.GinMiddleware(h.logger))

	orders := r.Group("/api/orders")
	orders.POST("/webhook", h.webhook)
	orders.POST("/test-print", h.testPrint)
	orders.GET("/stream", h.stream)
	orders.GET("/ws", h.socket)

	r.GET("/health", h.health)
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}
	return r
}

func (h *handler) health(c *gin.Context) {
	thermal := false
	if h.thermal != nil {
		thermal = h.thermal.Available()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"thermal":     thermal,
		"subscribers": h.hub.Count(),
		"queued":      h.hub.Queued(),
	})
}
