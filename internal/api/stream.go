package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Riboost-Studio/order-print-hub/internal/model"
)

func (h *handler) stream(c *gin.Context) {
	header := c.Writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("Access-Control-Allow-Headers", "Cache-Control")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	sub := h.hub.Subscribe()
	defer h.hub.Unsubscribe(sub)

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			h.logger.Debug("SSE client disconnected", zap.String("client_id", sub.ID))
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := writeEvent(c.Writer, ev); err != nil {
				h.logger.Debug("SSE write failed", zap.String("client_id", sub.ID), zap.Error(err))
				return
			}
			c.Writer.Flush()
		}
	}
}

func writeEvent(w io.Writer, ev model.LiveEvent) error {
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, ev.Data)
	return err
}
