package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/pokeprice/internal/overlay"
)

// Events streams the overlay's effect batches as Server-Sent Events. The
// first event is the current panel so a client can render before anything
// changes.
func (h *OverlayHandler) Events(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	id, ch := sess.Broker.Subscribe()
	defer sess.Broker.Unsubscribe(id)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.SSEvent("panel", overlayResponse{ID: sess.ID, Panel: sess.Panel.View()})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case batch, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(overlay.EventName(batch), batch)
			return true
		}
	})
}
