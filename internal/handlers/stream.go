package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// streamSnapshots writes every snapshot as a Server-Sent Event until the
// client goes away or the feed stops.
func streamSnapshots[T any](c *gin.Context, event string, updates <-chan T, render func(T) any) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case snapshot, ok := <-updates:
			if !ok {
				return
			}
			c.SSEvent(event, render(snapshot))
			c.Writer.Flush()
		}
	}
}
