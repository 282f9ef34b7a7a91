package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ServeMedia streams stored post images. Paths are opaque references created
// by saveImage, anything trying to escape the media root is a 404.
func (h *Handlers) ServeMedia(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")
	if path == "" || strings.Contains(path, "..") {
		h.NotFound(c)
		return
	}
	h.Media.Serve(path, c.Request, c.Writer)
}
