package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/fileproxy"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/media"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/performance"
)

// ImageHandlers serves resized CMS images.
type ImageHandlers struct {
	processor   *media.ImageProcessor
	allow       fileproxy.AllowList
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

func NewImageHandlers(processor *media.ImageProcessor, allow fileproxy.AllowList, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ImageHandlers {
	return &ImageHandlers{processor: processor, allow: allow, logger: logger, perfTracker: perfTracker}
}

// Optimize handles GET /_img?url=&w=. WebP is served when the client
// accepts it, JPEG otherwise.
func (h *ImageHandlers) Optimize(c *gin.Context) {
	src, err := fileproxy.ParseTarget(c.Query("url"))
	if err == nil {
		err = h.allow.AllowCheck(src)
	}
	if err != nil {
		c.String(http.StatusBadRequest, fileproxy.Message(err))
		return
	}
	width, _ := strconv.Atoi(c.Query("w"))

	format := media.FormatJPEG
	if strings.Contains(c.GetHeader("Accept"), "image/webp") {
		format = media.FormatWebP
	}

	marker := h.perfTracker.StartOperation("image:optimize")
	defer h.perfTracker.CompleteOperation(marker)

	rendition, err := h.processor.Optimize(c.Request.Context(), src, width, format)
	if err != nil {
		marker.SetError(err)
		if errors.Is(err, media.ErrSourceUnavailable) {
			c.String(http.StatusNotFound, "Image not found")
			return
		}
		h.logger.Proxy().Error("Image optimisation failed", "src", src.String(), "width", width, "error", err.Error())
		c.String(http.StatusInternalServerError, "Failed to process image")
		return
	}

	c.Header("Content-Type", rendition.ContentType)
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Header("Vary", "Accept")
	c.File(rendition.Path)
}
