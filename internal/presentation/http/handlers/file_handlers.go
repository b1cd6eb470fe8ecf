package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/fileproxy"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/performance"
)

// FileHandlers proxies gated downloads from the CMS host.
type FileHandlers struct {
	proxy       *fileproxy.Proxy
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewFileHandlers creates file proxy handlers with injected dependencies
func NewFileHandlers(proxy *fileproxy.Proxy, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *FileHandlers {
	return &FileHandlers{proxy: proxy, logger: logger, perfTracker: perfTracker}
}

// Download streams a PDF as an attachment.
func (h *FileHandlers) Download(c *gin.Context) {
	if methodNotAllowed(c, http.MethodGet) {
		return
	}
	target, err := fileproxy.ParseTarget(c.Query("url"))
	if err == nil {
		err = h.proxy.AllowList().AllowStream(target)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": fileproxy.Message(err)})
		return
	}

	marker := h.perfTracker.StartOperation("proxy:download")
	defer h.perfTracker.CompleteOperation(marker)

	download, err := h.proxy.Open(c.Request.Context(), target)
	if err != nil {
		marker.SetError(err)
		var upstream *fileproxy.UpstreamError
		switch {
		case errors.As(err, &upstream):
			c.Data(upstream.StatusCode, "text/plain; charset=utf-8", []byte("File not found on the source server"))
		case errors.Is(err, fileproxy.ErrPDFNotFound):
			c.Data(http.StatusNotFound, "text/plain; charset=utf-8", []byte(err.Error()))
		default:
			h.logger.Proxy().Error("Download proxy failed", "host", target.Host, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error while proxying file"})
		}
		return
	}
	defer download.Body.Close()

	h.logger.Proxy().Info("Streaming download", "file", download.Filename, "source", download.Source)
	c.DataFromReader(http.StatusOK, -1, download.ContentType, download.Body, map[string]string{
		"Content-Disposition":   `attachment; filename="` + download.Filename + `"`,
		"Cache-Control":         "private, max-age=60",
		"X-Download-Source":     download.Source,
		"X-Remote-Content-Type": download.ContentType,
	})
}

// DownloadCheck reports whether a URL resolves to a downloadable PDF.
func (h *FileHandlers) DownloadCheck(c *gin.Context) {
	if methodNotAllowed(c, http.MethodGet) {
		return
	}
	target, err := fileproxy.ParseTarget(c.Query("url"))
	if err == nil {
		err = h.proxy.AllowList().AllowCheck(target)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": fileproxy.Message(err)})
		return
	}

	marker := h.perfTracker.StartOperation("proxy:check")
	defer h.perfTracker.CompleteOperation(marker)

	result, status := h.proxy.Check(c.Request.Context(), target)
	marker.SetSuccess(result.Success)
	c.JSON(status, result)
}
