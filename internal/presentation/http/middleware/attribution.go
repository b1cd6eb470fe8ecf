package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/magnetomarketing/magneto-web/internal/domain/widget"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/security"
)

const (
	// AttributionCookie holds the signed first-touch UTM parameters.
	AttributionCookie = "mm_attr"
	attributionKey    = "attribution"
)

// AttributionMiddleware keeps the visitor's first non-empty utm_* capture
// in a signed cookie and exposes it to handlers through SessionParams.
// Later captures never overwrite it.
func AttributionMiddleware(secret string, ttl time.Duration, logger *logging.ChanneledLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params widget.Params
		if raw, err := c.Cookie(AttributionCookie); err == nil && raw != "" {
			parsed, err := security.ParseAttributionToken(raw, secret)
			if err != nil {
				logger.Widget().Debug("Discarding attribution cookie", "error", err.Error())
			} else {
				params = widget.Params(parsed)
			}
		}

		if params.Empty() {
			if captured := widget.CaptureFromQuery(c.Request.URL.RawQuery); !captured.Empty() {
				params = captured
				token, err := security.GenerateAttributionToken(captured, secret, ttl)
				if err != nil {
					logger.Widget().Error("Failed to sign attribution cookie", "error", err.Error())
				} else {
					c.SetSameSite(http.SameSiteLaxMode)
					c.SetCookie(AttributionCookie, token, int(ttl.Seconds()), "/", "", c.Request.TLS != nil, true)
				}
			}
		}

		c.Set(attributionKey, params)
		c.Next()
	}
}

// SessionParams returns the attribution captured for this visitor, if any.
func SessionParams(c *gin.Context) widget.Params {
	if v, ok := c.Get(attributionKey); ok {
		if params, ok := v.(widget.Params); ok {
			return params
		}
	}
	return nil
}
