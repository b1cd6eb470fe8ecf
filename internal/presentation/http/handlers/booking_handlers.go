package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/magnetomarketing/magneto-web/internal/application/services"
	"github.com/magnetomarketing/magneto-web/internal/domain/widget"
	"github.com/magnetomarketing/magneto-web/internal/presentation/http/middleware"
)

// BookingHandlers serves the no-script booking redirect.
type BookingHandlers struct {
	booking *services.BookingService
}

func NewBookingHandlers(booking *services.BookingService) *BookingHandlers {
	return &BookingHandlers{booking: booking}
}

// Book redirects to the scheduling page with attribution applied.
func (h *BookingHandlers) Book(c *gin.Context) {
	target := h.booking.Redirect(widget.Intent{
		CampaignTag:       c.Query("campaign"),
		ExplicitTargetURL: c.Query("url"),
		Term:              c.Query("term"),
	}, middleware.SessionParams(c))

	c.Header("Cache-Control", "no-store")
	c.Redirect(http.StatusFound, target)
}
