package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/magnetomarketing/magneto-web/internal/application/services"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/performance"
	"github.com/magnetomarketing/magneto-web/internal/presentation/http/middleware"
)

// ContactFormRequest is the contact form body, JSON or form encoded.
type ContactFormRequest struct {
	Name         string `json:"name" form:"name"`
	Email        string `json:"email" form:"email" binding:"required,email"`
	BusinessType string `json:"businessType" form:"businessType"`
	Message      string `json:"message" form:"message"`
	Campaign     string `json:"campaign" form:"campaign"`
}

// SubscribeFormRequest is the email-capture body.
type SubscribeFormRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Campaign string `json:"campaign" form:"campaign"`
	Term     string `json:"term" form:"term"`
}

// LeadHandlers serves the contact and subscribe endpoints.
type LeadHandlers struct {
	contact     *services.ContactService
	subscribe   *services.SubscribeService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewLeadHandlers creates lead handlers with injected dependencies
func NewLeadHandlers(contact *services.ContactService, subscribe *services.SubscribeService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *LeadHandlers {
	return &LeadHandlers{
		contact:     contact,
		subscribe:   subscribe,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

func methodNotAllowed(c *gin.Context, allow string) bool {
	if c.Request.Method == allow {
		return false
	}
	c.Header("Allow", allow)
	c.JSON(http.StatusMethodNotAllowed, gin.H{"success": false, "message": "Method not allowed"})
	return true
}

// Contact handles POST /api/contact. It answers 200 when the notification
// email went out, whatever happened on the mailing list.
func (h *LeadHandlers) Contact(c *gin.Context) {
	if methodNotAllowed(c, http.MethodPost) {
		return
	}
	start := time.Now()

	var req ContactFormRequest
	if err := c.ShouldBind(&req); err != nil || !services.ValidEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid email"})
		return
	}

	result, err := h.contact.Submit(c.Request.Context(), services.ContactRequest{
		Name:         req.Name,
		Email:        req.Email,
		BusinessType: req.BusinessType,
		Message:      req.Message,
		CampaignTag:  req.Campaign,
		UTM:          middleware.SessionParams(c),
		ClientIP:     c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	})
	switch {
	case errors.Is(err, services.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid email"})
		return
	case errors.Is(err, services.ErrTooManySubmissions):
		c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "message": "Too many submissions, please try again later"})
		return
	case err != nil:
		h.logger.Contact().Error("Contact submission failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	h.logger.Perf().Info("Performance for Contact request", "duration", time.Since(start), "delivered", result.Delivered)
	if !result.Delivered {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to deliver contact message",
			"details": result,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Contact submitted",
		"details": result,
	})
}

// Subscribe handles POST /api/subscribe and returns the booking URL the
// browser should open next.
func (h *LeadHandlers) Subscribe(c *gin.Context) {
	if methodNotAllowed(c, http.MethodPost) {
		return
	}

	var req SubscribeFormRequest
	if err := c.ShouldBind(&req); err != nil || !services.ValidEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid email"})
		return
	}

	result, err := h.subscribe.Subscribe(c.Request.Context(), services.SubscribeRequest{
		Name:      req.Name,
		Email:     req.Email,
		Campaign:  req.Campaign,
		Term:      req.Term,
		Session:   middleware.SessionParams(c),
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid email"})
			return
		}
		h.logger.Contact().Error("Subscribe failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}
	c.JSON(status, result)
}
