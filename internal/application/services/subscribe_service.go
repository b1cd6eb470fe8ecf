package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/magnetomarketing/magneto-web/internal/domain/entities/lead"
	"github.com/magnetomarketing/magneto-web/internal/domain/widget"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/mailinglist"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/metrics"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/performance"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/security"
)

// SubscribeRequest is an email-capture post that precedes a booking.
type SubscribeRequest struct {
	Name      string
	Email     string
	Campaign  string
	Term      string
	Session   widget.Params
	ClientIP  string
	UserAgent string
}

// SubscribeResult tells the browser whether the lead was captured and
// where to book next.
type SubscribeResult struct {
	ID         string `json:"id"`
	Success    bool   `json:"success"`
	Simulated  bool   `json:"simulated,omitempty"`
	Provider   string `json:"provider,omitempty"`
	Message    string `json:"message"`
	BookingURL string `json:"bookingUrl"`
}

// SubscribeService captures an email and returns the booking target. The
// subscription always resolves before the target is handed out.
type SubscribeService struct {
	subscribers []mailinglist.Subscriber
	booking     *BookingService
	leads       lead.Repository
	secret      string
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewSubscribeService uses the first configured subscriber, in order.
func NewSubscribeService(booking *BookingService, leads lead.Repository, fingerprintSecret string, logger *logging.ChanneledLogger, perfTracker *performance.Tracker, subscribers ...mailinglist.Subscriber) *SubscribeService {
	return &SubscribeService{
		subscribers: subscribers,
		booking:     booking,
		leads:       leads,
		secret:      fingerprintSecret,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

func (s *SubscribeService) provider() mailinglist.Subscriber {
	for _, sub := range s.subscribers {
		if sub != nil && sub.Configured() {
			return sub
		}
	}
	return nil
}

// Subscribe adds the contact to the list. With no provider configured the
// capture is simulated and reported as a success so the visitor still
// reaches the booking page.
func (s *SubscribeService) Subscribe(ctx context.Context, req SubscribeRequest) (*SubscribeResult, error) {
	if !ValidEmail(req.Email) {
		return nil, ErrInvalidEmail
	}

	marker := s.perfTracker.StartOperation("subscribe:capture")
	defer s.perfTracker.CompleteOperation(marker)

	sub := &lead.Submission{
		ID:          security.GenerateULID(),
		Kind:        lead.KindSubscribe,
		Email:       strings.TrimSpace(req.Email),
		Name:        strings.TrimSpace(req.Name),
		CampaignTag: req.Campaign,
		UTM:         req.Session,
		Fingerprint: security.Fingerprint(s.secret, req.ClientIP, req.UserAgent),
		CreatedAt:   time.Now().UTC(),
	}

	result := &SubscribeResult{ID: sub.ID}
	provider := s.provider()
	if provider == nil {
		result.Success = true
		result.Simulated = true
		result.Message = "Subscription simulated (no provider configured)"
		sub.List = lead.ChannelOutcome{Success: true, Message: result.Message}
	} else {
		res, err := provider.Subscribe(ctx, mailinglist.Contact{Email: sub.Email, Name: sub.Name})
		success := err == nil && res.Success
		metrics.Delivery("list", success)
		result.Provider = provider.Provider()
		result.Success = success
		result.Message = res.Message
		if err != nil {
			marker.SetError(err)
			s.logger.Contact().Error("Email capture failed", "provider", provider.Provider(), "error", err.Error())
			var perr *mailinglist.ProviderError
			if result.Message == "" || !errors.As(err, &perr) {
				result.Message = "Subscription failed"
			}
		}
		sub.List = lead.ChannelOutcome{Attempted: true, Success: success, Provider: provider.Provider(), Message: result.Message}
	}

	if s.leads != nil {
		if err := s.leads.Store(ctx, sub); err != nil {
			s.logger.Contact().Error("Failed to record capture", "id", sub.ID, "error", err.Error())
		}
	}

	result.BookingURL = s.booking.TargetURL(widget.Intent{CampaignTag: req.Campaign, Term: req.Term}, req.Session)
	s.logger.Contact().Info("Email captured", "id", sub.ID, "email", logging.MaskEmail(sub.Email), "success", result.Success, "simulated", result.Simulated)
	return result, nil
}
