package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/magnetomarketing/magneto-web/internal/domain/entities/lead"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/email"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/mailinglist"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/metrics"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/performance"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/security"
)

var (
	// ErrInvalidEmail is returned before any channel is attempted.
	ErrInvalidEmail = errors.New("invalid email")
	// ErrTooManySubmissions is returned when one client floods the form.
	ErrTooManySubmissions = errors.New("too many submissions")
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

const (
	submissionWindow        = time.Hour
	maxSubmissionsPerWindow = 20
)

// ValidEmail applies the loose address check used by every form.
func ValidEmail(addr string) bool {
	return emailPattern.MatchString(strings.TrimSpace(addr))
}

// ContactRequest is one contact form post.
type ContactRequest struct {
	Name         string
	Email        string
	BusinessType string
	Message      string
	CampaignTag  string
	UTM          map[string]string
	ClientIP     string
	UserAgent    string
}

// ChannelResult is the per-channel detail returned to the client.
type ChannelResult struct {
	Success  bool   `json:"success"`
	Provider string `json:"provider,omitempty"`
	Message  string `json:"message,omitempty"`
}

// ContactResult reports what happened on each channel. Delivered follows
// the email channel only.
type ContactResult struct {
	ID        string        `json:"id"`
	Delivered bool          `json:"-"`
	Mail      ChannelResult `json:"mail"`
	List      ChannelResult `json:"list"`
}

// ContactService delivers contact form submissions.
type ContactService struct {
	list        mailinglist.Subscriber
	mailer      email.Service
	leads       lead.Repository
	secret      string
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewContactService wires the contact flow. list and leads may be nil.
func NewContactService(list mailinglist.Subscriber, mailer email.Service, leads lead.Repository, fingerprintSecret string, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ContactService {
	return &ContactService{
		list:        list,
		mailer:      mailer,
		leads:       leads,
		secret:      fingerprintSecret,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// Submit subscribes the lead (best effort) and then emails the
// notification. Only validation and flood errors are returned; channel
// failures are reported in the result.
func (s *ContactService) Submit(ctx context.Context, req ContactRequest) (*ContactResult, error) {
	if !ValidEmail(req.Email) {
		return nil, ErrInvalidEmail
	}

	marker := s.perfTracker.StartOperation("contact:submit")
	defer s.perfTracker.CompleteOperation(marker)

	sub := &lead.Submission{
		ID:           security.GenerateULID(),
		Kind:         lead.KindContact,
		Email:        strings.TrimSpace(req.Email),
		Name:         strings.TrimSpace(req.Name),
		BusinessType: strings.TrimSpace(req.BusinessType),
		Message:      strings.TrimSpace(req.Message),
		CampaignTag:  req.CampaignTag,
		UTM:          req.UTM,
		Fingerprint:  security.Fingerprint(s.secret, req.ClientIP, req.UserAgent),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.checkFlood(ctx, sub.Fingerprint); err != nil {
		marker.SetError(err)
		return nil, err
	}

	sub.List = s.subscribe(ctx, sub)
	sub.Mail = s.sendMail(ctx, sub)
	s.record(ctx, sub)

	if !sub.Delivered() {
		marker.SetSuccess(false)
	}
	s.logger.Contact().Info("Contact submission processed",
		"id", sub.ID, "email", logging.MaskEmail(sub.Email), "delivered", sub.Delivered(), "listSuccess", sub.List.Success)

	return &ContactResult{
		ID:        sub.ID,
		Delivered: sub.Delivered(),
		Mail:      channelResult(sub.Mail),
		List:      channelResult(sub.List),
	}, nil
}

func (s *ContactService) checkFlood(ctx context.Context, fingerprint string) error {
	if s.leads == nil {
		return nil
	}
	count, err := s.leads.CountByFingerprintSince(ctx, fingerprint, time.Now().UTC().Add(-submissionWindow))
	if err != nil {
		s.logger.Contact().Warn("Flood check unavailable", "error", err.Error())
		return nil
	}
	if count >= maxSubmissionsPerWindow {
		return ErrTooManySubmissions
	}
	return nil
}

func (s *ContactService) subscribe(ctx context.Context, sub *lead.Submission) lead.ChannelOutcome {
	if s.list == nil || !s.list.Configured() {
		return lead.ChannelOutcome{Message: "Mailchimp not configured"}
	}

	res, err := s.list.Subscribe(ctx, mailinglist.Contact{
		Email:        sub.Email,
		Name:         sub.Name,
		BusinessType: sub.BusinessType,
		Message:      sub.Message,
	})
	metrics.Delivery("list", err == nil && res.Success)
	if err != nil {
		s.logger.LogError(logging.ChannelContact, "list_subscribe", err, map[string]any{"provider": s.list.Provider()})
		msg := res.Message
		if msg == "" {
			msg = err.Error()
		}
		return lead.ChannelOutcome{Attempted: true, Provider: s.list.Provider(), Message: msg}
	}
	return lead.ChannelOutcome{Attempted: true, Success: res.Success, Provider: res.Provider, Message: res.Message}
}

func (s *ContactService) sendMail(ctx context.Context, sub *lead.Submission) lead.ChannelOutcome {
	if s.mailer == nil {
		return lead.ChannelOutcome{Message: "Email delivery not configured"}
	}

	id, err := s.mailer.SendContactNotification(ctx, email.ContactNotification{
		Name:         sub.Name,
		Email:        sub.Email,
		BusinessType: sub.BusinessType,
		Message:      sub.Message,
	})
	metrics.Delivery("email", err == nil)
	if err != nil {
		s.logger.LogError(logging.ChannelContact, "contact_email", err, map[string]any{"id": sub.ID})
		return lead.ChannelOutcome{Attempted: true, Provider: "email", Message: err.Error()}
	}
	return lead.ChannelOutcome{Attempted: true, Success: true, Provider: "email", Message: fmt.Sprintf("Email sent (%s)", id)}
}

func (s *ContactService) record(ctx context.Context, sub *lead.Submission) {
	if s.leads == nil {
		return
	}
	if err := s.leads.Store(ctx, sub); err != nil {
		s.logger.Contact().Error("Failed to record submission", "id", sub.ID, "error", err.Error())
	}
}

func channelResult(o lead.ChannelOutcome) ChannelResult {
	return ChannelResult{Success: o.Success, Provider: o.Provider, Message: o.Message}
}
