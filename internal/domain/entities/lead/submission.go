// Package lead defines the record kept for every form submission.
package lead

import (
	"context"
	"time"
)

// Kind distinguishes the form a submission came from.
type Kind string

const (
	KindContact   Kind = "contact"
	KindSubscribe Kind = "subscribe"
)

// ChannelOutcome is what one outbound channel did with a submission.
type ChannelOutcome struct {
	Attempted bool   `json:"attempted"`
	Success   bool   `json:"success"`
	Provider  string `json:"provider,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Submission is one contact or email-capture form post.
type Submission struct {
	ID           string
	Kind         Kind
	Email        string
	Name         string
	BusinessType string
	Message      string
	CampaignTag  string
	UTM          map[string]string
	Fingerprint  string
	Mail         ChannelOutcome
	List         ChannelOutcome
	CreatedAt    time.Time
}

// Delivered reports whether the submission reached its primary channel.
func (s *Submission) Delivered() bool {
	if s.Kind == KindSubscribe {
		return s.List.Success
	}
	return s.Mail.Success
}

// Repository persists submissions.
type Repository interface {
	Store(ctx context.Context, s *Submission) error
	FindByID(ctx context.Context, id string) (*Submission, error)
	ListRecent(ctx context.Context, limit int) ([]*Submission, error)
	CountByFingerprintSince(ctx context.Context, fingerprint string, since time.Time) (int, error)
}
