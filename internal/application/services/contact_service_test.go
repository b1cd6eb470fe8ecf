package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/magnetomarketing/magneto-web/internal/domain/entities/lead"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/email"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/mailinglist"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/performance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriber struct {
	provider   string
	configured bool
	result     mailinglist.Result
	err        error
	contacts   []mailinglist.Contact
}

func (f *fakeSubscriber) Subscribe(ctx context.Context, c mailinglist.Contact) (mailinglist.Result, error) {
	f.contacts = append(f.contacts, c)
	return f.result, f.err
}
func (f *fakeSubscriber) Provider() string { return f.provider }
func (f *fakeSubscriber) Configured() bool { return f.configured }

type fakeMailer struct {
	err  error
	sent []email.ContactNotification
}

func (f *fakeMailer) SendContactNotification(ctx context.Context, n email.ContactNotification) (string, error) {
	f.sent = append(f.sent, n)
	if f.err != nil {
		return "", f.err
	}
	return "msg-1", nil
}

type memoryLeads struct {
	mu    sync.Mutex
	items []*lead.Submission
	count int
}

func (m *memoryLeads) Store(ctx context.Context, s *lead.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, s)
	return nil
}

func (m *memoryLeads) FindByID(ctx context.Context, id string) (*lead.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.items {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (m *memoryLeads) ListRecent(ctx context.Context, limit int) ([]*lead.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items, nil
}

func (m *memoryLeads) CountByFingerprintSince(ctx context.Context, fingerprint string, since time.Time) (int, error) {
	return m.count, nil
}

func newContactService(list mailinglist.Subscriber, mailer email.Service, leads lead.Repository) *ContactService {
	return NewContactService(list, mailer, leads, "secret", logging.NewNopLogger(), performance.NewTracker(nil))
}

func TestContactService_InvalidEmail(t *testing.T) {
	mailer := &fakeMailer{}
	svc := newContactService(nil, mailer, nil)

	for _, addr := range []string{"", "nobody", "a@b", "  "} {
		_, err := svc.Submit(context.Background(), ContactRequest{Email: addr})
		assert.ErrorIs(t, err, ErrInvalidEmail, addr)
	}
	assert.Empty(t, mailer.sent)
}

func TestContactService_ListFailureDoesNotBlockEmail(t *testing.T) {
	list := &fakeSubscriber{
		provider:   "mailchimp",
		configured: true,
		result:     mailinglist.Result{Provider: "mailchimp", Message: "Invalid Resource"},
		err:        &mailinglist.ProviderError{Provider: "mailchimp", StatusCode: 400, Message: "Invalid Resource"},
	}
	mailer := &fakeMailer{}
	leads := &memoryLeads{}
	svc := newContactService(list, mailer, leads)

	res, err := svc.Submit(context.Background(), ContactRequest{
		Name: "Ana", Email: "ana@example.com", BusinessType: "Retail", Message: "Hi",
		ClientIP: "203.0.113.9", UserAgent: "test",
	})
	require.NoError(t, err)

	assert.True(t, res.Delivered)
	assert.True(t, res.Mail.Success)
	assert.False(t, res.List.Success)
	assert.Equal(t, "Invalid Resource", res.List.Message)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Retail", mailer.sent[0].BusinessType)

	require.Len(t, leads.items, 1)
	stored := leads.items[0]
	assert.Equal(t, res.ID, stored.ID)
	assert.Len(t, stored.ID, 26)
	assert.Len(t, stored.Fingerprint, 32)
	assert.True(t, stored.List.Attempted)
}

func TestContactService_EmailFailureNotDelivered(t *testing.T) {
	list := &fakeSubscriber{provider: "mailchimp", configured: true, result: mailinglist.Result{Provider: "mailchimp", Success: true, Message: "Subscribed (Mailchimp)"}}
	mailer := &fakeMailer{err: errors.New("smtp down")}
	svc := newContactService(list, mailer, nil)

	res, err := svc.Submit(context.Background(), ContactRequest{Email: "ana@example.com"})
	require.NoError(t, err)

	assert.False(t, res.Delivered)
	assert.True(t, res.List.Success)
	assert.Contains(t, res.Mail.Message, "smtp down")
}

func TestContactService_UnconfiguredList(t *testing.T) {
	list := &fakeSubscriber{provider: "mailchimp"}
	svc := newContactService(list, &fakeMailer{}, nil)

	res, err := svc.Submit(context.Background(), ContactRequest{Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Mailchimp not configured", res.List.Message)
	assert.Empty(t, list.contacts)
}

func TestContactService_Flood(t *testing.T) {
	leads := &memoryLeads{count: maxSubmissionsPerWindow}
	mailer := &fakeMailer{}
	svc := newContactService(nil, mailer, leads)

	_, err := svc.Submit(context.Background(), ContactRequest{Email: "ana@example.com"})
	assert.ErrorIs(t, err, ErrTooManySubmissions)
	assert.Empty(t, mailer.sent)
}
