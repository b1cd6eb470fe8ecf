package services

import (
	"context"
	"errors"
	"testing"

	"github.com/magnetomarketing/magneto-web/internal/domain/entities/lead"
	"github.com/magnetomarketing/magneto-web/internal/domain/widget"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/mailinglist"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/performance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubscribeService(leads lead.Repository, subs ...mailinglist.Subscriber) *SubscribeService {
	return NewSubscribeService(newBookingService(), leads, "secret", logging.NewNopLogger(), performance.NewTracker(nil), subs...)
}

func TestSubscribeService_PrefersFirstConfigured(t *testing.T) {
	brevo := &fakeSubscriber{provider: "brevo"}
	mailchimp := &fakeSubscriber{provider: "mailchimp", configured: true, result: mailinglist.Result{Provider: "mailchimp", Success: true, Message: "Subscribed (Mailchimp)"}}
	leads := &memoryLeads{}
	svc := newSubscribeService(leads, brevo, mailchimp)

	res, err := svc.Subscribe(context.Background(), SubscribeRequest{
		Email: "ana@example.com", Campaign: "leadmagnet_home", Session: widget.Params{"utm_source": "ig"},
	})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "mailchimp", res.Provider)
	assert.Empty(t, brevo.contacts)
	assert.Contains(t, res.BookingURL, "utm_content=leadmagnet_home")
	assert.Contains(t, res.BookingURL, "utm_source=ig")

	require.Len(t, leads.items, 1)
	assert.Equal(t, lead.KindSubscribe, leads.items[0].Kind)
	assert.True(t, leads.items[0].Delivered())
}

func TestSubscribeService_Simulated(t *testing.T) {
	svc := newSubscribeService(nil, &fakeSubscriber{provider: "brevo"})

	res, err := svc.Subscribe(context.Background(), SubscribeRequest{Email: "ana@example.com"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, res.Simulated)
	assert.NotEmpty(t, res.BookingURL)
}

func TestSubscribeService_Failure(t *testing.T) {
	brevo := &fakeSubscriber{provider: "brevo", configured: true, err: errors.New("dial tcp: timeout"), result: mailinglist.Result{Provider: "brevo", Message: "dial tcp: timeout"}}
	svc := newSubscribeService(nil, brevo)

	res, err := svc.Subscribe(context.Background(), SubscribeRequest{Email: "ana@example.com"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Subscription failed", res.Message)
	assert.NotEmpty(t, res.BookingURL)

	_, err = svc.Subscribe(context.Background(), SubscribeRequest{Email: "bad"})
	assert.ErrorIs(t, err, ErrInvalidEmail)
}
