package lead

import (
	"context"
	"testing"
	"time"

	"github.com/magnetomarketing/magneto-web/internal/domain/entities/lead"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/persistence/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *SQLLeadRepository {
	t.Helper()
	db, err := database.NewConnection("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.NewTableCreator().CreateSchema(db.DB))
	return NewSQLLeadRepository(db, logging.NewNopLogger())
}

func TestSQLLeadRepository_StoreAndFind(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s := &lead.Submission{
		ID:          "01J0000000000000000000000A",
		Kind:        lead.KindContact,
		Email:       "ana@example.com",
		Name:        "Ana",
		Message:     "Need a site",
		CampaignTag: "contact_page",
		UTM:         map[string]string{"utm_source": "newsletter"},
		Fingerprint: "fp1",
		Mail:        lead.ChannelOutcome{Attempted: true, Success: true, Provider: "resend"},
		List:        lead.ChannelOutcome{Attempted: true, Message: "Mailchimp not configured"},
		CreatedAt:   created,
	}
	require.NoError(t, repo.Store(ctx, s))

	got, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, lead.KindContact, got.Kind)
	assert.Equal(t, "newsletter", got.UTM["utm_source"])
	assert.True(t, got.Mail.Success)
	assert.Equal(t, "Mailchimp not configured", got.List.Message)
	assert.True(t, got.CreatedAt.Equal(created))

	missing, err := repo.FindByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLLeadRepository_ListAndCount(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Store(ctx, &lead.Submission{
			ID:          id,
			Kind:        lead.KindSubscribe,
			Email:       id + "@example.com",
			Fingerprint: "fp",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}

	recent, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].ID)
	assert.Equal(t, "b", recent[1].ID)

	n, err := repo.CountByFingerprintSince(ctx, "fp", base.Add(30*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
