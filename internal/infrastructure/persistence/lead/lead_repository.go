// Package lead provides the SQL-based implementation of the lead ledger.
package lead

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/magnetomarketing/magneto-web/internal/domain/entities/lead"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/persistence/database"
	"github.com/magnetomarketing/magneto-web/pkg/config"
)

// timestamps are fixed-width UTC so they sort lexically
const timeLayout = "2006-01-02T15:04:05.000000Z"

const submissionColumns = `id, kind, email, name, business_type, message, campaign_tag,
		       utm, fingerprint, mail_outcome, list_outcome, created_at`

// SQLLeadRepository is the SQL-based implementation of lead.Repository.
type SQLLeadRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLLeadRepository creates a new instance of the repository.
func NewSQLLeadRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLLeadRepository {
	return &SQLLeadRepository{
		db:     db,
		logger: logger,
	}
}

// Store saves a new submission.
func (r *SQLLeadRepository) Store(ctx context.Context, s *lead.Submission) error {
	const query = `
		INSERT INTO submissions (id, kind, email, name, business_type, message, campaign_tag,
		                         utm, fingerprint, mail_outcome, list_outcome, delivered, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing submission insert", "id", s.ID, "kind", s.Kind)

	utm, err := json.Marshal(nonNilMap(s.UTM))
	if err != nil {
		return fmt.Errorf("failed to encode utm: %w", err)
	}
	mail, _ := json.Marshal(s.Mail)
	list, _ := json.Marshal(s.List)

	_, err = r.db.ExecContext(ctx, query,
		s.ID,
		string(s.Kind),
		s.Email,
		s.Name,
		s.BusinessType,
		s.Message,
		s.CampaignTag,
		string(utm),
		s.Fingerprint,
		string(mail),
		string(list),
		s.Delivered(),
		s.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		r.logger.Database().Error("Submission insert failed", "error", err.Error(), "id", s.ID, "email", logging.MaskEmail(s.Email))
		return fmt.Errorf("failed to store submission: %w", err)
	}

	duration := time.Since(start)
	r.logger.Database().Info("Submission insert completed", "id", s.ID, "kind", s.Kind, "duration", duration)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return nil
}

// FindByID retrieves a submission. It returns nil, nil when none exists.
func (r *SQLLeadRepository) FindByID(ctx context.Context, id string) (*lead.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = ?`

	start := time.Now()
	s, err := scanSubmission(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Database().Debug("Submission not found by ID", "id", id)
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Failed to load submission by ID", "error", err.Error(), "id", id)
		return nil, err
	}

	if duration := time.Since(start); duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return s, nil
}

// ListRecent returns the newest submissions first.
func (r *SQLLeadRepository) ListRecent(ctx context.Context, limit int) ([]*lead.Submission, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + submissionColumns + ` FROM submissions ORDER BY created_at DESC LIMIT ?`

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Database().Error("Failed to list submissions", "error", err.Error())
		return nil, err
	}
	defer rows.Close()

	var out []*lead.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if duration := time.Since(start); duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return out, nil
}

// CountByFingerprintSince counts submissions from one client since a time.
func (r *SQLLeadRepository) CountByFingerprintSince(ctx context.Context, fingerprint string, since time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM submissions WHERE fingerprint = ? AND created_at >= ?`

	var n int
	err := r.db.QueryRowContext(ctx, query, fingerprint, since.UTC().Format(timeLayout)).Scan(&n)
	if err != nil {
		r.logger.Database().Error("Failed to count submissions", "error", err.Error())
		return 0, err
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row scanner) (*lead.Submission, error) {
	var s lead.Submission
	var kind, utm, mail, list, createdAt string

	err := row.Scan(
		&s.ID,
		&kind,
		&s.Email,
		&s.Name,
		&s.BusinessType,
		&s.Message,
		&s.CampaignTag,
		&utm,
		&s.Fingerprint,
		&mail,
		&list,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	s.Kind = lead.Kind(kind)
	_ = json.Unmarshal([]byte(utm), &s.UTM)
	_ = json.Unmarshal([]byte(mail), &s.Mail)
	_ = json.Unmarshal([]byte(list), &s.List)

	s.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		s.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
	}
	return &s, nil
}

func nonNilMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
