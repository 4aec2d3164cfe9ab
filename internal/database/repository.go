package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camayank/transfer-pricing-platform/internal/benchmark"
	"github.com/camayank/transfer-pricing-platform/internal/events"
)

// Repository provides data access methods
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// HealthCheck performs a database health check
func (r *Repository) HealthCheck(ctx context.Context) error {
	return r.db.Pool.Ping(ctx)
}

// ============================================================================
// COMPARABLE COMPANIES
// ============================================================================

// UpsertComparable inserts or replaces one company in the universe
func (r *Repository) UpsertComparable(ctx context.Context, c *benchmark.ComparableCompany) error {
	financials, err := json.Marshal(c.Financials)
	if err != nil {
		return fmt.Errorf("failed to marshal financials: %w", err)
	}

	query := `
		INSERT INTO comparable_companies
			(registration_id, name, industry_code, functional_profile, financials,
			 related_party_txn_pct, persistent_losses, years_continuous_data, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (registration_id) DO UPDATE SET
			name = EXCLUDED.name,
			industry_code = EXCLUDED.industry_code,
			functional_profile = EXCLUDED.functional_profile,
			financials = EXCLUDED.financials,
			related_party_txn_pct = EXCLUDED.related_party_txn_pct,
			persistent_losses = EXCLUDED.persistent_losses,
			years_continuous_data = EXCLUDED.years_continuous_data,
			active = EXCLUDED.active,
			updated_at = NOW()
	`
	_, err = r.db.Pool.Exec(
		ctx, query,
		c.RegistrationID, c.Name, c.IndustryCode, string(c.FunctionalProfile), financials,
		c.RelatedPartyTxnPct, c.PersistentLosses, c.YearsContinuousData, c.Active,
	)
	return err
}

// ListComparables loads the full comparables universe. PLIs are derived
// in memory by the benchmarking engine, not stored.
func (r *Repository) ListComparables(ctx context.Context) ([]benchmark.ComparableCompany, error) {
	query := `
		SELECT registration_id, name, industry_code, functional_profile, financials,
		       related_party_txn_pct, persistent_losses, years_continuous_data, active
		FROM comparable_companies
		ORDER BY registration_id
	`
	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query comparables: %w", err)
	}
	defer rows.Close()

	var companies []benchmark.ComparableCompany
	for rows.Next() {
		var (
			c       benchmark.ComparableCompany
			profile string
			rawFin  []byte
		)
		if err := rows.Scan(
			&c.RegistrationID, &c.Name, &c.IndustryCode, &profile, &rawFin,
			&c.RelatedPartyTxnPct, &c.PersistentLosses, &c.YearsContinuousData, &c.Active,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comparable: %w", err)
		}
		c.FunctionalProfile = benchmark.FunctionalProfile(profile)
		if err := json.Unmarshal(rawFin, &c.Financials); err != nil {
			return nil, fmt.Errorf("failed to unmarshal financials for %s: %w", c.RegistrationID, err)
		}
		benchmark.EnrichCompany(&c)
		companies = append(companies, c)
	}

	return companies, rows.Err()
}

// CountComparables returns the size of the universe
func (r *Repository) CountComparables(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM comparable_companies`).Scan(&count)
	return count, err
}

// ============================================================================
// AUDIT TRAIL
// ============================================================================

// AuditEvent is one persisted audit record
type AuditEvent struct {
	ID         string                 `json:"id"`
	EventType  string                 `json:"eventType"`
	OccurredAt time.Time              `json:"occurredAt"`
	Payload    map[string]interface{} `json:"payload"`
}

// InsertAuditEvent appends one event to the audit trail
func (r *Repository) InsertAuditEvent(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	query := `
		INSERT INTO audit_events (id, event_type, occurred_at, payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`
	_, err = r.db.Pool.Exec(ctx, query, event.ID, string(event.Type), event.Timestamp, payload)
	return err
}

// ListAuditEvents returns the most recent audit events, newest first,
// optionally filtered by event type.
func (r *Repository) ListAuditEvents(ctx context.Context, eventType string, limit int) ([]AuditEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `
		SELECT id, event_type, occurred_at, payload
		FROM audit_events
		WHERE ($1 = '' OR event_type = $1)
		ORDER BY occurred_at DESC
		LIMIT $2
	`
	rows, err := r.db.Pool.Query(ctx, query, eventType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer rows.Close()

	var result []AuditEvent
	for rows.Next() {
		var (
			e   AuditEvent
			raw []byte
		)
		if err := rows.Scan(&e.ID, &e.EventType, &e.OccurredAt, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		if err := json.Unmarshal(raw, &e.Payload); err != nil {
			e.Payload = map[string]interface{}{"raw": string(raw)}
		}
		result = append(result, e)
	}

	return result, rows.Err()
}
