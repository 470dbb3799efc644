package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	manualagent "github.com/robeeeeeet/manual-agent-sub002"
)

// Compile-time interface verification.
var _ manualagent.DomainService = (*DomainService)(nil)

// DomainService implements manualagent.DomainService using SQLite.
type DomainService struct {
	db *DB
}

// NewDomainService creates a new DomainService.
func NewDomainService(db *DB) *DomainService {
	return &DomainService{db: db}
}

// FindDomains returns all known domains for a manufacturer, most confident
// first. An unknown manufacturer yields an empty slice, not an error.
func (s *DomainService) FindDomains(ctx context.Context, manufacturer string) ([]*manualagent.ManufacturerDomain, error) {
	if manufacturer == "" {
		return nil, manualagent.Errorf(manualagent.EINVALID, "manufacturer required")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, manufacturer, domain, confidence, last_verified_at, created_at
		FROM manufacturer_domains
		WHERE manufacturer = ?
		ORDER BY confidence DESC, domain ASC
	`, manufacturer)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var domains []*manualagent.ManufacturerDomain
	for rows.Next() {
		var md manualagent.ManufacturerDomain
		var lastVerified, createdAt string

		if err := rows.Scan(&md.ID, &md.Manufacturer, &md.Domain, &md.Confidence,
			&lastVerified, &createdAt); err != nil {
			return nil, err
		}

		var parseErr error
		md.LastVerified, parseErr = time.Parse(time.RFC3339, lastVerified)
		if parseErr != nil {
			return nil, fmt.Errorf("failed to parse last_verified_at: %w", parseErr)
		}
		md.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAt)
		if parseErr != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", parseErr)
		}

		domains = append(domains, &md)
	}

	return domains, rows.Err()
}

// RecordSuccess upserts a (manufacturer, domain) pair with an incremented
// confidence after a verified success. The upsert is a single atomic
// statement; confidence only ever increases.
func (s *DomainService) RecordSuccess(ctx context.Context, manufacturer, domain string) error {
	md := manualagent.ManufacturerDomain{Manufacturer: manufacturer, Domain: domain}
	if err := md.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO manufacturer_domains (id, manufacturer, domain, confidence, last_verified_at, created_at)
		VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT(manufacturer, domain) DO UPDATE SET
			confidence = confidence + 1,
			last_verified_at = excluded.last_verified_at
	`, uuid.New().String(), manufacturer, domain, now, now)

	return err
}
