// Package store persists companies and their analysis snapshots in Postgres.
// Snapshots are stored as JSONB documents so their shape can evolve without
// schema churn.
package store

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/Parthsawant1298/Veritas/pkg/core"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Company is a registered company profile.
type Company struct {
	ID       string
	Name     string
	Email    string
	Industry string
	Size     string
}

// SnapshotRecord is one stored analysis snapshot. Doc holds the snapshot
// document exactly as it was written.
type SnapshotRecord struct {
	ID        string
	CompanyID string
	TakenAt   time.Time
	Doc       json.RawMessage
}

// Store wraps a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Migrate applies any pending schema migrations.
func (s *Store) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// CompanyByID fetches a company profile. A missing row maps to ErrNotFound.
func (s *Store) CompanyByID(ctx context.Context, id string) (*Company, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	var c Company
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, industry, size FROM companies WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Industry, &c.Size)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.NewNotFoundError("Company not found")
	}
	if err != nil {
		return nil, fmt.Errorf("query company %s: %w", id, err)
	}
	return &c, nil
}

// ListCompanies returns all companies ordered by name.
func (s *Store) ListCompanies(ctx context.Context) ([]Company, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, email, industry, size FROM companies ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var out []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Industry, &c.Size); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate companies: %w", err)
	}
	return out, nil
}

// CountCompanies returns the number of registered companies.
func (s *Store) CountCompanies(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM companies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count companies: %w", err)
	}
	return n, nil
}

// InsertCompany stores a new company profile and returns its generated id.
func (s *Store) InsertCompany(ctx context.Context, c Company) (string, error) {
	id := NewID()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO companies (id, name, email, industry, size) VALUES ($1, $2, $3, $4, $5)`,
		id, c.Name, c.Email, c.Industry, c.Size)
	if err != nil {
		return "", fmt.Errorf("insert company: %w", err)
	}
	return id, nil
}

// InsertSnapshot stores an analysis snapshot document for a company.
func (s *Store) InsertSnapshot(ctx context.Context, companyID string, takenAt time.Time, doc []byte) (string, error) {
	if err := ValidateID(companyID); err != nil {
		return "", err
	}
	id := NewID()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO news_tracking (id, company_id, taken_at, doc) VALUES ($1, $2, $3, $4)`,
		id, companyID, takenAt, doc)
	if err != nil {
		return "", fmt.Errorf("insert snapshot for %s: %w", companyID, err)
	}
	return id, nil
}

// LatestSnapshot returns the most recent snapshot for a company, or
// ErrNotFound when none exists.
func (s *Store) LatestSnapshot(ctx context.Context, companyID string) (*SnapshotRecord, error) {
	if err := ValidateID(companyID); err != nil {
		return nil, err
	}
	var rec SnapshotRecord
	err := s.pool.QueryRow(ctx,
		`SELECT id, company_id, taken_at, doc FROM news_tracking
		 WHERE company_id = $1 ORDER BY taken_at DESC LIMIT 1`,
		companyID,
	).Scan(&rec.ID, &rec.CompanyID, &rec.TakenAt, &rec.Doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.NewNotFoundError("No news data found. Please fetch news first.")
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot for %s: %w", companyID, err)
	}
	return &rec, nil
}

// SnapshotHistory returns up to limit snapshots for a company, newest first.
func (s *Store) SnapshotHistory(ctx context.Context, companyID string, limit int) ([]SnapshotRecord, error) {
	if err := ValidateID(companyID); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, company_id, taken_at, doc FROM news_tracking
		 WHERE company_id = $1 ORDER BY taken_at DESC LIMIT $2`,
		companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshot history for %s: %w", companyID, err)
	}
	defer rows.Close()

	var out []SnapshotRecord
	for rows.Next() {
		var rec SnapshotRecord
		if err := rows.Scan(&rec.ID, &rec.CompanyID, &rec.TakenAt, &rec.Doc); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return out, nil
}

// CountSnapshots returns the total number of stored snapshots.
func (s *Store) CountSnapshots(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM news_tracking`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	return n, nil
}

// CompaniesWithSnapshots returns the number of distinct companies that have
// at least one snapshot.
func (s *Store) CompaniesWithSnapshots(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT count(DISTINCT company_id) FROM news_tracking`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count companies with snapshots: %w", err)
	}
	return n, nil
}
