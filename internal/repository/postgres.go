package repository

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"neptune/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Schema creates the service_providers table.
//
//go:embed schema.sql
var Schema string

// PostgresRepository reads the provider catalog from PostgreSQL. The search
// service only consults it at startup; writes come from the CLI seed command.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return NewPostgresRepositoryFromDB(db), nil
}

// NewPostgresRepositoryFromDB wraps an existing connection pool
func NewPostgresRepositoryFromDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// listProvidersQuery keeps insertion order stable so ties in ranking stay deterministic
const listProvidersQuery = `
	SELECT
		id, name, category, location, rating, review_count, price_range,
		phone, website, services, availability, description, specialties
	FROM service_providers
	ORDER BY position ASC, id ASC
`

// ListProviders implements catalog.Loader
func (r *PostgresRepository) ListProviders(ctx context.Context) ([]model.ServiceProvider, error) {
	var providers []model.ServiceProvider
	if err := r.db.SelectContext(ctx, &providers, listProvidersQuery); err != nil {
		return nil, fmt.Errorf("failed to fetch providers: %w", err)
	}
	return providers, nil
}

// Migrate applies Schema. It is idempotent.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

const upsertProviderQuery = `
	INSERT INTO service_providers (
		id, position, name, category, location, rating, review_count, price_range,
		phone, website, services, availability, description, specialties
	) VALUES (
		:id, :position, :name, :category, :location, :rating, :review_count, :price_range,
		:phone, :website, :services, :availability, :description, :specialties
	)
	ON CONFLICT (id) DO UPDATE SET
		position = EXCLUDED.position,
		name = EXCLUDED.name,
		category = EXCLUDED.category,
		location = EXCLUDED.location,
		rating = EXCLUDED.rating,
		review_count = EXCLUDED.review_count,
		price_range = EXCLUDED.price_range,
		phone = EXCLUDED.phone,
		website = EXCLUDED.website,
		services = EXCLUDED.services,
		availability = EXCLUDED.availability,
		description = EXCLUDED.description,
		specialties = EXCLUDED.specialties
`

type providerRow struct {
	model.ServiceProvider
	Position int `db:"position"`
}

// UpsertProviders writes providers in one transaction. Slice order becomes
// the stored position so ListProviders returns them in the same order.
func (r *PostgresRepository) UpsertProviders(ctx context.Context, providers []model.ServiceProvider) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, p := range providers {
		if p.Services == nil {
			p.Services = model.JSONArray{}
		}
		if p.Specialties == nil {
			p.Specialties = model.JSONArray{}
		}
		if _, err := tx.NamedExecContext(ctx, upsertProviderQuery, providerRow{ServiceProvider: p, Position: i}); err != nil {
			return fmt.Errorf("failed to upsert provider %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit providers: %w", err)
	}
	return nil
}
