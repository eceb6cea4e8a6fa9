package settings

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists the store profile.
type Repository interface {
	Get(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) (Settings, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed Repository. The table holds a
// single row keyed by id = 1.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context) (Settings, error) {
	var s Settings
	err := r.db.QueryRow(ctx,
		`SELECT store_name, currency, tax_rate, updated_at FROM settings WHERE id = 1`,
	).Scan(&s.StoreName, &s.Currency, &s.TaxRate, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Defaults(), nil
		}
		return Settings{}, err
	}
	return s, nil
}

func (r *repository) Save(ctx context.Context, s Settings) (Settings, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO settings (id, store_name, currency, tax_rate)
		 VALUES (1, $1, $2, $3)
		 ON CONFLICT (id) DO UPDATE
		 SET store_name = EXCLUDED.store_name,
			 currency = EXCLUDED.currency,
			 tax_rate = EXCLUDED.tax_rate,
			 updated_at = now()
		 RETURNING updated_at`,
		s.StoreName, s.Currency, s.TaxRate,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return Settings{}, err
	}
	return s, nil
}

// MemoryRepository keeps the profile in memory; used by tests.
type MemoryRepository struct {
	mu    sync.Mutex
	saved *Settings
}

// NewMemoryRepository constructs a MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) Get(ctx context.Context) (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		return Defaults(), nil
	}
	return *m.saved, nil
}

func (m *MemoryRepository) Save(ctx context.Context, s Settings) (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = &s
	return s, nil
}
