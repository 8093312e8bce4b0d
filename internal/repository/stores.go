package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStoresRepository reads stores from PostgreSQL.
type PostgresStoresRepository struct {
	pool *pgxpool.Pool
}

var _ StoresRepository = (*PostgresStoresRepository)(nil)

func NewPostgresStoresRepository(pool *pgxpool.Pool) *PostgresStoresRepository {
	return &PostgresStoresRepository{pool: pool}
}

const storeColumns = `id, business_unit_id, store_id, name, zone_id, zone_name,
	channel_id, channel_name, is_active, created_at, updated_at`

func scanStore(row pgx.Row) (domain.Store, error) {
	var s domain.Store
	err := row.Scan(
		&s.ID, &s.BusinessUnitID, &s.StoreID, &s.Name, &s.ZoneID, &s.ZoneName,
		&s.ChannelID, &s.ChannelName, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// GetStoreByID fetches one store by primary key.
func (r *PostgresStoresRepository) GetStoreByID(ctx context.Context, id int32) (*domain.Store, error) {
	query := fmt.Sprintf(`SELECT %s FROM stores WHERE id = $1`, storeColumns)

	store, err := scanStore(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("table:stores: %w", pgx.ErrNoRows)
		}
		return nil, fmt.Errorf("failed to get store %d: %w", id, err)
	}

	return &store, nil
}

// GetActiveStores returns all active stores ordered by store_id.
func (r *PostgresStoresRepository) GetActiveStores(ctx context.Context) ([]domain.Store, error) {
	query := fmt.Sprintf(`SELECT %s FROM stores WHERE is_active ORDER BY store_id`, storeColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active stores: %w", err)
	}
	defer rows.Close()

	var stores []domain.Store
	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		stores = append(stores, store)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read active stores: %w", err)
	}

	return stores, nil
}
