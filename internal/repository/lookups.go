package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// PostgresLookupsRepository reads lookup categories and values.
type PostgresLookupsRepository struct {
	pool *pgxpool.Pool
}

var _ LookupsRepository = (*PostgresLookupsRepository)(nil)

func NewPostgresLookupsRepository(pool *pgxpool.Pool) *PostgresLookupsRepository {
	return &PostgresLookupsRepository{pool: pool}
}

// GetValuesByCategoryCode returns the active values of an active category,
// ordered by sort_order.
func (r *PostgresLookupsRepository) GetValuesByCategoryCode(ctx context.Context, categoryCode string) ([]domain.LookupValueResult, error) {
	query := `
		SELECT lv.id, lv.option_key, lv.display_value, lv.option_value, lv.extra_data, lv.sort_order, lv.parent_id
		FROM lookup_value lv
		JOIN lookup_category lc ON lc.id = lv.category_id
		WHERE lc.code = $1 AND lc.active AND lv.active
		ORDER BY lv.sort_order`

	rows, err := r.pool.Query(ctx, query, categoryCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query lookup values for category %s: %w", categoryCode, err)
	}
	defer rows.Close()

	var values []domain.LookupValueResult
	for rows.Next() {
		var v domain.LookupValueResult
		if err := rows.Scan(&v.LookupValueID, &v.OptionKey, &v.DisplayValue, &v.OptionValue, &v.Metadata, &v.SortOrder, &v.ParentID); err != nil {
			return nil, fmt.Errorf("failed to scan lookup value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lookup values: %w", err)
	}

	return values, nil
}

// GetValueByCategoryAndKey returns a single active value by category code and
// option key.
func (r *PostgresLookupsRepository) GetValueByCategoryAndKey(ctx context.Context, categoryCode, optionKey string) (*domain.LookupValueResult, error) {
	query := `
		SELECT lv.id, lv.option_key, lv.display_value, lv.option_value, lv.extra_data, lv.sort_order, lv.parent_id
		FROM lookup_value lv
		JOIN lookup_category lc ON lc.id = lv.category_id
		WHERE lc.code = $1 AND lv.option_key = $2 AND lc.active AND lv.active`

	var v domain.LookupValueResult
	err := r.pool.QueryRow(ctx, query, categoryCode, optionKey).
		Scan(&v.LookupValueID, &v.OptionKey, &v.DisplayValue, &v.OptionValue, &v.Metadata, &v.SortOrder, &v.ParentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("table:lookup_value: %w", pgx.ErrNoRows)
		}
		return nil, fmt.Errorf("failed to get lookup value %s/%s: %w", categoryCode, optionKey, err)
	}

	return &v, nil
}

// lookupCacheTTL bounds how stale cached lookup categories may get.
const lookupCacheTTL = 5 * time.Minute

// CachedLookupsRepository is a redis read-through cache in front of another
// LookupsRepository. Lookup taxonomies change rarely, so a short TTL is the
// only invalidation needed. Cache failures fall back to the source.
type CachedLookupsRepository struct {
	source LookupsRepository
	redis  *redis.Client
	log    *zerolog.Logger
}

var _ LookupsRepository = (*CachedLookupsRepository)(nil)

func NewCachedLookupsRepository(source LookupsRepository, redisClient *redis.Client, log *zerolog.Logger) *CachedLookupsRepository {
	return &CachedLookupsRepository{
		source: source,
		redis:  redisClient,
		log:    log,
	}
}

func (r *CachedLookupsRepository) cacheKey(categoryCode string) string {
	return "lookups:category:" + categoryCode
}

// GetValuesByCategoryCode serves from redis when possible, otherwise reads
// the source and populates the cache.
func (r *CachedLookupsRepository) GetValuesByCategoryCode(ctx context.Context, categoryCode string) ([]domain.LookupValueResult, error) {
	key := r.cacheKey(categoryCode)

	if cached, err := r.redis.Get(ctx, key).Bytes(); err == nil {
		var values []domain.LookupValueResult
		if err := json.Unmarshal(cached, &values); err == nil {
			return values, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		r.log.Warn().Err(err).Str("category", categoryCode).Msg("lookup cache read failed")
	}

	values, err := r.source.GetValuesByCategoryCode(ctx, categoryCode)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(values); err == nil {
		if err := r.redis.Set(ctx, key, encoded, lookupCacheTTL).Err(); err != nil {
			r.log.Warn().Err(err).Str("category", categoryCode).Msg("lookup cache write failed")
		}
	}

	return values, nil
}

// GetValueByCategoryAndKey resolves a single option through the cached
// category listing, falling back to the source when the key is not cached.
func (r *CachedLookupsRepository) GetValueByCategoryAndKey(ctx context.Context, categoryCode, optionKey string) (*domain.LookupValueResult, error) {
	values, err := r.GetValuesByCategoryCode(ctx, categoryCode)
	if err == nil {
		for i := range values {
			if values[i].OptionKey == optionKey {
				return &values[i], nil
			}
		}
	}

	return r.source.GetValueByCategoryAndKey(ctx, categoryCode, optionKey)
}
