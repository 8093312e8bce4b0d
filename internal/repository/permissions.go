package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPermissionsRepository resolves which module roles a user holds,
// scoped to a business unit and a set of module names.
type PostgresPermissionsRepository struct {
	pool *pgxpool.Pool
}

var _ PermissionsRepository = (*PostgresPermissionsRepository)(nil)

func NewPostgresPermissionsRepository(pool *pgxpool.Pool) *PostgresPermissionsRepository {
	return &PostgresPermissionsRepository{pool: pool}
}

func (r *PostgresPermissionsRepository) GetPermissionsByUser(ctx context.Context, email string, businessUnitID int32, moduleNames []string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT m.name
		FROM module_users mu
		JOIN modules m ON m.id = mu.module_id
		WHERE mu.user_email = $1
			AND m.business_unit_id = $2
			AND m.name = ANY($3)
			AND m.is_active
		ORDER BY m.name`, email, businessUnitID, moduleNames)
	if err != nil {
		return nil, fmt.Errorf("failed to query permissions for %s: %w", email, err)
	}
	defer rows.Close()

	var permissions []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan permission: %w", err)
		}
		permissions = append(permissions, name)
	}
	return permissions, rows.Err()
}
