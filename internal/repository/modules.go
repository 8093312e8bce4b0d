package repository

import (
	"context"
	"fmt"

	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresModulesRepository reads modules and module-user assignments.
type PostgresModulesRepository struct {
	pool *pgxpool.Pool
}

var _ ModulesRepository = (*PostgresModulesRepository)(nil)

func NewPostgresModulesRepository(pool *pgxpool.Pool) *PostgresModulesRepository {
	return &PostgresModulesRepository{pool: pool}
}

// GetActiveModules returns all active modules ordered by name.
func (r *PostgresModulesRepository) GetActiveModules(ctx context.Context) ([]domain.Module, error) {
	query := `
		SELECT id, business_unit_id, name, description, is_active, created_at, updated_at
		FROM modules
		WHERE is_active
		ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active modules: %w", err)
	}
	defer rows.Close()

	var modules []domain.Module
	for rows.Next() {
		var m domain.Module
		if err := rows.Scan(&m.ID, &m.BusinessUnitID, &m.Name, &m.Description, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan module: %w", err)
		}
		modules = append(modules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read active modules: %w", err)
	}

	return modules, nil
}

// GetModuleUsersByModuleID returns the users assigned to a module, ordered by
// email.
func (r *PostgresModulesRepository) GetModuleUsersByModuleID(ctx context.Context, moduleID int32) ([]domain.ModuleUser, error) {
	query := `
		SELECT id, user_email, module_id, created_at, updated_at
		FROM module_users
		WHERE module_id = $1
		ORDER BY user_email`

	rows, err := r.pool.Query(ctx, query, moduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query module users for module %d: %w", moduleID, err)
	}
	defer rows.Close()

	var users []domain.ModuleUser
	for rows.Next() {
		var u domain.ModuleUser
		if err := rows.Scan(&u.ID, &u.UserEmail, &u.ModuleID, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan module user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read module users: %w", err)
	}

	return users, nil
}

// GetActiveModuleUserEmails returns the distinct emails of users assigned to
// at least one active module.
func (r *PostgresModulesRepository) GetActiveModuleUserEmails(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT mu.user_email
		FROM module_users mu
		JOIN modules m ON m.id = mu.module_id
		WHERE m.is_active
		ORDER BY mu.user_email`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active module user emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan module user email: %w", err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read module user emails: %w", err)
	}

	return emails, nil
}
