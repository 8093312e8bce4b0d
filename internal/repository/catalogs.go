package repository

import (
	"context"
	"fmt"

	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSKUsRepository reads the product catalog. Catalog column names keep
// the Spanish headings of the upstream feed.
type PostgresSKUsRepository struct {
	pool *pgxpool.Pool
}

var _ SKUsRepository = (*PostgresSKUsRepository)(nil)

func NewPostgresSKUsRepository(pool *pgxpool.Pool) *PostgresSKUsRepository {
	return &PostgresSKUsRepository{pool: pool}
}

// GetSKUsByCodes fetches catalog entries for the given SKU codes. Codes with
// no catalog entry are simply absent from the result.
func (r *PostgresSKUsRepository) GetSKUsByCodes(ctx context.Context, codes []string) ([]domain.SKU, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT sku, descripcion_sku, marca, proveedor_id, proveedor, ruc_proveedor,
			division_code, division_name, department_code, department_name,
			subdepartment_code, subdepartment_name, class_code, class_name,
			subclass_code, subclass_name
		FROM skus
		WHERE sku = ANY($1)
		ORDER BY sku`, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to query skus: %w", err)
	}
	defer rows.Close()

	var skus []domain.SKU
	for rows.Next() {
		var s domain.SKU
		if err := rows.Scan(
			&s.Code, &s.Description, &s.Brand, &s.SupplierID, &s.SupplierName, &s.SupplierRUC,
			&s.DivisionCode, &s.DivisionName, &s.DepartmentCode, &s.DepartmentName,
			&s.SubdepartmentCode, &s.SubdepartmentName, &s.ClassCode, &s.ClassName,
			&s.SubclassCode, &s.SubclassName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sku: %w", err)
		}
		skus = append(skus, s)
	}
	return skus, rows.Err()
}

// PostgresMasterDataRepository reads merchandising master data.
type PostgresMasterDataRepository struct {
	pool *pgxpool.Pool
}

var _ MasterDataRepository = (*PostgresMasterDataRepository)(nil)

func NewPostgresMasterDataRepository(pool *pgxpool.Pool) *PostgresMasterDataRepository {
	return &PostgresMasterDataRepository{pool: pool}
}

func (r *PostgresMasterDataRepository) GetAllDivisions(ctx context.Context) ([]domain.Division, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT division_id, division_code, division_name FROM divisions ORDER BY division_code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query divisions: %w", err)
	}
	defer rows.Close()

	var divisions []domain.Division
	for rows.Next() {
		var d domain.Division
		if err := rows.Scan(&d.DivisionID, &d.DivisionCode, &d.DivisionName); err != nil {
			return nil, fmt.Errorf("failed to scan division: %w", err)
		}
		divisions = append(divisions, d)
	}
	return divisions, rows.Err()
}
