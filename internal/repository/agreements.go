package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresAgreementsRepository persists agreements and their child
// collections. All multi-row writes run inside a single transaction.
type PostgresAgreementsRepository struct {
	pool *pgxpool.Pool
}

var _ AgreementsRepository = (*PostgresAgreementsRepository)(nil)

func NewPostgresAgreementsRepository(pool *pgxpool.Pool) *PostgresAgreementsRepository {
	return &PostgresAgreementsRepository{pool: pool}
}

// agreementSelect joins the six lookup categories that describe an agreement
// so reads return display values alongside the raw option keys.
const agreementSelect = `
	SELECT a.id, a.business_unit_id, a.agreement_number, a.start_date, a.end_date,
		a.agreement_type_id, a.status_id, a.rebate_type_id, a.concept_id,
		a.description, a.activity_name, a.source_system, a.spf_code, a.spf_description,
		a.currency_id, a.unit_price, a.billing_type, a.pmm_username, a.store_grouping_id,
		a.bulk_upload_document_id, a.active,
		a.created_at, a.created_by_user_email, a.updated_at, a.updated_status_by_user_email,
		st.display_value  AS status_description,
		rt.display_value  AS rebate_type_description,
		cp.display_value  AS concept_description,
		bt.display_value  AS billing_type_description,
		pu.display_value  AS pmm_username_description,
		sg.display_value  AS store_grouping_description,
		CASE a.currency_id WHEN 2 THEN 'USD' WHEN 3 THEN 'PEN' END AS currency_code
	FROM agreements a
	LEFT JOIN lookup_value st ON st.option_key = a.status_id
		AND st.category_id = (SELECT id FROM lookup_category WHERE code = 'AGREEMENT_STATUSES')
	LEFT JOIN lookup_value rt ON rt.option_key = a.rebate_type_id
		AND rt.category_id = (SELECT id FROM lookup_category WHERE code = 'REBATE_TYPE')
	LEFT JOIN lookup_value cp ON cp.option_key = a.concept_id
		AND cp.category_id = (SELECT id FROM lookup_category WHERE code = 'CONCEPT')
	LEFT JOIN lookup_value bt ON bt.option_key = a.billing_type
		AND bt.category_id = (SELECT id FROM lookup_category WHERE code = 'BILLING_TYPE')
	LEFT JOIN lookup_value pu ON pu.option_key = a.pmm_username
		AND pu.category_id = (SELECT id FROM lookup_category WHERE code = 'PMM_USER_NAME')
	LEFT JOIN lookup_value sg ON sg.option_key = a.store_grouping_id
		AND sg.category_id = (SELECT id FROM lookup_category WHERE code = 'STORE_GROUPING')`

func scanAgreement(row pgx.Row) (domain.Agreement, error) {
	var a domain.Agreement
	err := row.Scan(
		&a.ID, &a.BusinessUnitID, &a.AgreementNumber, &a.StartDate, &a.EndDate,
		&a.AgreementTypeID, &a.StatusID, &a.RebateTypeID, &a.ConceptID,
		&a.Description, &a.ActivityName, &a.SourceSystem, &a.SPFCode, &a.SPFDescription,
		&a.CurrencyID, &a.UnitPrice, &a.BillingType, &a.PMMUsername, &a.StoreGroupingID,
		&a.BulkUploadDocumentID, &a.Active,
		&a.CreatedAt, &a.CreatedByUserEmail, &a.UpdatedAt, &a.UpdatedStatusByUserEmail,
		&a.StatusDescription, &a.RebateTypeDescription, &a.ConceptDescription,
		&a.BillingTypeDescription, &a.PMMUsernameDescription, &a.StoreGroupingDescription,
		&a.CurrencyCode,
	)
	return a, err
}

// ExistsAgreementByNumber reports whether an agreement number is already used
// within a business unit.
func (r *PostgresAgreementsRepository) ExistsAgreementByNumber(ctx context.Context, number int32, businessUnitID int32) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM agreements WHERE agreement_number = $1 AND business_unit_id = $2)`,
		number, businessUnitID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check agreement number %d: %w", number, err)
	}
	return exists, nil
}

// GetAgreementByID fetches one agreement with its lookup descriptions.
func (r *PostgresAgreementsRepository) GetAgreementByID(ctx context.Context, id int32) (*domain.Agreement, error) {
	agreement, err := scanAgreement(r.pool.QueryRow(ctx, agreementSelect+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("table:agreements: %w", pgx.ErrNoRows)
		}
		return nil, fmt.Errorf("failed to get agreement %d: %w", id, err)
	}
	return &agreement, nil
}

// GetAgreementWithDetails fetches an agreement together with its products,
// store rules (with store names) and excluded flags (with flag names).
func (r *PostgresAgreementsRepository) GetAgreementWithDetails(ctx context.Context, id int32) (*domain.Agreement, []domain.AgreementProduct, []domain.AgreementStoreRule, []domain.AgreementExcludedFlag, error) {
	agreement, err := r.GetAgreementByID(ctx, id)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	products, err := r.getProducts(ctx, r.pool, id)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	storeRules, err := r.getStoreRules(ctx, r.pool, id)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	excludedFlags, err := r.getExcludedFlags(ctx, r.pool, id)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	return agreement, products, storeRules, excludedFlags, nil
}

// querier lets child readers run against either the pool or a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *PostgresAgreementsRepository) getProducts(ctx context.Context, q querier, agreementID int32) ([]domain.AgreementProduct, error) {
	rows, err := q.Query(ctx, `
		SELECT id, agreement_id, sku_code, sku_description, division_code, division_name,
			department_code, department_name, subdepartment_code, subdepartment_name,
			class_code, class_name, subclass_code, subclass_name, brand_name,
			supplier_id, supplier_name, supplier_ruc,
			created_at, created_by_user_email, updated_at
		FROM agreements_products
		WHERE agreement_id = $1
		ORDER BY id`, agreementID)
	if err != nil {
		return nil, fmt.Errorf("failed to query agreement products: %w", err)
	}
	defer rows.Close()

	var products []domain.AgreementProduct
	for rows.Next() {
		var p domain.AgreementProduct
		if err := rows.Scan(
			&p.ID, &p.AgreementID, &p.SKUCode, &p.SKUDescription, &p.DivisionCode, &p.DivisionName,
			&p.DepartmentCode, &p.DepartmentName, &p.SubdepartmentCode, &p.SubdepartmentName,
			&p.ClassCode, &p.ClassName, &p.SubclassCode, &p.SubclassName, &p.BrandName,
			&p.SupplierID, &p.SupplierName, &p.SupplierRUC,
			&p.CreatedAt, &p.CreatedByUserEmail, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan agreement product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *PostgresAgreementsRepository) getStoreRules(ctx context.Context, q querier, agreementID int32) ([]domain.AgreementStoreRule, error) {
	rows, err := q.Query(ctx, `
		SELECT sr.id, sr.agreement_id, sr.store_id, sr.status, s.name,
			sr.created_at, sr.created_by_user_email, sr.updated_at
		FROM agreements_store_rules sr
		LEFT JOIN stores s ON s.store_id = sr.store_id
		WHERE sr.agreement_id = $1
		ORDER BY sr.id`, agreementID)
	if err != nil {
		return nil, fmt.Errorf("failed to query agreement store rules: %w", err)
	}
	defer rows.Close()

	var storeRules []domain.AgreementStoreRule
	for rows.Next() {
		var sr domain.AgreementStoreRule
		if err := rows.Scan(
			&sr.ID, &sr.AgreementID, &sr.StoreID, &sr.Status, &sr.StoreName,
			&sr.CreatedAt, &sr.CreatedByUserEmail, &sr.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan agreement store rule: %w", err)
		}
		storeRules = append(storeRules, sr)
	}
	return storeRules, rows.Err()
}

func (r *PostgresAgreementsRepository) getExcludedFlags(ctx context.Context, q querier, agreementID int32) ([]domain.AgreementExcludedFlag, error) {
	rows, err := q.Query(ctx, `
		SELECT ef.id, ef.agreement_id, ef.excluded_flag_id, lv.display_value,
			ef.created_at, ef.created_by_user_email, ef.updated_at
		FROM agreements_excluded_flags ef
		LEFT JOIN lookup_value lv ON lv.option_key = ef.excluded_flag_id
			AND lv.category_id = (SELECT id FROM lookup_category WHERE code = 'EXCLUDED_FLAGS')
		WHERE ef.agreement_id = $1
		ORDER BY ef.id`, agreementID)
	if err != nil {
		return nil, fmt.Errorf("failed to query agreement excluded flags: %w", err)
	}
	defer rows.Close()

	var excludedFlags []domain.AgreementExcludedFlag
	for rows.Next() {
		var ef domain.AgreementExcludedFlag
		if err := rows.Scan(
			&ef.ID, &ef.AgreementID, &ef.ExcludedFlagID, &ef.ExcludedFlagName,
			&ef.CreatedAt, &ef.CreatedByUserEmail, &ef.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan agreement excluded flag: %w", err)
		}
		excludedFlags = append(excludedFlags, ef)
	}
	return excludedFlags, rows.Err()
}

const insertAgreementSQL = `
	INSERT INTO agreements (
		business_unit_id, agreement_number, start_date, end_date, agreement_type_id,
		status_id, rebate_type_id, concept_id, description, activity_name,
		source_system, spf_code, spf_description, currency_id, unit_price,
		billing_type, pmm_username, store_grouping_id, bulk_upload_document_id,
		active, created_by_user_email
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	RETURNING id`

func insertAgreementArgs(a domain.Agreement) []any {
	return []any{
		a.BusinessUnitID, a.AgreementNumber, a.StartDate, a.EndDate, a.AgreementTypeID,
		a.StatusID, a.RebateTypeID, a.ConceptID, a.Description, a.ActivityName,
		a.SourceSystem, a.SPFCode, a.SPFDescription, a.CurrencyID, a.UnitPrice,
		a.BillingType, a.PMMUsername, a.StoreGroupingID, a.BulkUploadDocumentID,
		a.Active, a.CreatedByUserEmail,
	}
}

func insertChildren(ctx context.Context, tx pgx.Tx, agreementID int32, products []domain.AgreementProduct, storeRules []domain.AgreementStoreRule, excludedFlags []domain.AgreementExcludedFlag) error {
	batch := &pgx.Batch{}

	for _, p := range products {
		batch.Queue(`
			INSERT INTO agreements_products (
				agreement_id, sku_code, sku_description, division_code, division_name,
				department_code, department_name, subdepartment_code, subdepartment_name,
				class_code, class_name, subclass_code, subclass_name, brand_name,
				supplier_id, supplier_name, supplier_ruc, created_by_user_email
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
			agreementID, p.SKUCode, p.SKUDescription, p.DivisionCode, p.DivisionName,
			p.DepartmentCode, p.DepartmentName, p.SubdepartmentCode, p.SubdepartmentName,
			p.ClassCode, p.ClassName, p.SubclassCode, p.SubclassName, p.BrandName,
			p.SupplierID, p.SupplierName, p.SupplierRUC, p.CreatedByUserEmail,
		)
	}

	for _, sr := range storeRules {
		batch.Queue(`
			INSERT INTO agreements_store_rules (agreement_id, store_id, status, created_by_user_email)
			VALUES ($1, $2, $3, $4)`,
			agreementID, sr.StoreID, sr.Status, sr.CreatedByUserEmail,
		)
	}

	for _, ef := range excludedFlags {
		batch.Queue(`
			INSERT INTO agreements_excluded_flags (agreement_id, excluded_flag_id, created_by_user_email)
			VALUES ($1, $2, $3)`,
			agreementID, ef.ExcludedFlagID, ef.CreatedByUserEmail,
		)
	}

	if batch.Len() == 0 {
		return nil
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert agreement children: %w", err)
		}
	}

	return results.Close()
}

// CreateCompleteAgreement inserts an agreement and its children in one
// transaction and returns the persisted state.
func (r *PostgresAgreementsRepository) CreateCompleteAgreement(ctx context.Context, agreement domain.Agreement, products []domain.AgreementProduct, storeRules []domain.AgreementStoreRule, excludedFlags []domain.AgreementExcludedFlag) (*domain.Agreement, []domain.AgreementProduct, []domain.AgreementStoreRule, []domain.AgreementExcludedFlag, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var agreementID int32
	if err := tx.QueryRow(ctx, insertAgreementSQL, insertAgreementArgs(agreement)...).Scan(&agreementID); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to insert agreement: %w", err)
	}

	if err := insertChildren(ctx, tx, agreementID, products, storeRules, excludedFlags); err != nil {
		return nil, nil, nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to commit agreement: %w", err)
	}

	return r.GetAgreementWithDetails(ctx, agreementID)
}

// UpdateCompleteAgreement updates the main row and replaces all child
// collections atomically.
func (r *PostgresAgreementsRepository) UpdateCompleteAgreement(ctx context.Context, id int32, agreement domain.Agreement, products []domain.AgreementProduct, storeRules []domain.AgreementStoreRule, excludedFlags []domain.AgreementExcludedFlag) (*domain.Agreement, []domain.AgreementProduct, []domain.AgreementStoreRule, []domain.AgreementExcludedFlag, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE agreements SET
			agreement_number = $2, start_date = $3, end_date = $4, agreement_type_id = $5,
			status_id = $6, rebate_type_id = $7, concept_id = $8, description = $9,
			activity_name = $10, source_system = $11, spf_code = $12, spf_description = $13,
			currency_id = $14, unit_price = $15, billing_type = $16, pmm_username = $17,
			store_grouping_id = $18, active = $19,
			updated_at = now(), updated_status_by_user_email = $20
		WHERE id = $1`,
		id, agreement.AgreementNumber, agreement.StartDate, agreement.EndDate, agreement.AgreementTypeID,
		agreement.StatusID, agreement.RebateTypeID, agreement.ConceptID, agreement.Description,
		agreement.ActivityName, agreement.SourceSystem, agreement.SPFCode, agreement.SPFDescription,
		agreement.CurrencyID, agreement.UnitPrice, agreement.BillingType, agreement.PMMUsername,
		agreement.StoreGroupingID, agreement.Active, agreement.UpdatedStatusByUserEmail,
	)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to update agreement %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil, nil, nil, fmt.Errorf("table:agreements: %w", pgx.ErrNoRows)
	}

	for _, table := range []string{"agreements_products", "agreements_store_rules", "agreements_excluded_flags"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE agreement_id = $1`, table), id); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("failed to clear %s for agreement %d: %w", table, id, err)
		}
	}

	if err := insertChildren(ctx, tx, id, products, storeRules, excludedFlags); err != nil {
		return nil, nil, nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to commit agreement update: %w", err)
	}

	return r.GetAgreementWithDetails(ctx, id)
}

// SearchAgreements runs a filtered search and returns one page plus the total
// match count. Filters translate into AND-ed predicates; list filters use ANY,
// text filters use case-insensitive contains.
func (r *PostgresAgreementsRepository) SearchAgreements(ctx context.Context, filters domain.AgreementSearchFilters) ([]domain.Agreement, int64, error) {
	var predicates []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filters.StatusIDs) > 0 {
		predicates = append(predicates, fmt.Sprintf("a.status_id = ANY(%s)", arg(filters.StatusIDs)))
	}
	if len(filters.CreatedByEmails) > 0 {
		predicates = append(predicates, fmt.Sprintf("a.created_by_user_email = ANY(%s)", arg(filters.CreatedByEmails)))
	}
	if len(filters.DivisionCodes) > 0 {
		predicates = append(predicates, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM agreements_products p WHERE p.agreement_id = a.id AND p.division_code = ANY(%s))",
			arg(filters.DivisionCodes)))
	}
	if filters.AgreementNumber != nil {
		predicates = append(predicates, fmt.Sprintf("a.agreement_number = %s", arg(*filters.AgreementNumber)))
	}
	if filters.SKUCode != nil {
		predicates = append(predicates, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM agreements_products p WHERE p.agreement_id = a.id AND p.sku_code = %s)",
			arg(*filters.SKUCode)))
	}
	if filters.SupplierRUC != nil {
		predicates = append(predicates, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM agreements_products p WHERE p.agreement_id = a.id AND p.supplier_ruc = %s)",
			arg(*filters.SupplierRUC)))
	}
	if filters.SupplierName != nil {
		predicates = append(predicates, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM agreements_products p WHERE p.agreement_id = a.id AND p.supplier_name ILIKE %s)",
			arg("%"+*filters.SupplierName+"%")))
	}
	if filters.Description != nil {
		predicates = append(predicates, fmt.Sprintf("a.description ILIKE %s", arg("%"+*filters.Description+"%")))
	}
	if filters.SPFDescription != nil {
		predicates = append(predicates, fmt.Sprintf("a.spf_description ILIKE %s", arg("%"+*filters.SPFDescription+"%")))
	}
	if filters.RebateTypeID != nil {
		predicates = append(predicates, fmt.Sprintf("a.rebate_type_id = %s", arg(*filters.RebateTypeID)))
	}
	if filters.ConceptID != nil {
		predicates = append(predicates, fmt.Sprintf("a.concept_id = %s", arg(*filters.ConceptID)))
	}
	if filters.SPFCode != nil {
		predicates = append(predicates, fmt.Sprintf("a.spf_code = %s", arg(*filters.SPFCode)))
	}
	if filters.StoreGroupingID != nil {
		predicates = append(predicates, fmt.Sprintf("a.store_grouping_id = %s", arg(*filters.StoreGroupingID)))
	}
	if filters.PMMUsername != nil {
		predicates = append(predicates, fmt.Sprintf("a.pmm_username = %s", arg(*filters.PMMUsername)))
	}
	if filters.StartDate != nil {
		predicates = append(predicates, fmt.Sprintf("a.start_date >= %s", arg(*filters.StartDate)))
	}
	if filters.EndDate != nil {
		predicates = append(predicates, fmt.Sprintf("a.end_date <= %s", arg(*filters.EndDate)))
	}

	query := agreementSelect
	if len(predicates) > 0 {
		query += " WHERE " + strings.Join(predicates, " AND ")
	}

	countQuery := strings.Replace(query, "SELECT a.id,", "SELECT count(*) OVER () AS total_count, a.id,", 1)
	countQuery += fmt.Sprintf(" ORDER BY a.created_at DESC, a.id DESC LIMIT %s OFFSET %s",
		arg(filters.Limit), arg(filters.Offset))

	rows, err := r.pool.Query(ctx, countQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search agreements: %w", err)
	}
	defer rows.Close()

	var agreements []domain.Agreement
	var total int64
	for rows.Next() {
		var a domain.Agreement
		if err := rows.Scan(
			&total,
			&a.ID, &a.BusinessUnitID, &a.AgreementNumber, &a.StartDate, &a.EndDate,
			&a.AgreementTypeID, &a.StatusID, &a.RebateTypeID, &a.ConceptID,
			&a.Description, &a.ActivityName, &a.SourceSystem, &a.SPFCode, &a.SPFDescription,
			&a.CurrencyID, &a.UnitPrice, &a.BillingType, &a.PMMUsername, &a.StoreGroupingID,
			&a.BulkUploadDocumentID, &a.Active,
			&a.CreatedAt, &a.CreatedByUserEmail, &a.UpdatedAt, &a.UpdatedStatusByUserEmail,
			&a.StatusDescription, &a.RebateTypeDescription, &a.ConceptDescription,
			&a.BillingTypeDescription, &a.PMMUsernameDescription, &a.StoreGroupingDescription,
			&a.CurrencyCode,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan agreement search result: %w", err)
		}
		agreements = append(agreements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read agreement search results: %w", err)
	}

	return agreements, total, nil
}

// CreateAgreementsFromResolvedRows generates one agreement per resolved row of
// a bulk upload document, all inside one transaction. Agreements are created
// GENERATED in PEN; products are enriched from the provided SKU catalog and
// store rules expand the included/excluded store lists.
func (r *PostgresAgreementsRepository) CreateAgreementsFromResolvedRows(ctx context.Context, documentID int64, skusByCode map[string]domain.SKU, createdBy string) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var docBU int32
	var docSource domain.SourceSystem
	if err := tx.QueryRow(ctx,
		`SELECT business_unit_id, source_system FROM agreements_bulk_upload_documents WHERE id = $1`,
		documentID,
	).Scan(&docBU, &docSource); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("table:agreements_bulk_upload_documents: %w", pgx.ErrNoRows)
		}
		return 0, fmt.Errorf("failed to read document %d: %w", documentID, err)
	}

	rows, err := tx.Query(ctx, `
		SELECT sku, note, spf_code, spf_description,
			pmm_user_id, group_id, rebate_type_id, concept_id, billing_type_id,
			included_store_ids, excluded_store_ids, excluded_flag_ids,
			start_date_parsed, end_date_parsed, unit_rebate_num, resolved_at
		FROM agreements_bulk_upload_document_rows
		WHERE bulk_document_id = $1
		ORDER BY id`, documentID)
	if err != nil {
		return 0, fmt.Errorf("failed to read resolved rows for document %d: %w", documentID, err)
	}

	var resolved []domain.BulkUploadDocumentRow
	for rows.Next() {
		var row domain.BulkUploadDocumentRow
		if err := rows.Scan(
			&row.SKU, &row.Note, &row.SPFCode, &row.SPFDescription,
			&row.PMMUserID, &row.GroupID, &row.RebateTypeID, &row.ConceptID, &row.BillingTypeID,
			&row.IncludedStoreIDs, &row.ExcludedStoreIDs, &row.ExcludedFlagIDs,
			&row.StartDateParsed, &row.EndDateParsed, &row.UnitRebateNum, &row.ResolvedAt,
		); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan resolved row: %w", err)
		}
		if row.ResolvedAt != nil {
			resolved = append(resolved, row)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to read resolved rows: %w", err)
	}

	if len(resolved) == 0 {
		return 0, fmt.Errorf("document %d has no resolved rows", documentID)
	}

	currencyPEN := int32(domain.CurrencyPEN)
	created := 0
	for _, row := range resolved {
		unitPrice := decimal.Zero
		if row.UnitRebateNum != nil {
			unitPrice = *row.UnitRebateNum
		}

		agreement := domain.Agreement{
			BusinessUnitID:       docBU,
			StartDate:            row.StartDateParsed,
			EndDate:              row.EndDateParsed,
			StatusID:             domain.AgreementStatusGenerated,
			RebateTypeID:         deref(row.RebateTypeID),
			ConceptID:            deref(row.ConceptID),
			Description:          row.Note,
			SourceSystem:         docSource,
			SPFCode:              row.SPFCode,
			SPFDescription:       row.SPFDescription,
			CurrencyID:           &currencyPEN,
			UnitPrice:            unitPrice,
			BillingType:          deref(row.BillingTypeID),
			PMMUsername:          row.PMMUserID,
			StoreGroupingID:      row.GroupID,
			BulkUploadDocumentID: &documentID,
			Active:               true,
			CreatedByUserEmail:   createdBy,
		}

		var agreementID int32
		if err := tx.QueryRow(ctx, insertAgreementSQL, insertAgreementArgs(agreement)...).Scan(&agreementID); err != nil {
			return 0, fmt.Errorf("failed to insert generated agreement: %w", err)
		}

		var products []domain.AgreementProduct
		if row.SKU != nil {
			product := domain.AgreementProduct{
				SKUCode:            *row.SKU,
				CreatedByUserEmail: createdBy,
			}
			if sku, ok := skusByCode[*row.SKU]; ok {
				product.SKUDescription = sku.Description
				product.DivisionCode = sku.DivisionCode
				product.DivisionName = sku.DivisionName
				product.DepartmentCode = sku.DepartmentCode
				product.DepartmentName = sku.DepartmentName
				product.SubdepartmentCode = sku.SubdepartmentCode
				product.SubdepartmentName = sku.SubdepartmentName
				product.ClassCode = sku.ClassCode
				product.ClassName = sku.ClassName
				product.SubclassCode = sku.SubclassCode
				product.SubclassName = sku.SubclassName
				product.BrandName = sku.Brand
				product.SupplierID = sku.SupplierID
				product.SupplierName = sku.SupplierName
				product.SupplierRUC = sku.SupplierRUC
			}
			products = append(products, product)
		}

		var storeRules []domain.AgreementStoreRule
		for _, storeID := range row.IncludedStoreIDs {
			storeRules = append(storeRules, domain.AgreementStoreRule{
				StoreID:            storeID,
				Status:             domain.StoreRuleInclude,
				CreatedByUserEmail: createdBy,
			})
		}
		for _, storeID := range row.ExcludedStoreIDs {
			storeRules = append(storeRules, domain.AgreementStoreRule{
				StoreID:            storeID,
				Status:             domain.StoreRuleExclude,
				CreatedByUserEmail: createdBy,
			})
		}

		var excludedFlags []domain.AgreementExcludedFlag
		for _, flagID := range row.ExcludedFlagIDs {
			excludedFlags = append(excludedFlags, domain.AgreementExcludedFlag{
				ExcludedFlagID:     flagID,
				CreatedByUserEmail: createdBy,
			})
		}

		if err := insertChildren(ctx, tx, agreementID, products, storeRules, excludedFlags); err != nil {
			return 0, err
		}

		created++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit generated agreements: %w", err)
	}

	return created, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
