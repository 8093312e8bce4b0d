package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresBulkUploadRepository persists bulk upload documents and their rows.
type PostgresBulkUploadRepository struct {
	pool *pgxpool.Pool
}

var _ BulkUploadRepository = (*PostgresBulkUploadRepository)(nil)

func NewPostgresBulkUploadRepository(pool *pgxpool.Pool) *PostgresBulkUploadRepository {
	return &PostgresBulkUploadRepository{pool: pool}
}

const bulkDocumentColumns = `id, business_unit_id, status_id, full_path_document, comments,
	document_uid, source_system, created_at, created_by_user_email, updated_at`

func scanBulkDocument(row pgx.Row) (domain.BulkUploadDocument, error) {
	var d domain.BulkUploadDocument
	err := row.Scan(
		&d.ID, &d.BusinessUnitID, &d.StatusID, &d.FullPathDocument, &d.Comments,
		&d.DocumentUID, &d.SourceSystem, &d.CreatedAt, &d.CreatedByUserEmail, &d.UpdatedAt,
	)
	return d, err
}

// CreateDocument inserts a new document and returns the stored row.
func (r *PostgresBulkUploadRepository) CreateDocument(ctx context.Context, doc domain.BulkUploadDocument) (*domain.BulkUploadDocument, error) {
	created, err := scanBulkDocument(r.pool.QueryRow(ctx, `
		INSERT INTO agreements_bulk_upload_documents (
			business_unit_id, status_id, full_path_document, comments,
			document_uid, source_system, created_by_user_email
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+bulkDocumentColumns,
		doc.BusinessUnitID, doc.StatusID, doc.FullPathDocument, doc.Comments,
		doc.DocumentUID, doc.SourceSystem, doc.CreatedByUserEmail,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create bulk upload document: %w", err)
	}
	return &created, nil
}

func (r *PostgresBulkUploadRepository) GetDocumentByID(ctx context.Context, id int64) (*domain.BulkUploadDocument, error) {
	doc, err := scanBulkDocument(r.pool.QueryRow(ctx,
		`SELECT `+bulkDocumentColumns+` FROM agreements_bulk_upload_documents WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("table:agreements_bulk_upload_documents: %w", pgx.ErrNoRows)
		}
		return nil, fmt.Errorf("failed to get bulk upload document %d: %w", id, err)
	}
	return &doc, nil
}

func (r *PostgresBulkUploadRepository) GetDocumentByUID(ctx context.Context, uid string) (*domain.BulkUploadDocument, error) {
	doc, err := scanBulkDocument(r.pool.QueryRow(ctx,
		`SELECT `+bulkDocumentColumns+` FROM agreements_bulk_upload_documents WHERE document_uid = $1`, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("table:agreements_bulk_upload_documents: %w", pgx.ErrNoRows)
		}
		return nil, fmt.Errorf("failed to get bulk upload document %s: %w", uid, err)
	}
	return &doc, nil
}

// CreateDocumentRows bulk-inserts the raw sheet rows of a document.
func (r *PostgresBulkUploadRepository) CreateDocumentRows(ctx context.Context, documentID int64, rows []domain.BulkUploadDocumentRow) error {
	if len(rows) == 0 {
		return nil
	}

	source := make([][]any, 0, len(rows))
	for _, row := range rows {
		source = append(source, []any{
			documentID,
			row.PMMUser, row.GroupName, row.ExcludedFlags, row.IncludedStores, row.ExcludedStores,
			row.RebateType, row.Concept, row.Note, row.SPFCode, row.SPFDescription,
			row.SKU, row.StartDate, row.EndDate, row.UnitRebatePEN, row.BillingType,
			row.Observations,
		})
	}

	_, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"agreements_bulk_upload_document_rows"},
		[]string{
			"bulk_document_id",
			"pmm_user", "group_name", "excluded_flags", "included_stores", "excluded_stores",
			"rebate_type", "concept", "note", "spf_code", "spf_description",
			"sku", "start_date", "end_date", "unit_rebate_pen", "billing_type",
			"observations",
		},
		pgx.CopyFromRows(source),
	)
	if err != nil {
		return fmt.Errorf("failed to insert rows for document %d: %w", documentID, err)
	}
	return nil
}

func (r *PostgresBulkUploadRepository) GetDocumentRows(ctx context.Context, documentID int64) ([]domain.BulkUploadDocumentRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, bulk_document_id,
			pmm_user, group_name, excluded_flags, included_stores, excluded_stores,
			rebate_type, concept, note, spf_code, spf_description,
			sku, start_date, end_date, unit_rebate_pen, billing_type, observations,
			pmm_user_id, group_id, rebate_type_id, concept_id, billing_type_id,
			included_store_ids, excluded_store_ids, excluded_flag_ids,
			start_date_parsed, end_date_parsed, unit_rebate_num, resolved_at, resolved_by,
			created_at, updated_at
		FROM agreements_bulk_upload_document_rows
		WHERE bulk_document_id = $1
		ORDER BY id`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows for document %d: %w", documentID, err)
	}
	defer rows.Close()

	var result []domain.BulkUploadDocumentRow
	for rows.Next() {
		var row domain.BulkUploadDocumentRow
		if err := rows.Scan(
			&row.ID, &row.DocumentID,
			&row.PMMUser, &row.GroupName, &row.ExcludedFlags, &row.IncludedStores, &row.ExcludedStores,
			&row.RebateType, &row.Concept, &row.Note, &row.SPFCode, &row.SPFDescription,
			&row.SKU, &row.StartDate, &row.EndDate, &row.UnitRebatePEN, &row.BillingType, &row.Observations,
			&row.PMMUserID, &row.GroupID, &row.RebateTypeID, &row.ConceptID, &row.BillingTypeID,
			&row.IncludedStoreIDs, &row.ExcludedStoreIDs, &row.ExcludedFlagIDs,
			&row.StartDateParsed, &row.EndDateParsed, &row.UnitRebateNum, &row.ResolvedAt, &row.ResolvedBy,
			&row.CreatedAt, &row.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bulk upload row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// UpdateDocumentStatus moves a document to a new pipeline status. Comments are
// overwritten when provided and preserved when nil.
func (r *PostgresBulkUploadRepository) UpdateDocumentStatus(ctx context.Context, documentID int64, status domain.BulkUploadStatus, comments *string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE agreements_bulk_upload_documents
		SET status_id = $2, comments = COALESCE($3, comments), updated_at = now()
		WHERE id = $1`, documentID, status, comments)
	if err != nil {
		return fmt.Errorf("failed to update status of document %d: %w", documentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("table:agreements_bulk_upload_documents: %w", pgx.ErrNoRows)
	}
	return nil
}

// SaveResolvedRows writes the resolved columns back onto existing rows in one
// transaction.
func (r *PostgresBulkUploadRepository) SaveResolvedRows(ctx context.Context, rows []domain.BulkUploadDocumentRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(`
			UPDATE agreements_bulk_upload_document_rows SET
				pmm_user_id = $2, group_id = $3, rebate_type_id = $4, concept_id = $5,
				billing_type_id = $6, included_store_ids = $7, excluded_store_ids = $8,
				excluded_flag_ids = $9, start_date_parsed = $10, end_date_parsed = $11,
				unit_rebate_num = $12, observations = $13,
				resolved_at = $14, resolved_by = $15, updated_at = now()
			WHERE id = $1`,
			row.ID,
			row.PMMUserID, row.GroupID, row.RebateTypeID, row.ConceptID,
			row.BillingTypeID, row.IncludedStoreIDs, row.ExcludedStoreIDs,
			row.ExcludedFlagIDs, row.StartDateParsed, row.EndDateParsed,
			row.UnitRebateNum, row.Observations,
			row.ResolvedAt, row.ResolvedBy,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to save resolved row: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit resolved rows: %w", err)
	}
	return nil
}
