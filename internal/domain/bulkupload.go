package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BulkUploadDocument tracks one uploaded agreements spreadsheet through the
// ingest pipeline. Status transitions: IN_PROGRESS on create, then
// PARTIAL_LOADED or ERROR after row validation, then UPLOADED or ERROR after
// resolution.
type BulkUploadDocument struct {
	ID                 int64            `json:"id"`
	BusinessUnitID     int32            `json:"business_unit_id"`
	StatusID           BulkUploadStatus `json:"status_id"`
	FullPathDocument   *string          `json:"full_path_document"`
	Comments           *string          `json:"comments"`
	DocumentUID        uuid.UUID        `json:"document_uid"`
	SourceSystem       SourceSystem     `json:"source_system"`
	CreatedAt          time.Time        `json:"created_at"`
	CreatedByUserEmail string           `json:"created_by_user_email"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// BulkUploadDocumentRow is one spreadsheet row. The raw columns carry the
// text exactly as typed in the sheet; the resolved columns are filled while
// resolving the document against lookups, stores and the SKU catalog.
type BulkUploadDocumentRow struct {
	ID         int64 `json:"id"`
	DocumentID int64 `json:"document_id"`

	// Raw sheet columns.
	PMMUser        *string `json:"pmm_user"`
	GroupName      *string `json:"group_name"`
	ExcludedFlags  *string `json:"excluded_flags"`
	IncludedStores *string `json:"included_stores"`
	ExcludedStores *string `json:"excluded_stores"`
	RebateType     *string `json:"rebate_type"`
	Concept        *string `json:"concept"`
	Note           *string `json:"note"`
	SPFCode        *string `json:"spf_code"`
	SPFDescription *string `json:"spf_description"`
	SKU            *string `json:"sku"`
	StartDate      *string `json:"start_date"`
	EndDate        *string `json:"end_date"`
	UnitRebatePEN  *string `json:"unit_rebate_pen"`
	BillingType    *string `json:"billing_type"`
	Observations   *string `json:"observations"`

	// Resolved columns.
	PMMUserID        *string          `json:"pmm_user_id"`
	GroupID          *string          `json:"group_id"`
	RebateTypeID     *string          `json:"rebate_type_id"`
	ConceptID        *string          `json:"concept_id"`
	BillingTypeID    *string          `json:"billing_type_id"`
	IncludedStoreIDs []int32          `json:"included_store_ids"`
	ExcludedStoreIDs []int32          `json:"excluded_store_ids"`
	ExcludedFlagIDs  []string         `json:"excluded_flag_ids"`
	StartDateParsed  *time.Time       `json:"start_date_parsed"`
	EndDateParsed    *time.Time       `json:"end_date_parsed"`
	UnitRebateNum    *decimal.Decimal `json:"unit_rebate_num"`
	ResolvedAt       *time.Time       `json:"resolved_at"`
	ResolvedBy       *string          `json:"resolved_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
