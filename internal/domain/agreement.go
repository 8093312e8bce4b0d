package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Agreement is a commercial rebate agreement with a supplier. Status, rebate
// type, concept, billing type, pmm username and store grouping reference
// lookup values by option key; the matching display values are denormalized
// into the *Description fields when reading.
type Agreement struct {
	ID                       int32            `json:"id"`
	BusinessUnitID           int32            `json:"business_unit_id"`
	AgreementNumber          *int32           `json:"agreement_number"`
	StartDate                *time.Time       `json:"start_date"`
	EndDate                  *time.Time       `json:"end_date"`
	AgreementTypeID          *string          `json:"agreement_type_id"`
	StatusID                 AgreementStatus  `json:"status_id"`
	RebateTypeID             string           `json:"rebate_type_id"`
	ConceptID                string           `json:"concept_id"`
	Description              *string          `json:"description"`
	ActivityName             *string          `json:"activity_name"`
	SourceSystem             SourceSystem     `json:"source_system"`
	SPFCode                  *string          `json:"spf_code"`
	SPFDescription           *string          `json:"spf_description"`
	CurrencyID               *int32           `json:"currency_id"`
	UnitPrice                decimal.Decimal  `json:"unit_price"`
	BillingType              string           `json:"billing_type"`
	PMMUsername              *string          `json:"pmm_username"`
	StoreGroupingID          *string          `json:"store_grouping_id"`
	BulkUploadDocumentID     *int64           `json:"bulk_upload_document_id"`
	Active                   bool             `json:"active"`
	CreatedAt                time.Time        `json:"created_at"`
	CreatedByUserEmail       string           `json:"created_by_user_email"`
	UpdatedAt                time.Time        `json:"updated_at"`
	UpdatedStatusByUserEmail *string          `json:"updated_status_by_user_email"`

	// Denormalized lookup descriptions, populated on reads only.
	StatusDescription        *string `json:"status_description,omitempty"`
	RebateTypeDescription    *string `json:"rebate_type_description,omitempty"`
	ConceptDescription       *string `json:"concept_description,omitempty"`
	BillingTypeDescription   *string `json:"billing_type_description,omitempty"`
	PMMUsernameDescription   *string `json:"pmm_username_description,omitempty"`
	StoreGroupingDescription *string `json:"store_grouping_description,omitempty"`
	CurrencyCode             *string `json:"currency_code,omitempty"`
}

// AgreementProduct captures the SKU and its merchandising hierarchy at the
// time the agreement was created.
type AgreementProduct struct {
	ID                 int32     `json:"id"`
	AgreementID        int32     `json:"agreement_id"`
	SKUCode            string    `json:"sku_code"`
	SKUDescription     *string   `json:"sku_description"`
	DivisionCode       *string   `json:"division_code"`
	DivisionName       *string   `json:"division_name"`
	DepartmentCode     *string   `json:"department_code"`
	DepartmentName     *string   `json:"department_name"`
	SubdepartmentCode  *string   `json:"subdepartment_code"`
	SubdepartmentName  *string   `json:"subdepartment_name"`
	ClassCode          *string   `json:"class_code"`
	ClassName          *string   `json:"class_name"`
	SubclassCode       *string   `json:"subclass_code"`
	SubclassName       *string   `json:"subclass_name"`
	BrandName          *string   `json:"brand_name"`
	SupplierID         *int64    `json:"supplier_id"`
	SupplierName       *string   `json:"supplier_name"`
	SupplierRUC        *string   `json:"supplier_ruc"`
	CreatedAt          time.Time `json:"created_at"`
	CreatedByUserEmail string    `json:"created_by_user_email"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// AgreementStoreRule includes or excludes one store from the agreement scope.
type AgreementStoreRule struct {
	ID                 int32           `json:"id"`
	AgreementID        int32           `json:"agreement_id"`
	StoreID            int32           `json:"store_id"`
	Status             StoreRuleStatus `json:"status"`
	StoreName          *string         `json:"store_name,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	CreatedByUserEmail string          `json:"created_by_user_email"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// AgreementExcludedFlag references an EXCLUDED_FLAGS lookup option key.
type AgreementExcludedFlag struct {
	ID                 int32     `json:"id"`
	AgreementID        int32     `json:"agreement_id"`
	ExcludedFlagID     string    `json:"excluded_flag_id"`
	ExcludedFlagName   *string   `json:"excluded_flag_name,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	CreatedByUserEmail string    `json:"created_by_user_email"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// AgreementSearchFilters narrows an agreement search. Nil and empty fields
// are ignored.
type AgreementSearchFilters struct {
	DivisionCodes   []string
	StatusIDs       []string
	CreatedByEmails []string
	AgreementNumber *int32
	SKUCode         *string
	Description     *string
	RebateTypeID    *string
	ConceptID       *string
	SPFCode         *string
	SPFDescription  *string
	StartDate       *time.Time
	EndDate         *time.Time
	SupplierRUC     *string
	SupplierName    *string
	StoreGroupingID *string
	PMMUsername     *string
	Limit           int
	Offset          int
}
