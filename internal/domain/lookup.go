package domain

import "time"

// Lookup category codes used across agreements and bulk upload flows.
const (
	LookupCategoryRebateType       = "REBATE_TYPE"
	LookupCategoryConcept          = "CONCEPT"
	LookupCategoryBillingType      = "BILLING_TYPE"
	LookupCategoryPMMUserName      = "PMM_USER_NAME"
	LookupCategoryAgreementStatus  = "AGREEMENT_STATUSES"
	LookupCategoryStoreGrouping    = "STORE_GROUPING"
	LookupCategoryExcludedFlags    = "EXCLUDED_FLAGS"
	LookupCategoryBulkUploadStatus = "AGREEMENT_BULK_UPLOAD_STATUSES"
	LookupCategorySourceSystem     = "SOURCE_SYSTEM"
)

// LookupCategory is a taxonomy such as REBATE_TYPE or BILLING_TYPE.
type LookupCategory struct {
	ID             int32
	Code           string
	Name           string
	AllowHierarchy bool
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LookupValue is one selectable option inside a category. Values may form a
// hierarchy through ParentID when the category allows it.
type LookupValue struct {
	ID           int32
	CategoryID   int32
	OptionKey    string
	DisplayValue string
	OptionValue  string
	ParentID     *int32
	Metadata     map[string]any
	SortOrder    int32
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LookupValueResult is the projection returned by lookup queries. It carries
// only the fields clients need to render and submit options.
type LookupValueResult struct {
	LookupValueID int32          `json:"lookup_value_id"`
	OptionKey     string         `json:"option_key"`
	DisplayValue  string         `json:"display_value"`
	OptionValue   string         `json:"option_value"`
	Metadata      map[string]any `json:"metadata"`
	SortOrder     int32          `json:"sort_order"`
	ParentID      *int32         `json:"parent_id"`
}
