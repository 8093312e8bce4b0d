package domain

// SourceSystem identifies which upstream system an agreement originated from.
type SourceSystem string

const (
	SourceSystemSPF SourceSystem = "SPF"
	SourceSystemPMM SourceSystem = "PMM"
)

// IsValid reports whether the value is a known source system.
func (s SourceSystem) IsValid() bool {
	return s == SourceSystemSPF || s == SourceSystemPMM
}

// StoreRuleStatus marks a store rule as inclusive or exclusive.
type StoreRuleStatus string

const (
	StoreRuleInclude StoreRuleStatus = "INCLUDE"
	StoreRuleExclude StoreRuleStatus = "EXCLUDE"
)

func (s StoreRuleStatus) IsValid() bool {
	return s == StoreRuleInclude || s == StoreRuleExclude
}

// AgreementStatus values are the option keys of the AGREEMENT_STATUSES lookup
// category. They are stored as strings because they live in lookup_value rows.
type AgreementStatus string

const (
	AgreementStatusGenerated AgreementStatus = "1"
	AgreementStatusApproved  AgreementStatus = "2"
	AgreementStatusCancelled AgreementStatus = "3"
	AgreementStatusExpired   AgreementStatus = "4"
	AgreementStatusDraft     AgreementStatus = "5"
	AgreementStatusRejected  AgreementStatus = "6"
	AgreementStatusDeleted   AgreementStatus = "7"
)

// BulkUploadStatus values are the option keys of the
// AGREEMENT_BULK_UPLOAD_STATUSES lookup category.
type BulkUploadStatus string

const (
	BulkUploadStatusInProgress      BulkUploadStatus = "1"
	BulkUploadStatusPending         BulkUploadStatus = "2"
	BulkUploadStatusUploaded        BulkUploadStatus = "3"
	BulkUploadStatusPartialLoaded   BulkUploadStatus = "4"
	BulkUploadStatusError           BulkUploadStatus = "5"
	BulkUploadStatusCancelled       BulkUploadStatus = "6"
	BulkUploadStatusWaitingApproval BulkUploadStatus = "7"
)

// Currency ids match the currency master table.
type Currency int32

const (
	CurrencyUSD Currency = 2
	CurrencyPEN Currency = 3
)
