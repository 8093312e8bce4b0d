// Package repository handles all interactions with the database. It contains
// the SQL and scanning code, abstracting persistence away from the service
// layer. Services depend on the interfaces declared here so they can be
// tested against fakes.
package repository

import (
	"context"

	"github.com/Jarolccis/agreements-core-api/internal/domain"
)

// StoresRepository reads the store catalog.
type StoresRepository interface {
	GetStoreByID(ctx context.Context, id int32) (*domain.Store, error)
	GetActiveStores(ctx context.Context) ([]domain.Store, error)
}

// ModulesRepository reads modules and their user assignments.
type ModulesRepository interface {
	GetActiveModules(ctx context.Context) ([]domain.Module, error)
	GetModuleUsersByModuleID(ctx context.Context, moduleID int32) ([]domain.ModuleUser, error)
	GetActiveModuleUserEmails(ctx context.Context) ([]string, error)
}

// LookupsRepository reads lookup taxonomies.
type LookupsRepository interface {
	GetValuesByCategoryCode(ctx context.Context, categoryCode string) ([]domain.LookupValueResult, error)
	GetValueByCategoryAndKey(ctx context.Context, categoryCode, optionKey string) (*domain.LookupValueResult, error)
}

// AgreementsRepository persists agreements and their child collections.
type AgreementsRepository interface {
	ExistsAgreementByNumber(ctx context.Context, number int32, businessUnitID int32) (bool, error)
	GetAgreementByID(ctx context.Context, id int32) (*domain.Agreement, error)
	GetAgreementWithDetails(ctx context.Context, id int32) (*domain.Agreement, []domain.AgreementProduct, []domain.AgreementStoreRule, []domain.AgreementExcludedFlag, error)
	CreateCompleteAgreement(ctx context.Context, agreement domain.Agreement, products []domain.AgreementProduct, storeRules []domain.AgreementStoreRule, excludedFlags []domain.AgreementExcludedFlag) (*domain.Agreement, []domain.AgreementProduct, []domain.AgreementStoreRule, []domain.AgreementExcludedFlag, error)
	UpdateCompleteAgreement(ctx context.Context, id int32, agreement domain.Agreement, products []domain.AgreementProduct, storeRules []domain.AgreementStoreRule, excludedFlags []domain.AgreementExcludedFlag) (*domain.Agreement, []domain.AgreementProduct, []domain.AgreementStoreRule, []domain.AgreementExcludedFlag, error)
	SearchAgreements(ctx context.Context, filters domain.AgreementSearchFilters) ([]domain.Agreement, int64, error)
	CreateAgreementsFromResolvedRows(ctx context.Context, documentID int64, skusByCode map[string]domain.SKU, createdBy string) (int, error)
}

// BulkUploadRepository persists bulk upload documents and their rows.
type BulkUploadRepository interface {
	CreateDocument(ctx context.Context, doc domain.BulkUploadDocument) (*domain.BulkUploadDocument, error)
	GetDocumentByID(ctx context.Context, id int64) (*domain.BulkUploadDocument, error)
	GetDocumentByUID(ctx context.Context, uid string) (*domain.BulkUploadDocument, error)
	CreateDocumentRows(ctx context.Context, documentID int64, rows []domain.BulkUploadDocumentRow) error
	GetDocumentRows(ctx context.Context, documentID int64) ([]domain.BulkUploadDocumentRow, error)
	UpdateDocumentStatus(ctx context.Context, documentID int64, status domain.BulkUploadStatus, comments *string) error
	SaveResolvedRows(ctx context.Context, rows []domain.BulkUploadDocumentRow) error
}

// SKUsRepository reads the product catalog.
type SKUsRepository interface {
	GetSKUsByCodes(ctx context.Context, codes []string) ([]domain.SKU, error)
}

// MasterDataRepository reads merchandising master data.
type MasterDataRepository interface {
	GetAllDivisions(ctx context.Context) ([]domain.Division, error)
}

// PermissionsRepository resolves module permissions granted to a user.
type PermissionsRepository interface {
	GetPermissionsByUser(ctx context.Context, email string, businessUnitID int32, moduleNames []string) ([]string, error)
}
