package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/Jarolccis/agreements-core-api/internal/errs"
	"github.com/Jarolccis/agreements-core-api/internal/lib/utils"
	"github.com/Jarolccis/agreements-core-api/internal/repository"
	"github.com/Jarolccis/agreements-core-api/internal/server"
)

const (
	searchDefaultLimit = 50
	searchMaxLimit     = 100
)

// AgreementDetails bundles an agreement with its child collections.
type AgreementDetails struct {
	Agreement     domain.Agreement              `json:"agreement"`
	Products      []domain.AgreementProduct     `json:"products"`
	StoreRules    []domain.AgreementStoreRule   `json:"store_rules"`
	ExcludedFlags []domain.AgreementExcludedFlag `json:"excluded_flags"`
}

// AgreementsService implements the agreement business rules.
type AgreementsService struct {
	server     *server.Server
	agreements repository.AgreementsRepository
}

func NewAgreementsService(s *server.Server, agreements repository.AgreementsRepository) *AgreementsService {
	return &AgreementsService{server: s, agreements: agreements}
}

// CreateAgreement validates the child collections, stamps creator identity
// and business unit from the caller, and persists everything atomically.
func (s *AgreementsService) CreateAgreement(ctx context.Context, user domain.User, agreement domain.Agreement, products []domain.AgreementProduct, storeRules []domain.AgreementStoreRule, excludedFlags []domain.AgreementExcludedFlag) (*AgreementDetails, error) {
	if err := validateChildren(products, storeRules, excludedFlags); err != nil {
		return nil, err
	}

	if agreement.AgreementNumber != nil {
		exists, err := s.agreements.ExistsAgreementByNumber(ctx, *agreement.AgreementNumber, user.BusinessUnitID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, errs.NewBadRequestError(
				fmt.Sprintf("Agreement number %d already exists", *agreement.AgreementNumber),
				true, utils.Ptr("AGREEMENT_ALREADY_EXISTS"), nil, nil,
			)
		}
	}

	agreement.BusinessUnitID = user.BusinessUnitID
	agreement.CreatedByUserEmail = user.Email
	agreement.Active = true
	stampChildren(user.Email, products, storeRules, excludedFlags)

	created, createdProducts, createdStoreRules, createdExcludedFlags, err := s.agreements.CreateCompleteAgreement(ctx, agreement, products, storeRules, excludedFlags)
	if err != nil {
		return nil, err
	}

	return &AgreementDetails{
		Agreement:     *created,
		Products:      createdProducts,
		StoreRules:    createdStoreRules,
		ExcludedFlags: createdExcludedFlags,
	}, nil
}

// GetAgreement returns an agreement with all child collections.
func (s *AgreementsService) GetAgreement(ctx context.Context, id int32) (*AgreementDetails, error) {
	agreement, products, storeRules, excludedFlags, err := s.agreements.GetAgreementWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	return &AgreementDetails{
		Agreement:     *agreement,
		Products:      products,
		StoreRules:    storeRules,
		ExcludedFlags: excludedFlags,
	}, nil
}

// UpdateAgreement replaces the agreement and all child collections. The
// children are not merged; what the caller sends is what gets stored.
func (s *AgreementsService) UpdateAgreement(ctx context.Context, user domain.User, id int32, agreement domain.Agreement, products []domain.AgreementProduct, storeRules []domain.AgreementStoreRule, excludedFlags []domain.AgreementExcludedFlag) (*AgreementDetails, error) {
	if err := validateChildren(products, storeRules, excludedFlags); err != nil {
		return nil, err
	}

	existing, err := s.agreements.GetAgreementByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if agreement.AgreementNumber != nil &&
		(existing.AgreementNumber == nil || *existing.AgreementNumber != *agreement.AgreementNumber) {
		exists, err := s.agreements.ExistsAgreementByNumber(ctx, *agreement.AgreementNumber, existing.BusinessUnitID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, errs.NewBadRequestError(
				fmt.Sprintf("Agreement number %d already exists", *agreement.AgreementNumber),
				true, utils.Ptr("AGREEMENT_ALREADY_EXISTS"), nil, nil,
			)
		}
	}

	agreement.UpdatedStatusByUserEmail = utils.Ptr(user.Email)
	stampChildren(user.Email, products, storeRules, excludedFlags)

	updated, updatedProducts, updatedStoreRules, updatedExcludedFlags, err := s.agreements.UpdateCompleteAgreement(ctx, id, agreement, products, storeRules, excludedFlags)
	if err != nil {
		return nil, err
	}

	return &AgreementDetails{
		Agreement:     *updated,
		Products:      updatedProducts,
		StoreRules:    updatedStoreRules,
		ExcludedFlags: updatedExcludedFlags,
	}, nil
}

// SearchAgreements runs a filtered, paginated search. Limits outside 1..100
// fall back to the default page size; the effective values are written back
// into filters so callers can echo them.
func (s *AgreementsService) SearchAgreements(ctx context.Context, filters *domain.AgreementSearchFilters) ([]domain.Agreement, int64, error) {
	if filters.Limit < 1 || filters.Limit > searchMaxLimit {
		filters.Limit = searchDefaultLimit
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	return s.agreements.SearchAgreements(ctx, *filters)
}

// validateChildren rejects duplicate SKUs, store rules and excluded flags
// within a single request.
func validateChildren(products []domain.AgreementProduct, storeRules []domain.AgreementStoreRule, excludedFlags []domain.AgreementExcludedFlag) error {
	skuCodes := make([]string, 0, len(products))
	for _, p := range products {
		skuCodes = append(skuCodes, strings.TrimSpace(p.SKUCode))
	}
	if dup := firstDuplicate(skuCodes); dup != nil {
		return errs.NewBadRequestError(
			fmt.Sprintf("Duplicate SKU %s in products", *dup),
			true, utils.Ptr("AGREEMENT_DUPLICATE_SKU"), nil, nil,
		)
	}

	storeIDs := make([]string, 0, len(storeRules))
	for _, sr := range storeRules {
		storeIDs = append(storeIDs, fmt.Sprintf("%d", sr.StoreID))
	}
	if dup := firstDuplicate(storeIDs); dup != nil {
		return errs.NewBadRequestError(
			fmt.Sprintf("Duplicate store %s in store rules", *dup),
			true, utils.Ptr("AGREEMENT_DUPLICATE_STORE"), nil, nil,
		)
	}

	flagIDs := make([]string, 0, len(excludedFlags))
	for _, ef := range excludedFlags {
		flagIDs = append(flagIDs, ef.ExcludedFlagID)
	}
	if dup := firstDuplicate(flagIDs); dup != nil {
		return errs.NewBadRequestError(
			fmt.Sprintf("Duplicate excluded flag %s", *dup),
			true, utils.Ptr("AGREEMENT_DUPLICATE_EXCLUDED_FLAG"), nil, nil,
		)
	}

	return nil
}

func firstDuplicate(items []string) *string {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			return &item
		}
		seen[item] = struct{}{}
	}
	return nil
}

func stampChildren(email string, products []domain.AgreementProduct, storeRules []domain.AgreementStoreRule, excludedFlags []domain.AgreementExcludedFlag) {
	for i := range products {
		products[i].CreatedByUserEmail = email
	}
	for i := range storeRules {
		storeRules[i].CreatedByUserEmail = email
	}
	for i := range excludedFlags {
		excludedFlags[i].CreatedByUserEmail = email
	}
}
