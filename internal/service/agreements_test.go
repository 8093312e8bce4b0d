package service

import (
	"context"
	"testing"

	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/Jarolccis/agreements-core-api/internal/errs"
	"github.com/Jarolccis/agreements-core-api/internal/lib/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAgreementsRepo records calls and returns canned values.
type fakeAgreementsRepo struct {
	existsByNumber  bool
	existing        *domain.Agreement
	created         domain.Agreement
	searchResults   []domain.Agreement
	searchTotal     int64
	searchedFilters domain.AgreementSearchFilters
	createdCalls    int
	resolveCreated  int
	resolveErr      error
}

func (f *fakeAgreementsRepo) ExistsAgreementByNumber(ctx context.Context, number int32, businessUnitID int32) (bool, error) {
	return f.existsByNumber, nil
}

func (f *fakeAgreementsRepo) GetAgreementByID(ctx context.Context, id int32) (*domain.Agreement, error) {
	if f.existing == nil {
		return nil, errs.NewNotFoundError("Agreement not found", true, nil)
	}
	return f.existing, nil
}

func (f *fakeAgreementsRepo) GetAgreementWithDetails(ctx context.Context, id int32) (*domain.Agreement, []domain.AgreementProduct, []domain.AgreementStoreRule, []domain.AgreementExcludedFlag, error) {
	if f.existing == nil {
		return nil, nil, nil, nil, errs.NewNotFoundError("Agreement not found", true, nil)
	}
	return f.existing, nil, nil, nil, nil
}

func (f *fakeAgreementsRepo) CreateCompleteAgreement(ctx context.Context, agreement domain.Agreement, products []domain.AgreementProduct, storeRules []domain.AgreementStoreRule, excludedFlags []domain.AgreementExcludedFlag) (*domain.Agreement, []domain.AgreementProduct, []domain.AgreementStoreRule, []domain.AgreementExcludedFlag, error) {
	f.createdCalls++
	f.created = agreement
	return &agreement, products, storeRules, excludedFlags, nil
}

func (f *fakeAgreementsRepo) UpdateCompleteAgreement(ctx context.Context, id int32, agreement domain.Agreement, products []domain.AgreementProduct, storeRules []domain.AgreementStoreRule, excludedFlags []domain.AgreementExcludedFlag) (*domain.Agreement, []domain.AgreementProduct, []domain.AgreementStoreRule, []domain.AgreementExcludedFlag, error) {
	f.created = agreement
	return &agreement, products, storeRules, excludedFlags, nil
}

func (f *fakeAgreementsRepo) SearchAgreements(ctx context.Context, filters domain.AgreementSearchFilters) ([]domain.Agreement, int64, error) {
	f.searchedFilters = filters
	return f.searchResults, f.searchTotal, nil
}

func (f *fakeAgreementsRepo) CreateAgreementsFromResolvedRows(ctx context.Context, documentID int64, skusByCode map[string]domain.SKU, createdBy string) (int, error) {
	if f.resolveErr != nil {
		return 0, f.resolveErr
	}
	return f.resolveCreated, nil
}

var testUser = domain.User{
	Email:          "buyer@tottus.pe",
	BusinessUnitID: 1,
	Roles:          []string{domain.RoleCreateAgreements},
}

func TestCreateAgreementStampsCaller(t *testing.T) {
	repo := &fakeAgreementsRepo{}
	svc := NewAgreementsService(nil, repo)

	products := []domain.AgreementProduct{{SKUCode: "78001234"}}
	details, err := svc.CreateAgreement(context.Background(), testUser, domain.Agreement{}, products, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, int32(1), details.Agreement.BusinessUnitID)
	assert.Equal(t, "buyer@tottus.pe", details.Agreement.CreatedByUserEmail)
	assert.True(t, details.Agreement.Active)
	require.Len(t, details.Products, 1)
	assert.Equal(t, "buyer@tottus.pe", details.Products[0].CreatedByUserEmail)
}

func TestCreateAgreementRejectsDuplicateNumber(t *testing.T) {
	repo := &fakeAgreementsRepo{existsByNumber: true}
	svc := NewAgreementsService(nil, repo)

	agreement := domain.Agreement{AgreementNumber: utils.Ptr(int32(1001))}
	_, err := svc.CreateAgreement(context.Background(), testUser, agreement, []domain.AgreementProduct{{SKUCode: "1"}}, nil, nil)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "AGREEMENT_ALREADY_EXISTS", httpErr.Code)
	assert.Zero(t, repo.createdCalls)
}

func TestCreateAgreementRejectsDuplicateChildren(t *testing.T) {
	svc := NewAgreementsService(nil, &fakeAgreementsRepo{})

	cases := []struct {
		name     string
		products []domain.AgreementProduct
		stores   []domain.AgreementStoreRule
		flags    []domain.AgreementExcludedFlag
		code     string
	}{
		{
			name:     "duplicate sku",
			products: []domain.AgreementProduct{{SKUCode: "78001234"}, {SKUCode: " 78001234 "}},
			code:     "AGREEMENT_DUPLICATE_SKU",
		},
		{
			name:     "duplicate store",
			products: []domain.AgreementProduct{{SKUCode: "1"}},
			stores:   []domain.AgreementStoreRule{{StoreID: 101}, {StoreID: 101}},
			code:     "AGREEMENT_DUPLICATE_STORE",
		},
		{
			name:     "duplicate excluded flag",
			products: []domain.AgreementProduct{{SKUCode: "1"}},
			flags:    []domain.AgreementExcludedFlag{{ExcludedFlagID: "F1"}, {ExcludedFlagID: "F1"}},
			code:     "AGREEMENT_DUPLICATE_EXCLUDED_FLAG",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateAgreement(context.Background(), testUser, domain.Agreement{}, tc.products, tc.stores, tc.flags)

			var httpErr *errs.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tc.code, httpErr.Code)
		})
	}
}

func TestUpdateAgreementAllowsKeepingOwnNumber(t *testing.T) {
	repo := &fakeAgreementsRepo{
		// The uniqueness check must be skipped when the number is unchanged.
		existsByNumber: true,
		existing: &domain.Agreement{
			ID:              7,
			AgreementNumber: utils.Ptr(int32(1001)),
			BusinessUnitID:  1,
		},
	}
	svc := NewAgreementsService(nil, repo)

	agreement := domain.Agreement{AgreementNumber: utils.Ptr(int32(1001))}
	details, err := svc.UpdateAgreement(context.Background(), testUser, 7, agreement, []domain.AgreementProduct{{SKUCode: "1"}}, nil, nil)

	require.NoError(t, err)
	require.NotNil(t, details.Agreement.UpdatedStatusByUserEmail)
	assert.Equal(t, "buyer@tottus.pe", *details.Agreement.UpdatedStatusByUserEmail)
}

func TestUpdateAgreementRejectsTakenNumber(t *testing.T) {
	repo := &fakeAgreementsRepo{
		existsByNumber: true,
		existing:       &domain.Agreement{ID: 7, AgreementNumber: utils.Ptr(int32(1001)), BusinessUnitID: 1},
	}
	svc := NewAgreementsService(nil, repo)

	agreement := domain.Agreement{AgreementNumber: utils.Ptr(int32(2002))}
	_, err := svc.UpdateAgreement(context.Background(), testUser, 7, agreement, []domain.AgreementProduct{{SKUCode: "1"}}, nil, nil)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "AGREEMENT_ALREADY_EXISTS", httpErr.Code)
}

func TestSearchAgreementsClampsPagination(t *testing.T) {
	repo := &fakeAgreementsRepo{searchTotal: 3}
	svc := NewAgreementsService(nil, repo)

	filters := domain.AgreementSearchFilters{Limit: 0, Offset: -5}
	_, total, err := svc.SearchAgreements(context.Background(), &filters)

	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, searchDefaultLimit, filters.Limit)
	assert.Equal(t, 0, filters.Offset)
	assert.Equal(t, searchDefaultLimit, repo.searchedFilters.Limit)

	filters = domain.AgreementSearchFilters{Limit: 500}
	_, _, err = svc.SearchAgreements(context.Background(), &filters)
	require.NoError(t, err)
	assert.Equal(t, searchDefaultLimit, filters.Limit)
}
