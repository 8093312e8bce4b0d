package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/Jarolccis/agreements-core-api/internal/errs"
	"github.com/Jarolccis/agreements-core-api/internal/lib/utils"
	"github.com/Jarolccis/agreements-core-api/internal/server"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalogs() *rowCatalogs {
	return &rowCatalogs{
		lookups: map[string][]domain.LookupValueResult{
			domain.LookupCategoryRebateType: {
				{OptionKey: "RT1", DisplayValue: "Rebate Fijo", OptionValue: "FIXED"},
				{OptionKey: "RT2", DisplayValue: "Rebate Variable", OptionValue: "VARIABLE"},
			},
			domain.LookupCategoryConcept: {
				{OptionKey: "C1", DisplayValue: "Descuento", OptionValue: "DISCOUNT"},
			},
			domain.LookupCategoryBillingType: {
				{OptionKey: "BT1", DisplayValue: "Factura", OptionValue: "INVOICE"},
			},
			domain.LookupCategoryPMMUserName: {
				{OptionKey: "U1", DisplayValue: "jdoe", OptionValue: "jdoe"},
			},
			domain.LookupCategoryStoreGrouping: {
				{OptionKey: "G1", DisplayValue: "Lima Norte", OptionValue: "LIMA_NORTE"},
			},
			domain.LookupCategoryExcludedFlags: {
				{OptionKey: "F1", DisplayValue: "Liquidación", OptionValue: "CLEARANCE"},
			},
		},
		storesByID: map[int32]domain.Store{
			101: {StoreID: 101, Name: "Tottus Miraflores"},
			102: {StoreID: 102, Name: "Tottus San Isidro"},
		},
		skusByCode: map[string]domain.SKU{
			"78001234": {Code: "78001234"},
		},
	}
}

func validSheetRow() domain.BulkUploadDocumentRow {
	return domain.BulkUploadDocumentRow{
		PMMUser:       utils.Ptr("jdoe"),
		RebateType:    utils.Ptr("Rebate Fijo"),
		Concept:       utils.Ptr("Descuento"),
		BillingType:   utils.Ptr("Factura"),
		SKU:           utils.Ptr("78001234"),
		StartDate:     utils.Ptr("01/03/2025"),
		EndDate:       utils.Ptr("31/03/2025"),
		UnitRebatePEN: utils.Ptr("1.50"),
	}
}

func TestResolveRowFillsResolvedColumns(t *testing.T) {
	row := validSheetRow()
	row.IncludedStores = utils.Ptr("101, Tottus San Isidro")
	row.ExcludedFlags = utils.Ptr("Liquidación")

	issues := resolveRow(&row, domain.SourceSystemPMM, testCatalogs())
	require.Empty(t, issues)

	require.NotNil(t, row.RebateTypeID)
	assert.Equal(t, "RT1", *row.RebateTypeID)
	require.NotNil(t, row.ConceptID)
	assert.Equal(t, "C1", *row.ConceptID)
	require.NotNil(t, row.BillingTypeID)
	assert.Equal(t, "BT1", *row.BillingTypeID)
	require.NotNil(t, row.PMMUserID)
	assert.Equal(t, "U1", *row.PMMUserID)
	assert.Equal(t, []int32{101, 102}, row.IncludedStoreIDs)
	assert.Equal(t, []string{"F1"}, row.ExcludedFlagIDs)
	require.NotNil(t, row.StartDateParsed)
	require.NotNil(t, row.EndDateParsed)
	require.NotNil(t, row.UnitRebateNum)
	assert.Equal(t, "1.5", row.UnitRebateNum.String())
}

func TestResolveRowMatchesLookupByKeyOrValue(t *testing.T) {
	for _, raw := range []string{"RT2", "rebate variable", "VARIABLE"} {
		row := validSheetRow()
		row.RebateType = utils.Ptr(raw)

		issues := resolveRow(&row, domain.SourceSystemPMM, testCatalogs())
		require.Empty(t, issues, "raw %q", raw)
		require.NotNil(t, row.RebateTypeID)
		assert.Equal(t, "RT2", *row.RebateTypeID)
	}
}

func TestResolveRowReportsIssues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.BulkUploadDocumentRow)
		want   string
	}{
		{"missing rebate type", func(r *domain.BulkUploadDocumentRow) { r.RebateType = nil }, "rebate type is required"},
		{"unknown concept", func(r *domain.BulkUploadDocumentRow) { r.Concept = utils.Ptr("Bonificación") }, `unknown concept "Bonificación"`},
		{"unknown store", func(r *domain.BulkUploadDocumentRow) { r.IncludedStores = utils.Ptr("999") }, `unknown included store "999"`},
		{"unknown sku", func(r *domain.BulkUploadDocumentRow) { r.SKU = utils.Ptr("99999999") }, `sku "99999999" is not in the catalog`},
		{"missing start date", func(r *domain.BulkUploadDocumentRow) { r.StartDate = nil }, "start date is required"},
		{"invalid end date", func(r *domain.BulkUploadDocumentRow) { r.EndDate = utils.Ptr("2025-03-31") }, `invalid end date "2025-03-31"`},
		{"invalid unit rebate", func(r *domain.BulkUploadDocumentRow) { r.UnitRebatePEN = utils.Ptr("1,50") }, `invalid unit rebate "1,50"`},
		{"unknown excluded flag", func(r *domain.BulkUploadDocumentRow) { r.ExcludedFlags = utils.Ptr("Outlet") }, `unknown excluded flag "Outlet"`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row := validSheetRow()
			tc.mutate(&row)

			issues := resolveRow(&row, domain.SourceSystemPMM, testCatalogs())
			assert.Contains(t, issues, tc.want)
		})
	}
}

func TestResolveRowDateOrder(t *testing.T) {
	row := validSheetRow()
	row.StartDate = utils.Ptr("31/03/2025")
	row.EndDate = utils.Ptr("01/03/2025")

	issues := resolveRow(&row, domain.SourceSystemPMM, testCatalogs())
	assert.Contains(t, issues, "end date is before start date")
}

func TestResolveRowSPFCodeRules(t *testing.T) {
	row := validSheetRow()
	issues := resolveRow(&row, domain.SourceSystemSPF, testCatalogs())
	assert.Contains(t, issues, "spf code is required")

	row = validSheetRow()
	row.SPFCode = utils.Ptr("SPF-01")
	issues = resolveRow(&row, domain.SourceSystemPMM, testCatalogs())
	assert.Contains(t, issues, "spf code is not allowed for PMM documents")

	row = validSheetRow()
	row.SPFCode = utils.Ptr("SPF-01")
	issues = resolveRow(&row, domain.SourceSystemSPF, testCatalogs())
	assert.Empty(t, issues)
}

func TestMatchStore(t *testing.T) {
	stores := testCatalogs().storesByID

	store, ok := matchStore(stores, " 101 ")
	assert.True(t, ok)
	assert.Equal(t, int32(101), store.StoreID)

	store, ok = matchStore(stores, "tottus miraflores")
	assert.True(t, ok)
	assert.Equal(t, int32(101), store.StoreID)

	_, ok = matchStore(stores, "999")
	assert.False(t, ok)
	_, ok = matchStore(stores, "Tottus Arequipa")
	assert.False(t, ok)
}

func TestValidateRows(t *testing.T) {
	knownSKUs := map[string]struct{}{"78001234": {}}
	rows := []domain.BulkUploadDocumentRow{
		validSheetRow(),
		{
			SKU:       utils.Ptr("78005678"),
			StartDate: utils.Ptr("bad"),
		},
	}

	rowErrors := validateRows(rows, domain.SourceSystemPMM, knownSKUs)

	assert.Contains(t, rowErrors, "row 2: rebate type is required")
	assert.Contains(t, rowErrors, "row 2: concept is required")
	assert.Contains(t, rowErrors, "row 2: billing type is required")
	assert.Contains(t, rowErrors, `row 2: invalid start date "bad"`)
	assert.Contains(t, rowErrors, "row 2: end date is required")
	assert.Contains(t, rowErrors, `row 2: sku "78005678" is not in the catalog`)
	for _, e := range rowErrors {
		assert.NotContains(t, e, "row 1:")
	}
}

func TestValidateRowsSPFCode(t *testing.T) {
	knownSKUs := map[string]struct{}{"78001234": {}}

	row := validSheetRow()
	assert.Contains(t, validateRows([]domain.BulkUploadDocumentRow{row}, domain.SourceSystemSPF, knownSKUs), "row 1: spf code is required")

	row.SPFCode = utils.Ptr("SPF-01")
	assert.Empty(t, validateRows([]domain.BulkUploadDocumentRow{row}, domain.SourceSystemSPF, knownSKUs))
	assert.Contains(t, validateRows([]domain.BulkUploadDocumentRow{row}, domain.SourceSystemPMM, knownSKUs), "row 1: spf code is not allowed for PMM documents")
}

type statusUpdate struct {
	status   domain.BulkUploadStatus
	comments *string
}

// fakeBulkUploadRepo backs reference lookups and the resolve flow in tests.
type fakeBulkUploadRepo struct {
	byID  map[int64]*domain.BulkUploadDocument
	byUID map[string]*domain.BulkUploadDocument

	rows    []domain.BulkUploadDocumentRow
	saveErr error

	byIDCalls     int
	rowsCalls     int
	savedRows     []domain.BulkUploadDocumentRow
	statusUpdates []statusUpdate
}

func (f *fakeBulkUploadRepo) CreateDocument(ctx context.Context, doc domain.BulkUploadDocument) (*domain.BulkUploadDocument, error) {
	return &doc, nil
}

func (f *fakeBulkUploadRepo) GetDocumentByID(ctx context.Context, id int64) (*domain.BulkUploadDocument, error) {
	f.byIDCalls++
	if doc, ok := f.byID[id]; ok {
		return doc, nil
	}
	return nil, errs.NewNotFoundError("Agreements Bulk Upload Document not found", true, nil)
}

func (f *fakeBulkUploadRepo) GetDocumentByUID(ctx context.Context, uid string) (*domain.BulkUploadDocument, error) {
	if doc, ok := f.byUID[uid]; ok {
		return doc, nil
	}
	return nil, errs.NewNotFoundError("Agreements Bulk Upload Document not found", true, nil)
}

func (f *fakeBulkUploadRepo) CreateDocumentRows(ctx context.Context, documentID int64, rows []domain.BulkUploadDocumentRow) error {
	return nil
}

func (f *fakeBulkUploadRepo) GetDocumentRows(ctx context.Context, documentID int64) ([]domain.BulkUploadDocumentRow, error) {
	f.rowsCalls++
	return f.rows, nil
}

func (f *fakeBulkUploadRepo) UpdateDocumentStatus(ctx context.Context, documentID int64, status domain.BulkUploadStatus, comments *string) error {
	f.statusUpdates = append(f.statusUpdates, statusUpdate{status: status, comments: comments})
	return nil
}

func (f *fakeBulkUploadRepo) SaveResolvedRows(ctx context.Context, rows []domain.BulkUploadDocumentRow) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedRows = rows
	return nil
}

func TestGetDocumentByReference(t *testing.T) {
	uid := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	repo := &fakeBulkUploadRepo{
		byID:  map[int64]*domain.BulkUploadDocument{12: {ID: 12}},
		byUID: map[string]*domain.BulkUploadDocument{uid: {ID: 12}},
	}
	svc := &BulkUploadService{bulkUpload: repo}

	doc, err := svc.GetDocumentByReference(context.Background(), "12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), doc.ID)

	doc, err = svc.GetDocumentByReference(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, int64(12), doc.ID)

	_, err = svc.GetDocumentByReference(context.Background(), "not-a-reference")
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "BULK_UPLOAD_INVALID_REFERENCE", httpErr.Code)
}

// catalogLookupsRepo serves per-category lookup values.
type catalogLookupsRepo struct {
	byCategory map[string][]domain.LookupValueResult
}

func (r *catalogLookupsRepo) GetValuesByCategoryCode(ctx context.Context, categoryCode string) ([]domain.LookupValueResult, error) {
	return r.byCategory[categoryCode], nil
}

func (r *catalogLookupsRepo) GetValueByCategoryAndKey(ctx context.Context, categoryCode, optionKey string) (*domain.LookupValueResult, error) {
	for _, value := range r.byCategory[categoryCode] {
		if value.OptionKey == optionKey {
			return &value, nil
		}
	}
	return nil, errs.NewNotFoundError("Lookup value not found", true, nil)
}

type staticStoresRepo struct {
	stores []domain.Store
}

func (r *staticStoresRepo) GetStoreByID(ctx context.Context, id int32) (*domain.Store, error) {
	for _, store := range r.stores {
		if store.StoreID == id {
			return &store, nil
		}
	}
	return nil, errs.NewNotFoundError("Store not found", true, nil)
}

func (r *staticStoresRepo) GetActiveStores(ctx context.Context) ([]domain.Store, error) {
	return r.stores, nil
}

type staticSKUsRepo struct {
	skus []domain.SKU
}

func (r *staticSKUsRepo) GetSKUsByCodes(ctx context.Context, codes []string) ([]domain.SKU, error) {
	return r.skus, nil
}

// newResolveService wires a BulkUploadService over fakes seeded with the
// testCatalogs data.
func newResolveService(bulk *fakeBulkUploadRepo, agreements *fakeAgreementsRepo) *BulkUploadService {
	log := zerolog.Nop()
	catalogs := testCatalogs()

	stores := make([]domain.Store, 0, len(catalogs.storesByID))
	for _, store := range catalogs.storesByID {
		stores = append(stores, store)
	}
	skus := make([]domain.SKU, 0, len(catalogs.skusByCode))
	for _, sku := range catalogs.skusByCode {
		skus = append(skus, sku)
	}

	return &BulkUploadService{
		server:     &server.Server{Logger: &log},
		bulkUpload: bulk,
		agreements: agreements,
		lookups:    &catalogLookupsRepo{byCategory: catalogs.lookups},
		stores:     &staticStoresRepo{stores: stores},
		skus:       &staticSKUsRepo{skus: skus},
		clock:      clockwork.NewFakeClock(),
	}
}

func partialDocRepo(rows ...domain.BulkUploadDocumentRow) *fakeBulkUploadRepo {
	return &fakeBulkUploadRepo{
		byID: map[int64]*domain.BulkUploadDocument{7: {
			ID:           7,
			StatusID:     domain.BulkUploadStatusPartialLoaded,
			SourceSystem: domain.SourceSystemPMM,
		}},
		rows: rows,
	}
}

func TestResolveDocumentRejectsNonPartialStatuses(t *testing.T) {
	for _, status := range []domain.BulkUploadStatus{
		domain.BulkUploadStatusWaitingApproval,
		domain.BulkUploadStatusUploaded,
		domain.BulkUploadStatusInProgress,
	} {
		repo := &fakeBulkUploadRepo{
			byID: map[int64]*domain.BulkUploadDocument{7: {ID: 7, StatusID: status}},
		}
		svc := newResolveService(repo, &fakeAgreementsRepo{})

		_, err := svc.ResolveDocument(context.Background(), testUser, 7, false)
		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr, "status %s", status)
		assert.Equal(t, "BULK_UPLOAD_INVALID_STATUS", httpErr.Code)
		assert.Empty(t, repo.statusUpdates)
	}
}

func TestResolveDocumentMarksUploadedOnSuccess(t *testing.T) {
	repo := partialDocRepo(validSheetRow())
	svc := newResolveService(repo, &fakeAgreementsRepo{resolveCreated: 1})

	result, err := svc.ResolveDocument(context.Background(), testUser, 7, false)
	require.NoError(t, err)
	assert.Equal(t, domain.BulkUploadStatusUploaded, result.Status)
	assert.Equal(t, 1, result.ProcessedRows)
	assert.Equal(t, 1, result.ResolvedRows)
	assert.Equal(t, 1, result.AgreementsCreated)

	require.Len(t, repo.savedRows, 1)
	require.NotNil(t, repo.savedRows[0].ResolvedAt)
	assert.Equal(t, utils.Ptr(testUser.Email), repo.savedRows[0].ResolvedBy)

	require.Len(t, repo.statusUpdates, 1)
	assert.Equal(t, domain.BulkUploadStatusUploaded, repo.statusUpdates[0].status)
	assert.Nil(t, repo.statusUpdates[0].comments)
}

func TestResolveDocumentMarksErrorWhenNoRowResolves(t *testing.T) {
	row := validSheetRow()
	row.Concept = utils.Ptr("Bonificación")
	repo := partialDocRepo(row)
	svc := newResolveService(repo, &fakeAgreementsRepo{})

	result, err := svc.ResolveDocument(context.Background(), testUser, 7, false)
	require.NoError(t, err)
	assert.Equal(t, domain.BulkUploadStatusError, result.Status)
	assert.Zero(t, result.ResolvedRows)

	require.Len(t, repo.statusUpdates, 1)
	assert.Equal(t, domain.BulkUploadStatusError, repo.statusUpdates[0].status)
	require.NotNil(t, repo.statusUpdates[0].comments)
	assert.Contains(t, *repo.statusUpdates[0].comments, `unknown concept "Bonificación"`)
}

func TestResolveDocumentMarksErrorOnSaveFailure(t *testing.T) {
	repo := partialDocRepo(validSheetRow())
	repo.saveErr = errors.New("resolved rows insert failed")
	svc := newResolveService(repo, &fakeAgreementsRepo{resolveCreated: 1})

	_, err := svc.ResolveDocument(context.Background(), testUser, 7, false)
	require.Error(t, err)

	require.Len(t, repo.statusUpdates, 1)
	assert.Equal(t, domain.BulkUploadStatusError, repo.statusUpdates[0].status)
	require.NotNil(t, repo.statusUpdates[0].comments)
	assert.Equal(t, "resolved rows insert failed", *repo.statusUpdates[0].comments)
}

func TestResolveDocumentMarksErrorOnAgreementFailure(t *testing.T) {
	repo := partialDocRepo(validSheetRow())
	svc := newResolveService(repo, &fakeAgreementsRepo{resolveErr: errors.New("agreement insert failed")})

	_, err := svc.ResolveDocument(context.Background(), testUser, 7, false)
	require.Error(t, err)

	require.Len(t, repo.statusUpdates, 1)
	assert.Equal(t, domain.BulkUploadStatusError, repo.statusUpdates[0].status)
	require.NotNil(t, repo.statusUpdates[0].comments)
	assert.Equal(t, "agreement insert failed", *repo.statusUpdates[0].comments)
}

func TestGetDocumentRowsDoesNotRefetchDocument(t *testing.T) {
	repo := partialDocRepo(validSheetRow())
	svc := &BulkUploadService{bulkUpload: repo}

	rows, err := svc.GetDocumentRows(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Zero(t, repo.byIDCalls)
	assert.Equal(t, 1, repo.rowsCalls)
}
