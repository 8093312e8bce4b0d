package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/Jarolccis/agreements-core-api/internal/errs"
	"github.com/Jarolccis/agreements-core-api/internal/lib/email"
	"github.com/Jarolccis/agreements-core-api/internal/lib/excel"
	"github.com/Jarolccis/agreements-core-api/internal/lib/job"
	"github.com/Jarolccis/agreements-core-api/internal/lib/utils"
	"github.com/Jarolccis/agreements-core-api/internal/repository"
	"github.com/Jarolccis/agreements-core-api/internal/server"
	"github.com/Jarolccis/agreements-core-api/internal/validation"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

// UploadResult reports the outcome of ingesting one document.
type UploadResult struct {
	Document  domain.BulkUploadDocument `json:"document"`
	TotalRows int                       `json:"total_rows"`
	RowErrors []string                  `json:"row_errors,omitempty"`
}

// ResolveResult reports the outcome of resolving one document.
type ResolveResult struct {
	DocumentID        int64                   `json:"document_id"`
	Status            domain.BulkUploadStatus `json:"status"`
	ProcessedRows     int                     `json:"processed_rows"`
	ResolvedRows      int                     `json:"resolved_rows"`
	AgreementsCreated int                     `json:"agreements_created"`
	ProcessingSeconds float64                 `json:"processing_time_seconds"`
	Async             bool                    `json:"async"`
}

// BulkUploadService drives the spreadsheet-to-agreements pipeline: parse and
// store the uploaded document, validate its rows, then resolve them against
// the catalogs and generate agreements.
type BulkUploadService struct {
	server     *server.Server
	bulkUpload repository.BulkUploadRepository
	agreements repository.AgreementsRepository
	lookups    repository.LookupsRepository
	stores     repository.StoresRepository
	skus       repository.SKUsRepository
	parser     *excel.Parser
	email      *email.Client
	clock      clockwork.Clock
}

var _ job.DocumentResolver = (*BulkUploadService)(nil)

func NewBulkUploadService(
	s *server.Server,
	bulkUpload repository.BulkUploadRepository,
	agreements repository.AgreementsRepository,
	lookups repository.LookupsRepository,
	stores repository.StoresRepository,
	skus repository.SKUsRepository,
	emailClient *email.Client,
	clock clockwork.Clock,
) *BulkUploadService {
	return &BulkUploadService{
		server:     s,
		bulkUpload: bulkUpload,
		agreements: agreements,
		lookups:    lookups,
		stores:     stores,
		skus:       skus,
		parser:     excel.NewParser(s.Config.BulkUpload.MaxRows),
		email:      emailClient,
		clock:      clock,
	}
}

// TemplateURL returns the download location of the upload template.
func (s *BulkUploadService) TemplateURL() string {
	return s.server.Config.BulkUpload.TemplateURL
}

// UploadDocument ingests one spreadsheet: parse the sheet, persist the file
// and a document record, store the raw rows and validate them. The document
// ends PARTIAL_LOADED when the rows pass validation and ERROR otherwise.
func (s *BulkUploadService) UploadDocument(ctx context.Context, user domain.User, fileName string, file io.Reader, source domain.SourceSystem) (*UploadResult, error) {
	if !source.IsValid() {
		return nil, errs.NewBadRequestError(
			fmt.Sprintf("Unknown source system %q", source),
			true, utils.Ptr("BULK_UPLOAD_INVALID_SOURCE"), nil, nil,
		)
	}
	if ext := strings.ToLower(filepath.Ext(fileName)); ext != ".xlsx" {
		return nil, errs.NewBadRequestError(
			"Only .xlsx files are accepted",
			true, utils.Ptr("BULK_UPLOAD_INVALID_FILE"), nil, nil,
		)
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	rows, err := s.parser.ParseDocument(bytes.NewReader(content), source)
	if err != nil {
		return nil, errs.NewBadRequestError(err.Error(), true, utils.Ptr("BULK_UPLOAD_INVALID_SHEET"), nil, nil)
	}
	if len(rows) == 0 {
		return nil, errs.NewBadRequestError(
			"The sheet has no data rows",
			true, utils.Ptr("BULK_UPLOAD_EMPTY_SHEET"), nil, nil,
		)
	}

	documentUID := uuid.New()
	storedPath, err := s.storeFile(documentUID, content)
	if err != nil {
		return nil, err
	}

	doc, err := s.bulkUpload.CreateDocument(ctx, domain.BulkUploadDocument{
		BusinessUnitID:     user.BusinessUnitID,
		StatusID:           domain.BulkUploadStatusInProgress,
		FullPathDocument:   &storedPath,
		DocumentUID:        documentUID,
		SourceSystem:       source,
		CreatedByUserEmail: user.Email,
	})
	if err != nil {
		return nil, err
	}

	if err := s.bulkUpload.CreateDocumentRows(ctx, doc.ID, rows); err != nil {
		return nil, err
	}

	knownSKUs, err := s.loadKnownSKUs(ctx, rows)
	if err != nil {
		return nil, err
	}

	rowErrors := validateRows(rows, source, knownSKUs)
	status := domain.BulkUploadStatusPartialLoaded
	var comments *string
	if len(rowErrors) > 0 {
		status = domain.BulkUploadStatusError
		comments = utils.Ptr(strings.Join(rowErrors, "; "))
	}
	if err := s.bulkUpload.UpdateDocumentStatus(ctx, doc.ID, status, comments); err != nil {
		return nil, err
	}

	stored, err := s.bulkUpload.GetDocumentByID(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	return &UploadResult{
		Document:  *stored,
		TotalRows: len(rows),
		RowErrors: rowErrors,
	}, nil
}

func (s *BulkUploadService) storeFile(documentUID uuid.UUID, content []byte) (string, error) {
	dir := s.server.Config.BulkUpload.DocumentsDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create documents directory: %w", err)
	}

	path := filepath.Join(dir, documentUID.String()+".xlsx")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to store document %s: %w", documentUID, err)
	}
	return path, nil
}

// GetDocument fetches one document by numeric id.
func (s *BulkUploadService) GetDocument(ctx context.Context, id int64) (*domain.BulkUploadDocument, error) {
	return s.bulkUpload.GetDocumentByID(ctx, id)
}

// GetDocumentByReference fetches a document by either its numeric id or its
// document UID. Clients usually hold the UID; internal callers use the id.
func (s *BulkUploadService) GetDocumentByReference(ctx context.Context, ref string) (*domain.BulkUploadDocument, error) {
	if validation.IsValidUUID(ref) {
		return s.bulkUpload.GetDocumentByUID(ctx, ref)
	}

	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return nil, errs.NewBadRequestError(
			fmt.Sprintf("Invalid document reference %q", ref),
			true, utils.Ptr("BULK_UPLOAD_INVALID_REFERENCE"), nil, nil,
		)
	}
	return s.bulkUpload.GetDocumentByID(ctx, id)
}

// GetDocumentRows fetches the rows of a document, raw and resolved columns.
func (s *BulkUploadService) GetDocumentRows(ctx context.Context, id int64) ([]domain.BulkUploadDocumentRow, error) {
	return s.bulkUpload.GetDocumentRows(ctx, id)
}

// ResolveDocument resolves a validated document. With async set the work is
// enqueued on the job queue and the caller gets an immediate response; the
// requesting user is notified by email when the job finishes.
func (s *BulkUploadService) ResolveDocument(ctx context.Context, user domain.User, documentID int64, async bool) (*ResolveResult, error) {
	doc, err := s.bulkUpload.GetDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.StatusID != domain.BulkUploadStatusPartialLoaded {
		return nil, errs.NewBadRequestError(
			fmt.Sprintf("Document %d is not ready to be resolved", documentID),
			true, utils.Ptr("BULK_UPLOAD_INVALID_STATUS"), nil, nil,
		)
	}

	if async {
		task, err := job.NewResolveDocumentTask(documentID, user.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to build resolve task: %w", err)
		}
		if _, err := s.server.Job.Client.EnqueueContext(ctx, task); err != nil {
			return nil, fmt.Errorf("failed to enqueue resolve task: %w", err)
		}
		return &ResolveResult{DocumentID: documentID, Status: doc.StatusID, Async: true}, nil
	}

	return s.resolveDocument(ctx, doc, user.Email)
}

// ResolveDocumentForJob is the asynq entry point. It resolves the document
// and emails the outcome to the user that requested it.
func (s *BulkUploadService) ResolveDocumentForJob(ctx context.Context, documentID int64, requestedBy string) error {
	doc, err := s.bulkUpload.GetDocumentByID(ctx, documentID)
	if err != nil {
		return err
	}

	result, err := s.resolveDocument(ctx, doc, requestedBy)
	if err != nil {
		return err
	}

	if s.email != nil && requestedBy != "" {
		emailResult := email.BulkUploadResult{
			DocumentUID:       doc.DocumentUID.String(),
			Status:            string(result.Status),
			ProcessedRows:     result.ProcessedRows,
			AgreementsCreated: result.AgreementsCreated,
		}
		if result.ResolvedRows < result.ProcessedRows {
			emailResult.Comments = fmt.Sprintf("%d rows could not be resolved", result.ProcessedRows-result.ResolvedRows)
		}
		if err := s.email.SendBulkUploadResultEmail(requestedBy, emailResult); err != nil {
			s.server.Logger.Warn().
				Int64("document_id", documentID).
				Err(err).
				Msg("Failed to send bulk upload result email")
		}
	}

	return nil
}

// resolveDocument matches the raw row values against lookups, stores and the
// SKU catalog, persists the resolved columns, and generates one agreement per
// fully resolved row.
func (s *BulkUploadService) resolveDocument(ctx context.Context, doc *domain.BulkUploadDocument, resolvedBy string) (*ResolveResult, error) {
	start := s.clock.Now()

	rows, err := s.bulkUpload.GetDocumentRows(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	catalogs, err := s.loadCatalogs(ctx, rows)
	if err != nil {
		return nil, err
	}

	resolvedCount := 0
	var failures []string
	for i := range rows {
		if issues := resolveRow(&rows[i], doc.SourceSystem, catalogs); len(issues) > 0 {
			rows[i].Observations = utils.Ptr(strings.Join(issues, "; "))
			failures = append(failures, fmt.Sprintf("row %d: %s", i+1, strings.Join(issues, "; ")))
		} else {
			now := s.clock.Now()
			rows[i].ResolvedAt = &now
			rows[i].ResolvedBy = &resolvedBy
			resolvedCount++
		}
	}

	if err := s.bulkUpload.SaveResolvedRows(ctx, rows); err != nil {
		s.failDocument(ctx, doc.ID, err)
		return nil, err
	}

	created := 0
	if resolvedCount > 0 {
		created, err = s.agreements.CreateAgreementsFromResolvedRows(ctx, doc.ID, catalogs.skusByCode, resolvedBy)
		if err != nil {
			s.failDocument(ctx, doc.ID, err)
			return nil, err
		}
	}

	status := domain.BulkUploadStatusUploaded
	var comments *string
	if created == 0 {
		status = domain.BulkUploadStatusError
	}
	if len(failures) > 0 {
		comments = utils.Ptr(strings.Join(failures, "; "))
	}
	if err := s.bulkUpload.UpdateDocumentStatus(ctx, doc.ID, status, comments); err != nil {
		return nil, err
	}

	return &ResolveResult{
		DocumentID:        doc.ID,
		Status:            status,
		ProcessedRows:     len(rows),
		ResolvedRows:      resolvedCount,
		AgreementsCreated: created,
		ProcessingSeconds: s.clock.Since(start).Seconds(),
	}, nil
}

// failDocument records a resolution failure on the document so it does not
// stay stuck in PARTIAL_LOADED.
func (s *BulkUploadService) failDocument(ctx context.Context, documentID int64, cause error) {
	comments := utils.Ptr(cause.Error())
	if err := s.bulkUpload.UpdateDocumentStatus(ctx, documentID, domain.BulkUploadStatusError, comments); err != nil {
		s.server.Logger.Warn().
			Int64("document_id", documentID).
			Err(err).
			Msg("Failed to mark bulk upload document as errored")
	}
}

// loadKnownSKUs fetches the catalog entries for every SKU code typed in the
// sheet, so upload validation can reject unknown products up front.
func (s *BulkUploadService) loadKnownSKUs(ctx context.Context, rows []domain.BulkUploadDocumentRow) (map[string]struct{}, error) {
	var codes []string
	for _, row := range rows {
		if row.SKU != nil && strings.TrimSpace(*row.SKU) != "" {
			codes = append(codes, strings.TrimSpace(*row.SKU))
		}
	}

	skus, err := s.skus.GetSKUsByCodes(ctx, utils.Dedupe(codes))
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(skus))
	for _, sku := range skus {
		known[sku.Code] = struct{}{}
	}
	return known, nil
}

// rowCatalogs holds everything a row can reference, loaded once per document.
type rowCatalogs struct {
	lookups    map[string][]domain.LookupValueResult
	storesByID map[int32]domain.Store
	skusByCode map[string]domain.SKU
}

func (s *BulkUploadService) loadCatalogs(ctx context.Context, rows []domain.BulkUploadDocumentRow) (*rowCatalogs, error) {
	catalogs := &rowCatalogs{
		lookups:    make(map[string][]domain.LookupValueResult),
		storesByID: make(map[int32]domain.Store),
		skusByCode: make(map[string]domain.SKU),
	}

	for _, category := range []string{
		domain.LookupCategoryPMMUserName,
		domain.LookupCategoryStoreGrouping,
		domain.LookupCategoryRebateType,
		domain.LookupCategoryConcept,
		domain.LookupCategoryBillingType,
		domain.LookupCategoryExcludedFlags,
	} {
		values, err := s.lookups.GetValuesByCategoryCode(ctx, category)
		if err != nil {
			return nil, err
		}
		catalogs.lookups[category] = values
	}

	stores, err := s.stores.GetActiveStores(ctx)
	if err != nil {
		return nil, err
	}
	for _, store := range stores {
		catalogs.storesByID[store.StoreID] = store
	}

	var codes []string
	for _, row := range rows {
		if row.SKU != nil {
			codes = append(codes, strings.TrimSpace(*row.SKU))
		}
	}
	skus, err := s.skus.GetSKUsByCodes(ctx, utils.Dedupe(codes))
	if err != nil {
		return nil, err
	}
	for _, sku := range skus {
		catalogs.skusByCode[sku.Code] = sku
	}

	return catalogs, nil
}

// resolveRow fills the resolved columns of one row in place and returns the
// issues that prevented full resolution.
func resolveRow(row *domain.BulkUploadDocumentRow, source domain.SourceSystem, catalogs *rowCatalogs) []string {
	var issues []string

	resolveLookup := func(raw *string, category, label string, required bool) *string {
		if raw == nil || strings.TrimSpace(*raw) == "" {
			if required {
				issues = append(issues, label+" is required")
			}
			return nil
		}
		if key := matchLookup(catalogs.lookups[category], *raw); key != nil {
			return key
		}
		issues = append(issues, fmt.Sprintf("unknown %s %q", label, *raw))
		return nil
	}

	row.PMMUserID = resolveLookup(row.PMMUser, domain.LookupCategoryPMMUserName, "pmm user", false)
	row.GroupID = resolveLookup(row.GroupName, domain.LookupCategoryStoreGrouping, "store grouping", false)
	row.RebateTypeID = resolveLookup(row.RebateType, domain.LookupCategoryRebateType, "rebate type", true)
	row.ConceptID = resolveLookup(row.Concept, domain.LookupCategoryConcept, "concept", true)
	row.BillingTypeID = resolveLookup(row.BillingType, domain.LookupCategoryBillingType, "billing type", true)

	if row.ExcludedFlags != nil {
		for _, item := range utils.SplitList(*row.ExcludedFlags) {
			if key := matchLookup(catalogs.lookups[domain.LookupCategoryExcludedFlags], item); key != nil {
				row.ExcludedFlagIDs = append(row.ExcludedFlagIDs, *key)
			} else {
				issues = append(issues, fmt.Sprintf("unknown excluded flag %q", item))
			}
		}
	}

	resolveStores := func(raw *string, label string) []int32 {
		if raw == nil {
			return nil
		}
		var ids []int32
		for _, item := range utils.SplitList(*raw) {
			if store, ok := matchStore(catalogs.storesByID, item); ok {
				ids = append(ids, store.StoreID)
			} else {
				issues = append(issues, fmt.Sprintf("unknown %s store %q", label, item))
			}
		}
		return ids
	}
	row.IncludedStoreIDs = resolveStores(row.IncludedStores, "included")
	row.ExcludedStoreIDs = resolveStores(row.ExcludedStores, "excluded")

	if row.SKU == nil || strings.TrimSpace(*row.SKU) == "" {
		issues = append(issues, "sku is required")
	} else if _, ok := catalogs.skusByCode[strings.TrimSpace(*row.SKU)]; !ok {
		issues = append(issues, fmt.Sprintf("sku %q is not in the catalog", *row.SKU))
	}

	parseDate := func(raw *string, label string) *time.Time {
		if raw == nil {
			issues = append(issues, label+" is required")
			return nil
		}
		t, err := validation.ParseSheetDate(*raw)
		if err != nil {
			issues = append(issues, fmt.Sprintf("invalid %s %q", label, *raw))
			return nil
		}
		return &t
	}
	row.StartDateParsed = parseDate(row.StartDate, "start date")
	row.EndDateParsed = parseDate(row.EndDate, "end date")
	if row.StartDateParsed != nil && row.EndDateParsed != nil && row.EndDateParsed.Before(*row.StartDateParsed) {
		issues = append(issues, "end date is before start date")
	}

	if row.UnitRebatePEN != nil && strings.TrimSpace(*row.UnitRebatePEN) != "" {
		value, err := decimal.NewFromString(strings.TrimSpace(*row.UnitRebatePEN))
		if err != nil {
			issues = append(issues, fmt.Sprintf("invalid unit rebate %q", *row.UnitRebatePEN))
		} else {
			row.UnitRebateNum = &value
		}
	}

	if source == domain.SourceSystemSPF && (row.SPFCode == nil || strings.TrimSpace(*row.SPFCode) == "") {
		issues = append(issues, "spf code is required")
	}
	if source == domain.SourceSystemPMM && row.SPFCode != nil && strings.TrimSpace(*row.SPFCode) != "" {
		issues = append(issues, "spf code is not allowed for PMM documents")
	}

	return issues
}

// matchLookup resolves free-typed sheet text to a lookup option key, matching
// the key itself, the display value or the option value.
func matchLookup(values []domain.LookupValueResult, raw string) *string {
	for _, value := range values {
		if utils.EqualsIgnoreCase(value.OptionKey, raw) ||
			utils.EqualsIgnoreCase(value.DisplayValue, raw) ||
			utils.EqualsIgnoreCase(value.OptionValue, raw) {
			return &value.OptionKey
		}
	}
	return nil
}

// matchStore resolves a cell item to a store, accepting either the numeric
// store id or the store name.
func matchStore(storesByID map[int32]domain.Store, item string) (domain.Store, bool) {
	if id, err := strconv.ParseInt(strings.TrimSpace(item), 10, 32); err == nil {
		store, ok := storesByID[int32(id)]
		return store, ok
	}
	for _, store := range storesByID {
		if utils.EqualsIgnoreCase(store.Name, item) {
			return store, true
		}
	}
	return domain.Store{}, false
}

// validateRows checks the raw rows right after upload, before lookup and
// store resolution. Structural rules plus SKU catalog membership.
func validateRows(rows []domain.BulkUploadDocumentRow, source domain.SourceSystem, knownSKUs map[string]struct{}) []string {
	var rowErrors []string
	addError := func(rowNum int, msg string) {
		rowErrors = append(rowErrors, fmt.Sprintf("row %d: %s", rowNum, msg))
	}

	for i, row := range rows {
		rowNum := i + 1

		blank := func(s *string) bool { return s == nil || strings.TrimSpace(*s) == "" }

		if blank(row.SKU) {
			addError(rowNum, "sku is required")
		} else if _, ok := knownSKUs[strings.TrimSpace(*row.SKU)]; !ok {
			addError(rowNum, fmt.Sprintf("sku %q is not in the catalog", *row.SKU))
		}
		if blank(row.RebateType) {
			addError(rowNum, "rebate type is required")
		}
		if blank(row.Concept) {
			addError(rowNum, "concept is required")
		}
		if blank(row.BillingType) {
			addError(rowNum, "billing type is required")
		}

		for _, date := range []struct {
			value *string
			label string
		}{
			{row.StartDate, "start date"},
			{row.EndDate, "end date"},
		} {
			if blank(date.value) {
				addError(rowNum, date.label+" is required")
			} else if _, err := validation.ParseSheetDate(*date.value); err != nil {
				addError(rowNum, fmt.Sprintf("invalid %s %q", date.label, *date.value))
			}
		}

		if !blank(row.UnitRebatePEN) {
			if _, err := decimal.NewFromString(strings.TrimSpace(*row.UnitRebatePEN)); err != nil {
				addError(rowNum, fmt.Sprintf("invalid unit rebate %q", *row.UnitRebatePEN))
			}
		}

		if source == domain.SourceSystemSPF && blank(row.SPFCode) {
			addError(rowNum, "spf code is required")
		}
		if source == domain.SourceSystemPMM && !blank(row.SPFCode) {
			addError(rowNum, "spf code is not allowed for PMM documents")
		}
	}

	return rowErrors
}
