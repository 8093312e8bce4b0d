package handler

import (
	"time"

	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/Jarolccis/agreements-core-api/internal/errs"
	"github.com/Jarolccis/agreements-core-api/internal/middleware"
	"github.com/Jarolccis/agreements-core-api/internal/server"
	"github.com/Jarolccis/agreements-core-api/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// AgreementsHandler serves the agreement CRUD and search endpoints.
type AgreementsHandler struct {
	Handler
	agreements *service.AgreementsService
}

func NewAgreementsHandler(s *server.Server, agreements *service.AgreementsService) *AgreementsHandler {
	return &AgreementsHandler{
		Handler:    NewHandler(s),
		agreements: agreements,
	}
}

// AgreementPayload carries the writable agreement fields shared by create
// and update requests.
type AgreementPayload struct {
	AgreementNumber *int32          `json:"agreement_number"`
	StartDate       *time.Time      `json:"start_date"`
	EndDate         *time.Time      `json:"end_date"`
	AgreementTypeID *string         `json:"agreement_type_id"`
	StatusID        string          `json:"status_id" validate:"required"`
	RebateTypeID    string          `json:"rebate_type_id" validate:"required"`
	ConceptID       string          `json:"concept_id" validate:"required"`
	Description     *string         `json:"description"`
	ActivityName    *string         `json:"activity_name"`
	SourceSystem    string          `json:"source_system" validate:"required,oneof=SPF PMM"`
	SPFCode         *string         `json:"spf_code"`
	SPFDescription  *string         `json:"spf_description"`
	CurrencyID      *int32          `json:"currency_id"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	BillingType     string          `json:"billing_type" validate:"required"`
	PMMUsername     *string         `json:"pmm_username"`
	StoreGroupingID *string         `json:"store_grouping_id"`

	Products      []AgreementProductPayload      `json:"products" validate:"required,min=1,dive"`
	StoreRules    []AgreementStoreRulePayload    `json:"store_rules" validate:"dive"`
	ExcludedFlags []AgreementExcludedFlagPayload `json:"excluded_flags" validate:"dive"`
}

type AgreementProductPayload struct {
	SKUCode           string  `json:"sku_code" validate:"required"`
	SKUDescription    *string `json:"sku_description"`
	DivisionCode      *string `json:"division_code"`
	DivisionName      *string `json:"division_name"`
	DepartmentCode    *string `json:"department_code"`
	DepartmentName    *string `json:"department_name"`
	SubdepartmentCode *string `json:"subdepartment_code"`
	SubdepartmentName *string `json:"subdepartment_name"`
	ClassCode         *string `json:"class_code"`
	ClassName         *string `json:"class_name"`
	SubclassCode      *string `json:"subclass_code"`
	SubclassName      *string `json:"subclass_name"`
	BrandName         *string `json:"brand_name"`
	SupplierID        *int64  `json:"supplier_id"`
	SupplierName      *string `json:"supplier_name"`
	SupplierRUC       *string `json:"supplier_ruc"`
}

type AgreementStoreRulePayload struct {
	StoreID int32  `json:"store_id" validate:"required"`
	Status  string `json:"status" validate:"required,oneof=INCLUDE EXCLUDE"`
}

type AgreementExcludedFlagPayload struct {
	ExcludedFlagID string `json:"excluded_flag_id" validate:"required"`
}

func (p *AgreementPayload) toDomain() (domain.Agreement, []domain.AgreementProduct, []domain.AgreementStoreRule, []domain.AgreementExcludedFlag) {
	agreement := domain.Agreement{
		AgreementNumber: p.AgreementNumber,
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
		AgreementTypeID: p.AgreementTypeID,
		StatusID:        domain.AgreementStatus(p.StatusID),
		RebateTypeID:    p.RebateTypeID,
		ConceptID:       p.ConceptID,
		Description:     p.Description,
		ActivityName:    p.ActivityName,
		SourceSystem:    domain.SourceSystem(p.SourceSystem),
		SPFCode:         p.SPFCode,
		SPFDescription:  p.SPFDescription,
		CurrencyID:      p.CurrencyID,
		UnitPrice:       p.UnitPrice,
		BillingType:     p.BillingType,
		PMMUsername:     p.PMMUsername,
		StoreGroupingID: p.StoreGroupingID,
	}

	products := make([]domain.AgreementProduct, 0, len(p.Products))
	for _, product := range p.Products {
		products = append(products, domain.AgreementProduct{
			SKUCode:           product.SKUCode,
			SKUDescription:    product.SKUDescription,
			DivisionCode:      product.DivisionCode,
			DivisionName:      product.DivisionName,
			DepartmentCode:    product.DepartmentCode,
			DepartmentName:    product.DepartmentName,
			SubdepartmentCode: product.SubdepartmentCode,
			SubdepartmentName: product.SubdepartmentName,
			ClassCode:         product.ClassCode,
			ClassName:         product.ClassName,
			SubclassCode:      product.SubclassCode,
			SubclassName:      product.SubclassName,
			BrandName:         product.BrandName,
			SupplierID:        product.SupplierID,
			SupplierName:      product.SupplierName,
			SupplierRUC:       product.SupplierRUC,
		})
	}

	storeRules := make([]domain.AgreementStoreRule, 0, len(p.StoreRules))
	for _, rule := range p.StoreRules {
		storeRules = append(storeRules, domain.AgreementStoreRule{
			StoreID: rule.StoreID,
			Status:  domain.StoreRuleStatus(rule.Status),
		})
	}

	excludedFlags := make([]domain.AgreementExcludedFlag, 0, len(p.ExcludedFlags))
	for _, flag := range p.ExcludedFlags {
		excludedFlags = append(excludedFlags, domain.AgreementExcludedFlag{
			ExcludedFlagID: flag.ExcludedFlagID,
		})
	}

	return agreement, products, storeRules, excludedFlags
}

type CreateAgreementRequest struct {
	AgreementPayload
}

func (r *CreateAgreementRequest) Validate() error { return validate.Struct(r) }

func (h *AgreementsHandler) CreateAgreement(c echo.Context, req *CreateAgreementRequest) (*service.AgreementDetails, error) {
	user, ok := middleware.GetUser(c)
	if !ok {
		return nil, errs.NewUnauthorizedError("Authentication required", true)
	}

	agreement, products, storeRules, excludedFlags := req.toDomain()
	return h.agreements.CreateAgreement(c.Request().Context(), user, agreement, products, storeRules, excludedFlags)
}

type GetAgreementRequest struct {
	ID int32 `param:"id" validate:"required"`
}

func (r *GetAgreementRequest) Validate() error { return validate.Struct(r) }

func (h *AgreementsHandler) GetAgreement(c echo.Context, req *GetAgreementRequest) (*service.AgreementDetails, error) {
	return h.agreements.GetAgreement(c.Request().Context(), req.ID)
}

type UpdateAgreementRequest struct {
	ID int32 `param:"id" validate:"required"`
	AgreementPayload
}

func (r *UpdateAgreementRequest) Validate() error { return validate.Struct(r) }

func (h *AgreementsHandler) UpdateAgreement(c echo.Context, req *UpdateAgreementRequest) (*service.AgreementDetails, error) {
	user, ok := middleware.GetUser(c)
	if !ok {
		return nil, errs.NewUnauthorizedError("Authentication required", true)
	}

	agreement, products, storeRules, excludedFlags := req.toDomain()
	return h.agreements.UpdateAgreement(c.Request().Context(), user, req.ID, agreement, products, storeRules, excludedFlags)
}

type SearchAgreementsRequest struct {
	DivisionCodes   []string   `json:"division_codes"`
	StatusIDs       []string   `json:"status_ids"`
	CreatedByEmails []string   `json:"created_by_emails"`
	AgreementNumber *int32     `json:"agreement_number"`
	SKUCode         *string    `json:"sku_code"`
	Description     *string    `json:"description"`
	RebateTypeID    *string    `json:"rebate_type_id"`
	ConceptID       *string    `json:"concept_id"`
	SPFCode         *string    `json:"spf_code"`
	SPFDescription  *string    `json:"spf_description"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	SupplierRUC     *string    `json:"supplier_ruc"`
	SupplierName    *string    `json:"supplier_name"`
	StoreGroupingID *string    `json:"store_grouping_id"`
	PMMUsername     *string    `json:"pmm_username"`
	Limit           int        `json:"limit" validate:"omitempty,min=1,max=100"`
	Offset          int        `json:"offset" validate:"omitempty,min=0"`
}

func (r *SearchAgreementsRequest) Validate() error { return validate.Struct(r) }

type SearchAgreementsResponse struct {
	Agreements []domain.Agreement `json:"agreements"`
	TotalCount int64              `json:"total_count"`
	Limit      int                `json:"limit"`
	Offset     int                `json:"offset"`
}

func (h *AgreementsHandler) SearchAgreements(c echo.Context, req *SearchAgreementsRequest) (*SearchAgreementsResponse, error) {
	filters := domain.AgreementSearchFilters{
		DivisionCodes:   req.DivisionCodes,
		StatusIDs:       req.StatusIDs,
		CreatedByEmails: req.CreatedByEmails,
		AgreementNumber: req.AgreementNumber,
		SKUCode:         req.SKUCode,
		Description:     req.Description,
		RebateTypeID:    req.RebateTypeID,
		ConceptID:       req.ConceptID,
		SPFCode:         req.SPFCode,
		SPFDescription:  req.SPFDescription,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		SupplierRUC:     req.SupplierRUC,
		SupplierName:    req.SupplierName,
		StoreGroupingID: req.StoreGroupingID,
		PMMUsername:     req.PMMUsername,
		Limit:           req.Limit,
		Offset:          req.Offset,
	}

	agreements, total, err := h.agreements.SearchAgreements(c.Request().Context(), &filters)
	if err != nil {
		return nil, err
	}

	return &SearchAgreementsResponse{
		Agreements: agreements,
		TotalCount: total,
		Limit:      filters.Limit,
		Offset:     filters.Offset,
	}, nil
}
