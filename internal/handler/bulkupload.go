package handler

import (
	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/Jarolccis/agreements-core-api/internal/errs"
	"github.com/Jarolccis/agreements-core-api/internal/middleware"
	"github.com/Jarolccis/agreements-core-api/internal/server"
	"github.com/Jarolccis/agreements-core-api/internal/service"
	"github.com/labstack/echo/v4"
)

// BulkUploadHandler serves the agreements bulk-upload pipeline endpoints.
// Beyond the token role guard, mutating operations also verify the user's
// module assignment in the database.
type BulkUploadHandler struct {
	Handler
	bulkUpload  *service.BulkUploadService
	permissions *service.PermissionsService
}

func NewBulkUploadHandler(s *server.Server, bulkUpload *service.BulkUploadService, permissions *service.PermissionsService) *BulkUploadHandler {
	return &BulkUploadHandler{
		Handler:     NewHandler(s),
		bulkUpload:  bulkUpload,
		permissions: permissions,
	}
}

type UploadDocumentRequest struct {
	SourceSystem string `form:"source_system" validate:"required,oneof=SPF PMM"`
}

func (r *UploadDocumentRequest) Validate() error { return validate.Struct(r) }

func (h *BulkUploadHandler) UploadDocument(c echo.Context, req *UploadDocumentRequest) (*service.UploadResult, error) {
	user, ok := middleware.GetUser(c)
	if !ok {
		return nil, errs.NewUnauthorizedError("Authentication required", true)
	}

	if err := h.permissions.CheckUserPermissions(c.Request().Context(), user, []string{domain.RoleBulkUploadAgreements}); err != nil {
		return nil, err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, errs.NewBadRequestError("A file is required", true, nil, nil, nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, errs.NewBadRequestError("The uploaded file could not be read", true, nil, nil, nil)
	}
	defer file.Close()

	return h.bulkUpload.UploadDocument(
		c.Request().Context(),
		user,
		fileHeader.Filename,
		file,
		domain.SourceSystem(req.SourceSystem),
	)
}

type GetDocumentRequest struct {
	Reference string `param:"id" validate:"required"`
}

func (r *GetDocumentRequest) Validate() error { return validate.Struct(r) }

func (h *BulkUploadHandler) GetDocument(c echo.Context, req *GetDocumentRequest) (*domain.BulkUploadDocument, error) {
	return h.bulkUpload.GetDocumentByReference(c.Request().Context(), req.Reference)
}

type GetDocumentRowsResponse struct {
	Rows  []domain.BulkUploadDocumentRow `json:"rows"`
	Total int                            `json:"total"`
}

func (h *BulkUploadHandler) GetDocumentRows(c echo.Context, req *GetDocumentRequest) (*GetDocumentRowsResponse, error) {
	doc, err := h.bulkUpload.GetDocumentByReference(c.Request().Context(), req.Reference)
	if err != nil {
		return nil, err
	}

	rows, err := h.bulkUpload.GetDocumentRows(c.Request().Context(), doc.ID)
	if err != nil {
		return nil, err
	}
	return &GetDocumentRowsResponse{Rows: rows, Total: len(rows)}, nil
}

type ResolveDocumentRequest struct {
	Reference string `param:"id" validate:"required"`
	Async     bool   `query:"async"`
}

func (r *ResolveDocumentRequest) Validate() error { return validate.Struct(r) }

func (h *BulkUploadHandler) ResolveDocument(c echo.Context, req *ResolveDocumentRequest) (*service.ResolveResult, error) {
	user, ok := middleware.GetUser(c)
	if !ok {
		return nil, errs.NewUnauthorizedError("Authentication required", true)
	}

	if err := h.permissions.CheckUserPermissions(c.Request().Context(), user, []string{domain.RoleBulkUploadAgreements}); err != nil {
		return nil, err
	}

	doc, err := h.bulkUpload.GetDocumentByReference(c.Request().Context(), req.Reference)
	if err != nil {
		return nil, err
	}

	return h.bulkUpload.ResolveDocument(c.Request().Context(), user, doc.ID, req.Async)
}

type GetTemplateRequest struct{}

func (r *GetTemplateRequest) Validate() error { return nil }

type GetTemplateResponse struct {
	URL string `json:"url"`
}

func (h *BulkUploadHandler) GetTemplate(c echo.Context, _ *GetTemplateRequest) (*GetTemplateResponse, error) {
	return &GetTemplateResponse{URL: h.bulkUpload.TemplateURL()}, nil
}
