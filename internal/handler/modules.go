package handler

import (
	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/Jarolccis/agreements-core-api/internal/server"
	"github.com/Jarolccis/agreements-core-api/internal/service"
	"github.com/labstack/echo/v4"
)

// ModulesHandler serves module and module-user endpoints.
type ModulesHandler struct {
	Handler
	modules *service.ModulesService
}

func NewModulesHandler(s *server.Server, modules *service.ModulesService) *ModulesHandler {
	return &ModulesHandler{
		Handler: NewHandler(s),
		modules: modules,
	}
}

type GetModulesRequest struct{}

func (r *GetModulesRequest) Validate() error { return nil }

type GetModulesResponse struct {
	Modules []domain.Module `json:"modules"`
	Total   int             `json:"total"`
}

func (h *ModulesHandler) GetActiveModules(c echo.Context, _ *GetModulesRequest) (*GetModulesResponse, error) {
	modules, err := h.modules.GetActiveModules(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return &GetModulesResponse{Modules: modules, Total: len(modules)}, nil
}

type GetModuleUsersRequest struct {
	ModuleID int32 `param:"id" validate:"required"`
}

func (r *GetModuleUsersRequest) Validate() error { return validate.Struct(r) }

type GetModuleUsersResponse struct {
	Users []domain.ModuleUser `json:"users"`
	Total int                 `json:"total"`
}

func (h *ModulesHandler) GetModuleUsers(c echo.Context, req *GetModuleUsersRequest) (*GetModuleUsersResponse, error) {
	users, err := h.modules.GetModuleUsers(c.Request().Context(), req.ModuleID)
	if err != nil {
		return nil, err
	}
	return &GetModuleUsersResponse{Users: users, Total: len(users)}, nil
}

type GetModuleUserEmailsRequest struct{}

func (r *GetModuleUserEmailsRequest) Validate() error { return nil }

type GetModuleUserEmailsResponse struct {
	Emails []string `json:"emails"`
	Total  int      `json:"total"`
}

func (h *ModulesHandler) GetActiveModuleUserEmails(c echo.Context, _ *GetModuleUserEmailsRequest) (*GetModuleUserEmailsResponse, error) {
	emails, err := h.modules.GetActiveModuleUserEmails(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return &GetModuleUserEmailsResponse{Emails: emails, Total: len(emails)}, nil
}
