package handler

import (
	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/Jarolccis/agreements-core-api/internal/server"
	"github.com/Jarolccis/agreements-core-api/internal/service"
	"github.com/labstack/echo/v4"
)

// LookupsHandler serves lookup taxonomy endpoints.
type LookupsHandler struct {
	Handler
	lookups *service.LookupsService
}

func NewLookupsHandler(s *server.Server, lookups *service.LookupsService) *LookupsHandler {
	return &LookupsHandler{
		Handler: NewHandler(s),
		lookups: lookups,
	}
}

type GetCategoryValuesRequest struct {
	CategoryCode string `param:"code" validate:"required"`
}

func (r *GetCategoryValuesRequest) Validate() error { return validate.Struct(r) }

type GetCategoryValuesResponse struct {
	Values []domain.LookupValueResult `json:"values"`
	Total  int                        `json:"total"`
}

func (h *LookupsHandler) GetCategoryValues(c echo.Context, req *GetCategoryValuesRequest) (*GetCategoryValuesResponse, error) {
	values, err := h.lookups.GetCategoryValues(c.Request().Context(), req.CategoryCode)
	if err != nil {
		return nil, err
	}
	return &GetCategoryValuesResponse{Values: values, Total: len(values)}, nil
}

type GetCategoryValueRequest struct {
	CategoryCode string `param:"code" validate:"required"`
	OptionKey    string `param:"option_key" validate:"required"`
}

func (r *GetCategoryValueRequest) Validate() error { return validate.Struct(r) }

func (h *LookupsHandler) GetCategoryValue(c echo.Context, req *GetCategoryValueRequest) (*domain.LookupValueResult, error) {
	return h.lookups.GetCategoryValue(c.Request().Context(), req.CategoryCode, req.OptionKey)
}
