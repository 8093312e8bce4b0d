package handler

import (
	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/Jarolccis/agreements-core-api/internal/server"
	"github.com/Jarolccis/agreements-core-api/internal/service"
	"github.com/labstack/echo/v4"
)

// SKUsHandler serves the product catalog endpoints.
type SKUsHandler struct {
	Handler
	skus *service.SKUsService
}

func NewSKUsHandler(s *server.Server, skus *service.SKUsService) *SKUsHandler {
	return &SKUsHandler{
		Handler: NewHandler(s),
		skus:    skus,
	}
}

type GetSKUsByCodesRequest struct {
	Codes []string `json:"codes" validate:"required,min=1,dive,required"`
}

func (r *GetSKUsByCodesRequest) Validate() error { return validate.Struct(r) }

type GetSKUsByCodesResponse struct {
	SKUs  []domain.SKU `json:"skus"`
	Total int          `json:"total"`
}

func (h *SKUsHandler) GetSKUsByCodes(c echo.Context, req *GetSKUsByCodesRequest) (*GetSKUsByCodesResponse, error) {
	skus, err := h.skus.GetSKUsByCodes(c.Request().Context(), req.Codes)
	if err != nil {
		return nil, err
	}
	return &GetSKUsByCodesResponse{SKUs: skus, Total: len(skus)}, nil
}
