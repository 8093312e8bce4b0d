package handler

import (
	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/Jarolccis/agreements-core-api/internal/server"
	"github.com/Jarolccis/agreements-core-api/internal/service"
	"github.com/labstack/echo/v4"
)

// StoresHandler serves the store catalog endpoints.
type StoresHandler struct {
	Handler
	stores *service.StoresService
}

func NewStoresHandler(s *server.Server, stores *service.StoresService) *StoresHandler {
	return &StoresHandler{
		Handler: NewHandler(s),
		stores:  stores,
	}
}

type GetStoresRequest struct{}

func (r *GetStoresRequest) Validate() error { return nil }

type GetStoresResponse struct {
	Stores []domain.Store `json:"stores"`
	Total  int            `json:"total"`
}

func (h *StoresHandler) GetActiveStores(c echo.Context, _ *GetStoresRequest) (*GetStoresResponse, error) {
	stores, err := h.stores.GetActiveStores(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return &GetStoresResponse{Stores: stores, Total: len(stores)}, nil
}

type GetStoreRequest struct {
	ID int32 `param:"id" validate:"required"`
}

func (r *GetStoreRequest) Validate() error { return validate.Struct(r) }

func (h *StoresHandler) GetStoreByID(c echo.Context, req *GetStoreRequest) (*domain.Store, error) {
	return h.stores.GetStoreByID(c.Request().Context(), req.ID)
}
