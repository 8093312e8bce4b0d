package handler

import (
	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/Jarolccis/agreements-core-api/internal/server"
	"github.com/Jarolccis/agreements-core-api/internal/service"
	"github.com/labstack/echo/v4"
)

// MasterDataHandler serves merchandising master data endpoints.
type MasterDataHandler struct {
	Handler
	masterData *service.MasterDataService
}

func NewMasterDataHandler(s *server.Server, masterData *service.MasterDataService) *MasterDataHandler {
	return &MasterDataHandler{
		Handler:    NewHandler(s),
		masterData: masterData,
	}
}

type GetDivisionsRequest struct{}

func (r *GetDivisionsRequest) Validate() error { return nil }

type GetDivisionsResponse struct {
	Divisions []domain.Division `json:"divisions"`
	Total     int               `json:"total"`
}

func (h *MasterDataHandler) GetDivisions(c echo.Context, _ *GetDivisionsRequest) (*GetDivisionsResponse, error) {
	divisions, err := h.masterData.GetDivisions(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return &GetDivisionsResponse{Divisions: divisions, Total: len(divisions)}, nil
}
