package service

import (
	"context"

	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/Jarolccis/agreements-core-api/internal/repository"
	"github.com/Jarolccis/agreements-core-api/internal/server"
)

// MasterDataService exposes merchandising master data.
type MasterDataService struct {
	server     *server.Server
	masterData repository.MasterDataRepository
}

func NewMasterDataService(s *server.Server, masterData repository.MasterDataRepository) *MasterDataService {
	return &MasterDataService{server: s, masterData: masterData}
}

func (s *MasterDataService) GetDivisions(ctx context.Context) ([]domain.Division, error) {
	return s.masterData.GetAllDivisions(ctx)
}
