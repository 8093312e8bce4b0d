package service

import (
	"context"

	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/Jarolccis/agreements-core-api/internal/repository"
	"github.com/Jarolccis/agreements-core-api/internal/server"
)

// StoresService exposes read access to the store catalog.
type StoresService struct {
	server *server.Server
	stores repository.StoresRepository
}

func NewStoresService(s *server.Server, stores repository.StoresRepository) *StoresService {
	return &StoresService{server: s, stores: stores}
}

func (s *StoresService) GetStoreByID(ctx context.Context, id int32) (*domain.Store, error) {
	return s.stores.GetStoreByID(ctx, id)
}

func (s *StoresService) GetActiveStores(ctx context.Context) ([]domain.Store, error) {
	return s.stores.GetActiveStores(ctx)
}
