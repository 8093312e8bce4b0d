package service

import (
	"context"

	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/Jarolccis/agreements-core-api/internal/repository"
	"github.com/Jarolccis/agreements-core-api/internal/server"
)

// LookupsService exposes lookup taxonomies to clients. Caching lives in the
// repository layer, behind the LookupsRepository interface.
type LookupsService struct {
	server  *server.Server
	lookups repository.LookupsRepository
}

func NewLookupsService(s *server.Server, lookups repository.LookupsRepository) *LookupsService {
	return &LookupsService{server: s, lookups: lookups}
}

func (s *LookupsService) GetCategoryValues(ctx context.Context, categoryCode string) ([]domain.LookupValueResult, error) {
	return s.lookups.GetValuesByCategoryCode(ctx, categoryCode)
}

func (s *LookupsService) GetCategoryValue(ctx context.Context, categoryCode, optionKey string) (*domain.LookupValueResult, error) {
	return s.lookups.GetValueByCategoryAndKey(ctx, categoryCode, optionKey)
}
