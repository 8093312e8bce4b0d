package service

import (
	"context"

	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/Jarolccis/agreements-core-api/internal/lib/utils"
	"github.com/Jarolccis/agreements-core-api/internal/repository"
	"github.com/Jarolccis/agreements-core-api/internal/server"
)

// SKUsService exposes product catalog lookups.
type SKUsService struct {
	server *server.Server
	skus   repository.SKUsRepository
}

func NewSKUsService(s *server.Server, skus repository.SKUsRepository) *SKUsService {
	return &SKUsService{server: s, skus: skus}
}

// GetSKUsByCodes fetches catalog entries for the given codes. Duplicates in
// the input are collapsed before querying.
func (s *SKUsService) GetSKUsByCodes(ctx context.Context, codes []string) ([]domain.SKU, error) {
	return s.skus.GetSKUsByCodes(ctx, utils.Dedupe(codes))
}
