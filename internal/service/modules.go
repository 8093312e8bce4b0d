package service

import (
	"context"

	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/Jarolccis/agreements-core-api/internal/repository"
	"github.com/Jarolccis/agreements-core-api/internal/server"
)

// ModulesService exposes modules and their user assignments.
type ModulesService struct {
	server  *server.Server
	modules repository.ModulesRepository
}

func NewModulesService(s *server.Server, modules repository.ModulesRepository) *ModulesService {
	return &ModulesService{server: s, modules: modules}
}

func (s *ModulesService) GetActiveModules(ctx context.Context) ([]domain.Module, error) {
	return s.modules.GetActiveModules(ctx)
}

func (s *ModulesService) GetModuleUsers(ctx context.Context, moduleID int32) ([]domain.ModuleUser, error) {
	return s.modules.GetModuleUsersByModuleID(ctx, moduleID)
}

func (s *ModulesService) GetActiveModuleUserEmails(ctx context.Context) ([]string, error) {
	return s.modules.GetActiveModuleUserEmails(ctx)
}
