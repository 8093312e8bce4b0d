package service

import (
	"context"

	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/Jarolccis/agreements-core-api/internal/errs"
	"github.com/Jarolccis/agreements-core-api/internal/repository"
	"github.com/Jarolccis/agreements-core-api/internal/server"
)

// PermissionsService resolves the module permissions a user holds in the
// database, independent of the roles carried in their token.
type PermissionsService struct {
	server      *server.Server
	permissions repository.PermissionsRepository
}

func NewPermissionsService(s *server.Server, permissions repository.PermissionsRepository) *PermissionsService {
	return &PermissionsService{server: s, permissions: permissions}
}

// GetUserPermissions returns which of the requested module names the user is
// assigned to within their business unit.
func (s *PermissionsService) GetUserPermissions(ctx context.Context, user domain.User, moduleNames []string) ([]string, error) {
	return s.permissions.GetPermissionsByUser(ctx, user.Email, user.BusinessUnitID, moduleNames)
}

// CheckUserPermissions verifies the user holds every required permission in
// the database and returns a 403 error naming the first missing one.
func (s *PermissionsService) CheckUserPermissions(ctx context.Context, user domain.User, required []string) error {
	granted, err := s.permissions.GetPermissionsByUser(ctx, user.Email, user.BusinessUnitID, required)
	if err != nil {
		return err
	}

	grantedSet := make(map[string]struct{}, len(granted))
	for _, name := range granted {
		grantedSet[name] = struct{}{}
	}

	for _, name := range required {
		if _, ok := grantedSet[name]; !ok {
			return errs.NewForbiddenError("You do not have permission to perform this action", true)
		}
	}
	return nil
}
