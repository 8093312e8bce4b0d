package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/Jarolccis/agreements-core-api/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePermissionsRepo struct {
	granted []string
}

func (f *fakePermissionsRepo) GetPermissionsByUser(ctx context.Context, email string, businessUnitID int32, moduleNames []string) ([]string, error) {
	return f.granted, nil
}

func TestCheckUserPermissions(t *testing.T) {
	svc := NewPermissionsService(nil, &fakePermissionsRepo{
		granted: []string{domain.RoleBulkUploadAgreements},
	})

	err := svc.CheckUserPermissions(context.Background(), testUser, []string{domain.RoleBulkUploadAgreements})
	require.NoError(t, err)

	err = svc.CheckUserPermissions(context.Background(), testUser, []string{domain.RoleBulkUploadAgreements, domain.RoleDeleteAgreements})
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Status)
}

func TestCheckUserPermissionsNoRequirements(t *testing.T) {
	svc := NewPermissionsService(nil, &fakePermissionsRepo{})
	assert.NoError(t, svc.CheckUserPermissions(context.Background(), testUser, nil))
}
