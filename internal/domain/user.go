package domain

// Role names carried in the access token and mirrored by module names in the
// database.
const (
	RoleAccessAgreements           = "ACCESS_AGREEMENTS"
	RoleCreateAgreements           = "CREATE_AGREEMENTS"
	RoleModifyAgreements           = "MODIFY_AGREEMENTS"
	RoleDeleteAgreements           = "DELETE_AGREEMENTS"
	RoleAccessBulkUploadAgreements = "ACCESS_BULK_UPLOAD_AGREEMENTS"
	RoleBulkUploadAgreements       = "BULK_UPLOAD_AGREEMENTS"
	RoleAccessProcesses            = "ACCESS_PROCESSES"
)

// User is the authenticated caller extracted from the bearer token.
type User struct {
	Sub            string   `json:"sub"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	BusinessUnitID int32    `json:"bu_id"`
	Country        string   `json:"country"`
	Roles          []string `json:"roles"`
}

// HasRole reports whether the user carries the given role.
func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
