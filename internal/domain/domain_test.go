package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceSystemIsValid(t *testing.T) {
	assert.True(t, SourceSystemSPF.IsValid())
	assert.True(t, SourceSystemPMM.IsValid())
	assert.False(t, SourceSystem("spf").IsValid())
	assert.False(t, SourceSystem("").IsValid())
	assert.False(t, SourceSystem("SAP").IsValid())
}

func TestStoreRuleStatusIsValid(t *testing.T) {
	assert.True(t, StoreRuleInclude.IsValid())
	assert.True(t, StoreRuleExclude.IsValid())
	assert.False(t, StoreRuleStatus("include").IsValid())
	assert.False(t, StoreRuleStatus("").IsValid())
}

func TestUserHasRole(t *testing.T) {
	u := User{
		Email: "buyer@tottus.pe",
		Roles: []string{RoleAccessAgreements, RoleCreateAgreements},
	}

	assert.True(t, u.HasRole(RoleAccessAgreements))
	assert.True(t, u.HasRole(RoleCreateAgreements))
	assert.False(t, u.HasRole(RoleDeleteAgreements))
	assert.False(t, User{}.HasRole(RoleAccessAgreements))
}
