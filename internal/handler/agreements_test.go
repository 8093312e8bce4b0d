package handler

import (
	"testing"

	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateRequest() *CreateAgreementRequest {
	return &CreateAgreementRequest{
		AgreementPayload: AgreementPayload{
			StatusID:     "1",
			RebateTypeID: "RT1",
			ConceptID:    "C1",
			SourceSystem: "SPF",
			BillingType:  "BT1",
			Products: []AgreementProductPayload{
				{SKUCode: "78001234"},
			},
			StoreRules: []AgreementStoreRulePayload{
				{StoreID: 101, Status: "INCLUDE"},
			},
			ExcludedFlags: []AgreementExcludedFlagPayload{
				{ExcludedFlagID: "F1"},
			},
		},
	}
}

func TestCreateAgreementRequestValidate(t *testing.T) {
	require.NoError(t, validCreateRequest().Validate())

	req := validCreateRequest()
	req.SourceSystem = "SAP"
	assert.Error(t, req.Validate())

	req = validCreateRequest()
	req.Products = nil
	assert.Error(t, req.Validate())

	req = validCreateRequest()
	req.Products[0].SKUCode = ""
	assert.Error(t, req.Validate())

	req = validCreateRequest()
	req.StoreRules[0].Status = "MAYBE"
	assert.Error(t, req.Validate())

	req = validCreateRequest()
	req.RebateTypeID = ""
	assert.Error(t, req.Validate())
}

func TestAgreementPayloadToDomain(t *testing.T) {
	req := validCreateRequest()
	agreement, products, storeRules, excludedFlags := req.toDomain()

	assert.Equal(t, domain.AgreementStatus("1"), agreement.StatusID)
	assert.Equal(t, domain.SourceSystemSPF, agreement.SourceSystem)
	assert.Equal(t, "RT1", agreement.RebateTypeID)

	require.Len(t, products, 1)
	assert.Equal(t, "78001234", products[0].SKUCode)
	require.Len(t, storeRules, 1)
	assert.Equal(t, domain.StoreRuleInclude, storeRules[0].Status)
	assert.Equal(t, int32(101), storeRules[0].StoreID)
	require.Len(t, excludedFlags, 1)
	assert.Equal(t, "F1", excludedFlags[0].ExcludedFlagID)
}

func TestSearchAgreementsRequestValidate(t *testing.T) {
	assert.NoError(t, (&SearchAgreementsRequest{}).Validate())
	assert.NoError(t, (&SearchAgreementsRequest{Limit: 100}).Validate())
	assert.Error(t, (&SearchAgreementsRequest{Limit: 101}).Validate())
	assert.Error(t, (&SearchAgreementsRequest{Offset: -1}).Validate())
}

func TestUploadDocumentRequestValidate(t *testing.T) {
	assert.NoError(t, (&UploadDocumentRequest{SourceSystem: "SPF"}).Validate())
	assert.NoError(t, (&UploadDocumentRequest{SourceSystem: "PMM"}).Validate())
	assert.Error(t, (&UploadDocumentRequest{SourceSystem: "SAP"}).Validate())
	assert.Error(t, (&UploadDocumentRequest{}).Validate())
}
