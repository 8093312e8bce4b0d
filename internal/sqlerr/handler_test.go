package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Jarolccis/agreements-core-api/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	return httpErr
}

func TestHandleErrorUniqueViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:           "23505",
		Severity:       "ERROR",
		TableName:      "agreements",
		ConstraintName: "agreements_agreement_number_key",
	})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "AGREEMENT_ALREADY_EXISTS", httpErr.Code)
	assert.Contains(t, httpErr.Message, "already exists")
}

func TestHandleErrorForeignKeyViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:       "23503",
		Severity:   "ERROR",
		TableName:  "agreements_products",
		ColumnName: "agreement_id",
	})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "AGREEMENTS_PRODUCT_NOT_FOUND", httpErr.Code)
	assert.Contains(t, httpErr.Message, "Agreement")
	assert.Contains(t, httpErr.Message, "does not exist")
}

func TestHandleErrorNotNullViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:       "23502",
		Severity:   "ERROR",
		TableName:  "agreements",
		ColumnName: "business_unit_id",
	})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "AGREEMENT_REQUIRED", httpErr.Code)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "business_unit_id", httpErr.Errors[0].Field)
}

func TestHandleErrorNoRowsTagged(t *testing.T) {
	err := HandleError(fmt.Errorf("table:agreements: %w", pgx.ErrNoRows))

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Agreement not found", httpErr.Message)
}

func TestHandleErrorNoRowsUntagged(t *testing.T) {
	err := HandleError(pgx.ErrNoRows)

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Resource not found", httpErr.Message)
}

func TestHandleErrorPassesThroughHTTPErrors(t *testing.T) {
	original := errs.NewForbiddenError("nope", true)
	assert.Same(t, original, HandleError(original).(*errs.HTTPError))
}

func TestHandleErrorUnknown(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(errors.New("connection reset")))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestErrCode(t *testing.T) {
	converted := ConvertPgError(&pgconn.PgError{Code: "23505"})
	assert.Equal(t, UniqueViolation, ErrCode(converted))
	assert.Equal(t, Other, ErrCode(errors.New("plain")))
}
