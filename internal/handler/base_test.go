package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type codesRequest struct {
	SKUCode string `json:"sku_code"`
	Limit   int    `json:"limit"`
}

func (r *codesRequest) Validate() error { return nil }

type codesResponse struct {
	SKUCode string `json:"sku_code"`
	Limit   int    `json:"limit"`
}

func postJSON(t *testing.T, e *echo.Echo, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/codes", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandleBindsFreshRequestPerInvocation(t *testing.T) {
	e := echo.New()

	var seen []codesRequest
	e.POST("/codes", Handle(Handler{}, func(c echo.Context, req *codesRequest) (*codesResponse, error) {
		seen = append(seen, *req)
		return &codesResponse{SKUCode: req.SKUCode, Limit: req.Limit}, nil
	}, http.StatusOK))

	rec := postJSON(t, e, `{"sku_code":"78001234","limit":25}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// A request with an empty body must not observe fields bound by the
	// previous invocation.
	rec = postJSON(t, e, `{}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, seen, 2)
	assert.Equal(t, codesRequest{SKUCode: "78001234", Limit: 25}, seen[0])
	assert.Equal(t, codesRequest{}, seen[1])
}

func TestHandleConcurrentRequestsDoNotShareState(t *testing.T) {
	e := echo.New()

	e.POST("/codes", Handle(Handler{}, func(c echo.Context, req *codesRequest) (*codesResponse, error) {
		return &codesResponse{SKUCode: req.SKUCode, Limit: req.Limit}, nil
	}, http.StatusOK))

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			req := httptest.NewRequest(http.MethodPost, "/codes", strings.NewReader(`{"sku_code":"78005678","limit":10}`))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), "78005678")
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
