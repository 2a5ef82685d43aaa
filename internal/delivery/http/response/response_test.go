package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestCreated(t *testing.T) {
	c, rec := newTestContext()

	err := Created(c, map[string]string{"id": "p-1"}, "Product created successfully")
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.Contains(t, rec.Body.String(), `"code":201`)
	assert.Contains(t, rec.Body.String(), "Product created successfully")
}

func TestError_CarriesBusinessCode(t *testing.T) {
	c, rec := newTestContext()

	err := Error(c, http.StatusConflict, "INSUFFICIENT_STOCK", "", "requested 4, available 3")
	require.NoError(t, err)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
	assert.Contains(t, rec.Body.String(), "INSUFFICIENT_STOCK")
	// Empty message falls back to the HTTP status text
	assert.Contains(t, rec.Body.String(), http.StatusText(http.StatusConflict))
}
