package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireSecret(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"correct secret", "s3cret", http.StatusOK},
		{"wrong secret", "guess", http.StatusUnauthorized},
		{"missing header", "", http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/v1/admin/slots/apply", nil)
			if tc.header != "" {
				req.Header.Set(AdminHeader, tc.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
			err := RequireSecret("s3cret")(next)(c)
			require.NoError(t, err)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
