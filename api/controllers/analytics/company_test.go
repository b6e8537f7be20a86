package analytics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmcastillo/ofertazo-backend/api/middleware"
	"github.com/dmcastillo/ofertazo-backend/internal/engagement"
)

func companyRouter(handler http.HandlerFunc) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/api/v1/companies/{companyId}/analytics/totals", handler)
	return r
}

func companyRequest(companyID string) *http.Request {
	return httptest.NewRequest(http.MethodGet, "/api/v1/companies/"+companyID+"/analytics/totals", nil)
}

func TestCompanyReportRequiresMatchingClaim(t *testing.T) {
	companyID := uuid.New()
	r := companyRouter(CompanyTotals(&stubService{}, nil))

	t.Run("no company claim", func(t *testing.T) {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, companyRequest(companyID.String()))
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("foreign company claim", func(t *testing.T) {
		req := companyRequest(companyID.String())
		req = req.WithContext(middleware.WithCompanyID(req.Context(), uuid.NewString()))
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("own company claim", func(t *testing.T) {
		req := companyRequest(companyID.String())
		req = req.WithContext(middleware.WithCompanyID(req.Context(), companyID.String()))
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("admin reads any company", func(t *testing.T) {
		req := companyRequest(companyID.String())
		req = req.WithContext(middleware.WithAdmin(req.Context(), true))
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		assert.Equal(t, http.StatusOK, resp.Code)
	})
}

func TestCompanyReportScopesToPathCompany(t *testing.T) {
	companyID := uuid.New()
	var gotScope engagement.Scope

	svc := &stubService{
		totalsFn: func(_ context.Context, scope engagement.Scope, _ engagement.Filter) (*engagement.Totals, error) {
			gotScope = scope
			return &engagement.Totals{}, nil
		},
	}

	r := companyRouter(CompanyTotals(svc, nil))
	req := companyRequest(companyID.String())
	req = req.WithContext(middleware.WithCompanyID(req.Context(), companyID.String()))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, engagement.CompanyScope(companyID), gotScope)
}
