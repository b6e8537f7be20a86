package analytics

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dmcastillo/ofertazo-backend/api/middleware"
	"github.com/dmcastillo/ofertazo-backend/api/responses"
	"github.com/dmcastillo/ofertazo-backend/internal/engagement"
	pkgerrors "github.com/dmcastillo/ofertazo-backend/pkg/errors"
	"github.com/dmcastillo/ofertazo-backend/pkg/logger"
)

// companyReport mirrors discountReport but adds the ownership check: company
// operators only read their own roll-ups, admins read any.
func companyReport(
	logg *logger.Logger,
	run func(r *http.Request, scope engagement.Scope, filter engagement.Filter) (any, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		companyID := pathUUID(r, "companyId")
		if !middleware.IsAdminFromContext(ctx) {
			claim := middleware.CompanyIDFromContext(ctx)
			if claim == "" || companyID == uuid.Nil || claim != companyID.String() {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "company access required"))
				return
			}
		}

		filter, err := resolveFilter(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := run(r, engagement.CompanyScope(companyID), filter)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func CompanySummary(service engagement.Service, logg *logger.Logger) http.HandlerFunc {
	return companyReport(logg, func(r *http.Request, scope engagement.Scope, filter engagement.Filter) (any, error) {
		return service.Summary(r.Context(), scope, filter)
	})
}

func CompanyDemographics(service engagement.Service, logg *logger.Logger) http.HandlerFunc {
	return companyReport(logg, func(r *http.Request, scope engagement.Scope, filter engagement.Filter) (any, error) {
		return service.Demographics(r.Context(), scope, filter)
	})
}

func CompanyTimeSeries(service engagement.Service, logg *logger.Logger) http.HandlerFunc {
	return companyReport(logg, func(r *http.Request, scope engagement.Scope, filter engagement.Filter) (any, error) {
		g, err := resolveGranularity(r)
		if err != nil {
			return nil, err
		}
		return service.TimeSeries(r.Context(), scope, filter, g)
	})
}

func CompanyTimeSeriesByAction(service engagement.Service, logg *logger.Logger) http.HandlerFunc {
	return companyReport(logg, func(r *http.Request, scope engagement.Scope, filter engagement.Filter) (any, error) {
		g, err := resolveGranularity(r)
		if err != nil {
			return nil, err
		}
		return service.TimeSeriesByAction(r.Context(), scope, filter, g)
	})
}

func CompanyActiveTime(service engagement.Service, logg *logger.Logger) http.HandlerFunc {
	return companyReport(logg, func(r *http.Request, scope engagement.Scope, filter engagement.Filter) (any, error) {
		return service.ActiveTime(r.Context(), scope, filter)
	})
}

func CompanyRetention(service engagement.Service, logg *logger.Logger) http.HandlerFunc {
	return companyReport(logg, func(r *http.Request, scope engagement.Scope, filter engagement.Filter) (any, error) {
		return service.Retention(r.Context(), scope, filter)
	})
}

func CompanyTotals(service engagement.Service, logg *logger.Logger) http.HandlerFunc {
	return companyReport(logg, func(r *http.Request, scope engagement.Scope, filter engagement.Filter) (any, error) {
		return service.Totals(r.Context(), scope, filter)
	})
}
