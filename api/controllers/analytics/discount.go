package analytics

import (
	"net/http"

	"github.com/dmcastillo/ofertazo-backend/api/responses"
	"github.com/dmcastillo/ofertazo-backend/internal/engagement"
	"github.com/dmcastillo/ofertazo-backend/pkg/logger"
)

// discountReport adapts one service call into a handler; every discount
// report shares the scope and filter plumbing.
func discountReport(
	logg *logger.Logger,
	run func(r *http.Request, scope engagement.Scope, filter engagement.Filter) (any, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		filter, err := resolveFilter(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		scope := engagement.DiscountScope(pathUUID(r, "discountId"))
		result, err := run(r, scope, filter)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func DiscountSummary(service engagement.Service, logg *logger.Logger) http.HandlerFunc {
	return discountReport(logg, func(r *http.Request, scope engagement.Scope, filter engagement.Filter) (any, error) {
		return service.Summary(r.Context(), scope, filter)
	})
}

func DiscountDemographics(service engagement.Service, logg *logger.Logger) http.HandlerFunc {
	return discountReport(logg, func(r *http.Request, scope engagement.Scope, filter engagement.Filter) (any, error) {
		return service.Demographics(r.Context(), scope, filter)
	})
}

func DiscountTimeSeries(service engagement.Service, logg *logger.Logger) http.HandlerFunc {
	return discountReport(logg, func(r *http.Request, scope engagement.Scope, filter engagement.Filter) (any, error) {
		g, err := resolveGranularity(r)
		if err != nil {
			return nil, err
		}
		return service.TimeSeries(r.Context(), scope, filter, g)
	})
}

func DiscountTimeSeriesByAction(service engagement.Service, logg *logger.Logger) http.HandlerFunc {
	return discountReport(logg, func(r *http.Request, scope engagement.Scope, filter engagement.Filter) (any, error) {
		g, err := resolveGranularity(r)
		if err != nil {
			return nil, err
		}
		return service.TimeSeriesByAction(r.Context(), scope, filter, g)
	})
}

func DiscountActiveTime(service engagement.Service, logg *logger.Logger) http.HandlerFunc {
	return discountReport(logg, func(r *http.Request, scope engagement.Scope, filter engagement.Filter) (any, error) {
		return service.ActiveTime(r.Context(), scope, filter)
	})
}

func DiscountRetention(service engagement.Service, logg *logger.Logger) http.HandlerFunc {
	return discountReport(logg, func(r *http.Request, scope engagement.Scope, filter engagement.Filter) (any, error) {
		return service.Retention(r.Context(), scope, filter)
	})
}

func DiscountTotals(service engagement.Service, logg *logger.Logger) http.HandlerFunc {
	return discountReport(logg, func(r *http.Request, scope engagement.Scope, filter engagement.Filter) (any, error) {
		return service.Totals(r.Context(), scope, filter)
	})
}
