package analytics

import (
	"net/http"
	"strings"

	"github.com/dmcastillo/ofertazo-backend/api/responses"
	"github.com/dmcastillo/ofertazo-backend/api/validators"
	"github.com/dmcastillo/ofertazo-backend/internal/engagement"
	"github.com/dmcastillo/ofertazo-backend/pkg/config"
	"github.com/dmcastillo/ofertazo-backend/pkg/enums"
	pkgerrors "github.com/dmcastillo/ofertazo-backend/pkg/errors"
	"github.com/dmcastillo/ofertazo-backend/pkg/logger"
)

const defaultTopLimit = 10

// TopByAction ranks discounts marketplace-wide by one action.
func TopByAction(service engagement.Service, cfg config.AnalyticsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		action, err := enums.ParseAction(strings.TrimSpace(r.URL.Query().Get("action")))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, err.Error()))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", defaultTopLimit, 1, cfg.TopLimitMax)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		filter, err := resolveFilter(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := service.TopByAction(ctx, action, limit, filter)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
