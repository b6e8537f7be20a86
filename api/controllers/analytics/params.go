package analytics

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmcastillo/ofertazo-backend/internal/engagement"
	"github.com/dmcastillo/ofertazo-backend/pkg/enums"
	pkgerrors "github.com/dmcastillo/ofertazo-backend/pkg/errors"
)

// resolveFilter builds the aggregation filter from query parameters. The time
// window bounds are independently optional RFC3339 timestamps.
func resolveFilter(r *http.Request) (engagement.Filter, error) {
	query := r.URL.Query()
	filter := engagement.Filter{
		DeviceType: strings.TrimSpace(query.Get("device_type")),
		City:       strings.TrimSpace(query.Get("city")),
		Region:     strings.TrimSpace(query.Get("region")),
		AgeGroup:   strings.TrimSpace(query.Get("age_group")),
		Gender:     strings.TrimSpace(query.Get("gender")),
	}

	if raw := strings.TrimSpace(query.Get("from")); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return engagement.Filter{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid from timestamp")
		}
		from = from.UTC()
		filter.From = &from
	}
	if raw := strings.TrimSpace(query.Get("to")); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return engagement.Filter{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid to timestamp")
		}
		to = to.UTC()
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return engagement.Filter{}, pkgerrors.New(pkgerrors.CodeValidation, "to must not be before from")
	}

	return filter, nil
}

// resolveGranularity parses the bucket width, defaulting to daily buckets.
func resolveGranularity(r *http.Request) (enums.Granularity, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("granularity"))
	if raw == "" {
		return enums.GranularityDay, nil
	}
	g, err := enums.ParseGranularity(raw)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	return g, nil
}

// pathUUID reads a uuid path parameter. Malformed ids behave like unknown
// ids: the nil uuid scopes to zero events, so the report comes back empty.
func pathUUID(r *http.Request, param string) uuid.UUID {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil
	}
	return id
}
