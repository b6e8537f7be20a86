package engagement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmcastillo/ofertazo-backend/pkg/db/models"
	"github.com/dmcastillo/ofertazo-backend/pkg/enums"
	pkgerrors "github.com/dmcastillo/ofertazo-backend/pkg/errors"
)

// Repository is the storage boundary for the engagement event log. Writes are
// append-only; reads are grouped aggregations. Any database failure comes back
// as a storage error so callers can map it to a retryable response.
type Repository struct {
	db *gorm.DB
}

func NewRepository(dbc *gorm.DB) *Repository {
	return &Repository{db: dbc}
}

// Record appends a single event. Events are never updated or deleted.
func (r *Repository) Record(ctx context.Context, event *models.EngagementEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "recording engagement event")
	}
	return nil
}

// DiscountExists reports whether the discount id references a known discount.
func (r *Repository) DiscountExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Discount{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "checking discount existence")
	}
	return count > 0, nil
}

// CountByAction returns event totals grouped by action, ordered by total
// descending with action name as the tiebreak. Actions with zero events are
// not returned.
func (r *Repository) CountByAction(ctx context.Context, scope Scope, filter Filter) ([]ActionCount, error) {
	var rows []ActionCount
	err := filter.apply(scope.events(r.db.WithContext(ctx))).
		Select(column("action") + " AS action, COUNT(*) AS total").
		Group(column("action")).
		Order("total DESC, action ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "counting events by action")
	}
	return rows, nil
}

type dimensionRow struct {
	Key   *string
	Total int64
}

// GroupByDimension returns event totals grouped by one demographic column.
// NULL values are folded into the "unknown" bucket. The dimension is resolved
// through a closed mapping; anything else is rejected before touching storage.
func (r *Repository) GroupByDimension(ctx context.Context, scope Scope, filter Filter, dim enums.Dimension) ([]DimensionBucket, error) {
	col, err := dimensionColumn(dim)
	if err != nil {
		return nil, err
	}

	var rows []dimensionRow
	err = filter.apply(scope.events(r.db.WithContext(ctx))).
		Select(column(col) + " AS key, COUNT(*) AS total").
		Group(column(col)).
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, fmt.Sprintf("grouping events by %s", col))
	}

	buckets := make([]DimensionBucket, 0, len(rows))
	for _, row := range rows {
		key := UnknownBucket
		if row.Key != nil {
			key = *row.Key
		}
		buckets = append(buckets, DimensionBucket{Key: key, Total: row.Total})
	}
	return buckets, nil
}

// occurrence is one event's bucketing inputs. Time bucketing (ISO weeks, hour
// of day, day of week) happens in Go so the same queries run identically on
// postgres and sqlite.
type occurrence struct {
	OccurredAt time.Time
	Action     string
}

// Occurrences returns the occurred_at (and action) of every matched event,
// oldest first, for in-process time bucketing.
func (r *Repository) Occurrences(ctx context.Context, scope Scope, filter Filter) ([]occurrence, error) {
	var rows []occurrence
	err := filter.apply(scope.events(r.db.WithContext(ctx))).
		Select(column("occurred_at") + " AS occurred_at, " + column("action") + " AS action").
		Order(column("occurred_at") + " ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading event occurrences")
	}
	return rows, nil
}

type userCount struct {
	UserID uuid.UUID
	Total  int64
}

// UserEventCounts returns per-user event totals for identified users only.
// Anonymous events (NULL user_id) are excluded from retention entirely.
func (r *Repository) UserEventCounts(ctx context.Context, scope Scope, filter Filter) ([]userCount, error) {
	var rows []userCount
	err := filter.apply(scope.events(r.db.WithContext(ctx))).
		Where(column("user_id") + " IS NOT NULL").
		Select(column("user_id") + " AS user_id, COUNT(*) AS total").
		Group(column("user_id")).
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "counting events per user")
	}
	return rows, nil
}

// TopByAction ranks discounts across the whole marketplace by how many events
// of one action they received. Ties resolve to the older discount.
func (r *Repository) TopByAction(ctx context.Context, action enums.Action, limit int, filter Filter) ([]TopDiscount, error) {
	var rows []TopDiscount
	err := filter.apply(
		r.db.WithContext(ctx).
			Model(&models.EngagementEvent{}).
			Joins("JOIN discounts ON discounts.id = engagement_events.discount_id").
			Where(column("action")+" = ?", action),
	).
		Select(column("discount_id") + " AS discount_id, COUNT(*) AS total").
		Group(column("discount_id") + ", discounts.created_at, discounts.id").
		Order("total DESC, discounts.created_at ASC, discounts.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "ranking discounts by action")
	}
	return rows, nil
}

// UnknownBucket is the demographic group for events missing a value.
const UnknownBucket = "unknown"

// dimensionColumn maps a reporting dimension onto its event column. The
// mapping is closed; callers never get to name raw columns.
func dimensionColumn(dim enums.Dimension) (string, error) {
	switch dim {
	case enums.DimensionAgeGroup:
		return "age_group", nil
	case enums.DimensionGender:
		return "gender", nil
	case enums.DimensionCity:
		return "city", nil
	case enums.DimensionRegion:
		return "region", nil
	case enums.DimensionDeviceType:
		return "device_type", nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported dimension %q", dim))
	}
}
