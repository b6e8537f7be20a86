package engagement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmcastillo/ofertazo-backend/pkg/db/models"
	"github.com/dmcastillo/ofertazo-backend/pkg/enums"
	pkgerrors "github.com/dmcastillo/ofertazo-backend/pkg/errors"
)

// test seam
var timeNowUTC = func() time.Time { return time.Now().UTC() }

const defaultTopLimit = 10

// Service is the engagement engine surface: one ingestion operation and the
// aggregate reports, every report parameterized by Scope and Filter.
type Service interface {
	Record(ctx context.Context, input RecordEventInput) (*models.EngagementEvent, bool, error)

	Summary(ctx context.Context, scope Scope, filter Filter) (*Summary, error)
	Demographics(ctx context.Context, scope Scope, filter Filter) (*Demographics, error)
	GroupByDimension(ctx context.Context, scope Scope, filter Filter, dim enums.Dimension) ([]DimensionBucket, error)
	TimeSeries(ctx context.Context, scope Scope, filter Filter, g enums.Granularity) ([]TimeBucket, error)
	TimeSeriesByAction(ctx context.Context, scope Scope, filter Filter, g enums.Granularity) ([]ActionTimeBucket, error)
	ActiveTime(ctx context.Context, scope Scope, filter Filter) (*ActiveTime, error)
	Retention(ctx context.Context, scope Scope, filter Filter) (*Retention, error)
	Totals(ctx context.Context, scope Scope, filter Filter) (*Totals, error)
	TopByAction(ctx context.Context, action enums.Action, limit int, filter Filter) ([]TopDiscount, error)
}

// Options bounds service behavior; zero values disable the corresponding check.
type Options struct {
	QueryTimeout    time.Duration
	TopLimitMax     int
	MaxFutureSkew   time.Duration
	MaxDimensionLen int
}

type service struct {
	repo  *Repository
	guard *IdempotencyGuard
	opts  Options
}

// NewService wires the engine. The guard may be nil, which disables event
// deduplication.
func NewService(repo *Repository, guard *IdempotencyGuard, opts Options) Service {
	return &service{repo: repo, guard: guard, opts: opts}
}

// queryCtx caps how long any single report query may run.
func (s *service) queryCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.QueryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opts.QueryTimeout)
}

// Record validates and appends one event. The returned bool is false when the
// event id was already seen and nothing was written.
func (s *service) Record(ctx context.Context, input RecordEventInput) (*models.EngagementEvent, bool, error) {
	action, err := enums.ParseAction(input.Action)
	if err != nil {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	now := timeNowUTC()
	occurredAt := now
	if input.OccurredAt != nil {
		occurredAt = input.OccurredAt.UTC()
	}
	if s.opts.MaxFutureSkew > 0 && occurredAt.After(now.Add(s.opts.MaxFutureSkew)) {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "occurred_at is too far in the future")
	}

	event := &models.EngagementEvent{
		ID:         uuid.New(),
		DiscountID: input.DiscountID,
		Action:     action,
		OccurredAt: occurredAt,
		UserID:     input.UserID,
	}
	for _, dim := range []struct {
		name  string
		value string
		dest  **string
	}{
		{"device_type", input.DeviceType, &event.DeviceType},
		{"city", input.City, &event.City},
		{"region", input.Region, &event.Region},
		{"age_group", input.AgeGroup, &event.AgeGroup},
		{"gender", input.Gender, &event.Gender},
	} {
		value := strings.TrimSpace(dim.value)
		if value == "" {
			continue
		}
		if s.opts.MaxDimensionLen > 0 && len(value) > s.opts.MaxDimensionLen {
			return nil, false, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("%s exceeds %d characters", dim.name, s.opts.MaxDimensionLen))
		}
		*dim.dest = &value
	}

	exists, err := s.repo.DiscountExists(ctx, input.DiscountID)
	if err != nil {
		return nil, false, err
	}
	if !exists {
		return nil, false, pkgerrors.New(pkgerrors.CodeNotFound, "discount not found")
	}

	claimed := false
	fresh, err := s.guard.Claim(ctx, input.EventID)
	if err != nil {
		// Dedup is best effort: a guard outage must not drop events.
		fresh = true
	} else {
		claimed = fresh
	}
	if !fresh {
		return nil, false, nil
	}

	if err := s.repo.Record(ctx, event); err != nil {
		if claimed {
			// The claim must not outlive a failed write, or a retry of the
			// same event id would be swallowed as a duplicate.
			_ = s.guard.Release(ctx, input.EventID)
		}
		return nil, false, err
	}
	return event, true, nil
}

func (s *service) Summary(ctx context.Context, scope Scope, filter Filter) (*Summary, error) {
	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	counts, err := s.repo.CountByAction(ctx, scope, filter)
	if err != nil {
		return nil, err
	}
	return &Summary{ByAction: counts, CTR: deriveCTR(counts)}, nil
}

// Demographics runs all five dimension breakdowns over the same scope and
// filter. The call fails as a whole if any breakdown fails.
func (s *service) Demographics(ctx context.Context, scope Scope, filter Filter) (*Demographics, error) {
	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	out := &Demographics{}
	for _, part := range []struct {
		dim  enums.Dimension
		dest *[]DimensionBucket
	}{
		{enums.DimensionAgeGroup, &out.Age},
		{enums.DimensionGender, &out.Gender},
		{enums.DimensionCity, &out.City},
		{enums.DimensionRegion, &out.Region},
		{enums.DimensionDeviceType, &out.Device},
	} {
		buckets, err := s.repo.GroupByDimension(ctx, scope, filter, part.dim)
		if err != nil {
			return nil, err
		}
		*part.dest = buckets
	}
	return out, nil
}

func (s *service) GroupByDimension(ctx context.Context, scope Scope, filter Filter, dim enums.Dimension) ([]DimensionBucket, error) {
	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	return s.repo.GroupByDimension(ctx, scope, filter, dim)
}

func (s *service) TimeSeries(ctx context.Context, scope Scope, filter Filter, g enums.Granularity) ([]TimeBucket, error) {
	if !g.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid granularity %q", g))
	}

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	rows, err := s.repo.Occurrences(ctx, scope, filter)
	if err != nil {
		return nil, err
	}
	return bucketSeries(rows, g), nil
}

func (s *service) TimeSeriesByAction(ctx context.Context, scope Scope, filter Filter, g enums.Granularity) ([]ActionTimeBucket, error) {
	if !g.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid granularity %q", g))
	}

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	rows, err := s.repo.Occurrences(ctx, scope, filter)
	if err != nil {
		return nil, err
	}
	return bucketSeriesByAction(rows, g), nil
}

func (s *service) ActiveTime(ctx context.Context, scope Scope, filter Filter) (*ActiveTime, error) {
	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	rows, err := s.repo.Occurrences(ctx, scope, filter)
	if err != nil {
		return nil, err
	}
	return activeTimeFromOccurrences(rows), nil
}

func (s *service) Retention(ctx context.Context, scope Scope, filter Filter) (*Retention, error) {
	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	counts, err := s.repo.UserEventCounts(ctx, scope, filter)
	if err != nil {
		return nil, err
	}
	return retentionFromCounts(counts), nil
}

func (s *service) Totals(ctx context.Context, scope Scope, filter Filter) (*Totals, error) {
	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	counts, err := s.repo.CountByAction(ctx, scope, filter)
	if err != nil {
		return nil, err
	}
	return totalsFromCounts(counts), nil
}

func (s *service) TopByAction(ctx context.Context, action enums.Action, limit int, filter Filter) ([]TopDiscount, error) {
	if !action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid action %q", action))
	}
	if limit <= 0 {
		limit = defaultTopLimit
	}
	if s.opts.TopLimitMax > 0 && limit > s.opts.TopLimitMax {
		limit = s.opts.TopLimitMax
	}

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	return s.repo.TopByAction(ctx, action, limit, filter)
}
