package engagement

import (
	"time"

	"github.com/google/uuid"
)

// RecordEventInput is one interaction to append to the event log.
type RecordEventInput struct {
	EventID    string
	DiscountID uuid.UUID
	Action     string
	OccurredAt *time.Time
	UserID     *uuid.UUID
	DeviceType string
	City       string
	Region     string
	AgeGroup   string
	Gender     string
}

// ActionCount is one row of the per-action breakdown. Actions with zero events
// are not emitted.
type ActionCount struct {
	Action string `json:"action"`
	Total  int64  `json:"total"`
}

// Summary bundles the per-action breakdown with the click-through rate.
// CTR is null when there are no view events in the filtered window.
type Summary struct {
	ByAction []ActionCount `json:"by_action"`
	CTR      *float64      `json:"ctr"`
}

// DimensionBucket is one group of a demographic breakdown. Events with an
// unknown (NULL) value land in the "unknown" bucket rather than being dropped.
type DimensionBucket struct {
	Key   string `json:"k"`
	Total int64  `json:"total"`
}

// Demographics bundles all five dimension breakdowns for one report call.
type Demographics struct {
	Age    []DimensionBucket `json:"age"`
	Gender []DimensionBucket `json:"gender"`
	City   []DimensionBucket `json:"city"`
	Region []DimensionBucket `json:"region"`
	Device []DimensionBucket `json:"device"`
}

// TimeBucket is one point of a time series. Buckets with zero events are
// omitted; consumers treat an absent bucket as zero.
type TimeBucket struct {
	Bucket string `json:"bucket"`
	Total  int64  `json:"total"`
}

// ActionTimeBucket is one (bucket, action) cell of a per-action time series.
type ActionTimeBucket struct {
	Bucket string `json:"bucket"`
	Action string `json:"action"`
	Total  int64  `json:"total"`
}

// HourBucket counts events for one hour of day (0-23).
type HourBucket struct {
	Hour  int   `json:"h"`
	Total int64 `json:"total"`
}

// WeekdayBucket counts events for one day of week. The convention is ISO 8601:
// 1 = Monday through 7 = Sunday, everywhere in this package.
type WeekdayBucket struct {
	Weekday int   `json:"dow"`
	Total   int64 `json:"total"`
}

// ActiveTime holds two independent distributions over the same filtered set.
// Both are sparse; hours and weekdays with zero events are omitted.
type ActiveTime struct {
	ByHour    []HourBucket    `json:"by_hour"`
	ByWeekday []WeekdayBucket `json:"by_dow"`
}

// Retention summarizes repeat engagement among identified users. Anonymous
// events (NULL user) are excluded entirely. RetentionRate is null when no
// identified users matched.
type Retention struct {
	UniqueUsers    int64    `json:"unique_users"`
	ReturningUsers int64    `json:"returning_users"`
	RetentionRate  *float64 `json:"retention_rate"`
}

// Totals is the fixed-shape rollup. Unlike the per-action breakdown, actions
// with zero events are reported as 0 here.
type Totals struct {
	TotalViews     int64    `json:"total_views"`
	TotalClicks    int64    `json:"total_clicks"`
	TotalRedirects int64    `json:"total_redirects"`
	TotalMapOpen   int64    `json:"total_map_open"`
	TotalShares    int64    `json:"total_shares"`
	TotalFavorites int64    `json:"total_favorites"`
	CTR            *float64 `json:"ctr"`
}

// TopDiscount is one row of the per-action leaderboard.
type TopDiscount struct {
	DiscountID uuid.UUID `json:"discount_id"`
	Total      int64     `json:"total"`
}
