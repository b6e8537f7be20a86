package engagement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmcastillo/ofertazo-backend/pkg/enums"
)

func TestDeriveCTR(t *testing.T) {
	t.Run("rounds to four decimals", func(t *testing.T) {
		ctr := deriveCTR([]ActionCount{
			{Action: "view", Total: 3},
			{Action: "clicked", Total: 1},
		})
		require.NotNil(t, ctr)
		assert.Equal(t, 0.3333, *ctr)
	})

	t.Run("nil without views", func(t *testing.T) {
		assert.Nil(t, deriveCTR([]ActionCount{{Action: "clicked", Total: 5}}))
		assert.Nil(t, deriveCTR(nil))
	})

	t.Run("zero clicks with views is zero, not nil", func(t *testing.T) {
		ctr := deriveCTR([]ActionCount{{Action: "view", Total: 8}})
		require.NotNil(t, ctr)
		assert.Equal(t, 0.0, *ctr)
	})
}

func TestBucketKeyISOWeek(t *testing.T) {
	// 2024-12-30 is a Monday; ISO places it in week 1 of 2025 together with
	// 2025-01-02.
	mon := time.Date(2024, 12, 30, 10, 0, 0, 0, time.UTC)
	thu := time.Date(2025, 1, 2, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, "2025-W01", bucketKey(mon, enums.GranularityWeek))
	assert.Equal(t, "2025-W01", bucketKey(thu, enums.GranularityWeek))

	// Same instants land in different months and days.
	assert.Equal(t, "2024-12", bucketKey(mon, enums.GranularityMonth))
	assert.Equal(t, "2025-01", bucketKey(thu, enums.GranularityMonth))
	assert.Equal(t, "2024-12-30", bucketKey(mon, enums.GranularityDay))
}

func TestBucketSeriesSparseAndOrdered(t *testing.T) {
	rows := []occurrence{
		{OccurredAt: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC), Action: "view"},
		{OccurredAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), Action: "view"},
		{OccurredAt: time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC), Action: "clicked"},
	}

	series := bucketSeries(rows, enums.GranularityDay)
	require.Len(t, series, 2)
	assert.Equal(t, TimeBucket{Bucket: "2025-03-01", Total: 1}, series[0])
	assert.Equal(t, TimeBucket{Bucket: "2025-03-10", Total: 2}, series[1])
}

func TestBucketSeriesByActionOrdering(t *testing.T) {
	day := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	rows := []occurrence{
		{OccurredAt: day, Action: "view"},
		{OccurredAt: day, Action: "clicked"},
		{OccurredAt: day, Action: "view"},
		{OccurredAt: day.AddDate(0, 0, 1), Action: "view"},
	}

	series := bucketSeriesByAction(rows, enums.GranularityDay)
	require.Len(t, series, 3)
	assert.Equal(t, ActionTimeBucket{Bucket: "2025-03-10", Action: "clicked", Total: 1}, series[0])
	assert.Equal(t, ActionTimeBucket{Bucket: "2025-03-10", Action: "view", Total: 2}, series[1])
	assert.Equal(t, ActionTimeBucket{Bucket: "2025-03-11", Action: "view", Total: 1}, series[2])
}

func TestActiveTimeDistributions(t *testing.T) {
	rows := []occurrence{
		// Monday 09:xx, twice.
		{OccurredAt: time.Date(2025, 3, 10, 9, 5, 0, 0, time.UTC)},
		{OccurredAt: time.Date(2025, 3, 10, 9, 45, 0, 0, time.UTC)},
		// Sunday 18:xx.
		{OccurredAt: time.Date(2025, 3, 16, 18, 0, 0, 0, time.UTC)},
	}

	at := activeTimeFromOccurrences(rows)
	require.Len(t, at.ByHour, 2)
	assert.Equal(t, HourBucket{Hour: 9, Total: 2}, at.ByHour[0])
	assert.Equal(t, HourBucket{Hour: 18, Total: 1}, at.ByHour[1])

	require.Len(t, at.ByWeekday, 2)
	assert.Equal(t, WeekdayBucket{Weekday: 1, Total: 2}, at.ByWeekday[0])
	assert.Equal(t, WeekdayBucket{Weekday: 7, Total: 1}, at.ByWeekday[1])

	var hourSum, dowSum int64
	for _, b := range at.ByHour {
		hourSum += b.Total
	}
	for _, b := range at.ByWeekday {
		dowSum += b.Total
	}
	assert.Equal(t, hourSum, dowSum)
}

func TestRetentionFromCounts(t *testing.T) {
	ret := retentionFromCounts([]userCount{
		{Total: 4},
		{Total: 2},
		{Total: 1},
	})
	assert.Equal(t, int64(3), ret.UniqueUsers)
	assert.Equal(t, int64(2), ret.ReturningUsers)
	require.NotNil(t, ret.RetentionRate)
	assert.Equal(t, 0.6667, *ret.RetentionRate)

	empty := retentionFromCounts(nil)
	assert.Equal(t, int64(0), empty.UniqueUsers)
	assert.Nil(t, empty.RetentionRate)
}

func TestTotalsFromCountsZeroFills(t *testing.T) {
	totals := totalsFromCounts([]ActionCount{{Action: "view", Total: 7}})
	assert.Equal(t, int64(7), totals.TotalViews)
	assert.Equal(t, int64(0), totals.TotalClicks)
	assert.Equal(t, int64(0), totals.TotalRedirects)
	assert.Equal(t, int64(0), totals.TotalMapOpen)
	assert.Equal(t, int64(0), totals.TotalShares)
	assert.Equal(t, int64(0), totals.TotalFavorites)
	require.NotNil(t, totals.CTR)
	assert.Equal(t, 0.0, *totals.CTR)
}
