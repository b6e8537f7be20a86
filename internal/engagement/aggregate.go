package engagement

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dmcastillo/ofertazo-backend/pkg/enums"
)

// round4 rounds half away from zero to four decimal places, the precision all
// derived rates are reported with.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// deriveCTR computes clicked/view from a per-action breakdown. With zero views
// the rate is undefined and reported as null, never as zero.
func deriveCTR(counts []ActionCount) *float64 {
	var views, clicks int64
	for _, c := range counts {
		switch c.Action {
		case string(enums.ActionView):
			views = c.Total
		case string(enums.ActionClicked):
			clicks = c.Total
		}
	}
	if views == 0 {
		return nil
	}
	ctr := round4(float64(clicks) / float64(views))
	return &ctr
}

// totalsFromCounts expands a sparse per-action breakdown into the fixed-shape
// rollup, zero-filling actions that never occurred.
func totalsFromCounts(counts []ActionCount) *Totals {
	totals := &Totals{}
	for _, c := range counts {
		switch c.Action {
		case string(enums.ActionView):
			totals.TotalViews = c.Total
		case string(enums.ActionClicked):
			totals.TotalClicks = c.Total
		case string(enums.ActionRedirect):
			totals.TotalRedirects = c.Total
		case string(enums.ActionMapOpen):
			totals.TotalMapOpen = c.Total
		case string(enums.ActionShare):
			totals.TotalShares = c.Total
		case string(enums.ActionFavorite):
			totals.TotalFavorites = c.Total
		}
	}
	totals.CTR = deriveCTR(counts)
	return totals
}

// bucketKey formats an instant into its bucket label. Week buckets follow ISO
// 8601, so the label's year is the ISO week-year, which can differ from the
// calendar year around January 1st.
func bucketKey(t time.Time, g enums.Granularity) string {
	t = t.UTC()
	switch g {
	case enums.GranularityWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case enums.GranularityMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// bucketSeries folds occurrences into a sparse time series ordered by bucket.
// All three label formats are zero-padded, so lexicographic order is
// chronological order.
func bucketSeries(rows []occurrence, g enums.Granularity) []TimeBucket {
	totals := map[string]int64{}
	for _, row := range rows {
		totals[bucketKey(row.OccurredAt, g)]++
	}

	keys := make([]string, 0, len(totals))
	for key := range totals {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	series := make([]TimeBucket, 0, len(keys))
	for _, key := range keys {
		series = append(series, TimeBucket{Bucket: key, Total: totals[key]})
	}
	return series
}

// bucketSeriesByAction folds occurrences into per-action series cells, ordered
// by bucket then action. Cells with zero events are omitted.
func bucketSeriesByAction(rows []occurrence, g enums.Granularity) []ActionTimeBucket {
	type cell struct {
		bucket string
		action string
	}
	totals := map[cell]int64{}
	for _, row := range rows {
		totals[cell{bucket: bucketKey(row.OccurredAt, g), action: row.Action}]++
	}

	cells := make([]cell, 0, len(totals))
	for c := range totals {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].bucket != cells[j].bucket {
			return cells[i].bucket < cells[j].bucket
		}
		return cells[i].action < cells[j].action
	})

	series := make([]ActionTimeBucket, 0, len(cells))
	for _, c := range cells {
		series = append(series, ActionTimeBucket{Bucket: c.bucket, Action: c.action, Total: totals[c]})
	}
	return series
}

// isoWeekday maps Go's Sunday-first weekday onto ISO numbering, 1 = Monday
// through 7 = Sunday.
func isoWeekday(t time.Time) int {
	wd := int(t.UTC().Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// activeTimeFromOccurrences builds the hour-of-day and day-of-week
// distributions. Each event contributes to exactly one hour and one weekday,
// so both distributions sum to the same total.
func activeTimeFromOccurrences(rows []occurrence) *ActiveTime {
	byHour := map[int]int64{}
	byWeekday := map[int]int64{}
	for _, row := range rows {
		t := row.OccurredAt.UTC()
		byHour[t.Hour()]++
		byWeekday[isoWeekday(t)]++
	}

	out := &ActiveTime{
		ByHour:    make([]HourBucket, 0, len(byHour)),
		ByWeekday: make([]WeekdayBucket, 0, len(byWeekday)),
	}
	for hour := 0; hour < 24; hour++ {
		if total, ok := byHour[hour]; ok {
			out.ByHour = append(out.ByHour, HourBucket{Hour: hour, Total: total})
		}
	}
	for dow := 1; dow <= 7; dow++ {
		if total, ok := byWeekday[dow]; ok {
			out.ByWeekday = append(out.ByWeekday, WeekdayBucket{Weekday: dow, Total: total})
		}
	}
	return out
}

// retentionFromCounts derives unique and returning user counts from per-user
// event totals. A user "returns" after their second event in the window.
func retentionFromCounts(counts []userCount) *Retention {
	out := &Retention{}
	for _, c := range counts {
		out.UniqueUsers++
		if c.Total > 1 {
			out.ReturningUsers++
		}
	}
	if out.UniqueUsers > 0 {
		rate := round4(float64(out.ReturningUsers) / float64(out.UniqueUsers))
		out.RetentionRate = &rate
	}
	return out
}
