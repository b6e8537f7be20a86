package engagement

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Filter narrows an aggregation to a time window and exact dimension matches.
// Zero-valued fields are ignored. From and To are both inclusive; dimension
// matches are case-sensitive and never match NULL values.
type Filter struct {
	From       *time.Time
	To         *time.Time
	DeviceType string
	City       string
	Region     string
	AgeGroup   string
	Gender     string
}

// apply adds the filter predicates to a scoped query. Filters only ever
// shrink the matched set.
func (f Filter) apply(q *gorm.DB) *gorm.DB {
	if f.From != nil {
		q = q.Where(column("occurred_at")+" >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where(column("occurred_at")+" <= ?", f.To.UTC())
	}

	for _, m := range []struct {
		col string
		val string
	}{
		{"device_type", f.DeviceType},
		{"city", f.City},
		{"region", f.Region},
		{"age_group", f.AgeGroup},
		{"gender", f.Gender},
	} {
		if strings.TrimSpace(m.val) != "" {
			q = q.Where(column(m.col)+" = ?", m.val)
		}
	}
	return q
}
