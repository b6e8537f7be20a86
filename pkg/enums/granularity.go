package enums

import "fmt"

// Granularity is the time-bucket width for engagement time series.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

var validGranularities = []Granularity{
	GranularityDay,
	GranularityWeek,
	GranularityMonth,
}

// IsValid reports whether the value matches the canonical granularity enum.
func (g Granularity) IsValid() bool {
	for _, candidate := range validGranularities {
		if candidate == g {
			return true
		}
	}
	return false
}

func (g Granularity) String() string {
	return string(g)
}

// ParseGranularity converts the raw string to a Granularity.
func ParseGranularity(value string) (Granularity, error) {
	for _, candidate := range validGranularities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid granularity %q", value)
}
