package enums

import "fmt"

// Dimension enumerates the event columns a demographic breakdown can group by.
// The set is closed on purpose: dimension names never come from free-text input.
type Dimension string

const (
	DimensionAgeGroup   Dimension = "age_group"
	DimensionGender     Dimension = "gender"
	DimensionCity       Dimension = "city"
	DimensionRegion     Dimension = "region"
	DimensionDeviceType Dimension = "device_type"
)

var validDimensions = []Dimension{
	DimensionAgeGroup,
	DimensionGender,
	DimensionCity,
	DimensionRegion,
	DimensionDeviceType,
}

// IsValid reports whether the value matches the canonical dimension enum.
func (d Dimension) IsValid() bool {
	for _, candidate := range validDimensions {
		if candidate == d {
			return true
		}
	}
	return false
}

func (d Dimension) String() string {
	return string(d)
}

// ParseDimension converts the raw string to a Dimension.
func ParseDimension(value string) (Dimension, error) {
	for _, candidate := range validDimensions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid dimension %q", value)
}
