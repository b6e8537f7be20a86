package enums

import "fmt"

// Action is the canonical interaction type recorded against a discount.
type Action string

const (
	ActionView     Action = "view"
	ActionClicked  Action = "clicked"
	ActionShare    Action = "share"
	ActionFavorite Action = "favorite"
	ActionRedirect Action = "redirect"
	ActionMapOpen  Action = "map_open"
)

var validActions = []Action{
	ActionView,
	ActionClicked,
	ActionShare,
	ActionFavorite,
	ActionRedirect,
	ActionMapOpen,
}

// IsValid reports whether the value matches the canonical action enum.
func (a Action) IsValid() bool {
	for _, candidate := range validActions {
		if candidate == a {
			return true
		}
	}
	return false
}

func (a Action) String() string {
	return string(a)
}

// ParseAction converts the raw string to an Action.
func ParseAction(value string) (Action, error) {
	for _, candidate := range validActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid action %q", value)
}
