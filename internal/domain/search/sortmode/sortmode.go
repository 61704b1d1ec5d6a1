package sortmode

import "fmt"

// Mode is the result ordering preference.
type Mode string

// Sort mode constants.
const (
	// ByRating orders by average rating, highest first.
	ByRating      Mode = "rating"
	ByDistance    Mode = "distance"
	ByReviewCount Mode = "reviews"
)

// Default is applied when the caller gives no preference.
const Default = ByRating

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == ByRating || m == ByDistance || m == ByReviewCount
}

// Parse converts a wire value into a Mode. Empty input yields Default.
func Parse(s string) (Mode, error) {
	if s == "" {
		return Default, nil
	}
	m := Mode(s)
	if !m.IsValid() {
		return "", fmt.Errorf("unknown sort mode %q", s)
	}
	return m, nil
}

func (m Mode) String() string { return string(m) }
