package mechfind

// SortMode controls result ordering.
type SortMode string

// Sort mode constants.
const (
	SortByRating      SortMode = "rating"
	SortByDistance    SortMode = "distance"
	SortByReviewCount SortMode = "reviews"
)

// Point is a WGS-84 position in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Provider is a mechanic record. Nil pointers mean the value is unknown.
// Location is set when both Lat and Lon are non-nil.
type Provider struct {
	ID          string
	Name        string
	Rating      *float64
	ReviewCount *int
	Lat         *float64
	Lon         *float64
	Tags        []string
}

// Query is a provider search.
type Query struct {
	// Text is matched case-insensitively against name and tags. Empty matches everything.
	Text string
	// Origin enables distances. SortByDistance without it falls back to SortByRating.
	Origin *Point
	// Sort defaults to SortByRating.
	Sort SortMode
}

// Result is one ranked provider.
type Result struct {
	Provider   Provider
	DistanceKm *float64 // nil when the origin or the provider location is unknown
}

// SearchResult is the ordered answer to a Query.
type SearchResult struct {
	Results []Result
	// FallbackApplied is true when SortByDistance was requested without an Origin.
	FallbackApplied bool
	// Sort is the ordering actually applied.
	Sort SortMode
}

// Float returns a pointer to v, for optional Provider fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for optional Provider fields.
func Int(v int) *int { return &v }
