package query

import (
	"fmt"
	"math"

	"github.com/cardoc/mechfind/internal/domain"
	"github.com/cardoc/mechfind/internal/domain/geo"
	"github.com/cardoc/mechfind/internal/domain/search/sortmode"
)

// MaxTextLength is the maximum allowed free-text length in bytes.
const MaxTextLength = 256

// SearchQuery is a validated provider search request.
type SearchQuery struct {
	text   string
	origin *geo.Point
	mode   sortmode.Mode
}

// New validates and normalizes search parameters.
// Empty mode defaults to rating. Errors are *domain.InvalidQueryError.
func New(text string, origin *geo.Point, m sortmode.Mode) (SearchQuery, error) {
	if len(text) > MaxTextLength {
		return SearchQuery{}, domain.NewInvalidQuery("text",
			fmt.Sprintf("too long (max %d bytes)", MaxTextLength))
	}
	mode, err := sortmode.Parse(string(m))
	if err != nil {
		return SearchQuery{}, domain.NewInvalidQuery("sort", err.Error())
	}

	q := SearchQuery{text: text, mode: mode}
	if origin != nil {
		if math.IsNaN(origin.Lat) || origin.Lat < -90 || origin.Lat > 90 {
			return SearchQuery{}, domain.NewInvalidQuery("origin.lat", "must be between -90 and 90")
		}
		if math.IsNaN(origin.Lon) || origin.Lon < -180 || origin.Lon > 180 {
			return SearchQuery{}, domain.NewInvalidQuery("origin.lon", "must be between -180 and 180")
		}
		o := *origin
		q.origin = &o
	}
	return q, nil
}

// Text returns the free-text filter (may be empty).
func (q *SearchQuery) Text() string { return q.text }

// Origin returns the requester position and whether one was supplied.
func (q *SearchQuery) Origin() (geo.Point, bool) {
	if q.origin == nil {
		return geo.Point{}, false
	}
	return *q.origin, true
}

// SortMode returns the requested ordering.
func (q *SearchQuery) SortMode() sortmode.Mode { return q.mode }
