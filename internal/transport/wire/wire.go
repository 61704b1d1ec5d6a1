// Package wire holds the JSON envelope shared by the HTTP and MCP transports.
package wire

import (
	"github.com/cardoc/mechfind/internal/domain"
	"github.com/cardoc/mechfind/internal/domain/geo"
	"github.com/cardoc/mechfind/internal/domain/search/query"
	"github.com/cardoc/mechfind/internal/domain/search/ranked"
	"github.com/cardoc/mechfind/internal/domain/search/sortmode"
)

// Origin is the requester position on the wire. Both coordinates are required.
type Origin struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// SearchRequest is the POST /api/v1/providers/search body.
type SearchRequest struct {
	Text   string  `json:"text"`
	Origin *Origin `json:"origin,omitempty"`
	Sort   string  `json:"sort"`
}

// Provider is one ranked result. Optional values are encoded as null.
type Provider struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Rating      *float64 `json:"rating"`
	ReviewCount *int     `json:"reviewCount"`
	DistanceKm  *float64 `json:"distanceKm"`
	Tags        []string `json:"tags"`
}

// SearchResponse is the search result envelope.
type SearchResponse struct {
	Results         []Provider `json:"results"`
	FallbackApplied bool       `json:"fallbackApplied"`
	Sort            string     `json:"sort"`
}

// ErrorResponse is returned for every non-2xx answer.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Query validates a request body.
func (r *SearchRequest) Query() (query.SearchQuery, error) {
	var origin *geo.Point
	if r.Origin != nil {
		p, err := pairOrigin(r.Origin.Lat, r.Origin.Lon)
		if err != nil {
			return query.SearchQuery{}, err
		}
		if p == nil {
			return query.SearchQuery{}, loneCoordinate()
		}
		origin = p
	}
	return query.New(r.Text, origin, sortmode.Mode(r.Sort))
}

// QueryFromParams builds a query from flat parameters (GET query string, MCP arguments).
// lat and lon must be supplied together.
func QueryFromParams(text string, lat, lon *float64, sort string) (query.SearchQuery, error) {
	origin, err := pairOrigin(lat, lon)
	if err != nil {
		return query.SearchQuery{}, err
	}
	return query.New(text, origin, sortmode.Mode(sort))
}

func loneCoordinate() error {
	return domain.NewInvalidQuery("origin", "lat and lon must be given together")
}

// pairOrigin returns nil when neither coordinate is set.
func pairOrigin(lat, lon *float64) (*geo.Point, error) {
	if (lat == nil) != (lon == nil) {
		return nil, loneCoordinate()
	}
	if lat == nil {
		return nil, nil
	}
	p := geo.NewPoint(*lat, *lon)
	return &p, nil
}

// FromOutcome converts engine output to the response envelope.
func FromOutcome(o ranked.Outcome) SearchResponse {
	out := SearchResponse{
		Results:         make([]Provider, 0, len(o.Results)),
		FallbackApplied: o.FallbackApplied,
		Sort:            o.AppliedSort.String(),
	}
	for i := range o.Results {
		out.Results = append(out.Results, providerToWire(&o.Results[i]))
	}
	return out
}

func providerToWire(r *ranked.Result) Provider {
	p := r.Provider()
	w := Provider{
		ID:   p.ID(),
		Name: p.Name(),
		Tags: p.Tags(),
	}
	if w.Tags == nil {
		w.Tags = []string{}
	}
	if v, ok := p.Rating(); ok {
		w.Rating = &v
	}
	if v, ok := p.ReviewCount(); ok {
		w.ReviewCount = &v
	}
	if v, ok := r.DistanceKm(); ok {
		w.DistanceKm = &v
	}
	return w
}
