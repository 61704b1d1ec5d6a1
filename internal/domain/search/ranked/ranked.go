package ranked

import (
	"github.com/cardoc/mechfind/internal/domain/provider"
	"github.com/cardoc/mechfind/internal/domain/search/sortmode"
)

// Result is a provider paired with its distance from the query origin.
type Result struct {
	provider   provider.ServiceProvider
	distanceKm float64
	hasDist    bool
}

// New creates a result without a distance.
func New(p provider.ServiceProvider) Result {
	return Result{provider: p}
}

// WithDistance creates a result with a computed distance in kilometers.
func WithDistance(p provider.ServiceProvider, km float64) Result {
	return Result{provider: p, distanceKm: km, hasDist: true}
}

// Provider returns the matched provider.
func (r *Result) Provider() provider.ServiceProvider { return r.provider }

// ID is a shortcut for Provider().ID().
func (r *Result) ID() string { return r.provider.ID() }

// DistanceKm returns the distance and whether it is known.
func (r *Result) DistanceKm() (float64, bool) { return r.distanceKm, r.hasDist }

// Outcome is the ordered answer to a search.
type Outcome struct {
	Results []Result
	// FallbackApplied is set when distance sort was requested without an origin.
	FallbackApplied bool
	AppliedSort     sortmode.Mode
}

// IDs returns result identifiers in order.
func (o Outcome) IDs() []string {
	ids := make([]string, len(o.Results))
	for i := range o.Results {
		ids[i] = o.Results[i].ID()
	}
	return ids
}
