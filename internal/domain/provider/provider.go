package provider

import (
	"fmt"
	"math"
	"slices"

	"github.com/cardoc/mechfind/internal/domain/geo"
)

// Field limits for provider records.
const (
	MaxIDLength   = 256
	MaxNameLength = 512
	MaxRating     = 5.0
)

// ServiceProvider is a mechanic or garage offered as a search result (immutable value object).
type ServiceProvider struct {
	id          string
	name        string
	rating      *float64
	reviewCount *int
	location    *geo.Point
	tags        []string
}

// New validates and creates a ServiceProvider.
// rating, reviewCount, lat and lon are optional; lat and lon must be given together.
func New(
	id, name string,
	rating *float64, reviewCount *int,
	lat, lon *float64,
	tags []string,
) (ServiceProvider, error) {
	if id == "" {
		return ServiceProvider{}, fmt.Errorf("provider ID is required")
	}
	if len(id) > MaxIDLength {
		return ServiceProvider{}, fmt.Errorf("provider ID too long (max %d)", MaxIDLength)
	}
	if name == "" {
		return ServiceProvider{}, fmt.Errorf("provider %q: name is required", id)
	}
	if len(name) > MaxNameLength {
		return ServiceProvider{}, fmt.Errorf("provider %q: name too long (max %d)", id, MaxNameLength)
	}
	if rating != nil && !(*rating >= 0 && *rating <= MaxRating) {
		return ServiceProvider{}, fmt.Errorf("provider %q: rating must be between 0 and %g", id, MaxRating)
	}
	if reviewCount != nil && *reviewCount < 0 {
		return ServiceProvider{}, fmt.Errorf("provider %q: review count must be non-negative", id)
	}
	if (lat == nil) != (lon == nil) {
		return ServiceProvider{}, fmt.Errorf("provider %q: latitude and longitude must be set together", id)
	}
	if lat != nil && !geo.ValidateCoordinates(*lat, *lon) {
		return ServiceProvider{}, fmt.Errorf("provider %q: coordinates out of range", id)
	}

	return Reconstruct(id, name, rating, reviewCount, lat, lon, tags), nil
}

// Reconstruct creates a ServiceProvider without validation (storage hydration).
// A lone latitude or longitude is dropped: the record is treated as having no location.
func Reconstruct(
	id, name string,
	rating *float64, reviewCount *int,
	lat, lon *float64,
	tags []string,
) ServiceProvider {
	p := ServiceProvider{
		id:   id,
		name: name,
		tags: slices.Clone(tags),
	}
	if rating != nil && !math.IsNaN(*rating) {
		r := *rating
		p.rating = &r
	}
	if reviewCount != nil {
		c := *reviewCount
		p.reviewCount = &c
	}
	if lat != nil && lon != nil {
		pt := geo.NewPoint(*lat, *lon)
		p.location = &pt
	}
	return p
}

// ID returns the provider identifier.
func (p *ServiceProvider) ID() string { return p.id }

// Name returns the display name.
func (p *ServiceProvider) Name() string { return p.name }

// Rating returns the average rating and whether it is known.
func (p *ServiceProvider) Rating() (float64, bool) {
	if p.rating == nil {
		return 0, false
	}
	return *p.rating, true
}

// ReviewCount returns the number of reviews and whether it is known.
func (p *ServiceProvider) ReviewCount() (int, bool) {
	if p.reviewCount == nil {
		return 0, false
	}
	return *p.reviewCount, true
}

// Location returns the provider position and whether both coordinates are known.
func (p *ServiceProvider) Location() (geo.Point, bool) {
	if p.location == nil {
		return geo.Point{}, false
	}
	return *p.location, true
}

// Tags returns a copy of the specialty/certification tags.
func (p *ServiceProvider) Tags() []string { return slices.Clone(p.tags) }

// TagCount returns the number of tags without copying them.
func (p *ServiceProvider) TagCount() int { return len(p.tags) }

// Tag returns the i-th tag.
func (p *ServiceProvider) Tag(i int) string { return p.tags[i] }
