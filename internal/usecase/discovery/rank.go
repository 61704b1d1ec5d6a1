package discovery

import (
	"sort"

	"github.com/cardoc/mechfind/internal/domain/search/ranked"
	"github.com/cardoc/mechfind/internal/domain/search/sortmode"
)

// lessFunc reports whether a orders strictly before b.
type lessFunc func(a, b *ranked.Result) bool

// comparator returns a total order for the mode: every key ends with id ascending.
func comparator(m sortmode.Mode) lessFunc {
	switch m {
	case sortmode.ByDistance:
		return byDistance
	case sortmode.ByReviewCount:
		return byReviewCount
	default:
		return byRating
	}
}

func byRating(a, b *ranked.Result) bool {
	pa, pb := a.Provider(), b.Provider()
	ra, _ := pa.Rating()
	rb, _ := pb.Rating()
	if ra != rb {
		return ra > rb
	}
	return a.ID() < b.ID()
}

func byReviewCount(a, b *ranked.Result) bool {
	pa, pb := a.Provider(), b.Provider()
	ca, _ := pa.ReviewCount()
	cb, _ := pb.ReviewCount()
	if ca != cb {
		return ca > cb
	}
	return a.ID() < b.ID()
}

// byDistance puts results without a distance after every result that has one.
func byDistance(a, b *ranked.Result) bool {
	da, okA := a.DistanceKm()
	db, okB := b.DistanceKm()
	switch {
	case okA && !okB:
		return true
	case !okA && okB:
		return false
	case okA && okB && da != db:
		return da < db
	}
	return a.ID() < b.ID()
}

func sortResults(results []ranked.Result, m sortmode.Mode) {
	less := comparator(m)
	sort.SliceStable(results, func(i, j int) bool {
		return less(&results[i], &results[j])
	})
}
