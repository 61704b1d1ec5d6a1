package mechfind

import "github.com/cardoc/mechfind/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	// ErrStoreUnavailable means the store could not be reached or timed out; retrying may help.
	ErrStoreUnavailable = domain.ErrStoreUnavailable
	// ErrInvalidQuery means the request must be fixed before retrying.
	ErrInvalidQuery = domain.ErrInvalidQuery
)
