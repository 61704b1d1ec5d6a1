package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestNewStoreUnavailable_WrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStoreUnavailable(cause)

	if !errors.Is(err, ErrStoreUnavailable) {
		t.Error("expected errors.Is(err, ErrStoreUnavailable)")
	}
	if !errors.Is(err, cause) {
		t.Error("expected original cause to stay in the chain")
	}

	var sue *StoreUnavailableError
	if !errors.As(err, &sue) {
		t.Fatal("expected *StoreUnavailableError")
	}
	if sue.DeadlineExceeded {
		t.Error("plain fault must not be flagged as deadline exceeded")
	}
}

func TestNewStoreUnavailable_Deadline(t *testing.T) {
	err := NewStoreUnavailable(fmt.Errorf("hgetall: %w", context.DeadlineExceeded))

	var sue *StoreUnavailableError
	if !errors.As(err, &sue) {
		t.Fatal("expected *StoreUnavailableError")
	}
	if !sue.DeadlineExceeded {
		t.Error("expected DeadlineExceeded=true")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected context.DeadlineExceeded in the chain")
	}
	want := "provider store unavailable: deadline exceeded: hgetall: context deadline exceeded"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestNewStoreUnavailable_NoDoubleWrap(t *testing.T) {
	first := NewStoreUnavailable(errors.New("boom"))
	second := NewStoreUnavailable(fmt.Errorf("fetch: %w", first))

	var sue *StoreUnavailableError
	if !errors.As(second, &sue) {
		t.Fatal("expected *StoreUnavailableError")
	}
	if sue != first {
		t.Error("expected the existing StoreUnavailableError to be reused")
	}
}

func TestInvalidQueryError(t *testing.T) {
	err := NewInvalidQuery("origin.lat", "must be between -90 and 90")

	if !errors.Is(err, ErrInvalidQuery) {
		t.Error("expected errors.Is(err, ErrInvalidQuery)")
	}
	if errors.Is(err, ErrStoreUnavailable) {
		t.Error("invalid query must not look like a store failure")
	}
	want := "invalid query: origin.lat: must be between -90 and 90"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
