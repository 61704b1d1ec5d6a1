package valkey

import "github.com/redis/rueidis"

// newStoreForTest creates a Store around the provided rueidis client.
func newStoreForTest(c rueidis.Client) *Store {
	return &Store{client: c}
}
