package redis

import "github.com/redis/rueidis"

// NewStoreForTest creates a Store backed by an arbitrary (mock) rueidis client.
func NewStoreForTest(c rueidis.Client) *Store {
	return &Store{client: c}
}
