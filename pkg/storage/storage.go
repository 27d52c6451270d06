// Package storage persists opaque blobs, such as uploaded job logs, under
// slash-separated keys.
package storage

import (
	"context"

	"github.com/JaimeStill/job-broker/pkg/lifecycle"
)

// System stores and retrieves blobs by key.
type System interface {
	// Store writes data at key, replacing any existing blob.
	Store(ctx context.Context, key string, data []byte) error

	// Retrieve returns the blob at key or ErrNotFound.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Delete removes the blob at key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Validate reports whether a blob exists at key.
	Validate(ctx context.Context, key string) (bool, error)

	// Path resolves key to a location that can be streamed with http.ServeFile.
	Path(ctx context.Context, key string) (string, error)

	// Start registers startup hooks with the coordinator.
	Start(lc *lifecycle.Coordinator) error
}
