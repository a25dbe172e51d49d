package transport

import "context"

// Transport is a subscribable upstream message feed.
//
// Implementations are used by a single receive loop: Recv is never called
// concurrently, but Connect, Subscribe, Unsubscribe and Close may be called
// from other goroutines and must be safe against a concurrent Recv.
type Transport interface {
	// Connect opens the connection to the feed at the given endpoint.
	// Connecting an already-connected transport is a no-op.
	Connect(ctx context.Context, endpoint string) error

	// Subscribe applies a topic filter so the feed delivers messages for
	// the topic. Applying the same filter twice is harmless.
	Subscribe(topic string) error

	// Unsubscribe drops a previously applied topic filter.
	Unsubscribe(topic string) error

	// Recv blocks until the next raw message arrives, the context is
	// cancelled, or the transport is closed. A closed transport returns
	// an error; callers use that to end their receive loop.
	Recv(ctx context.Context) ([]byte, error)

	// Close releases the connection. Recv calls in flight are unblocked
	// with an error. Closing a closed transport is a no-op.
	Close() error
}
