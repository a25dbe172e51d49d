package relay

import (
	"encoding/json"
	"io"

	"github.com/rmacdonaldsmith/txrelay-go/pkg/tags"
)

// SubscriptionID is the opaque handle returned by Subscribe and required by
// Unsubscribe. IDs are unique for the lifetime of the relay.
type SubscriptionID string

// Event is the normalized payload delivered to subscribers for each matched
// transaction on the feed.
type Event struct {
	// Data is the decoded application payload resolved from the
	// transaction's bundle.
	Data json.RawMessage

	// Kind is the message kind classified from the transaction tag.
	Kind tags.Kind

	// Tag is the raw transaction tag.
	Tag string

	// Hash is the transaction hash.
	Hash string

	// Address is the transaction address.
	Address string

	// Timestamp is the transaction timestamp as reported by the feed.
	Timestamp int64
}

// Handler receives events for a subscribed topic. Handlers run on the
// relay's receive loop: a handler that blocks delays every later message.
type Handler func(topic string, event Event)

// Relay bridges the upstream transaction feed to in-process subscribers.
type Relay interface {
	io.Closer

	// Subscribe registers a handler for a topic and returns its
	// subscription handle. The first subscription opens the upstream
	// connection; a connection failure is returned to the caller and
	// leaves the relay unchanged.
	Subscribe(topic string, handler Handler) (SubscriptionID, error)

	// SubscribeEvent is an alias for Subscribe with an identical
	// contract, kept for API compatibility.
	SubscribeEvent(topic string, handler Handler) (SubscriptionID, error)

	// Unsubscribe removes the subscription with the given handle.
	// Removing the last subscription closes the upstream connection and
	// blocks until the receive loop has drained; handlers must not remove
	// the final subscription from their own callback. An unknown id is a
	// silent no-op.
	Unsubscribe(id SubscriptionID)
}
