// Package relay implements the lazily-connected transaction feed relay.
//
// The FeedRelay owns the subscription registry and the upstream connection
// lifecycle: the first subscription opens the transport and starts the
// receive loop, the last unsubscribe closes it. Every message received while
// connected is parsed, filtered by tag classification and marketplace
// prefix, joined with its bundle payload and fanned out to the topic's
// subscribers.
package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rmacdonaldsmith/txrelay-go/internal/metrics"
	"github.com/rmacdonaldsmith/txrelay-go/internal/payload"
	relaypkg "github.com/rmacdonaldsmith/txrelay-go/pkg/relay"
	"github.com/rmacdonaldsmith/txrelay-go/pkg/tags"
	"github.com/rmacdonaldsmith/txrelay-go/pkg/transport"
)

var (
	// ErrEmptyTopic is returned when subscribing with an empty topic
	ErrEmptyTopic = errors.New("topic cannot be empty")
	// ErrNilHandler is returned when subscribing with a nil handler
	ErrNilHandler = errors.New("handler cannot be nil")
	// ErrRelayClosed is returned when subscribing to a closed relay
	ErrRelayClosed = errors.New("relay is closed")
)

// subscription pairs a handle with its handler in a topic's ordered list.
type subscription struct {
	id      relaypkg.SubscriptionID
	handler relaypkg.Handler
}

// FeedRelay implements the relay.Relay interface over an abstract feed
// transport. It is safe for concurrent use.
type FeedRelay struct {
	mu        sync.Mutex
	config    *Config
	feed      transport.Transport
	extractor payload.Extractor
	log       zerolog.Logger
	metrics   *metrics.FeedMetrics

	// subs maps topic to its ordered subscriber list. A topic key exists
	// iff it has at least one subscriber; the map is empty iff there are
	// no live subscriptions at all.
	subs map[string][]subscription

	// connected tracks the transport state. Invariant: connected iff
	// subs is non-empty (except transiently inside a locked operation).
	connected  bool
	closed     bool
	cancelRecv context.CancelFunc
	recvDone   chan struct{}
}

// NewFeedRelay creates a relay over the given transport and payload
// extractor. The transport is not connected until the first subscription.
func NewFeedRelay(config *Config, feed transport.Transport, extractor payload.Extractor) (*FeedRelay, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	config.SetDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if feed == nil {
		return nil, fmt.Errorf("transport cannot be nil")
	}
	if extractor == nil {
		return nil, fmt.Errorf("extractor cannot be nil")
	}

	return &FeedRelay{
		config:    config,
		feed:      feed,
		extractor: extractor,
		log:       zerolog.Nop(),
		subs:      make(map[string][]subscription),
	}, nil
}

// WithLogger sets the relay's logger. Call before the first subscription.
func (r *FeedRelay) WithLogger(logger zerolog.Logger) *FeedRelay {
	r.log = logger.With().Str("component", "relay").Logger()
	return r
}

// WithMetrics sets the relay's metrics. Call before the first subscription.
func (r *FeedRelay) WithMetrics(m *metrics.FeedMetrics) *FeedRelay {
	r.metrics = m
	return r
}

// Subscribe registers a handler for a topic. The first subscription opens
// the upstream connection; if connecting fails the registration is rolled
// back and the error returned, so the connection-iff-subscribers invariant
// holds on the error path too.
func (r *FeedRelay) Subscribe(topic string, handler relaypkg.Handler) (relaypkg.SubscriptionID, error) {
	if topic == "" {
		return "", ErrEmptyTopic
	}
	if handler == nil {
		return "", ErrNilHandler
	}

	r.mu.Lock()

	if r.closed {
		r.mu.Unlock()
		return "", ErrRelayClosed
	}

	id := relaypkg.SubscriptionID(uuid.NewString())
	firstForTopic := len(r.subs[topic]) == 0
	r.subs[topic] = append(r.subs[topic], subscription{id: id, handler: handler})

	if !r.connected {
		// connectLocked re-applies filters for every registered topic,
		// including the one just added.
		if err := r.connectLocked(); err != nil {
			r.removeLocked(id)
			r.mu.Unlock()
			return "", fmt.Errorf("unable to connect: %w", err)
		}
	} else if firstForTopic {
		if err := r.feed.Subscribe(topic); err != nil {
			r.removeLocked(id)
			var done chan struct{}
			if len(r.subs) == 0 {
				done = r.recvDone
				r.disconnectLocked()
			}
			r.mu.Unlock()
			if done != nil {
				<-done
			}
			return "", fmt.Errorf("unable to apply filter for topic %q: %w", topic, err)
		}
	}

	r.metrics.SetActiveSubscriptions(r.subscriptionCountLocked())
	r.log.Debug().Str("topic", topic).Str("subscription", string(id)).Msg("subscribed")
	r.mu.Unlock()
	return id, nil
}

// SubscribeEvent is an alias for Subscribe with an identical contract.
func (r *FeedRelay) SubscribeEvent(topic string, handler relaypkg.Handler) (relaypkg.SubscriptionID, error) {
	return r.Subscribe(topic, handler)
}

// Unsubscribe removes the subscription with the given handle. When a topic
// loses its last subscriber its filter is dropped; when the registry becomes
// empty the connection is closed and the call blocks until the receive loop
// has drained, so a later Subscribe can never race a stale loop. Handlers
// must therefore not remove the final subscription from their own callback.
// An unknown id is a silent no-op.
func (r *FeedRelay) Unsubscribe(id relaypkg.SubscriptionID) {
	r.mu.Lock()

	topic, found, topicEmptied := r.removeLocked(id)
	if !found {
		r.mu.Unlock()
		return
	}

	if topicEmptied && r.connected {
		if err := r.feed.Unsubscribe(topic); err != nil {
			r.log.Warn().Err(err).Str("topic", topic).Msg("failed to drop topic filter")
		}
	}
	var done chan struct{}
	if len(r.subs) == 0 && r.connected {
		done = r.recvDone
		r.disconnectLocked()
	}

	r.metrics.SetActiveSubscriptions(r.subscriptionCountLocked())
	r.log.Debug().Str("topic", topic).Str("subscription", string(id)).Msg("unsubscribed")
	r.mu.Unlock()

	// Join the receive loop outside the lock. Without this a reconnect
	// could start a second loop while the old one is still inside route,
	// and the two would compete for Recv on the new connection.
	if done != nil {
		<-done
	}
}

// Close tears down the relay: all subscriptions are dropped, the transport
// is closed and the receive loop drained. Closing a closed relay is a no-op.
func (r *FeedRelay) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true

	var done chan struct{}
	if r.connected {
		done = r.recvDone
		r.disconnectLocked()
	}
	r.subs = make(map[string][]subscription)
	r.metrics.SetActiveSubscriptions(0)
	r.mu.Unlock()

	// Wait for the receive loop outside the lock; a handler running in
	// route may still need it.
	if done != nil {
		<-done
	}
	return nil
}

// connectLocked opens the transport, applies filters for every registered
// topic and starts the receive loop. Caller holds r.mu.
func (r *FeedRelay) connectLocked() error {
	ctx, cancel := context.WithCancel(context.Background())

	if err := r.feed.Connect(ctx, r.config.Endpoint); err != nil {
		cancel()
		return err
	}

	// Re-apply all registered filters; on the very first connect this is
	// just the new topic, after that it covers topics registered while
	// the relay was disconnected.
	for topic := range r.subs {
		if err := r.feed.Subscribe(topic); err != nil {
			cancel()
			if cerr := r.feed.Close(); cerr != nil {
				r.log.Debug().Err(cerr).Msg("transport close after failed filter")
			}
			return fmt.Errorf("failed to apply filter for topic %q: %w", topic, err)
		}
	}

	done := make(chan struct{})
	r.cancelRecv = cancel
	r.recvDone = done
	r.connected = true

	go r.recvLoop(ctx, done)

	r.log.Info().Str("endpoint", r.config.Endpoint).Msg("feed connected")
	return nil
}

// disconnectLocked closes the transport and marks the relay disconnected.
// Caller holds r.mu; the receive loop exits on its own once Recv unblocks.
func (r *FeedRelay) disconnectLocked() {
	r.cancelRecv()
	if err := r.feed.Close(); err != nil {
		r.log.Debug().Err(err).Msg("transport close")
	}
	r.connected = false
	r.log.Info().Str("endpoint", r.config.Endpoint).Msg("feed disconnected")
}

// removeLocked removes the subscription with the given id, deleting the
// topic key when its list empties. Caller holds r.mu.
func (r *FeedRelay) removeLocked(id relaypkg.SubscriptionID) (topic string, found, topicEmptied bool) {
	for t, list := range r.subs {
		for i, sub := range list {
			if sub.id != id {
				continue
			}
			list = append(list[:i], list[i+1:]...)
			if len(list) == 0 {
				delete(r.subs, t)
				return t, true, true
			}
			r.subs[t] = list
			return t, true, false
		}
	}
	return "", false, false
}

// subscriptionCountLocked counts live subscriptions. Caller holds r.mu.
func (r *FeedRelay) subscriptionCountLocked() int {
	count := 0
	for _, list := range r.subs {
		count += len(list)
	}
	return count
}

// recvLoop reads raw messages until the transport closes or the context is
// cancelled. Messages are handled to completion in arrival order: a
// message's handlers finish before the next message is read.
func (r *FeedRelay) recvLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		raw, err := r.feed.Recv(ctx)
		if err != nil {
			if ctx.Err() == nil {
				r.log.Warn().Err(err).Msg("feed receive failed, stopping receive loop")
			}
			return
		}
		r.route(ctx, raw)
	}
}

// route decodes, filters and dispatches a single raw feed message.
func (r *FeedRelay) route(ctx context.Context, raw []byte) {
	r.metrics.IncReceived()

	line, err := parseFeedLine(raw)
	if err != nil {
		r.metrics.IncParseFailure()
		r.log.Error().Err(err).Msg("dropping malformed feed line")
		return
	}

	r.mu.Lock()
	subs := append([]subscription(nil), r.subs[line.Topic]...)
	r.mu.Unlock()

	if len(subs) == 0 {
		return
	}

	// Both conditions must hold: the tag classifies to a known kind and
	// carries this marketplace's prefix. Anything else is normal
	// filtered-out traffic, not an error.
	kind, ok := tags.Classify(line.Tag)
	if !ok || !strings.HasPrefix(line.Tag, r.config.Prefix) {
		r.metrics.IncFiltered()
		return
	}

	extractCtx, cancel := context.WithTimeout(ctx, r.config.ExtractTimeout)
	data, err := r.extractor.Extract(extractCtx, line.Bundle)
	cancel()
	if err != nil {
		// Local failure for this message only; the loop keeps going.
		r.metrics.IncPayloadFailure()
		r.log.Error().Err(err).
			Str("bundle", line.Bundle).
			Str("hash", line.Hash).
			Msg("payload extraction failed, skipping message")
		return
	}

	event := relaypkg.Event{
		Data:      data,
		Kind:      kind,
		Tag:       line.Tag,
		Hash:      line.Hash,
		Address:   line.Address,
		Timestamp: line.Timestamp,
	}

	// Fan out to every subscriber of the topic, in registration order.
	for _, sub := range subs {
		sub.handler(line.Topic, event)
	}
	r.metrics.AddDelivered(len(subs))
}

// Verify that FeedRelay implements the Relay interface at compile time
var _ relaypkg.Relay = (*FeedRelay)(nil)
