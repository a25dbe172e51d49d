// Package zmqfeed implements the feed transport over a ZeroMQ SUB socket.
//
// The node publishes its transaction stream on a PUB socket; this transport
// dials it, applies topic filters with the standard SUB subscribe options
// and hands raw frames to the relay's receive loop. Closing the socket
// unblocks a pending Recv, which is how the relay tears the loop down.
package zmqfeed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-zeromq/zmq4"

	"github.com/rmacdonaldsmith/txrelay-go/pkg/transport"
)

// ErrNotConnected is returned when the transport is used before Connect.
var ErrNotConnected = errors.New("feed transport is not connected")

// Transport is a ZeroMQ SUB socket implementation of transport.Transport.
type Transport struct {
	mu   sync.Mutex
	sock zmq4.Socket
}

// New creates an unconnected ZeroMQ feed transport.
func New() *Transport {
	return &Transport{}
}

// Connect dials the feed endpoint. The socket is bound to ctx: cancelling it
// unblocks any pending Recv. Connecting twice is a no-op.
func (t *Transport) Connect(ctx context.Context, endpoint string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sock != nil {
		return nil
	}

	sock := zmq4.NewSub(ctx)
	if err := sock.Dial(endpoint); err != nil {
		return fmt.Errorf("failed to dial %s: %w", endpoint, err)
	}

	t.sock = sock
	return nil
}

// Subscribe applies a topic filter on the SUB socket.
func (t *Transport) Subscribe(topic string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sock == nil {
		return ErrNotConnected
	}
	if err := t.sock.SetOption(zmq4.OptionSubscribe, topic); err != nil {
		return fmt.Errorf("failed to subscribe to %q: %w", topic, err)
	}
	return nil
}

// Unsubscribe drops a topic filter from the SUB socket.
func (t *Transport) Unsubscribe(topic string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sock == nil {
		return ErrNotConnected
	}
	if err := t.sock.SetOption(zmq4.OptionUnsubscribe, topic); err != nil {
		return fmt.Errorf("failed to unsubscribe from %q: %w", topic, err)
	}
	return nil
}

// Recv blocks for the next raw message. Cancellation comes from the Connect
// context or from Close; both unblock the underlying socket.
func (t *Transport) Recv(ctx context.Context) ([]byte, error) {
	t.mu.Lock()
	sock := t.sock
	t.mu.Unlock()

	if sock == nil {
		return nil, ErrNotConnected
	}

	msg, err := sock.Recv()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("feed receive failed: %w", err)
	}
	return msg.Bytes(), nil
}

// Close releases the socket. Closing a closed transport is a no-op.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sock == nil {
		return nil
	}
	err := t.sock.Close()
	t.sock = nil
	if err != nil {
		return fmt.Errorf("failed to close feed socket: %w", err)
	}
	return nil
}

// Verify that Transport implements the transport interface at compile time
var _ transport.Transport = (*Transport)(nil)
