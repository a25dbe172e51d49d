package zmqfeed

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-zeromq/zmq4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Exercising real SUB socket traffic needs a running PUB endpoint and a
// settled subscription, so wire-level behavior is left to manual testing
// against a node. These tests cover the state handling around the socket.

func TestTransport_UseBeforeConnect(t *testing.T) {
	tr := New()

	assert.ErrorIs(t, tr.Subscribe("tx"), ErrNotConnected)
	assert.ErrorIs(t, tr.Unsubscribe("tx"), ErrNotConnected)

	_, err := tr.Recv(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestTransport_CloseIsIdempotent(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())
}

func TestTransport_ConnectAndClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pub := zmq4.NewPub(ctx)
	require.NoError(t, pub.Listen("tcp://127.0.0.1:0"))
	defer pub.Close()
	endpoint := fmt.Sprintf("tcp://%s", pub.Addr().String())

	tr := New()
	require.NoError(t, tr.Connect(ctx, endpoint))
	require.NoError(t, tr.Connect(ctx, endpoint), "second connect is a no-op")

	assert.NoError(t, tr.Subscribe("tx"))
	assert.NoError(t, tr.Unsubscribe("tx"))

	require.NoError(t, tr.Close())
	assert.ErrorIs(t, tr.Subscribe("tx"), ErrNotConnected)
}
