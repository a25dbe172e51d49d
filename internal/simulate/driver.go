// Package simulate manufactures synthetic marketplace traffic.
//
// The driver publishes feed lines in the node's wire format over a ZeroMQ
// PUB socket, so a relay pointed at it behaves exactly as against a real
// node. Useful for demos and for exercising a deployment end to end.
package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/go-zeromq/zmq4"
	"github.com/rs/zerolog"

	"github.com/rmacdonaldsmith/txrelay-go/pkg/tags"
)

const hashLength = 81

// Driver publishes synthetic transaction lines on a PUB socket.
type Driver struct {
	endpoint string
	prefix   string
	interval time.Duration
	log      zerolog.Logger
}

// NewDriver creates a driver that listens on endpoint and tags its traffic
// with the given marketplace prefix.
func NewDriver(endpoint, prefix string, interval time.Duration) (*Driver, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint cannot be empty")
	}
	if !tags.Valid(prefix) || prefix == "" {
		return nil, fmt.Errorf("prefix must be non-empty trytes")
	}
	if len(prefix) > tags.MaxPrefixLength {
		return nil, fmt.Errorf("prefix longer than %d leaves no room for a kind code", tags.MaxPrefixLength)
	}
	if interval <= 0 {
		interval = time.Second
	}

	return &Driver{
		endpoint: endpoint,
		prefix:   prefix,
		interval: interval,
		log:      zerolog.Nop(),
	}, nil
}

// WithLogger sets the driver's logger.
func (d *Driver) WithLogger(logger zerolog.Logger) *Driver {
	d.log = logger.With().Str("component", "simulator").Logger()
	return d
}

// Run publishes lines until the context is done.
func (d *Driver) Run(ctx context.Context) error {
	pub := zmq4.NewPub(ctx)
	if err := pub.Listen(d.endpoint); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", d.endpoint, err)
	}
	defer func() {
		if err := pub.Close(); err != nil {
			d.log.Debug().Err(err).Msg("publisher close")
		}
	}()

	d.log.Info().Str("endpoint", d.endpoint).Dur("interval", d.interval).Msg("simulator started")

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			line := d.NextLine()
			if err := pub.Send(zmq4.NewMsgString(line)); err != nil {
				return fmt.Errorf("failed to publish line: %w", err)
			}
			d.log.Debug().Str("line", line).Msg("published")
		}
	}
}

// NextLine renders one synthetic transaction line in the feed wire format:
// topic, hash, address, value, obsolete tag, timestamp, current index, last
// index, bundle, trunk, branch, arrival time, tag.
func (d *Driver) NextLine() string {
	kinds := tags.Kinds()
	kind := kinds[rand.Intn(len(kinds))]
	now := time.Now().Unix()

	fields := []string{
		"tx",
		randomTrytes(hashLength),
		randomTrytes(hashLength),
		fmt.Sprintf("%d", rand.Intn(10000)),
		tags.New(d.prefix, kind),
		fmt.Sprintf("%d", now),
		"0",
		"0",
		randomTrytes(hashLength),
		randomTrytes(hashLength),
		randomTrytes(hashLength),
		fmt.Sprintf("%d", now),
		tags.New(d.prefix, kind),
	}
	return strings.Join(fields, " ")
}

func randomTrytes(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(tags.Alphabet[rand.Intn(len(tags.Alphabet))])
	}
	return b.String()
}
