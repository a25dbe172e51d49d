// Package relay defines the public surface of the transaction feed relay.
//
// This package holds the core abstractions:
//   - Relay: subscribe/unsubscribe against logical feed topics
//   - Handler: the callback a subscriber registers for a topic
//   - Event: the normalized payload delivered for each matched transaction
//   - SubscriptionID: the opaque handle returned by Subscribe
//
// The relay is lazy: the upstream connection is opened by the first
// subscription and closed when the last one is removed. Subscribers never
// see raw feed lines; they receive Events that have already been parsed,
// classified by tag and joined with the bundle's application payload.
//
// Example usage:
//
//	id, err := r.Subscribe("tx", func(topic string, ev relay.Event) {
//		fmt.Printf("%s %s from %s\n", ev.Kind, ev.Hash, ev.Address)
//	})
//	if err != nil {
//		return err
//	}
//	defer r.Unsubscribe(id)
package relay
