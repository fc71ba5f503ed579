package internal

import (
	"sync"

	"golang.org/x/exp/slices"
)

// This file defines the publish-subscribe mechanism used for status notifications in the SDK.
//
// The pattern is always the same: AddListener returns a new receive-only channel; RemoveListener
// unsubscribes that channel and closes its sending end; Broadcast sends a value to every
// subscribed channel; Close unsubscribes and closes all existing channels.

// Subscriber channels are buffered so that Broadcast is unlikely to block; it remains the
// consumer's responsibility to keep reading from the channel.
const subscriberChannelBufferLength = 10

// Broadcaster is our generalized implementation of broadcasters.
type Broadcaster[V any] struct {
	subscribers []channelPair[V]
	lock        sync.Mutex
}

// We have to retain both ends of each subscriber channel: the send end for Broadcast and Close,
// and the receive end so that RemoveListener can match the channel a caller hands back to us.
type channelPair[V any] struct {
	sendCh    chan<- V
	receiveCh <-chan V
}

// NewBroadcaster creates a Broadcaster that operates on the specified value type.
func NewBroadcaster[V any]() *Broadcaster[V] {
	return &Broadcaster[V]{}
}

// AddListener adds a subscriber and returns a channel for it to receive values.
func (b *Broadcaster[V]) AddListener() <-chan V {
	ch := make(chan V, subscriberChannelBufferLength)
	var receiveCh <-chan V = ch
	b.lock.Lock()
	defer b.lock.Unlock()
	b.subscribers = append(b.subscribers, channelPair[V]{sendCh: ch, receiveCh: receiveCh})
	return receiveCh
}

// RemoveListener removes a subscriber. The parameter is the same channel that was returned by
// AddListener.
func (b *Broadcaster[V]) RemoveListener(ch <-chan V) {
	b.lock.Lock()
	defer b.lock.Unlock()
	ss := b.subscribers
	for i, s := range ss {
		// Comparing the receive end is the reason channelPair exists: "s.sendCh == ch" would
		// never be true because the two channel types differ.
		if s.receiveCh == ch {
			copy(ss[i:], ss[i+1:])
			ss[len(ss)-1] = channelPair[V]{}
			b.subscribers = ss[:len(ss)-1]
			close(s.sendCh)
			break
		}
	}
}

// HasListeners returns true if there are any current subscribers.
func (b *Broadcaster[V]) HasListeners() bool {
	return len(b.subscribers) > 0
}

// Broadcast sends a value to all current subscribers.
func (b *Broadcaster[V]) Broadcast(value V) {
	b.lock.Lock()
	ss := slices.Clone(b.subscribers)
	b.lock.Unlock()
	for _, ch := range ss {
		ch.sendCh <- value
	}
}

// Close closes all current subscriber channels.
func (b *Broadcaster[V]) Close() {
	b.lock.Lock()
	defer b.lock.Unlock()
	for _, s := range b.subscribers {
		close(s.sendCh)
	}
	b.subscribers = nil
}
