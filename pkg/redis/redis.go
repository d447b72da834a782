// Package redis provides ripple.Watcher implementations backed by Redis: a
// key watched through keyspace notifications, and a pub/sub channel.
//
// A ChannelWatcher has no current payload, so a Source started over one
// blocks until the first publish; set a StartupTimeout or publish first.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// writeEvents are the keyspace events that change a string key's value.
var writeEvents = map[string]bool{
	"set":      true,
	"setex":    true,
	"psetex":   true,
	"setnx":    true,
	"mset":     true,
	"setrange": true,
	"append":   true,
}

// KeyWatcher emits the value of a Redis string key each time it is written.
// Redis must have keyspace notifications enabled:
//
//	CONFIG SET notify-keyspace-events K$
type KeyWatcher struct {
	client *redis.Client
	key    string
	db     int
}

// Option configures a KeyWatcher.
type Option func(*KeyWatcher)

// WithDB sets the database index used in the keyspace channel. Default: 0.
func WithDB(db int) Option {
	return func(w *KeyWatcher) {
		w.db = db
	}
}

// New creates a KeyWatcher for key.
func New(client *redis.Client, key string, opts ...Option) *KeyWatcher {
	w := &KeyWatcher{client: client, key: key}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch subscribes before reading the current value so no write between the
// two is missed. A missing key emits nothing until it is first written.
func (w *KeyWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	channel := fmt.Sprintf("__keyspace@%d__:%s", w.db, w.key)
	pubsub := w.client.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to keyspace notifications: %w", err)
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		defer pubsub.Close()

		if !w.emitCurrent(ctx, out) {
			return
		}

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				if !writeEvents[msg.Payload] {
					continue
				}
				if !w.emitCurrent(ctx, out) {
					return
				}
			}
		}
	}()
	return out, nil
}

// emitCurrent sends the key's value, if any. It returns false once ctx is
// done.
func (w *KeyWatcher) emitCurrent(ctx context.Context, out chan<- []byte) bool {
	val, err := w.client.Get(ctx, w.key).Bytes()
	if err != nil {
		// redis.Nil means the key was deleted. Other read failures are
		// skipped; the next write reads again.
		return ctx.Err() == nil
	}
	select {
	case out <- val:
		return true
	case <-ctx.Done():
		return false
	}
}

// ChannelWatcher emits every message published on a Redis pub/sub channel.
// Messages published while nobody is watching are lost, so there is no
// initial payload.
type ChannelWatcher struct {
	client  *redis.Client
	channel string
}

// NewChannel creates a ChannelWatcher for channel.
func NewChannel(client *redis.Client, channel string) *ChannelWatcher {
	return &ChannelWatcher{client: client, channel: channel}
}

// Watch subscribes to the channel.
func (w *ChannelWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	pubsub := w.client.Subscribe(ctx, w.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", w.channel, err)
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		defer pubsub.Close()

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
