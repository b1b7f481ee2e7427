package api

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
)

type EventBroker interface {
	Subscribe(binID string) chan BinEvent
	Unsubscribe(binID string, ch chan BinEvent)
	Publish(binID string, evt BinEvent)
}

// In-memory broker already implemented in broker.go and satisfies EventBroker

// RedisBroker implements EventBroker over Redis Pub/Sub so multiple API
// replicas see every sensor update.
type RedisBroker struct {
	rdb *redis.Client

	mu  sync.Mutex
	pss map[chan BinEvent]*redis.PubSub
}

func NewRedisBroker(url string) (*RedisBroker, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	return &RedisBroker{rdb: rdb, pss: map[chan BinEvent]*redis.PubSub{}}, nil
}

func (b *RedisBroker) Subscribe(binID string) chan BinEvent {
	ch := make(chan BinEvent, 16)
	ctx := context.Background()
	ps := b.rdb.Subscribe(ctx, b.chanName(binID))
	// initial consume to ensure subscription
	_, _ = ps.Receive(ctx)
	b.mu.Lock()
	b.pss[ch] = ps
	b.mu.Unlock()
	go func() {
		defer close(ch)
		for msg := range ps.Channel() {
			var evt BinEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err == nil {
				select {
				case ch <- evt:
				default:
				}
			}
		}
	}()
	return ch
}

func (b *RedisBroker) Unsubscribe(binID string, ch chan BinEvent) {
	b.mu.Lock()
	ps := b.pss[ch]
	delete(b.pss, ch)
	b.mu.Unlock()
	if ps != nil {
		// closing the PubSub ends ps.Channel, which closes ch via the reader
		_ = ps.Close()
	}
}

func (b *RedisBroker) Publish(binID string, evt BinEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	data, _ := json.Marshal(evt)
	_ = b.rdb.Publish(ctx, b.chanName(binID), data).Err()
}

func (b *RedisBroker) chanName(binID string) string { return "bin:" + binID }
