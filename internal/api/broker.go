package api

import "sync"

// BinEvent is one live update fanned out to dashboard subscribers.
type BinEvent struct {
	Type string
	Data map[string]any
}

// Broker fans bin events out to in-process subscribers. Delivery is
// best-effort: a subscriber that falls behind its channel buffer misses
// events instead of stalling the publisher.
type Broker struct {
	mu     sync.RWMutex
	topics map[string]map[chan BinEvent]struct{}
}

func NewBroker() *Broker {
	return &Broker{topics: make(map[string]map[chan BinEvent]struct{})}
}

// Subscribe registers a buffered channel for one bin's events.
func (b *Broker) Subscribe(binID string) chan BinEvent {
	ch := make(chan BinEvent, 8)
	b.mu.Lock()
	defer b.mu.Unlock()
	set, ok := b.topics[binID]
	if !ok {
		set = make(map[chan BinEvent]struct{})
		b.topics[binID] = set
	}
	set[ch] = struct{}{}
	return ch
}

// Unsubscribe detaches and closes ch. The topic disappears with its last
// subscriber; the close happens after removal so no publisher still holds
// the channel.
func (b *Broker) Unsubscribe(binID string, ch chan BinEvent) {
	b.mu.Lock()
	if set := b.topics[binID]; set != nil {
		delete(set, ch)
		if len(set) == 0 {
			delete(b.topics, binID)
		}
	}
	b.mu.Unlock()
	close(ch)
}

// Publish sends evt to every current subscriber of the bin, dropping it for
// any whose buffer is full.
func (b *Broker) Publish(binID string, evt BinEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.topics[binID] {
		select {
		case ch <- evt:
		default:
		}
	}
}
