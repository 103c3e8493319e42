package overlay

import (
	"log"
	"sync"
	"sync/atomic"
)

const subscriberBufSize = 64

// Broker fans effect batches out to streaming clients of one overlay.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[int64]chan Batch
	nextID      atomic.Int64
	closed      bool
}

// NewBroker creates an empty broker
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[int64]chan Batch),
	}
}

// Subscribe registers a client. The channel is buffered; slow consumers
// have batches dropped. On a closed broker the channel is already closed.
func (b *Broker) Subscribe() (int64, <-chan Batch) {
	id := b.nextID.Add(1)
	ch := make(chan Batch, subscriberBufSize)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return id, ch
	}
	b.subscribers[id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel
func (b *Broker) Unsubscribe(id int64) {
	b.mu.Lock()
	ch, ok := b.subscribers[id]
	if ok {
		delete(b.subscribers, id)
		close(ch)
	}
	b.mu.Unlock()
}

// Present implements Presenter by publishing the batch to every subscriber
func (b *Broker) Present(batch Batch) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, ch := range b.subscribers {
		select {
		case ch <- batch:
		default:
			log.Printf("Overlay: dropping batch %d for slow subscriber %d", batch.Generation, id)
		}
	}
}

// Close disconnects every subscriber
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subscribers {
		delete(b.subscribers, id)
		close(ch)
	}
}

// ClientCount returns the number of active subscribers
func (b *Broker) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// EventName is the SSE event name for a batch
func EventName(batch Batch) string {
	return batch.State.String()
}

