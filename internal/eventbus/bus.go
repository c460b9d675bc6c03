// Package eventbus is a small in-memory, non-blocking fan-out of newsroom
// events. Publishers never wait on subscribers; a slow subscriber drops
// events once its buffer is full.
package eventbus

import (
	"sync"
	"time"
)

// Event types.
const (
	ArticlePublished = "article.published"
	NotifyCompleted  = "notify.completed"
)

// Event is a lightweight signal. Data should be one of the payload types
// below so subscribers can type-switch on it.
type Event struct {
	Type string
	Time time.Time
	Data any
}

// Published is the payload of ArticlePublished.
type Published struct {
	Title       string `json:"title"`
	AuthorEmail string `json:"author_email"`
}

// Notified is the payload of NotifyCompleted.
type Notified struct {
	Title  string `json:"title"`
	Sent   int    `json:"sent"`
	Failed int    `json:"failed"`
	Error  string `json:"error,omitempty"`
}

type Bus interface {
	Publish(e Event)
	Subscribe(buffer int) (ch <-chan Event, unsubscribe func())
}

// New returns an in-memory bus. It owns no goroutines.
func New() Bus {
	return &memBus{subs: map[uint64]chan Event{}}
}

type memBus struct {
	mu   sync.RWMutex
	subs map[uint64]chan Event
	next uint64
}

func (b *memBus) Publish(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	// Holding the read lock keeps unsubscribe (which closes the channel)
	// from racing with the sends below.
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

func (b *memBus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 8
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	b.next++
	id := b.next
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			close(ch)
			b.mu.Unlock()
		})
	}
}
