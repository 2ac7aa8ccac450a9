package geo

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultBridgeFreshness is how long a pushed fix is served without waiting for a new one.
const DefaultBridgeFreshness = 2 * time.Minute

// Bridge holds fixes pushed by a native host wrapping the page. It serves the
// latest fix while fresh and otherwise waits for the next push.
type Bridge struct {
	mu        sync.Mutex
	last      *Reading
	at        time.Time
	waiters   []chan Reading
	Freshness time.Duration
	now       func() time.Time
}

func NewBridge() *Bridge {
	return &Bridge{Freshness: DefaultBridgeFreshness, now: time.Now}
}

// Push stores a host fix and wakes any pending lookups.
func (b *Bridge) Push(lat, lon float64, accuracy *float64) (Reading, error) {
	r := Reading{Latitude: lat, Longitude: lon, Source: SourceHostBridge}
	if accuracy != nil {
		r.Accuracy = floatPtr(*accuracy)
	}
	if !r.Valid() {
		return Reading{}, errors.New("host fix out of range")
	}

	b.mu.Lock()
	b.last = &r
	b.at = b.clock()
	waiters := b.waiters
	b.waiters = nil
	b.mu.Unlock()

	for _, w := range waiters {
		w <- r
	}
	return r, nil
}

// Last returns the most recent fix regardless of age.
func (b *Bridge) Last() (Reading, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.last == nil {
		return Reading{}, false
	}
	return *b.last, true
}

func (b *Bridge) CurrentPosition(ctx context.Context, _ PositionOptions) (Reading, error) {
	b.mu.Lock()
	if b.last != nil && b.clock().Sub(b.at) <= b.Freshness {
		r := *b.last
		b.mu.Unlock()
		return r, nil
	}
	w := make(chan Reading, 1)
	b.waiters = append(b.waiters, w)
	b.mu.Unlock()

	select {
	case r := <-w:
		return r, nil
	case <-ctx.Done():
		b.drop(w)
		return Reading{}, ctx.Err()
	}
}

func (b *Bridge) drop(w chan Reading) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, c := range b.waiters {
		if c == w {
			b.waiters = append(b.waiters[:i], b.waiters[i+1:]...)
			return
		}
	}
}

func (b *Bridge) clock() time.Time {
	if b.now == nil {
		return time.Now()
	}
	return b.now()
}
