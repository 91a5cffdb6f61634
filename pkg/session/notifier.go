package session

import "context"

// watchBuffer bounds each watch channel; slow consumers drop the oldest
// update rather than blocking a session transition.
const watchBuffer = 8

// Subscribe registers a synchronous observer invoked on every session
// transition, in registration order, before the mutating operation
// returns. The observer is immediately invoked with the current snapshot.
//
// Observers must not call mutating coordinator operations; use Watch for
// consumers that react asynchronously.
func (c *Coordinator) Subscribe(fn func(Snapshot)) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	fn(snap)
}

// Watch returns a channel of session snapshots. The current snapshot is
// delivered first. The subscription ends when ctx is cancelled; updates to
// a full channel evict the oldest buffered snapshot, so a reader always
// converges on the latest state.
func (c *Coordinator) Watch(ctx context.Context) <-chan Snapshot {
	ch := make(chan Snapshot, watchBuffer)

	c.mu.Lock()
	id := c.nextWatch
	c.nextWatch++
	c.watchers[id] = ch
	snap := c.snapshotLocked()
	c.mu.Unlock()

	ch <- snap

	go func() {
		<-ctx.Done()
		c.mu.Lock()
		delete(c.watchers, id)
		c.mu.Unlock()
	}()

	return ch
}

// publish fans a snapshot out to synchronous observers and watch channels.
// Called outside the state mutex so observers may read coordinator state.
func (c *Coordinator) publish(snap Snapshot) {
	c.mu.Lock()
	observers := make([]func(Snapshot), len(c.observers))
	copy(observers, c.observers)
	watchers := make([]chan Snapshot, 0, len(c.watchers))
	for _, ch := range c.watchers {
		watchers = append(watchers, ch)
	}
	c.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}

	for _, ch := range watchers {
		for {
			select {
			case ch <- snap:
			default:
				// Full buffer: drop the oldest and retry with the newest.
				select {
				case <-ch:
				default:
				}
				continue
			}
			break
		}
	}
}
