package client

import (
	"context"
	"sync"

	"github.com/frahmantamala/workforce-admin/internal/core/events"
	"github.com/frahmantamala/workforce-admin/internal/request"
)

type (
	FetchRequestsFunc func(ctx context.Context) ([]*request.Request, error)
	ApplyRequestsFunc func(requests []*request.Request)
)

// RequestFeed keeps a local view of the request collection fresh. At most
// one fetch is in flight; triggers that arrive meanwhile collapse into a
// single follow-up fetch. Results that land after Close are dropped.
type RequestFeed struct {
	fetch   FetchRequestsFunc
	apply   ApplyRequestsFunc
	onError func(error)

	mu       sync.Mutex
	inFlight bool
	pending  bool
	closed   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRequestFeed(fetch FetchRequestsFunc, apply ApplyRequestsFunc, onError func(error)) *RequestFeed {
	if onError == nil {
		onError = func(error) {}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &RequestFeed{
		fetch:   fetch,
		apply:   apply,
		onError: onError,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Trigger asks for a refetch and never blocks.
func (f *RequestFeed) Trigger() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	if f.inFlight {
		f.pending = true
		return
	}
	f.inFlight = true
	f.wg.Add(1)
	go f.run()
}

func (f *RequestFeed) run() {
	defer f.wg.Done()

	for {
		requests, err := f.fetch(f.ctx)

		f.mu.Lock()
		if f.closed {
			f.inFlight = false
			f.mu.Unlock()
			return
		}
		// callbacks run under the lock so nothing is applied after Close
		if err != nil {
			f.onError(err)
		} else {
			f.apply(requests)
		}
		if !f.pending {
			f.inFlight = false
			f.mu.Unlock()
			return
		}
		f.pending = false
		f.mu.Unlock()
	}
}

// Close cancels the in-flight fetch and waits for it to return.
func (f *RequestFeed) Close() {
	f.mu.Lock()
	f.closed = true
	f.pending = false
	f.mu.Unlock()

	f.cancel()
	f.wg.Wait()
}

// Follow loads the collection once, then refetches on every
// requests.changed frame until ctx is done or the stream fails.
func (f *RequestFeed) Follow(ctx context.Context, c *Client) error {
	f.Trigger()
	return c.Subscribe(ctx, func(event string) {
		if event == events.EventTypeRequestsChanged {
			f.Trigger()
		}
	})
}
