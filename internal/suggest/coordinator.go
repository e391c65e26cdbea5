package suggest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ghosttype/ghosttype/internal/logging"
)

// DefaultDebounce is the delay between the last keystroke and the engine
// request.
const DefaultDebounce = 100 * time.Millisecond

// DefaultMinWordLength is the shortest word forwarded to the engine.
const DefaultMinWordLength = 2

// DefaultLimit is the default maximum number of suggestions requested.
const DefaultLimit = 9

// Listener receives coordinator results. An empty slice means the
// suggestion list for the surface should be cleared.
type Listener func(surfaceID string, suggestions []Suggestion)

// Options configures a Coordinator. Zero values select defaults.
type Options struct {
	Debounce      time.Duration
	MinWordLength int
	Limit         int
	CacheSize     int
	Logger        *logging.Logger
}

// surfaceRequest tracks the in-flight request state for one surface.
type surfaceRequest struct {
	seq    uint64
	timer  *time.Timer
	cancel context.CancelFunc
}

// Coordinator debounces and sequences completion requests per surface.
//
// Ordering guarantee: a response is delivered only if no newer request for
// the same surface has been issued since, enforced by comparing a
// monotonically increasing per-surface sequence number. Arrival order is
// irrelevant.
type Coordinator struct {
	mu       sync.Mutex
	engine   Engine
	listener Listener
	logger   *logging.Logger

	debounce time.Duration
	minWord  int
	limit    int

	cache    *Cache
	requests map[string]*surfaceRequest
	closed   bool

	readyOnce sync.Once
	readyErr  error
	readyDone chan struct{}
}

// NewCoordinator creates a coordinator for the given engine. The listener
// is invoked from timer goroutines; callers serialize their own state.
func NewCoordinator(engine Engine, listener Listener, opts Options) *Coordinator {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.MinWordLength <= 0 {
		opts.MinWordLength = DefaultMinWordLength
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Null
	}
	return &Coordinator{
		engine:    engine,
		listener:  listener,
		logger:    logger.WithComponent("suggest"),
		debounce:  opts.Debounce,
		minWord:   opts.MinWordLength,
		limit:     opts.Limit,
		cache:     NewCache(opts.CacheSize),
		requests:  make(map[string]*surfaceRequest),
		readyDone: make(chan struct{}),
	}
}

// SetDebounce updates the debounce interval for subsequent requests.
func (c *Coordinator) SetDebounce(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d > 0 {
		c.debounce = d
	}
}

// SetMinWordLength updates the minimum word length gate.
func (c *Coordinator) SetMinWordLength(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n > 0 {
		c.minWord = n
	}
}

// SetLimit updates the requested suggestion count.
func (c *Coordinator) SetLimit(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n > 0 {
		c.limit = n
	}
}

// Request asks for completions of word in the given surface. The call
// returns immediately; results arrive through the listener. A new call
// for the same surface cancels any pending debounce timer and supersedes
// any in-flight engine request.
//
// Words shorter than the minimum length, or blank, resolve to an empty
// list without contacting the engine.
func (c *Coordinator) Request(surfaceID, word string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	req := c.supersedeLocked(surfaceID)
	req.seq++
	seq := req.seq

	if len([]rune(word)) < c.minWord || strings.TrimSpace(word) == "" {
		c.mu.Unlock()
		c.deliver(surfaceID, seq, nil)
		return
	}

	if cached, ok := c.cache.Get(word); ok {
		c.mu.Unlock()
		c.deliver(surfaceID, seq, cached)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	req.cancel = cancel
	limit := c.limit
	req.timer = time.AfterFunc(c.debounce, func() {
		c.fetch(ctx, surfaceID, seq, word, limit)
	})
	c.mu.Unlock()
}

// Cancel drops any pending or in-flight request for a surface. No result
// is delivered for the canceled request.
func (c *Coordinator) Cancel(surfaceID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	req, ok := c.requests[surfaceID]
	if !ok {
		return
	}
	c.stopLocked(req)
	// Bump the sequence so a response already past cancellation is
	// discarded on arrival.
	req.seq++
}

// Close cancels all pending work. The coordinator must not be used after
// Close.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for _, req := range c.requests {
		c.stopLocked(req)
	}
}

// supersedeLocked stops outstanding work for a surface and returns its
// request record. Caller holds c.mu.
func (c *Coordinator) supersedeLocked(surfaceID string) *surfaceRequest {
	req, ok := c.requests[surfaceID]
	if !ok {
		req = &surfaceRequest{}
		c.requests[surfaceID] = req
	}
	c.stopLocked(req)
	return req
}

// stopLocked cancels the timer and in-flight context of a request record.
func (c *Coordinator) stopLocked(req *surfaceRequest) {
	if req.timer != nil {
		req.timer.Stop()
		req.timer = nil
	}
	if req.cancel != nil {
		req.cancel()
		req.cancel = nil
	}
}

// fetch runs after the debounce interval: it awaits engine readiness,
// issues the engine call, and delivers the response unless superseded.
func (c *Coordinator) fetch(ctx context.Context, surfaceID string, seq uint64, word string, limit int) {
	if err := c.awaitReady(ctx); err != nil {
		if ctx.Err() == nil {
			c.logger.Warn("engine unavailable: %v", err)
			c.deliver(surfaceID, seq, nil)
		}
		return
	}

	resp, err := c.engine.Complete(ctx, Request{Prefix: word, Limit: limit})
	if err != nil {
		// A canceled request was superseded; stay silent. Anything
		// else is transient: log and clear.
		if ctx.Err() == nil {
			c.logger.Warn("completion failed for %q: %v", word, err)
			c.deliver(surfaceID, seq, nil)
		}
		return
	}

	suggestions := resp.Suggestions
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	c.cache.Set(word, suggestions)
	c.deliver(surfaceID, seq, suggestions)
}

// deliver forwards a result to the listener if it is still current.
func (c *Coordinator) deliver(surfaceID string, seq uint64, suggestions []Suggestion) {
	c.mu.Lock()
	req, ok := c.requests[surfaceID]
	stale := !ok || req.seq != seq || c.closed
	c.mu.Unlock()

	if stale || c.listener == nil {
		return
	}
	c.listener(surfaceID, suggestions)
}

// awaitReady blocks until the engine reports ready. Readiness is resolved
// once; requests issued before that point queue here rather than being
// dropped.
func (c *Coordinator) awaitReady(ctx context.Context) error {
	go c.readyOnce.Do(func() {
		c.readyErr = c.engine.Ready(context.Background())
		close(c.readyDone)
	})

	select {
	case <-c.readyDone:
		if c.readyErr != nil {
			return ErrEngineNotReady
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
