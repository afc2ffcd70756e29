package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront/pkg/logger"
)

// Origin groups the execution contexts that share one Area.
// A write through one context notifies every other context, never the writer itself.
type Origin struct {
	area        Area
	broadcaster Broadcaster
	log         logger.Logger
	now         func() time.Time
	replica     bool

	mu       sync.RWMutex
	contexts map[string]*Context
}

type OriginOption func(*Origin)

// WithBroadcaster also publishes every local write to other processes.
func WithBroadcaster(b Broadcaster) OriginOption {
	return func(o *Origin) { o.broadcaster = b }
}

// WithReplica marks the area as private to this process. Remote events are then
// written into it before listeners run, so they read the remote value.
func WithReplica() OriginOption {
	return func(o *Origin) { o.replica = true }
}

func WithLogger(l logger.Logger) OriginOption {
	return func(o *Origin) { o.log = l }
}

func WithClock(now func() time.Time) OriginOption {
	return func(o *Origin) { o.now = now }
}

func NewOrigin(area Area, opts ...OriginOption) *Origin {
	o := &Origin{
		area:     area,
		log:      logger.NewNop(),
		now:      time.Now,
		contexts: make(map[string]*Context),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Open attaches a new execution context. An empty id gets a random one.
// Opening an id that is already attached returns the existing context.
func (o *Origin) Open(id string) *Context {
	if id == "" {
		id = uuid.NewString()
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if c, ok := o.contexts[id]; ok {
		return c
	}
	c := &Context{
		id:        id,
		origin:    o,
		listeners: make(map[string]map[int]Listener),
	}
	o.contexts[id] = c
	return c
}

// Deliver dispatches an event that arrived from another process.
// Events written by a context of this origin were already dispatched locally and are dropped.
func (o *Origin) Deliver(e Event) {
	o.mu.RLock()
	_, local := o.contexts[e.Context]
	o.mu.RUnlock()
	if local {
		return
	}
	if o.replica {
		if err := o.apply(context.Background(), e); err != nil {
			o.log.Warn("apply remote storage event failed",
				logger.String("key", e.Key),
				logger.String("context", e.Context),
				logger.Error(err),
			)
			return
		}
	}
	o.dispatch(e, "")
}

func (o *Origin) apply(ctx context.Context, e Event) error {
	if e.Removed {
		return o.area.Remove(ctx, e.Key)
	}
	return o.area.Set(ctx, e.Key, e.Value)
}

func (o *Origin) detach(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.contexts, id)
}

func (o *Origin) written(ctx context.Context, e Event) {
	o.dispatch(e, e.Context)
	if o.broadcaster == nil {
		return
	}
	if err := o.broadcaster.Broadcast(ctx, e); err != nil {
		o.log.Warn("broadcast storage event failed",
			logger.String("key", e.Key),
			logger.String("context", e.Context),
			logger.Error(err),
		)
	}
}

func (o *Origin) dispatch(e Event, skip string) {
	o.mu.RLock()
	targets := make([]*Context, 0, len(o.contexts))
	for id, c := range o.contexts {
		if id == skip {
			continue
		}
		targets = append(targets, c)
	}
	o.mu.RUnlock()

	for _, c := range targets {
		c.notify(e)
	}
}

// Context is one execution context (a tab). It reads and writes the shared area
// and receives change events caused by other contexts.
type Context struct {
	id     string
	origin *Origin

	mu        sync.Mutex
	listeners map[string]map[int]Listener
	nextToken int
}

func (c *Context) ID() string {
	return c.id
}

func (c *Context) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.origin.area.Get(ctx, key)
}

func (c *Context) Set(ctx context.Context, key string, value []byte) error {
	if err := c.origin.area.Set(ctx, key, value); err != nil {
		return err
	}
	c.origin.written(ctx, Event{
		Key:     key,
		Value:   clone(value),
		Context: c.id,
		At:      c.origin.now().UTC(),
	})
	return nil
}

func (c *Context) Remove(ctx context.Context, key string) error {
	if err := c.origin.area.Remove(ctx, key); err != nil {
		return err
	}
	c.origin.written(ctx, Event{
		Key:     key,
		Removed: true,
		Context: c.id,
		At:      c.origin.now().UTC(),
	})
	return nil
}

// OnChange registers fn for changes of key made by other contexts.
func (c *Context) OnChange(key string, fn Listener) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	token := c.nextToken
	c.nextToken++
	if c.listeners[key] == nil {
		c.listeners[key] = make(map[int]Listener)
	}
	c.listeners[key][token] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners[key], token)
	}
}

// Close detaches the context; it stops receiving events.
func (c *Context) Close() {
	c.origin.detach(c.id)
}

func (c *Context) notify(e Event) {
	c.mu.Lock()
	fns := make([]Listener, 0, len(c.listeners[e.Key]))
	for _, fn := range c.listeners[e.Key] {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
