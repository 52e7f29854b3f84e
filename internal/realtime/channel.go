package realtime

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ConnState describes the channel's connection lifecycle.
type ConnState string

const (
	StateDisconnected ConnState = "DISCONNECTED"
	StateConnecting   ConnState = "CONNECTING"
	StateConnected    ConnState = "CONNECTED"
)

// subscriptionBuffer bounds how far a slow consumer may lag before frames
// for its topic are dropped.
const subscriptionBuffer = 32

// Subscription is one caller's stream of decoded frames for a topic. It
// survives reconnects: the channel re-establishes the broker-side consumer
// transparently, so the caller never re-subscribes.
type Subscription struct {
	Topic string
	C     <-chan []byte

	ch       *Channel
	out      chan []byte
	canceled atomic.Bool
}

// Cancel releases the subscription. Frames already buffered may still be
// drained from C; no new ones arrive.
func (s *Subscription) Cancel() {
	if s.canceled.CompareAndSwap(false, true) {
		s.ch.remove(s)
	}
}

// Channel maintains one long-lived broker connection shared by every
// dashboard session in the process. On unexpected closure it waits a fixed
// delay and redials, unconditionally, for the life of the process.
type Channel struct {
	transport  Transport
	retryDelay time.Duration
	logger     *slog.Logger

	mu       sync.Mutex
	state    ConnState
	session  Session
	subs     []*Subscription
	watchers []chan bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewChannel constructs a channel over the given transport.
func NewChannel(transport Transport, retryDelay time.Duration, logger *slog.Logger) *Channel {
	if retryDelay <= 0 {
		retryDelay = 3 * time.Second
	}
	return &Channel{
		transport:  transport,
		retryDelay: retryDelay,
		logger:     logger,
		state:      StateDisconnected,
	}
}

// Connect starts the connect/retry loop. Calling it again while the loop is
// already running is a no-op.
func (c *Channel) Connect(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.state = StateConnecting
	c.wg.Add(1)
	go c.run(runCtx)
}

// Close stops the retry loop and tears down the current session.
func (c *Channel) Close() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
}

// State reports the current connection state.
func (c *Channel) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers interest in a topic. While disconnected the
// subscription is deferred and applied automatically once the channel
// reaches CONNECTED.
func (c *Channel) Subscribe(topic string) *Subscription {
	sub := &Subscription{Topic: topic, ch: c, out: make(chan []byte, subscriptionBuffer)}
	sub.C = sub.out

	c.mu.Lock()
	defer c.mu.Unlock()

	c.subs = append(c.subs, sub)
	if c.state == StateConnected && c.session != nil {
		c.startForward(c.session, sub)
	}
	return sub
}

// Publish sends one frame. While not CONNECTED the frame is dropped: the
// channel gives no delivery guarantee for offline publishes.
func (c *Channel) Publish(ctx context.Context, topic string, body []byte) {
	c.mu.Lock()
	session := c.session
	connected := c.state == StateConnected
	c.mu.Unlock()

	if !connected || session == nil {
		c.logger.Debug("publish dropped while disconnected", slog.String("topic", topic))
		return
	}
	if err := session.Publish(ctx, topic, body); err != nil {
		c.logger.Warn("publish failed", slog.String("topic", topic), slog.String("error", err.Error()))
	}
}

// ConnectionChanges returns a stream of connectivity flips: true on
// CONNECTED, false on loss. Slow readers miss intermediate flips rather
// than blocking the channel.
func (c *Channel) ConnectionChanges() <-chan bool {
	watcher := make(chan bool, 8)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.watchers = append(c.watchers, watcher)
	return watcher
}

func (c *Channel) run(ctx context.Context) {
	defer c.wg.Done()

	for {
		c.setState(StateConnecting)

		session, err := c.transport.Dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.setState(StateDisconnected)
				return
			}
			c.logger.Warn("broker dial failed", slog.String("error", err.Error()))
			if !c.sleep(ctx) {
				c.setState(StateDisconnected)
				return
			}
			continue
		}

		c.attach(session)

		select {
		case <-ctx.Done():
			session.Close()
			c.detach()
			return
		case err := <-session.Closed():
			if err != nil {
				c.logger.Warn("broker connection lost", slog.String("error", err.Error()))
			} else {
				c.logger.Warn("broker connection closed")
			}
			session.Close()
			c.detach()
		}

		if !c.sleep(ctx) {
			return
		}
	}
}

// attach installs the fresh session, re-establishes every live subscription
// and announces connectivity.
func (c *Channel) attach(session Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session = session
	c.state = StateConnected
	for _, sub := range c.subs {
		c.startForward(session, sub)
	}
	c.notify(true)
}

func (c *Channel) detach() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session = nil
	c.state = StateDisconnected
	c.notify(false)
}

func (c *Channel) setState(state ConnState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
}

// startForward consumes the broker-side stream for one subscription and
// feeds the caller's channel. Caller holds c.mu.
func (c *Channel) startForward(session Session, sub *Subscription) {
	frames, err := session.Subscribe(sub.Topic)
	if err != nil {
		c.logger.Error("subscribe failed", slog.String("topic", sub.Topic), slog.String("error", err.Error()))
		return
	}

	go func() {
		for frame := range frames {
			if sub.canceled.Load() {
				return
			}
			select {
			case sub.out <- frame:
			default:
				c.logger.Warn("subscriber lagging, frame dropped", slog.String("topic", sub.Topic))
			}
		}
	}()
}

func (c *Channel) remove(sub *Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, candidate := range c.subs {
		if candidate == sub {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			return
		}
	}
}

// notify fans a connectivity flip out to watchers. Caller holds c.mu.
func (c *Channel) notify(connected bool) {
	for _, watcher := range c.watchers {
		select {
		case watcher <- connected:
		default:
		}
	}
}

func (c *Channel) sleep(ctx context.Context) bool {
	timer := time.NewTimer(c.retryDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
