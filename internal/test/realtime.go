package test

import (
	"context"
	"errors"
	"sync"

	"github.com/patisserie-shop/storefront/internal/realtime"
)

// SessionStub is an in-memory broker session for channel and sync tests.
type SessionStub struct {
	mu        sync.Mutex
	subs      map[string]chan []byte
	published map[string][][]byte
	closed    chan error
	done      bool
}

// NewSessionStub creates a live stub session.
func NewSessionStub() *SessionStub {
	return &SessionStub{
		subs:      make(map[string]chan []byte),
		published: make(map[string][][]byte),
		closed:    make(chan error, 1),
	}
}

// Subscribe registers a topic stream fed via Emit.
func (s *SessionStub) Subscribe(topic string) (<-chan []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.subs[topic]
	if !ok {
		ch = make(chan []byte, 16)
		s.subs[topic] = ch
	}
	return ch, nil
}

// Publish records the frame for later inspection.
func (s *SessionStub) Publish(_ context.Context, topic string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return errors.New("session closed")
	}
	s.published[topic] = append(s.published[topic], body)
	return nil
}

// Closed exposes the session termination signal.
func (s *SessionStub) Closed() <-chan error { return s.closed }

// Close marks the session dead without signalling an abnormal loss.
func (s *SessionStub) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
	return nil
}

// Emit delivers a frame to the topic's subscribers, if any.
func (s *SessionStub) Emit(topic string, body []byte) {
	s.mu.Lock()
	ch, ok := s.subs[topic]
	s.mu.Unlock()

	if ok {
		ch <- body
	}
}

// Drop simulates an abnormal connection loss.
func (s *SessionStub) Drop(err error) {
	select {
	case s.closed <- err:
	default:
	}
}

// Published returns the frames published to a topic.
func (s *SessionStub) Published(topic string) [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([][]byte, len(s.published[topic]))
	copy(out, s.published[topic])
	return out
}

// TransportStub hands out stub sessions and reports each one on Dialed.
type TransportStub struct {
	DialFn func(ctx context.Context) (realtime.Session, error)
	Dialed chan *SessionStub
}

// NewTransportStub creates a transport whose dials always succeed.
func NewTransportStub() *TransportStub {
	return &TransportStub{Dialed: make(chan *SessionStub, 4)}
}

// Dial returns a fresh stub session, or delegates to the override.
func (t *TransportStub) Dial(ctx context.Context) (realtime.Session, error) {
	if t.DialFn != nil {
		return t.DialFn(ctx)
	}
	session := NewSessionStub()
	select {
	case t.Dialed <- session:
	default:
	}
	return session, nil
}

var (
	_ realtime.Session   = (*SessionStub)(nil)
	_ realtime.Transport = (*TransportStub)(nil)
)
