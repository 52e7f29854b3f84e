package realtime

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type stubSession struct {
	mu       sync.Mutex
	subs     map[string][]chan []byte
	closed   chan error
	messages map[string][][]byte
}

func newStubSession() *stubSession {
	return &stubSession{
		subs:     make(map[string][]chan []byte),
		closed:   make(chan error, 1),
		messages: make(map[string][][]byte),
	}
}

func (s *stubSession) Subscribe(topic string) (<-chan []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan []byte, 8)
	s.subs[topic] = append(s.subs[topic], ch)
	return ch, nil
}

func (s *stubSession) Publish(_ context.Context, topic string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[topic] = append(s.messages[topic], body)
	return nil
}

func (s *stubSession) Closed() <-chan error { return s.closed }
func (s *stubSession) Close() error         { return nil }

func (s *stubSession) emit(topic string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs[topic] {
		ch <- body
	}
}

func (s *stubSession) drop(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chans := range s.subs {
		for _, ch := range chans {
			close(ch)
		}
	}
	s.subs = make(map[string][]chan []byte)
	s.closed <- err
}

func (s *stubSession) publishedCount(topic string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages[topic])
}

type stubTransport struct {
	dialed chan *stubSession
}

func newStubTransport() *stubTransport {
	return &stubTransport{dialed: make(chan *stubSession, 8)}
}

func (t *stubTransport) Dial(context.Context) (Session, error) {
	session := newStubSession()
	t.dialed <- session
	return session, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func waitSession(t *testing.T, tr *stubTransport) *stubSession {
	t.Helper()
	select {
	case s := <-tr.dialed:
		return s
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for dial")
		return nil
	}
}

func waitFlip(t *testing.T, changes <-chan bool, want bool) {
	t.Helper()
	select {
	case got := <-changes:
		if got != want {
			t.Fatalf("expected connectivity flip %v, got %v", want, got)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for connectivity flip %v", want)
	}
}

func waitFrame(t *testing.T, sub *Subscription) []byte {
	t.Helper()
	select {
	case frame := <-sub.C:
		return frame
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return nil
	}
}

func TestConnectIsIdempotent(t *testing.T) {
	transport := newStubTransport()
	channel := NewChannel(transport, 5*time.Millisecond, testLogger())
	defer channel.Close()

	channel.Connect(context.Background())
	channel.Connect(context.Background())

	waitSession(t, transport)
	select {
	case <-transport.dialed:
		t.Fatal("second Connect must not dial again")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribeBeforeConnectIsDeferred(t *testing.T) {
	transport := newStubTransport()
	channel := NewChannel(transport, 5*time.Millisecond, testLogger())
	defer channel.Close()

	sub := channel.Subscribe("orders.status")
	changes := channel.ConnectionChanges()

	channel.Connect(context.Background())
	session := waitSession(t, transport)
	waitFlip(t, changes, true)

	session.emit("orders.status", []byte(`{"orderId":1}`))
	if got := string(waitFrame(t, sub)); got != `{"orderId":1}` {
		t.Fatalf("unexpected frame %s", got)
	}
}

func TestPublishWhileDisconnectedIsDropped(t *testing.T) {
	transport := newStubTransport()
	channel := NewChannel(transport, 5*time.Millisecond, testLogger())
	defer channel.Close()

	channel.Publish(context.Background(), "app.ping", []byte("hello"))

	changes := channel.ConnectionChanges()
	channel.Connect(context.Background())
	session := waitSession(t, transport)
	waitFlip(t, changes, true)

	channel.Publish(context.Background(), "app.ping", []byte("hello"))
	if n := session.publishedCount("app.ping"); n != 1 {
		t.Fatalf("expected only the online publish to reach the broker, got %d", n)
	}
}

func TestReconnectReestablishesSubscriptions(t *testing.T) {
	transport := newStubTransport()
	channel := NewChannel(transport, 5*time.Millisecond, testLogger())
	defer channel.Close()

	changes := channel.ConnectionChanges()
	sub := channel.Subscribe("orders.status")

	channel.Connect(context.Background())
	first := waitSession(t, transport)
	waitFlip(t, changes, true)

	first.emit("orders.status", []byte("a"))
	waitFrame(t, sub)

	first.drop(errors.New("socket closed"))
	waitFlip(t, changes, false)

	second := waitSession(t, transport)
	waitFlip(t, changes, true)

	second.emit("orders.status", []byte("b"))
	if got := string(waitFrame(t, sub)); got != "b" {
		t.Fatalf("subscription should survive reconnect, got frame %s", got)
	}
}

func TestStateTransitions(t *testing.T) {
	transport := newStubTransport()
	channel := NewChannel(transport, 5*time.Millisecond, testLogger())

	if channel.State() != StateDisconnected {
		t.Fatalf("fresh channel should be DISCONNECTED, got %s", channel.State())
	}

	changes := channel.ConnectionChanges()
	channel.Connect(context.Background())
	waitSession(t, transport)
	waitFlip(t, changes, true)

	if channel.State() != StateConnected {
		t.Fatalf("expected CONNECTED, got %s", channel.State())
	}

	channel.Close()
	if channel.State() != StateDisconnected {
		t.Fatalf("expected DISCONNECTED after close, got %s", channel.State())
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	transport := newStubTransport()
	channel := NewChannel(transport, 5*time.Millisecond, testLogger())
	defer channel.Close()

	changes := channel.ConnectionChanges()
	sub := channel.Subscribe("orders.status")

	channel.Connect(context.Background())
	session := waitSession(t, transport)
	waitFlip(t, changes, true)

	sub.Cancel()
	session.emit("orders.status", []byte("late"))

	select {
	case frame := <-sub.C:
		t.Fatalf("canceled subscription received frame %s", frame)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestIndependentSubscriptionsOnSameTopic(t *testing.T) {
	transport := newStubTransport()
	channel := NewChannel(transport, 5*time.Millisecond, testLogger())
	defer channel.Close()

	changes := channel.ConnectionChanges()
	subA := channel.Subscribe("orders.status")
	subB := channel.Subscribe("orders.status")

	channel.Connect(context.Background())
	session := waitSession(t, transport)
	waitFlip(t, changes, true)

	session.emit("orders.status", []byte("x"))
	if string(waitFrame(t, subA)) != "x" || string(waitFrame(t, subB)) != "x" {
		t.Fatal("both subscriptions should receive the broadcast")
	}
}
