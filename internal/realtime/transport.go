package realtime

import "context"

// Transport abstracts the broker protocol behind the channel. Dial
// establishes one session; the channel owns reconnection on top of it.
type Transport interface {
	Dial(ctx context.Context) (Session, error)
}

// Session is one live broker connection.
type Session interface {
	// Subscribe registers interest in a topic and returns the stream of raw
	// frames. The stream is closed when the session dies.
	Subscribe(topic string) (<-chan []byte, error)
	// Publish sends one frame to a topic.
	Publish(ctx context.Context, topic string, body []byte) error
	// Closed signals unexpected session termination.
	Closed() <-chan error
	// Close releases the session.
	Close() error
}
