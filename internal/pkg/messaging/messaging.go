package messaging

import (
	"context"
	"errors"
	"io"
	"maps"
	"time"
)

// HeaderCorrelationID carries the request correlation id across brokers.
const HeaderCorrelationID = "cID"

var (
	// ErrTopicRequired is returned when the topic is empty.
	ErrTopicRequired = errors.New("messaging: topic is required")
	// ErrHandlerRequired is returned when Consume is called with a nil handler.
	ErrHandlerRequired = errors.New("messaging: handler is required")
	// ErrGroupRequired is returned when the driver needs a consumer group and none was given.
	ErrGroupRequired = errors.New("messaging: consumer group is required")
)

// Messaging is a broker-agnostic client that can publish and consume messages.
type Messaging interface {
	io.Closer

	// Publish sends msg to topic.
	Publish(ctx context.Context, topic string, msg Outgoing) error

	// Consume blocks delivering messages from topic to handler until ctx is
	// canceled or the client is closed. A nil handler error acknowledges the
	// message; a non-nil error asks the broker to redeliver it when the
	// broker supports that.
	Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes a received message.
type Handler func(ctx context.Context, msg *Message) error

// Outgoing is a message to be published.
type Outgoing struct {
	// Key is used for partitioning on Kafka and ordering on Pub/Sub.
	Key string
	// Body is the message payload.
	Body []byte
	// Headers are string key/value pairs carried next to the payload.
	Headers map[string]string
}

// Message is a received message.
type Message struct {
	ID        string
	Topic     string
	Key       string
	Body      []byte
	Headers   map[string]string
	Attempt   int
	Timestamp time.Time
}

// Header returns the header value for key, or "" when absent.
func (m *Message) Header(key string) string {
	if m == nil || m.Headers == nil {
		return ""
	}
	return m.Headers[key]
}

func cloneHeaders(h map[string]string) map[string]string {
	if len(h) == 0 {
		return map[string]string{}
	}
	return maps.Clone(h)
}
