package messaging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// ErrMemoryBufferFull is returned when a consumer group queue cannot accept more messages.
var ErrMemoryBufferFull = errors.New("messaging: memory buffer is full")

// MemoryConfig configures the in-process broker.
type MemoryConfig struct {
	// Buffer is the queue capacity per topic and group. Defaults to 1024.
	Buffer int
	// MaxAttempts bounds deliveries of a message whose handler keeps failing. Defaults to 3.
	MaxAttempts int
}

// Memory is an in-process broker for local runs and tests. Every group of a
// topic receives each message once; consumers in the same group compete.
// Messages published before any group subscribes are held for the first group.
type Memory struct {
	buffer      int
	maxAttempts int
	seq         atomic.Uint64

	mu     sync.Mutex
	topics map[string]*memoryTopic
	done   chan struct{}
	closed bool
}

type memoryTopic struct {
	groups  map[string]chan *Message
	backlog []*Message
}

// NewMemory constructs an in-process broker.
func NewMemory(cfg MemoryConfig) *Memory {
	if cfg.Buffer <= 0 {
		cfg.Buffer = 1024
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}

	return &Memory{
		buffer:      cfg.Buffer,
		maxAttempts: cfg.MaxAttempts,
		topics:      map[string]*memoryTopic{},
		done:        make(chan struct{}),
	}
}

// Close stops every consumer. Pending messages are discarded.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	return nil
}

// Publish enqueues msg for every group subscribed to topic.
func (m *Memory) Publish(ctx context.Context, topic string, msg Outgoing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return io.ErrClosedPipe
	}

	t := m.topic(topic)
	out := &Message{
		ID:        strconv.FormatUint(m.seq.Add(1), 10),
		Topic:     topic,
		Key:       msg.Key,
		Body:      append([]byte(nil), msg.Body...),
		Headers:   cloneHeaders(msg.Headers),
		Timestamp: time.Now(),
	}

	if len(t.groups) == 0 {
		if len(t.backlog) >= m.buffer {
			return ErrMemoryBufferFull
		}
		t.backlog = append(t.backlog, out)
		return nil
	}

	for _, ch := range t.groups {
		cp := *out
		select {
		case ch <- &cp:
		default:
			return ErrMemoryBufferFull
		}
	}
	return nil
}

// Consume delivers messages of topic for the group until ctx is done or the broker is closed.
func (m *Memory) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}

	co := newConsumeOptions(opts...)
	ch, err := m.subscribe(topic, co.group)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-m.done:
					return
				case msg := <-ch:
					m.deliver(ctx, ch, msg, handler)
				}
			}
		})
	}
	wg.Wait()

	select {
	case <-m.done:
		return nil
	default:
		return ctx.Err()
	}
}

func (m *Memory) deliver(ctx context.Context, ch chan *Message, msg *Message, handler Handler) {
	msg.Attempt++

	herr := callHandlerWithRecover(ctx, DriverMemory, func() error {
		return handler(ctx, msg)
	})
	if herr == nil {
		return
	}

	if msg.Attempt >= m.maxAttempts {
		slog.WarnContext(ctx, "memory handler failed, message dropped", "topic", msg.Topic, "attempt", msg.Attempt, "error", herr)
		return
	}

	select {
	case ch <- msg:
	default:
		slog.WarnContext(ctx, "memory queue full, message dropped", "topic", msg.Topic, "error", herr)
	}
}

func (m *Memory) subscribe(topic, group string) (chan *Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, io.ErrClosedPipe
	}

	t := m.topic(topic)
	if ch, ok := t.groups[group]; ok {
		return ch, nil
	}

	ch := make(chan *Message, m.buffer)
	for _, msg := range t.backlog {
		ch <- msg
	}
	t.backlog = nil
	t.groups[group] = ch
	return ch, nil
}

// topic must be called with m.mu held.
func (m *Memory) topic(name string) *memoryTopic {
	t, ok := m.topics[name]
	if !ok {
		t = &memoryTopic{groups: map[string]chan *Message{}}
		m.topics[name] = t
	}
	return t
}
