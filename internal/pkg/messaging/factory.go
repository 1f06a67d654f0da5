package messaging

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Driver names accepted by messaging.driver.
const (
	DriverMemory       = "memory"
	DriverNSQ          = "nsq"
	DriverNATS         = "nats"
	DriverKafka        = "kafka"
	DriverGooglePubSub = "google-pubsub"
)

var ErrUnknownDriver = errors.New("messaging: unknown driver")

// FactoryOptions carries the config of every backend; only the selected
// driver's section is read.
type FactoryOptions struct {
	Memory MemoryConfig
	NSQ    NSQConfig
	Kafka  KafkaConfig
	NATS   NATSConfig
	PubSub PubSubConfig
}

type constructor func(ctx context.Context, opts FactoryOptions) (Messaging, error)

var constructors = map[string]constructor{
	DriverMemory: func(_ context.Context, o FactoryOptions) (Messaging, error) {
		return NewMemory(o.Memory), nil
	},
	DriverNSQ: func(_ context.Context, o FactoryOptions) (Messaging, error) {
		return NewNSQ(o.NSQ)
	},
	DriverKafka: func(_ context.Context, o FactoryOptions) (Messaging, error) {
		return NewKafka(o.Kafka)
	},
	DriverNATS: func(_ context.Context, o FactoryOptions) (Messaging, error) {
		return NewNATS(o.NATS)
	},
	DriverGooglePubSub: func(ctx context.Context, o FactoryOptions) (Messaging, error) {
		return NewPubSub(ctx, o.PubSub)
	},
}

// Drivers lists the accepted driver names in sorted order.
func Drivers() []string {
	names := lo.Keys(constructors)
	slices.Sort(names)
	return names
}

// NewFromDriver builds the backend named by driver. An empty name selects the
// memory broker, which is what single-process deployments and tests use.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Messaging, error) {
	name := strings.ToLower(strings.TrimSpace(driver))
	if name == "" {
		name = DriverMemory
	}

	build, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownDriver, driver, strings.Join(Drivers(), ", "))
	}
	return build(ctx, opts)
}
