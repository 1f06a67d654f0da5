// Package messaging publishes and consumes messages over NSQ, NATS, Kafka,
// Google Pub/Sub or an in-process memory broker behind one interface.
//
// Every driver carries string headers (the correlation id travels as
// HeaderCorrelationID) and maps WithGroup onto its own consumer-group
// concept. A handler that returns nil acknowledges the message.
package messaging
