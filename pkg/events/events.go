package events

// Publisher defines the interface for publishing events to a message queue.
type Publisher interface {
	Publish(queueName string, body []byte) error
	Close() error
}
