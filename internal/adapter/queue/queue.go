package queue

import (
	"fmt"

	"go.uber.org/zap"
)

// Subjects published by the store.
const (
	SubjectAssistantQueries = "assistant.queries"
	SubjectOrdersCreated    = "orders.created"
	SubjectOrdersStatus     = "orders.status"
	SubjectCatalogUpdated   = "catalog.updated"
)

// MessageQueue defines the interface for a message queue adapter
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Close() error
}

// New connects the driver named by driver ("nats", "rabbitmq" or "memory").
func New(driver, natsURL, rabbitURL string, log *zap.Logger) (MessageQueue, error) {
	switch driver {
	case "nats":
		return NewNATSQueue(natsURL, log)
	case "rabbitmq":
		return NewRabbitMQQueue(rabbitURL, log)
	case "memory", "":
		return NewMemoryQueue(log), nil
	default:
		return nil, fmt.Errorf("unknown queue driver %q", driver)
	}
}
