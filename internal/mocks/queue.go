package mocks

import (
	"errors"
	"sync"
)

// MockMessageQueue records published events and keeps subscribers so a test
// can push deliveries by hand with Deliver.
type MockMessageQueue struct {
	PublishFunc func(subject string, data []byte) error
	CloseFunc   func() error

	mu        sync.Mutex
	published map[string][][]byte
	handlers  map[string][]func([]byte) error
}

func NewMockMessageQueue() *MockMessageQueue {
	return &MockMessageQueue{
		published: make(map[string][][]byte),
		handlers:  make(map[string][]func([]byte) error),
	}
}

func (m *MockMessageQueue) Publish(subject string, data []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(subject, data)
	}
	m.mu.Lock()
	m.published[subject] = append(m.published[subject], data)
	m.mu.Unlock()
	return nil
}

func (m *MockMessageQueue) Subscribe(subject string, handler func([]byte) error) error {
	m.mu.Lock()
	m.handlers[subject] = append(m.handlers[subject], handler)
	m.mu.Unlock()
	return nil
}

func (m *MockMessageQueue) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Messages returns what was published on subject, oldest first.
func (m *MockMessageQueue) Messages(subject string) [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.published[subject]...)
}

func (m *MockMessageQueue) SubscriberCount(subject string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handlers[subject])
}

// Deliver hands data to every subscriber of subject.
func (m *MockMessageQueue) Deliver(subject string, data []byte) error {
	m.mu.Lock()
	handlers := append([]func([]byte) error(nil), m.handlers[subject]...)
	m.mu.Unlock()

	var errs []error
	for _, h := range handlers {
		errs = append(errs, h(data))
	}
	return errors.Join(errs...)
}
