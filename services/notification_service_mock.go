package services

import "sync"

// MockNotificationDispatcher is a mock implementation of NotificationDispatcher for testing
type MockNotificationDispatcher struct {
	mu            sync.Mutex
	sent          []OrderConfirmation
	FailWithError error
}

// NewMockNotificationDispatcher creates a new mock dispatcher
func NewMockNotificationDispatcher() *MockNotificationDispatcher {
	return &MockNotificationDispatcher{}
}

// SetAsMockForTesting sets this mock as the global dispatcher instance for testing
func (m *MockNotificationDispatcher) SetAsMockForTesting() {
	SetNotificationDispatcher(m)
}

// SendOrderConfirmation records the confirmation instead of delivering it
func (m *MockNotificationDispatcher) SendOrderConfirmation(confirmation OrderConfirmation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWithError != nil {
		return m.FailWithError
	}
	m.sent = append(m.sent, confirmation)
	return nil
}

// Sent returns a copy of the confirmations recorded so far
func (m *MockNotificationDispatcher) Sent() []OrderConfirmation {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]OrderConfirmation, len(m.sent))
	copy(out, m.sent)
	return out
}
