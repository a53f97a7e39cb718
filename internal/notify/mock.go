package notify

import (
	"context"
	"sync"
)

// Mock records sent messages for tests.
type Mock struct {
	mu       sync.Mutex
	Messages []MockMessage
	Err      error
}

type MockMessage struct {
	UserKey string
	Message string
}

func (m *Mock) Send(_ context.Context, userKey, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Messages = append(m.Messages, MockMessage{UserKey: userKey, Message: message})
	return nil
}

func (m *Mock) Sent() []MockMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockMessage, len(m.Messages))
	copy(out, m.Messages)
	return out
}
