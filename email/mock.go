package email

import (
	"context"
	"sync"

	"github.com/MrEthical07/authcore/domain"
)

// Message is one recorded delivery.
type Message struct {
	Recipient domain.Email
	Subject   string
	Body      string
}

// MockClient records every Send for inspection instead of delivering. It is
// safe for concurrent use and meant for tests and local development.
type MockClient struct {
	mu       sync.Mutex
	messages []Message
	failWith error
}

// NewMockClient returns an empty recorder.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Send records the message, or returns the configured failure.
func (c *MockClient) Send(_ context.Context, recipient domain.Email, subject, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failWith != nil {
		return c.failWith
	}
	c.messages = append(c.messages, Message{
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
	})
	return nil
}

// Messages returns a copy of everything recorded so far.
func (c *MockClient) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// FailWith makes every subsequent Send return err. Pass nil to restore
// delivery.
func (c *MockClient) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failWith = err
}
