package midi

import "sync"

// Message is a note message recorded by MockSink.
type Message struct {
	On   bool
	Note uint8
}

// MockSink is a test implementation of Sink that records every message.
type MockSink struct {
	mu       sync.Mutex
	messages []Message
	err      error
	closed   bool
}

// NewMockSink creates an empty MockSink.
func NewMockSink() *MockSink {
	return &MockSink{}
}

// SetError makes every following send fail with err.
func (m *MockSink) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// NoteOn records a note-on.
func (m *MockSink) NoteOn(note uint8) error {
	return m.record(Message{On: true, Note: note})
}

// NoteOff records a note-off.
func (m *MockSink) NoteOff(note uint8) error {
	return m.record(Message{On: false, Note: note})
}

func (m *MockSink) record(msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msg)
	return nil
}

// Messages returns a copy of the recorded messages.
func (m *MockSink) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.messages...)
}

// Close marks the sink closed.
func (m *MockSink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSink) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
