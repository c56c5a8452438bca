// Package testutil provides shared test helpers.
package testutil

import (
	"sync"

	"github.com/turtacn/refsign-check/internal/infrastructure/monitoring/logging"
)

// MockLogger implements logging.Logger and records every entry so tests can
// assert on what the engine reported.
type MockLogger struct {
	mu       sync.Mutex
	Messages []LogMessage
	name     string
	fields   []logging.Field
	parent   *MockLogger
}

// LogMessage represents a single log entry captured by MockLogger.
type LogMessage struct {
	Level   string
	Logger  string
	Message string
	Fields  []logging.Field
}

// NewMockLogger creates a new MockLogger instance.
func NewMockLogger() *MockLogger {
	return &MockLogger{Messages: make([]LogMessage, 0)}
}

func (m *MockLogger) root() *MockLogger {
	if m.parent != nil {
		return m.parent
	}
	return m
}

func (m *MockLogger) log(level, msg string, fields []logging.Field) {
	all := make([]logging.Field, 0, len(m.fields)+len(fields))
	all = append(all, m.fields...)
	all = append(all, fields...)

	r := m.root()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, LogMessage{
		Level:   level,
		Logger:  m.name,
		Message: msg,
		Fields:  all,
	})
}

func (m *MockLogger) Debug(msg string, fields ...logging.Field) { m.log("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...logging.Field)  { m.log("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...logging.Field)  { m.log("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...logging.Field) { m.log("error", msg, fields) }
func (m *MockLogger) Fatal(msg string, fields ...logging.Field) { m.log("fatal", msg, fields) }

// With returns a child that records into the same message list.
func (m *MockLogger) With(fields ...logging.Field) logging.Logger {
	child := &MockLogger{name: m.name, parent: m.root()}
	child.fields = append(append(child.fields, m.fields...), fields...)
	return child
}

// Named returns a child that records into the same message list.
func (m *MockLogger) Named(name string) logging.Logger {
	full := name
	if m.name != "" {
		full = m.name + "." + name
	}
	return &MockLogger{name: full, fields: m.fields, parent: m.root()}
}

func (m *MockLogger) Sync() error { return nil }

// GetMessages returns a copy of all logged messages.
func (m *MockLogger) GetMessages() []LogMessage {
	r := m.root()
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]LogMessage, len(r.Messages))
	copy(result, r.Messages)
	return result
}

// Clear removes all logged messages.
func (m *MockLogger) Clear() {
	r := m.root()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = r.Messages[:0]
}

// HasMessage checks if a message with the given level and content was logged.
func (m *MockLogger) HasMessage(level, msg string) bool {
	for _, logged := range m.GetMessages() {
		if logged.Level == level && logged.Message == msg {
			return true
		}
	}
	return false
}

// FieldValue returns the value of the first field named key on the first
// message equal to msg.
func (m *MockLogger) FieldValue(msg, key string) (interface{}, bool) {
	for _, logged := range m.GetMessages() {
		if logged.Message != msg {
			continue
		}
		for _, f := range logged.Fields {
			if f.Key == key {
				return f.Value, true
			}
		}
	}
	return nil, false
}

//Personal.AI order the ending
