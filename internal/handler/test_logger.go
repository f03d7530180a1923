package handler

import (
	"fmt"
	"sync"
)

// MockHandlerLogger records messages for handler package tests.
type MockHandlerLogger struct {
	mu       sync.Mutex
	messages []string
}

func NewMockHandlerLogger() *MockHandlerLogger {
	return &MockHandlerLogger{}
}

func (m *MockHandlerLogger) record(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *MockHandlerLogger) Info(msg string, args ...interface{}) {
	m.record("INFO: " + msg + fmt.Sprint(args...))
}

func (m *MockHandlerLogger) Error(msg string, err error, args ...interface{}) {
	m.record("ERROR: " + msg + " - " + err.Error() + fmt.Sprint(args...))
}

func (m *MockHandlerLogger) Debug(msg string, args ...interface{}) {
	m.record("DEBUG: " + msg)
}

func (m *MockHandlerLogger) Warn(msg string, args ...interface{}) {
	m.record("WARN: " + msg)
}

// Messages returns a copy of the recorded messages
func (m *MockHandlerLogger) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages...)
}
