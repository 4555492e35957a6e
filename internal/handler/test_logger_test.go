package handler

import "pdf-study-assistant/internal/domain"

// Mock logger used by handler package tests.
type MockHandlerLogger struct{}

func NewMockHandlerLogger() domain.Logger {
	return &MockHandlerLogger{}
}

func (l *MockHandlerLogger) Info(msg string, fields ...interface{})             {}
func (l *MockHandlerLogger) Error(msg string, err error, fields ...interface{}) {}
func (l *MockHandlerLogger) Debug(msg string, fields ...interface{})            {}
func (l *MockHandlerLogger) Warn(msg string, fields ...interface{})             {}

// recordingHandlerLogger keeps INFO fields keyed by name.
type recordingHandlerLogger struct {
	MockHandlerLogger
	infos []map[string]interface{}
}

func (l *recordingHandlerLogger) Info(msg string, fields ...interface{}) {
	m := map[string]interface{}{"msg": msg}
	for i := 0; i+1 < len(fields); i += 2 {
		if key, ok := fields[i].(string); ok {
			m[key] = fields[i+1]
		}
	}
	l.infos = append(l.infos, m)
}
