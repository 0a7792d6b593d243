package logging

// NewTestLogger creates a logger instance suitable for unit tests.
func NewTestLogger() *Logger {
	return NewLoggerFromEnv("dev")
}
