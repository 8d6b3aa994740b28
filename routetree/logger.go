package routetree

import "log"

// Logger receives the compiler's progress and anomaly lines. Any logging
// backend can be plugged in by implementing the two methods.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Infof(string, ...any) {}
func (noopLogger) Warnf(string, ...any) {}

// NoopLogger returns a logger that discards everything. It is the default.
func NoopLogger() Logger {
	return noopLogger{}
}

type stdLogger struct{}

func (stdLogger) Infof(format string, args ...any) {
	log.Printf("INFO: "+format, args...)
}

func (stdLogger) Warnf(format string, args ...any) {
	log.Printf("WARN: "+format, args...)
}

// StdLogger returns a logger writing through the standard library logger,
// with the same INFO/WARN prefixes the rest of the client uses.
func StdLogger() Logger {
	return stdLogger{}
}
