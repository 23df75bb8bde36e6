package billing

// Logger is the structured event sink the use cases report through. It is
// satisfied by *log.Logger from charmbracelet/log; the application layer
// itself carries no logging state.
type Logger interface {
	Info(msg interface{}, keyvals ...interface{})
	Warn(msg interface{}, keyvals ...interface{})
	Error(msg interface{}, keyvals ...interface{})
}

type nopLogger struct{}

func (nopLogger) Info(msg interface{}, keyvals ...interface{})  {}
func (nopLogger) Warn(msg interface{}, keyvals ...interface{})  {}
func (nopLogger) Error(msg interface{}, keyvals ...interface{}) {}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger {
	return nopLogger{}
}
