package logging

// DebugLogger is satisfied by *zap.SugaredLogger and anything else with a
// variadic Debug method.
type DebugLogger interface {
	Debug(args ...interface{})
}

type InfoLogger interface {
	Info(args ...interface{})
}

type ErrorLogger interface {
	Error(args ...interface{})
}

// Logger is the logging surface services are handed.
type Logger interface {
	DebugLogger
	InfoLogger
	ErrorLogger
}
