package common

// Logger is the logging contract shared by every package: printf-style, with debug
// output gated by the implementation.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
}
