package log

import "github.com/tacusci/logging/v2"

var Debug = func(format string, a ...interface{}) {
	logging.Debug(format, a...) //nolint
}

var Info = func(format string, a ...interface{}) {
	logging.Info(format, a...) //nolint
}

var Warn = func(format string, a ...interface{}) {
	logging.Warn(format, a...) //nolint
}

var Error = func(format string, a ...interface{}) {
	logging.Error(format, a...) //nolint
}

var Fatal = func(format string, a ...interface{}) {
	logging.Fatal(format, a...) //nolint
}

// Verbose maps numbered verbosity onto the levelled logger,
// level 1 and below is informational, anything above is debug.
func Verbose(level int, format string, a ...interface{}) {
	if level <= 1 {
		Info(format, a...)
		return
	}
	Debug(format, a...)
}
