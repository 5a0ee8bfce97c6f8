package logging

import "unsafe"

func Debug(log DebugLogger, args ...interface{}) {
	if !isNilValue(log) {
		log.Debug(args...)
	}
}

func Info(log InfoLogger, args ...interface{}) {
	if !isNilValue(log) {
		log.Info(args...)
	}
}

func Error(log ErrorLogger, args ...interface{}) {
	if !isNilValue(log) {
		log.Error(args...)
	}
}

// isNilValue reports whether i is nil or an interface wrapping a nil pointer.
func isNilValue(i interface{}) bool {
	if i == nil {
		return true
	}
	return (*[2]uintptr)(unsafe.Pointer(&i))[1] == 0
}
