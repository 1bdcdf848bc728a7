// Package log provides the logging abstraction used by mediaship components.
//
// Components never depend on a concrete logging library. They accept a
// [Logger] and emit structured [Field] values. A zerolog adapter and a no-op
// logger are provided.
//
// # Usage
//
//	logger := log.NewZerologAdapter()
//	logger.Info("upload finished", log.String("session_url", url), log.Size("sent", n))
//
// Libraries embedding mediaship get the no-op logger unless they pass their
// own implementation:
//
//	type MyLogger struct { ... }
//
//	func (l *MyLogger) Debug(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Info(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Warn(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Error(msg string, fields ...log.Field) { ... }
package log
