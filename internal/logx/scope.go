package logx

import (
	"go.uber.org/zap"
)

// Scope is a named logger bound to the global logger at call time, so it can
// be created in package-level vars before Init runs.
type Scope struct {
	name string
}

// GetScope returns the logger for a subsystem.
func GetScope(name string) *Scope {
	return &Scope{name: name}
}

func (s *Scope) zap() *zap.Logger {
	return Global().zap.Named(s.name)
}

// Sugar returns a key-value logger for this scope.
func (s *Scope) Sugar() *zap.SugaredLogger {
	return s.zap().Sugar()
}

// skip1 reports the caller of the Scope method rather than this file.
func (s *Scope) skip1() *zap.Logger {
	return s.zap().WithOptions(zap.AddCallerSkip(1))
}

func (s *Scope) Debug(msg string, fields ...zap.Field) { s.skip1().Debug(msg, fields...) }
func (s *Scope) Info(msg string, fields ...zap.Field)  { s.skip1().Info(msg, fields...) }
func (s *Scope) Warn(msg string, fields ...zap.Field)  { s.skip1().Warn(msg, fields...) }
func (s *Scope) Error(msg string, fields ...zap.Field) { s.skip1().Error(msg, fields...) }
