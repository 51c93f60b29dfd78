package log

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// level is shared by every logger NewLogger builds. A config file change of
// log.level moves it at runtime.
var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// ParseLevel accepts debug, info, warn, error, dpanic, panic and fatal.
func ParseLevel(name string) (zapcore.Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return l, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return l, nil
}

// SetLevel changes the minimum level. An unknown name keeps the current one.
func SetLevel(name string) error {
	l, err := ParseLevel(name)
	if err != nil {
		return err
	}
	level.SetLevel(l)
	return nil
}

// CurrentLevel reports the active minimum level.
func CurrentLevel() string {
	return level.Level().String()
}
