package env

import (
	zap "go.uber.org/zap"
)

// MakeLogger builds the process logger. Debug mode lowers the level
// and switches to the development encoder.
func MakeLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}

	logConfig := zap.NewProductionConfig()
	logConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	logConfig.Encoding = "json"

	return logConfig.Build()
}
