package logger

import "go.uber.org/zap"

// New returns a production-ready zap logger for the application.
func New() (*zap.Logger, error) {
	return zap.NewProduction()
}
