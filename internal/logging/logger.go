// Package logging builds the single *zap.Logger threaded through the
// queue server, worker pool, and executors.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production zap logger tagged with service, writing to
// stdout in ISO8601 time.
func New(service string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stdout"}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.InitialFields = map[string]interface{}{"service": service}

	log, err := config.Build()
	if err != nil {
		return nil, err
	}
	return log, nil
}
