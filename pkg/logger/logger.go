package logger

import (
	"go.uber.org/zap"
)

// New builds the process-wide sugared logger. Production mode emits JSON at
// info level; anything else gets the development console encoder.
func New(env string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch env {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return log.Sugar(), nil
}
