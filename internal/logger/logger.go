package logger

import (
	"go.uber.org/zap"

	"surveybuilder/internal/config"
)

// New returns a production logger for the production profile and a
// development logger otherwise.
func New(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}

	return zap.NewDevelopment()
}
