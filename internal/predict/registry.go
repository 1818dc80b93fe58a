package predict

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ivlev/censor/internal/config"
)

// NewDetector creates a detector based on the configured variant
func NewDetector(cfg *config.Config, logger *zap.Logger) (Detector, error) {
	switch cfg.Detector {
	case "automl", "":
		return NewAutoMLClient(AutoMLOptions{
			Endpoint:       cfg.Endpoint,
			ProjectID:      cfg.ProjectID,
			ModelID:        cfg.ModelID,
			ScoreThreshold: cfg.ScoreThreshold,
			Timeout:        cfg.Timeout,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown detector variant: %s", cfg.Detector)
	}
}
