package services

import (
	"go.uber.org/zap"

	"github.com/jakechorley/fairshift/pkg/core/detect"
	"github.com/jakechorley/fairshift/pkg/core/model"
)

// DetectSettings runs the setting auto-detector over an input and logs the
// headline numbers.
func DetectSettings(logger *zap.Logger, in *model.Input) detect.Recommendation {
	rec := detect.Detect(in.Volunteers, in.Shifts)

	logger.Info("Settings detected",
		zap.Float64("min_points", rec.MinPoints),
		zap.Float64("max_over", rec.MaxOver),
		zap.Int("max_shifts", rec.MaxShifts),
		zap.Int("guarantee_level", rec.GuaranteeLevel),
		zap.Int("strongest_guarantee", rec.StrongestGuarantee))

	return rec
}

// ApplyRecommendation fills unset (zero) settings fields from a
// recommendation, leaving explicit user choices alone.
func ApplyRecommendation(settings *model.Settings, rec detect.Recommendation) {
	if settings.MinPoints == 0 {
		settings.MinPoints = rec.MinPoints
	}
	if settings.MaxOver == 0 {
		settings.MaxOver = rec.MaxOver
	}
	if settings.MaxShifts == 0 {
		settings.MaxShifts = rec.MaxShifts
	}
	if settings.GuaranteeLevel == 0 {
		settings.GuaranteeLevel = rec.GuaranteeLevel
	}
}
