package ranking

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// CalibrationConfig represents the JSON structure of the calibration file.
type CalibrationConfig struct {
	Version string  `json:"version"` // Config version for future compatibility
	Weights Weights `json:"weights"` // Weight overrides
}

// LoadCalibration loads scoring weights from a JSON calibration file.
// Partial configurations are merged with defaults so a file may
// override a single weight. If the file doesn't exist or can't be
// parsed, default weights are returned along with the error so callers
// degrade gracefully.
func LoadCalibration(filePath string) (*Weights, error) {
	if filePath == "" {
		return DefaultWeights(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		slog.Warn("failed to read calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultWeights(), fmt.Errorf("failed to read calibration file: %w", err)
	}

	var config CalibrationConfig
	if err := json.Unmarshal(data, &config); err != nil {
		slog.Warn("failed to parse calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultWeights(), fmt.Errorf("failed to parse calibration file: %w", err)
	}

	defaults := DefaultWeights()
	merged := MergeCalibration(defaults, &config.Weights)
	logCalibrationOverrides(defaults, merged)

	return merged, nil
}

// MergeCalibration merges override weights with base weights. Only
// non-zero values from the override are applied, which allows partial
// overrides in the calibration file (a weight cannot be calibrated to
// exactly zero; disable scoring dimensions upstream instead).
func MergeCalibration(base *Weights, override *Weights) *Weights {
	if base == nil {
		return DefaultWeights()
	}
	if override == nil {
		result := *base
		return &result
	}

	result := *base

	if override.Name != 0 {
		result.Name = override.Name
	}
	if override.Description != 0 {
		result.Description = override.Description
	}
	if override.Category != 0 {
		result.Category = override.Category
	}
	if override.Tag != 0 {
		result.Tag = override.Tag
	}
	if override.Technology != 0 {
		result.Technology = override.Technology
	}
	if override.TokenName != 0 {
		result.TokenName = override.TokenName
	}
	if override.TokenTag != 0 {
		result.TokenTag = override.TokenTag
	}
	if override.TokenDescription != 0 {
		result.TokenDescription = override.TokenDescription
	}
	if override.Featured != 0 {
		result.Featured = override.Featured
	}
	if override.Popular != 0 {
		result.Popular = override.Popular
	}

	return &result
}

// logCalibrationOverrides logs which weights were overridden from defaults.
func logCalibrationOverrides(defaults *Weights, loaded *Weights) {
	var overrides []string

	check := func(name string, def, got float64) {
		if got != def {
			overrides = append(overrides, fmt.Sprintf("%s: %.0f -> %.0f", name, def, got))
		}
	}

	check("name", defaults.Name, loaded.Name)
	check("description", defaults.Description, loaded.Description)
	check("category", defaults.Category, loaded.Category)
	check("tag", defaults.Tag, loaded.Tag)
	check("technology", defaults.Technology, loaded.Technology)
	check("token_name", defaults.TokenName, loaded.TokenName)
	check("token_tag", defaults.TokenTag, loaded.TokenTag)
	check("token_description", defaults.TokenDescription, loaded.TokenDescription)
	check("featured", defaults.Featured, loaded.Featured)
	check("popular", defaults.Popular, loaded.Popular)

	if len(overrides) > 0 {
		slog.Info("loaded ranking calibration with overrides",
			"overrides", overrides)
	} else {
		slog.Info("loaded ranking calibration (using all defaults)")
	}
}
