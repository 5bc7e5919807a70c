package ranking

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCalibrationFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calibration.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write calibration file: %v", err)
	}
	return path
}

func TestLoadCalibration_EmptyPathReturnsDefaults(t *testing.T) {
	weights, err := LoadCalibration("")
	if err != nil {
		t.Fatalf("Expected no error for empty path, got %v", err)
	}
	if *weights != *DefaultWeights() {
		t.Errorf("Expected default weights, got %+v", weights)
	}
}

func TestLoadCalibration_MissingFileFallsBackToDefaults(t *testing.T) {
	weights, err := LoadCalibration("/nonexistent/calibration.json")
	if err == nil {
		t.Error("Expected error for missing file")
	}
	if *weights != *DefaultWeights() {
		t.Errorf("Expected default weights on error, got %+v", weights)
	}
}

func TestLoadCalibration_InvalidJSONFallsBackToDefaults(t *testing.T) {
	path := writeCalibrationFile(t, "{not json")

	weights, err := LoadCalibration(path)
	if err == nil {
		t.Error("Expected error for invalid JSON")
	}
	if *weights != *DefaultWeights() {
		t.Errorf("Expected default weights on parse error, got %+v", weights)
	}
}

func TestLoadCalibration_PartialOverride(t *testing.T) {
	path := writeCalibrationFile(t, `{
		"version": "1",
		"weights": {"name": 120, "token_tag": 5}
	}`)

	weights, err := LoadCalibration(path)
	if err != nil {
		t.Fatalf("LoadCalibration failed: %v", err)
	}

	if weights.Name != 120 {
		t.Errorf("Expected name weight 120, got %v", weights.Name)
	}
	if weights.TokenTag != 5 {
		t.Errorf("Expected token_tag weight 5, got %v", weights.TokenTag)
	}
	// Unspecified weights keep their defaults.
	if weights.Description != 50 {
		t.Errorf("Expected description weight 50, got %v", weights.Description)
	}
	if weights.Popular != 5 {
		t.Errorf("Expected popular weight 5, got %v", weights.Popular)
	}
}

func TestMergeCalibration(t *testing.T) {
	tests := []struct {
		name     string
		base     *Weights
		override *Weights
		check    func(t *testing.T, result *Weights)
	}{
		{
			name:     "nil base returns defaults",
			base:     nil,
			override: &Weights{Name: 1},
			check: func(t *testing.T, result *Weights) {
				if *result != *DefaultWeights() {
					t.Errorf("Expected defaults, got %+v", result)
				}
			},
		},
		{
			name:     "nil override copies base",
			base:     DefaultWeights(),
			override: nil,
			check: func(t *testing.T, result *Weights) {
				if *result != *DefaultWeights() {
					t.Errorf("Expected base copy, got %+v", result)
				}
			},
		},
		{
			name:     "zero values do not override",
			base:     DefaultWeights(),
			override: &Weights{Featured: 0, Tag: 45},
			check: func(t *testing.T, result *Weights) {
				if result.Featured != 10 {
					t.Errorf("Expected featured 10, got %v", result.Featured)
				}
				if result.Tag != 45 {
					t.Errorf("Expected tag 45, got %v", result.Tag)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, MergeCalibration(tt.base, tt.override))
		})
	}
}

func TestMergeCalibration_DoesNotMutateBase(t *testing.T) {
	base := DefaultWeights()
	MergeCalibration(base, &Weights{Name: 500})

	if base.Name != 100 {
		t.Errorf("MergeCalibration mutated base: %v", base.Name)
	}
}
