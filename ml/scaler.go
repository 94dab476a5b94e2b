package ml

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler centers each feature on its training mean and divides
// by its training standard deviation. All fields are exported so the
// fitted state survives gob round trips.
type StandardScaler struct {
	FeatureNames []string
	Means        []float64
	Scales       []float64
}

// FitScaler computes per-feature means and standard deviations over the
// training vectors. Zero-variance features get scale 1.0 so they map to
// zero instead of NaN.
func FitScaler(featureNames []string, vectors [][]float64) (*StandardScaler, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("cannot fit scaler on empty input")
	}
	width := len(featureNames)
	for i, vector := range vectors {
		if len(vector) != width {
			return nil, fmt.Errorf("vector %d has %d features, expected %d", i, len(vector), width)
		}
	}

	scaler := &StandardScaler{
		FeatureNames: append([]string(nil), featureNames...),
		Means:        make([]float64, width),
		Scales:       make([]float64, width),
	}
	column := make([]float64, len(vectors))
	for featureIdx := 0; featureIdx < width; featureIdx++ {
		for i, vector := range vectors {
			column[i] = vector[featureIdx]
		}
		scaler.Means[featureIdx] = stat.Mean(column, nil)
		std := stat.StdDev(column, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1.0
		}
		scaler.Scales[featureIdx] = std
	}
	return scaler, nil
}

// TransformOne scales a single feature vector using the fitted
// parameters.
func (s *StandardScaler) TransformOne(vector []float64) ([]float64, error) {
	if len(vector) != len(s.Means) {
		return nil, fmt.Errorf("vector has %d features, scaler expects %d", len(vector), len(s.Means))
	}
	scaled := make([]float64, len(vector))
	for i, value := range vector {
		scaled[i] = (value - s.Means[i]) / s.Scales[i]
	}
	return scaled, nil
}

// Transform scales a batch of feature vectors.
func (s *StandardScaler) Transform(vectors [][]float64) ([][]float64, error) {
	scaled := make([][]float64, len(vectors))
	for i, vector := range vectors {
		row, err := s.TransformOne(vector)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		scaled[i] = row
	}
	return scaled, nil
}
