// Package store persists the fitted scaler and classifier to disk and
// loads them back, mirroring the scaler/model artifact pair written by
// the training command.
package store

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"heartguard/ml"
)

const (
	// ScalerFile and ModelFile are the two artifact files inside the
	// model directory.
	ScalerFile = "scaler.gob"
	ModelFile  = "forest.gob"
)

// ErrModelNotFound means inference was attempted before training has
// produced any artifacts.
var ErrModelNotFound = errors.New("model artifacts not found: run `go run ./cmd/train_model` to train the model first")

// Metadata records how the persisted model was trained.
type Metadata struct {
	TrainedAt    time.Time
	Trees        int
	MaxDepth     int
	Seed         int64
	Samples      int
	Accuracy     float64
	FeatureNames []string
}

type scalerArtifact struct {
	Scaler *ml.StandardScaler
}

type modelArtifact struct {
	Forest *ml.RandomForest
	Meta   Metadata
}

// Save writes the two fitted artifacts into dir, creating it if
// needed.
func Save(dir string, scaler *ml.StandardScaler, forest *ml.RandomForest, meta Metadata) error {
	if scaler == nil || forest == nil {
		return errors.New("scaler and forest are required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}
	if err := writeGob(filepath.Join(dir, ScalerFile), scalerArtifact{Scaler: scaler}); err != nil {
		return err
	}
	return writeGob(filepath.Join(dir, ModelFile), modelArtifact{Forest: forest, Meta: meta})
}

// Load reads both artifacts back and verifies that the feature names
// recorded in the scaler, the forest and the expected schema all
// agree. A missing artifact yields ErrModelNotFound.
func Load(dir string, expectedFeatures []string) (*ml.StandardScaler, *ml.RandomForest, Metadata, error) {
	var scalerArt scalerArtifact
	if err := readGob(filepath.Join(dir, ScalerFile), &scalerArt); err != nil {
		return nil, nil, Metadata{}, err
	}
	var modelArt modelArtifact
	if err := readGob(filepath.Join(dir, ModelFile), &modelArt); err != nil {
		return nil, nil, Metadata{}, err
	}
	if scalerArt.Scaler == nil || modelArt.Forest == nil {
		return nil, nil, Metadata{}, fmt.Errorf("corrupt model artifacts in %s", dir)
	}

	if err := checkFeatures("scaler", scalerArt.Scaler.FeatureNames, expectedFeatures); err != nil {
		return nil, nil, Metadata{}, err
	}
	if err := checkFeatures("model", modelArt.Forest.FeatureNames, expectedFeatures); err != nil {
		return nil, nil, Metadata{}, err
	}
	return scalerArt.Scaler, modelArt.Forest, modelArt.Meta, nil
}

func checkFeatures(artifact string, got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("%s feature schema mismatch: artifact has %d features, expected %d", artifact, len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("%s feature schema mismatch at position %d: artifact has %q, expected %q", artifact, i, got[i], want[i])
		}
	}
	return nil
}

func writeGob(path string, payload interface{}) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer file.Close()
	if err := gob.NewEncoder(file).Encode(payload); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

func readGob(path string, target interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w (looked for %s)", ErrModelNotFound, path)
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	defer file.Close()
	if err := gob.NewDecoder(file).Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
