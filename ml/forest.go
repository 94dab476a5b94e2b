package ml

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ForestConfig fixes the ensemble hyperparameters. The defaults match
// the shipped model: 100 trees of depth 5, seed 42.
type ForestConfig struct {
	Trees    int
	MaxDepth int
	Seed     int64
}

// DefaultForestConfig returns the production hyperparameters.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{Trees: 100, MaxDepth: 5, Seed: 42}
}

// RandomForest is a bootstrap-aggregated ensemble of decision trees.
// It is immutable after training: Predict only reads, so a loaded
// forest needs no locking.
type RandomForest struct {
	Trees        []DecisionTree
	FeatureNames []string
	Config       ForestConfig
}

// TrainForest fits the ensemble. Each tree is grown on a bootstrap
// sample with sqrt(#features) feature subsampling per split, and seeds
// its own RNG from the base seed, so two runs with the same seed and
// data produce identical forests.
func TrainForest(names []string, features [][]float64, labels []int, cfg ForestConfig) (*RandomForest, error) {
	if len(features) == 0 || len(labels) == 0 {
		return nil, errors.New("features or labels empty")
	}
	if len(features) != len(labels) {
		return nil, errors.New("features and labels size mismatch")
	}
	for _, vector := range features {
		if len(vector) != len(names) {
			return nil, fmt.Errorf("vector has %d values, schema has %d features", len(vector), len(names))
		}
	}
	if cfg.Trees <= 0 {
		cfg.Trees = DefaultForestConfig().Trees
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultForestConfig().MaxDepth
	}

	mtry := int(math.Sqrt(float64(len(names))))
	if mtry < 1 {
		mtry = 1
	}

	forest := &RandomForest{
		Trees:        make([]DecisionTree, 0, cfg.Trees),
		FeatureNames: append([]string(nil), names...),
		Config:       cfg,
	}
	for i := 0; i < cfg.Trees; i++ {
		rng := rand.New(rand.NewSource(cfg.Seed + int64(i)))
		sampleFeatures, sampleLabels := bootstrap(features, labels, rng)
		tree, err := growTree(sampleFeatures, sampleLabels, treeConfig{
			maxDepth: cfg.MaxDepth,
			mtry:     mtry,
			rng:      rng,
		})
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		forest.Trees = append(forest.Trees, *tree)
	}
	return forest, nil
}

// Predict takes the ensemble's majority vote for one vector. The
// returned probability is the fraction of trees voting for the
// positive class; a tie resolves to class 0.
func (rf *RandomForest) Predict(features []float64) (int, float64, error) {
	if len(rf.Trees) == 0 {
		return 0, 0, errors.New("model not trained")
	}
	positive := 0
	for i := range rf.Trees {
		label, _, err := rf.Trees[i].Predict(features)
		if err != nil {
			return 0, 0, err
		}
		if label == 1 {
			positive++
		}
	}
	probability := float64(positive) / float64(len(rf.Trees))
	label := 0
	if positive > len(rf.Trees)-positive {
		label = 1
	}
	return label, probability, nil
}

// bootstrap samples len(features) rows with replacement.
func bootstrap(features [][]float64, labels []int, rng *rand.Rand) ([][]float64, []int) {
	n := len(features)
	sampleFeatures := make([][]float64, n)
	sampleLabels := make([]int, n)
	for i := 0; i < n; i++ {
		idx := rng.Intn(n)
		sampleFeatures[i] = features[idx]
		sampleLabels[i] = labels[idx]
	}
	return sampleFeatures, sampleLabels
}
