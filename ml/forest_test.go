package ml

import (
	"math/rand"
	"testing"
)

// separableSet builds a two-cluster dataset: negatives around the
// origin, positives around (1,1,1).
func separableSet(n int, seed int64) ([]string, [][]float64, []int) {
	names := []string{"x", "y", "z"}
	rng := rand.New(rand.NewSource(seed))

	features := make([][]float64, 0, n)
	labels := make([]int, 0, n)
	for i := 0; i < n; i++ {
		label := i % 2
		center := 0.0
		if label == 1 {
			center = 1.0
		}
		features = append(features, []float64{
			center + rng.Float64()*0.2,
			center + rng.Float64()*0.2,
			center + rng.Float64()*0.2,
		})
		labels = append(labels, label)
	}
	return names, features, labels
}

func TestForestPredictBounds(t *testing.T) {
	names, features, labels := separableSet(40, 7)
	forest, err := TrainForest(names, features, labels, ForestConfig{Trees: 20, MaxDepth: 4, Seed: 42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, vector := range features {
		label, probability, err := forest.Predict(vector)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if label != 0 && label != 1 {
			t.Fatalf("label outside {0,1}: %d", label)
		}
		if probability < 0 || probability > 1 {
			t.Fatalf("probability outside [0,1]: %g", probability)
		}
	}
}

func TestForestSeparatesClusters(t *testing.T) {
	names, features, labels := separableSet(40, 7)
	forest, err := TrainForest(names, features, labels, ForestConfig{Trees: 50, MaxDepth: 5, Seed: 42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	label, probability, err := forest.Predict([]float64{0.05, 0.05, 0.05})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 0 || probability > 0.3 {
		t.Fatalf("expected confident negative, got label %d probability %g", label, probability)
	}

	label, probability, err = forest.Predict([]float64{1.05, 1.05, 1.05})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 1 || probability < 0.7 {
		t.Fatalf("expected confident positive, got label %d probability %g", label, probability)
	}
}

func TestForestDeterministicForSeed(t *testing.T) {
	names, features, labels := separableSet(40, 7)
	config := ForestConfig{Trees: 30, MaxDepth: 5, Seed: 42}

	first, err := TrainForest(names, features, labels, config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := TrainForest(names, features, labels, config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, heldOut, _ := separableSet(20, 99)
	for _, vector := range heldOut {
		labelA, probA, err := first.Predict(vector)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		labelB, probB, err := second.Predict(vector)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if labelA != labelB || probA != probB {
			t.Fatalf("runs diverged: %d/%g vs %d/%g", labelA, probA, labelB, probB)
		}
	}
}

func TestForestPredictUntrained(t *testing.T) {
	var forest RandomForest
	if _, _, err := forest.Predict([]float64{0.5}); err == nil {
		t.Fatal("expected error for untrained forest")
	}
}

func TestTrainForestSizeMismatch(t *testing.T) {
	if _, err := TrainForest([]string{"x"}, [][]float64{{1}}, []int{0, 1}, DefaultForestConfig()); err == nil {
		t.Fatal("expected error for size mismatch")
	}
}

func TestStratifiedSplitDeterministic(t *testing.T) {
	_, features, labels := separableSet(50, 3)

	trainXA, trainYA, testXA, testYA := StratifiedSplit(features, labels, 0.2, 42)
	trainXB, trainYB, testXB, testYB := StratifiedSplit(features, labels, 0.2, 42)

	if len(trainXA) != len(trainXB) || len(testXA) != len(testXB) {
		t.Fatalf("split sizes diverged")
	}
	for i := range trainYA {
		if trainYA[i] != trainYB[i] {
			t.Fatalf("train labels diverged at %d", i)
		}
	}
	for i := range testYA {
		if testYA[i] != testYB[i] {
			t.Fatalf("test labels diverged at %d", i)
		}
	}
	if len(testXA)+len(trainXA) != len(features) {
		t.Fatalf("split lost samples: %d + %d != %d", len(testXA), len(trainXA), len(features))
	}
}
