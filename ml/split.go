package ml

import "math/rand"

// StratifiedSplit shuffles per class and carves off testRatio of each
// class as the held-out set, preserving label balance. Deterministic
// for a fixed seed.
func StratifiedSplit(features [][]float64, labels []int, testRatio float64, seed int64) (trainX [][]float64, trainY []int, testX [][]float64, testY []int) {
	if testRatio <= 0 || testRatio >= 1 {
		testRatio = 0.2
	}
	rng := rand.New(rand.NewSource(seed))

	byClass := make(map[int][]int)
	for i, label := range labels {
		byClass[label] = append(byClass[label], i)
	}

	// Map iteration order is random; fix it so the split is stable.
	for _, class := range []int{0, 1} {
		indices := byClass[class]
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		testCount := int(float64(len(indices)) * testRatio)
		for i, idx := range indices {
			if i < testCount {
				testX = append(testX, features[idx])
				testY = append(testY, labels[idx])
			} else {
				trainX = append(trainX, features[idx])
				trainY = append(trainY, labels[idx])
			}
		}
	}
	return trainX, trainY, testX, testY
}
