package ml

import (
	"errors"
	"math"
	"math/rand"
	"sort"
)

// TreeNode is one node of a decision tree stored in a flattened array.
// Child indices are offsets into the same array; leaves carry the
// class label and the positive-class fraction of their training rows.
type TreeNode struct {
	FeatureIdx   int
	Threshold    float64
	LeftChild    int
	RightChild   int
	ClassLabel   int
	PositiveFrac float64
	IsLeaf       bool
}

// DecisionTree is a depth-limited binary classification tree split on
// Gini impurity.
type DecisionTree struct {
	Nodes []TreeNode
}

type treeConfig struct {
	maxDepth int
	mtry     int // features considered per split; 0 means all
	rng      *rand.Rand
}

func growTree(features [][]float64, labels []int, cfg treeConfig) (*DecisionTree, error) {
	if len(features) == 0 || len(labels) == 0 {
		return nil, errors.New("features or labels empty")
	}
	if len(features) != len(labels) {
		return nil, errors.New("features and labels size mismatch")
	}
	if cfg.maxDepth <= 0 {
		cfg.maxDepth = 3
	}
	return &DecisionTree{Nodes: buildNode(features, labels, 0, cfg)}, nil
}

// Predict walks the tree for one vector, returning the leaf's label
// and positive-class fraction.
func (dt *DecisionTree) Predict(features []float64) (int, float64, error) {
	if len(dt.Nodes) == 0 {
		return 0, 0, errors.New("model not trained")
	}
	idx := 0
	for {
		node := dt.Nodes[idx]
		if node.IsLeaf {
			return node.ClassLabel, node.PositiveFrac, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return 0, 0, errors.New("feature index out of range")
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(dt.Nodes) {
			return 0, 0, errors.New("invalid tree state")
		}
	}
}

func buildNode(features [][]float64, labels []int, depth int, cfg treeConfig) []TreeNode {
	leaf := func() []TreeNode {
		return []TreeNode{{
			FeatureIdx:   -1,
			LeftChild:    -1,
			RightChild:   -1,
			ClassLabel:   majorityLabel(labels),
			PositiveFrac: positiveFraction(labels),
			IsLeaf:       true,
		}}
	}

	if depth >= cfg.maxDepth || isPure(labels) {
		return leaf()
	}

	bestFeature, threshold, ok := findBestSplit(features, labels, cfg)
	if !ok {
		return leaf()
	}

	leftFeatures, leftLabels, rightFeatures, rightLabels := splitData(features, labels, bestFeature, threshold)
	if len(leftLabels) == 0 || len(rightLabels) == 0 {
		return leaf()
	}

	leftNodes := buildNode(leftFeatures, leftLabels, depth+1, cfg)
	rightNodes := buildNode(rightFeatures, rightLabels, depth+1, cfg)

	root := TreeNode{
		FeatureIdx:   bestFeature,
		Threshold:    threshold,
		LeftChild:    1,
		RightChild:   1 + len(leftNodes),
		ClassLabel:   majorityLabel(labels),
		PositiveFrac: positiveFraction(labels),
	}

	nodes := make([]TreeNode, 0, 1+len(leftNodes)+len(rightNodes))
	nodes = append(nodes, root)
	nodes = append(nodes, leftNodes...)
	nodes = append(nodes, rightNodes...)
	return nodes
}

// findBestSplit scans candidate features and the midpoints between
// their sorted distinct values, keeping the split with the lowest
// weighted Gini impurity.
func findBestSplit(features [][]float64, labels []int, cfg treeConfig) (int, float64, bool) {
	featureCount := len(features[0])
	candidates := candidateFeatures(featureCount, cfg)

	bestFeature := -1
	bestThreshold := 0.0
	bestImpurity := math.MaxFloat64

	values := make([]float64, len(features))
	for _, featureIdx := range candidates {
		for i := range features {
			values[i] = features[i][featureIdx]
		}
		for _, threshold := range splitPoints(values) {
			leftLabels, rightLabels := splitLabels(features, labels, featureIdx, threshold)
			if len(leftLabels) == 0 || len(rightLabels) == 0 {
				continue
			}
			impurity := weightedGini(leftLabels, rightLabels)
			if impurity < bestImpurity {
				bestImpurity = impurity
				bestFeature = featureIdx
				bestThreshold = threshold
			}
		}
	}
	if bestFeature == -1 {
		return -1, 0, false
	}
	return bestFeature, bestThreshold, true
}

// candidateFeatures picks the feature subset for one split: all
// features, or mtry distinct random ones when subsampling is on.
func candidateFeatures(featureCount int, cfg treeConfig) []int {
	if cfg.mtry <= 0 || cfg.mtry >= featureCount || cfg.rng == nil {
		all := make([]int, featureCount)
		for i := range all {
			all[i] = i
		}
		return all
	}
	return cfg.rng.Perm(featureCount)[:cfg.mtry]
}

// splitPoints returns the midpoints between consecutive distinct
// sorted values.
func splitPoints(values []float64) []float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var points []float64
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1] {
			points = append(points, (sorted[i]+sorted[i-1])/2)
		}
	}
	return points
}

func splitData(features [][]float64, labels []int, featureIdx int, threshold float64) ([][]float64, []int, [][]float64, []int) {
	leftFeatures := make([][]float64, 0)
	leftLabels := make([]int, 0)
	rightFeatures := make([][]float64, 0)
	rightLabels := make([]int, 0)
	for i, feature := range features {
		if feature[featureIdx] <= threshold {
			leftFeatures = append(leftFeatures, feature)
			leftLabels = append(leftLabels, labels[i])
		} else {
			rightFeatures = append(rightFeatures, feature)
			rightLabels = append(rightLabels, labels[i])
		}
	}
	return leftFeatures, leftLabels, rightFeatures, rightLabels
}

func splitLabels(features [][]float64, labels []int, featureIdx int, threshold float64) ([]int, []int) {
	leftLabels := make([]int, 0)
	rightLabels := make([]int, 0)
	for i, feature := range features {
		if feature[featureIdx] <= threshold {
			leftLabels = append(leftLabels, labels[i])
		} else {
			rightLabels = append(rightLabels, labels[i])
		}
	}
	return leftLabels, rightLabels
}

func weightedGini(leftLabels, rightLabels []int) float64 {
	leftWeight := float64(len(leftLabels))
	rightWeight := float64(len(rightLabels))
	total := leftWeight + rightWeight
	return (leftWeight/total)*gini(leftLabels) + (rightWeight/total)*gini(rightLabels)
}

func gini(labels []int) float64 {
	if len(labels) == 0 {
		return 0
	}
	counts := make(map[int]int)
	for _, label := range labels {
		counts[label]++
	}
	impurity := 1.0
	for _, count := range counts {
		prob := float64(count) / float64(len(labels))
		impurity -= prob * prob
	}
	return impurity
}

func majorityLabel(labels []int) int {
	counts := make(map[int]int)
	bestLabel := 0
	bestCount := -1
	for _, label := range labels {
		counts[label]++
		if counts[label] > bestCount {
			bestCount = counts[label]
			bestLabel = label
		}
	}
	return bestLabel
}

func positiveFraction(labels []int) float64 {
	if len(labels) == 0 {
		return 0
	}
	positive := 0
	for _, label := range labels {
		if label == 1 {
			positive++
		}
	}
	return float64(positive) / float64(len(labels))
}

func isPure(labels []int) bool {
	if len(labels) == 0 {
		return true
	}
	first := labels[0]
	for _, label := range labels[1:] {
		if label != first {
			return false
		}
	}
	return true
}
