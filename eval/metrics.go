// Package eval computes classification quality metrics over a
// held-out split.
package eval

import (
	"errors"
	"fmt"
	"strings"

	"heartguard/ml"
)

// ClassNames label the two outcome classes in reports.
var ClassNames = [2]string{"No Disease", "Disease"}

// Report holds the evaluation results for a binary classifier.
type Report struct {
	Samples   int        `json:"samples"`
	Accuracy  float64    `json:"accuracy"`
	Precision [2]float64 `json:"precision"`
	Recall    [2]float64 `json:"recall"`
	// Confusion[actual][predicted]
	Confusion [2][2]int `json:"confusion"`
}

// Evaluate runs the classifier over already-scaled vectors and counts
// outcomes per class.
func Evaluate(clf ml.Classifier, vectors [][]float64, labels []int) (Report, error) {
	if len(vectors) == 0 {
		return Report{}, errors.New("no evaluation samples")
	}
	if len(vectors) != len(labels) {
		return Report{}, errors.New("vectors and labels size mismatch")
	}

	var report Report
	report.Samples = len(vectors)
	for i, vector := range vectors {
		predicted, _, err := clf.Predict(vector)
		if err != nil {
			return Report{}, err
		}
		actual := labels[i]
		if actual != 0 && actual != 1 || predicted != 0 && predicted != 1 {
			return Report{}, fmt.Errorf("label outside {0,1}: actual %d predicted %d", actual, predicted)
		}
		report.Confusion[actual][predicted]++
	}

	correct := report.Confusion[0][0] + report.Confusion[1][1]
	report.Accuracy = float64(correct) / float64(report.Samples)
	for class := 0; class < 2; class++ {
		predictedAs := report.Confusion[0][class] + report.Confusion[1][class]
		if predictedAs > 0 {
			report.Precision[class] = float64(report.Confusion[class][class]) / float64(predictedAs)
		}
		actualAs := report.Confusion[class][0] + report.Confusion[class][1]
		if actualAs > 0 {
			report.Recall[class] = float64(report.Confusion[class][class]) / float64(actualAs)
		}
	}
	return report, nil
}

// String renders the report the way the evaluation command prints it.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "samples: %d\n", r.Samples)
	fmt.Fprintf(&b, "accuracy: %.4f\n", r.Accuracy)
	for class := 0; class < 2; class++ {
		fmt.Fprintf(&b, "%-12s precision=%.4f recall=%.4f\n", ClassNames[class], r.Precision[class], r.Recall[class])
	}
	b.WriteString("confusion matrix (rows actual, cols predicted):\n")
	for class := 0; class < 2; class++ {
		fmt.Fprintf(&b, "%-12s %5d %5d\n", ClassNames[class], r.Confusion[class][0], r.Confusion[class][1])
	}
	return b.String()
}
