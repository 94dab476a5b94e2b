package eval

import (
	"math"
	"strings"
	"testing"
)

// thresholdModel predicts 1 when the first feature exceeds 0.5.
type thresholdModel struct{}

func (thresholdModel) Predict(features []float64) (int, float64, error) {
	if features[0] > 0.5 {
		return 1, 0.9, nil
	}
	return 0, 0.1, nil
}

func TestEvaluateCounts(t *testing.T) {
	vectors := [][]float64{
		{0.9}, {0.8}, {0.7}, // predicted 1
		{0.1}, {0.2}, {0.6}, // predicted 0, 0, 1
	}
	labels := []int{1, 1, 0, 0, 0, 1}

	report, err := Evaluate(thresholdModel{}, vectors, labels)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// predictions: 1,1,1,0,0,1 against 1,1,0,0,0,1
	if report.Samples != 6 {
		t.Fatalf("expected 6 samples, got %d", report.Samples)
	}
	if math.Abs(report.Accuracy-5.0/6.0) > 1e-12 {
		t.Fatalf("unexpected accuracy: %g", report.Accuracy)
	}
	if report.Confusion[1][1] != 3 || report.Confusion[0][0] != 2 || report.Confusion[0][1] != 1 || report.Confusion[1][0] != 0 {
		t.Fatalf("unexpected confusion matrix: %v", report.Confusion)
	}
	if math.Abs(report.Precision[1]-0.75) > 1e-12 {
		t.Fatalf("unexpected positive precision: %g", report.Precision[1])
	}
	if report.Recall[1] != 1 {
		t.Fatalf("unexpected positive recall: %g", report.Recall[1])
	}
	if report.Recall[0] != 2.0/3.0 {
		t.Fatalf("unexpected negative recall: %g", report.Recall[0])
	}
}

func TestEvaluateEmpty(t *testing.T) {
	if _, err := Evaluate(thresholdModel{}, nil, nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestReportString(t *testing.T) {
	report := Report{Samples: 2, Accuracy: 0.5}
	report.Confusion[0][0] = 1
	report.Confusion[1][0] = 1

	rendered := report.String()
	for _, want := range []string{"accuracy: 0.5000", "No Disease", "Disease", "confusion matrix"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("report missing %q:\n%s", want, rendered)
		}
	}
}
