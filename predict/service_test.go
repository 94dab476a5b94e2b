package predict

import (
	"errors"
	"testing"

	"heartguard/ml"
	"heartguard/patient"
	"heartguard/store"
)

// scenarioRecord is a known disease-present case used across tests.
func scenarioRecord(t *testing.T) patient.Record {
	t.Helper()
	record, err := patient.FromValues(map[string]float64{
		"age": 63, "sex": 1, "cp": 3, "trestbps": 145, "chol": 233,
		"fbs": 1, "restecg": 0, "thalach": 150, "exang": 0,
		"oldpeak": 2.3, "slope": 0, "ca": 0, "thal": 1,
	})
	if err != nil {
		t.Fatalf("build record: %v", err)
	}
	return record
}

// trainingSet builds a small separable cohort: positives resemble the
// scenario record, negatives are younger and symptom-free.
func trainingSet(t *testing.T) ([]patient.Record, []int) {
	t.Helper()
	var records []patient.Record
	var labels []int

	positive := scenarioRecord(t)
	for i := 0; i < 8; i++ {
		r := positive
		r.Age += float64(i % 4)
		r.Chol += float64(3 * i)
		r.Thalach -= float64(i % 3)
		records = append(records, r)
		labels = append(labels, 1)
	}

	negative, err := patient.FromValues(map[string]float64{
		"age": 45, "sex": 0, "cp": 0, "trestbps": 120, "chol": 200,
		"fbs": 0, "restecg": 1, "thalach": 180, "exang": 0,
		"oldpeak": 0.2, "slope": 2, "ca": 0, "thal": 2,
	})
	if err != nil {
		t.Fatalf("build record: %v", err)
	}
	for i := 0; i < 8; i++ {
		r := negative
		r.Age -= float64(i % 4)
		r.Chol -= float64(2 * i)
		r.Thalach += float64(i % 3)
		records = append(records, r)
		labels = append(labels, 0)
	}
	return records, labels
}

func trainedService(t *testing.T) *Service {
	t.Helper()
	records, labels := trainingSet(t)
	vectors := make([][]float64, len(records))
	for i, record := range records {
		vectors[i] = record.Vector()
	}

	scaler, err := ml.FitScaler(patient.FeatureNames(), vectors)
	if err != nil {
		t.Fatalf("fit scaler: %v", err)
	}
	scaled, err := scaler.Transform(vectors)
	if err != nil {
		t.Fatalf("scale: %v", err)
	}
	forest, err := ml.TrainForest(patient.FeatureNames(), scaled, labels, ml.DefaultForestConfig())
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	return NewService(NewModelContext(scaler, forest, store.Metadata{}))
}

func TestAssessScenarioRecord(t *testing.T) {
	service := trainedService(t)

	result, err := service.Assess(scenarioRecord(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Label != 1 {
		t.Fatalf("expected label 1, got %d", result.Label)
	}
	if result.Probability < 0.5 {
		t.Fatalf("expected probability >= 0.5 for a memorized positive, got %g", result.Probability)
	}
	if result.Risk != "High Risk of Heart Disease" {
		t.Fatalf("unexpected risk text: %s", result.Risk)
	}
}

func TestAssessBounds(t *testing.T) {
	service := trainedService(t)
	records, _ := trainingSet(t)

	for _, record := range records {
		result, err := service.Assess(record)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Label != 0 && result.Label != 1 {
			t.Fatalf("label outside {0,1}: %d", result.Label)
		}
		if result.Probability < 0 || result.Probability > 1 {
			t.Fatalf("probability outside [0,1]: %g", result.Probability)
		}
		if result.Confidence < 0 || result.Confidence > 1 {
			t.Fatalf("confidence outside [0,1]: %g", result.Confidence)
		}
	}
}

func TestAssessInvalidRecord(t *testing.T) {
	service := trainedService(t)

	record := scenarioRecord(t)
	record.Trestbps = 999

	_, err := service.Assess(record)
	var validationErr *patient.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestAssessWithoutModel(t *testing.T) {
	service := NewService(nil)
	_, err := service.Assess(scenarioRecord(t))
	if !errors.Is(err, store.ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
}

func TestSwapAndReady(t *testing.T) {
	service := NewService(nil)
	if service.Ready() {
		t.Fatal("service should not be ready without a model")
	}
	trained := trainedService(t)
	service.Swap(trained.mc)
	if !service.Ready() {
		t.Fatal("service should be ready after swap")
	}
	if _, ok := service.Metadata(); !ok {
		t.Fatal("expected metadata after swap")
	}
}
