package db

import (
	"path/filepath"
	"testing"
	"time"

	"heartguard/eval"
	"heartguard/patient"
	"heartguard/predict"
	"heartguard/store"
)

func initTestDB(t *testing.T) {
	t.Helper()
	if err := InitDB(filepath.Join(t.TempDir(), "test.db")); err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() { Close() })
}

func sampleRecord(t *testing.T) patient.Record {
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

func TestSaveAndGetAssessment(t *testing.T) {
	initTestDB(t)
	record := sampleRecord(t)
	result := predict.Result{Label: 1, Risk: "High Risk of Heart Disease", Probability: 0.82, Confidence: 0.82}

	id, err := SaveAssessment(record, result)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id == 0 {
		t.Fatal("expected nonzero id")
	}

	row, err := GetAssessment(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if row.Label != 1 || row.Probability != 0.82 {
		t.Fatalf("unexpected row: %+v", row)
	}

	back, err := row.Record()
	if err != nil {
		t.Fatalf("rebuild record: %v", err)
	}
	if back != record {
		t.Fatalf("record round trip mismatch: %+v vs %+v", back, record)
	}
}

func TestRecentAssessmentsNewestFirst(t *testing.T) {
	initTestDB(t)
	record := sampleRecord(t)

	for i := 0; i < 3; i++ {
		if _, err := SaveAssessment(record, predict.Result{Label: i % 2}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	rows, err := RecentAssessments(2)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ID < rows[1].ID {
		t.Fatal("expected newest first")
	}
}

func TestLogTrainingRun(t *testing.T) {
	initTestDB(t)
	meta := store.Metadata{TrainedAt: time.Now(), Trees: 100, MaxDepth: 5, Seed: 42, Samples: 240}
	var report eval.Report
	report.Accuracy = 0.85
	report.Precision[1] = 0.8
	report.Recall[1] = 0.9

	if err := LogTrainingRun(meta, report); err != nil {
		t.Fatalf("log: %v", err)
	}
}

func TestNotInitialized(t *testing.T) {
	if Ready() {
		t.Fatal("db should not be ready before InitDB")
	}
	if _, err := SaveAssessment(patient.Record{}, predict.Result{}); err == nil {
		t.Fatal("expected error before InitDB")
	}
}
