package patient

import (
	"errors"
	"testing"
)

func validValues() map[string]float64 {
	return map[string]float64{
		"age": 63, "sex": 1, "cp": 3, "trestbps": 145, "chol": 233,
		"fbs": 1, "restecg": 0, "thalach": 150, "exang": 0,
		"oldpeak": 2.3, "slope": 0, "ca": 0, "thal": 1,
	}
}

func TestFromValues(t *testing.T) {
	record, err := FromValues(validValues())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Age != 63 || record.Thal != 1 {
		t.Fatalf("unexpected record: %+v", record)
	}
}

func TestFromValuesMissingField(t *testing.T) {
	values := validValues()
	delete(values, "chol")

	_, err := FromValues(values)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Field != "chol" {
		t.Fatalf("expected chol, got %s", validationErr.Field)
	}
}

func TestFromValuesOutOfRange(t *testing.T) {
	values := validValues()
	values["trestbps"] = 500

	_, err := FromValues(values)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Field != "trestbps" {
		t.Fatalf("expected trestbps, got %s", validationErr.Field)
	}
}

func TestVectorFollowsSchemaOrder(t *testing.T) {
	record, err := FromValues(validValues())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vector := record.Vector()
	names := FeatureNames()
	if len(vector) != len(names) {
		t.Fatalf("vector length %d, schema length %d", len(vector), len(names))
	}
	values := validValues()
	for i, name := range names {
		if vector[i] != values[name] {
			t.Fatalf("position %d (%s): got %g, want %g", i, name, vector[i], values[name])
		}
	}
}

func TestValuesRoundTrip(t *testing.T) {
	record, err := FromValues(validValues())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	back, err := FromValues(record.Values())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back != record {
		t.Fatalf("round trip mismatch: %+v vs %+v", back, record)
	}
}

func TestValidateRejectsZeroValueRecord(t *testing.T) {
	var record Record
	if err := record.Validate(); err == nil {
		t.Fatal("expected validation error for zero-value record")
	}
}
