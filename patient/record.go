// Package patient defines the clinical record consumed by the risk
// assessment pipeline and the named feature schema shared by training
// and inference.
package patient

import (
	"fmt"
)

// Record is one patient's clinical metrics, following the UCI heart
// disease dataset fields.
type Record struct {
	Age      float64 `json:"age"`
	Sex      float64 `json:"sex"`
	CP       float64 `json:"cp"`
	Trestbps float64 `json:"trestbps"`
	Chol     float64 `json:"chol"`
	FBS      float64 `json:"fbs"`
	RestECG  float64 `json:"restecg"`
	Thalach  float64 `json:"thalach"`
	Exang    float64 `json:"exang"`
	Oldpeak  float64 `json:"oldpeak"`
	Slope    float64 `json:"slope"`
	CA       float64 `json:"ca"`
	Thal     float64 `json:"thal"`
}

// FeatureSpec describes one input field: its dataset column name, a
// human-readable label and the valid numeric range.
type FeatureSpec struct {
	Name  string  `json:"name"`
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// schema fixes the feature order used everywhere: dataset columns,
// scaler statistics and classifier inputs all follow this order.
var schema = []FeatureSpec{
	{Name: "age", Label: "Age (years)", Min: 1, Max: 120},
	{Name: "sex", Label: "Sex (1 = male, 0 = female)", Min: 0, Max: 1},
	{Name: "cp", Label: "Chest pain type (0-3)", Min: 0, Max: 3},
	{Name: "trestbps", Label: "Resting blood pressure (mm Hg)", Min: 90, Max: 200},
	{Name: "chol", Label: "Serum cholesterol (mg/dl)", Min: 100, Max: 600},
	{Name: "fbs", Label: "Fasting blood sugar > 120 mg/dl (1 = yes)", Min: 0, Max: 1},
	{Name: "restecg", Label: "Resting ECG result (0-2)", Min: 0, Max: 2},
	{Name: "thalach", Label: "Max heart rate achieved", Min: 60, Max: 220},
	{Name: "exang", Label: "Exercise induced angina (1 = yes)", Min: 0, Max: 1},
	{Name: "oldpeak", Label: "ST depression induced by exercise", Min: 0, Max: 6.2},
	{Name: "slope", Label: "Peak exercise ST segment slope (0-2)", Min: 0, Max: 2},
	{Name: "ca", Label: "Major vessels colored by fluoroscopy (0-4)", Min: 0, Max: 4},
	{Name: "thal", Label: "Thalassemia code (0-3)", Min: 0, Max: 3},
}

// Schema returns the ordered feature specs.
func Schema() []FeatureSpec {
	specs := make([]FeatureSpec, len(schema))
	copy(specs, schema)
	return specs
}

// FeatureNames returns the feature names in schema order.
func FeatureNames() []string {
	names := make([]string, len(schema))
	for i, spec := range schema {
		names[i] = spec.Name
	}
	return names
}

// Vector returns the record's values in schema order.
func (r Record) Vector() []float64 {
	return []float64{
		r.Age, r.Sex, r.CP, r.Trestbps, r.Chol, r.FBS, r.RestECG,
		r.Thalach, r.Exang, r.Oldpeak, r.Slope, r.CA, r.Thal,
	}
}

// FromVector builds a record from values in schema order.
func FromVector(values []float64) (Record, error) {
	if len(values) != len(schema) {
		return Record{}, fmt.Errorf("expected %d values, got %d", len(schema), len(values))
	}
	return Record{
		Age: values[0], Sex: values[1], CP: values[2], Trestbps: values[3],
		Chol: values[4], FBS: values[5], RestECG: values[6], Thalach: values[7],
		Exang: values[8], Oldpeak: values[9], Slope: values[10], CA: values[11],
		Thal: values[12],
	}, nil
}

// FromValues builds a validated record from named values. Every schema
// field must be present and within its valid range.
func FromValues(values map[string]float64) (Record, error) {
	vector := make([]float64, len(schema))
	for i, spec := range schema {
		value, ok := values[spec.Name]
		if !ok {
			return Record{}, &ValidationError{Field: spec.Name, Reason: "required field is missing"}
		}
		if value < spec.Min || value > spec.Max {
			return Record{}, &ValidationError{
				Field:  spec.Name,
				Reason: fmt.Sprintf("value %g outside valid range [%g, %g]", value, spec.Min, spec.Max),
			}
		}
		vector[i] = value
	}
	return FromVector(vector)
}

// Validate checks every field against its schema range.
func (r Record) Validate() error {
	vector := r.Vector()
	for i, spec := range schema {
		if vector[i] < spec.Min || vector[i] > spec.Max {
			return &ValidationError{
				Field:  spec.Name,
				Reason: fmt.Sprintf("value %g outside valid range [%g, %g]", vector[i], spec.Min, spec.Max),
			}
		}
	}
	return nil
}

// Values returns the record as a named map, the inverse of FromValues.
func (r Record) Values() map[string]float64 {
	vector := r.Vector()
	values := make(map[string]float64, len(schema))
	for i, spec := range schema {
		values[spec.Name] = vector[i]
	}
	return values
}

// ValidationError reports a missing or out-of-range input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}
