package ml

// Classifier is the read-only prediction contract consumed by the
// prediction service. Predict returns the class label and the
// positive-class probability for one feature vector.
type Classifier interface {
	Predict(features []float64) (int, float64, error)
}
