// Package predict exposes the single inference entry point: validate a
// patient record, scale it, run the classifier, return label and
// confidence.
package predict

import (
	"sync"
	"time"

	"heartguard/ml"
	"heartguard/patient"
	"heartguard/store"
)

// ModelContext bundles the loaded artifacts the service needs for one
// inference. It is explicitly constructed and immutable once built, so
// tests can run the service against synthetic artifacts.
type ModelContext struct {
	Scaler     *ml.StandardScaler
	Classifier ml.Classifier
	Meta       store.Metadata
	LoadedAt   time.Time
}

// NewModelContext wraps already-fitted artifacts.
func NewModelContext(scaler *ml.StandardScaler, clf ml.Classifier, meta store.Metadata) *ModelContext {
	return &ModelContext{Scaler: scaler, Classifier: clf, Meta: meta, LoadedAt: time.Now()}
}

// LoadModelContext reads the persisted artifacts and verifies them
// against the shared patient feature schema.
func LoadModelContext(dir string) (*ModelContext, error) {
	scaler, forest, meta, err := store.Load(dir, patient.FeatureNames())
	if err != nil {
		return nil, err
	}
	return NewModelContext(scaler, forest, meta), nil
}

// Result is one deterministic assessment outcome.
type Result struct {
	Label       int     `json:"label"`
	Risk        string  `json:"risk"`
	Probability float64 `json:"probability"` // fraction of trees voting disease present
	Confidence  float64 `json:"confidence"`  // vote fraction for the predicted class
}

const (
	riskHigh = "High Risk of Heart Disease"
	riskLow  = "Low Risk of Heart Disease"
)

// Service answers assessment requests against the current model
// context. The context is swapped atomically under the lock when the
// artifact watcher sees new files; individual assessments never
// observe a half-loaded model.
type Service struct {
	mu sync.RWMutex
	mc *ModelContext
}

// NewService creates a service. A nil context is allowed: the service
// then reports store.ErrModelNotFound until a model is loaded.
func NewService(mc *ModelContext) *Service {
	return &Service{mc: mc}
}

// Ready reports whether a model is loaded.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mc != nil
}

// Metadata returns the loaded model's training metadata.
func (s *Service) Metadata() (store.Metadata, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.mc == nil {
		return store.Metadata{}, false
	}
	return s.mc.Meta, true
}

// Swap replaces the model context.
func (s *Service) Swap(mc *ModelContext) {
	s.mu.Lock()
	s.mc = mc
	s.mu.Unlock()
}

// ReloadFrom loads fresh artifacts from dir and swaps them in. On
// error the current context stays in place.
func (s *Service) ReloadFrom(dir string) error {
	mc, err := LoadModelContext(dir)
	if err != nil {
		return err
	}
	s.Swap(mc)
	return nil
}

// Assess validates the record, scales it with the fitted scaler and
// runs the classifier. Each call is an independent deterministic
// computation; nothing is cached or retried.
func (s *Service) Assess(record patient.Record) (Result, error) {
	if err := record.Validate(); err != nil {
		return Result{}, err
	}

	s.mu.RLock()
	mc := s.mc
	s.mu.RUnlock()
	if mc == nil {
		return Result{}, store.ErrModelNotFound
	}

	scaled, err := mc.Scaler.TransformOne(record.Vector())
	if err != nil {
		return Result{}, err
	}
	label, probability, err := mc.Classifier.Predict(scaled)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Label:       label,
		Risk:        riskLow,
		Probability: probability,
		// The confidence is the raw ensemble vote share, not a
		// calibrated probability.
		Confidence: 1 - probability,
	}
	if label == 1 {
		result.Risk = riskHigh
		result.Confidence = probability
	}
	return result, nil
}
