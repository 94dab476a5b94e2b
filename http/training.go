package http

import (
	"net/http"
	"time"

	"heartguard/dataset"
	"heartguard/db"
	"heartguard/eval"
	"heartguard/logging"
	"heartguard/ml"
	"heartguard/monitoring"
	"heartguard/patient"
	"heartguard/store"
)

// TrainingConfig drives the in-process training endpoint.
type TrainingConfig struct {
	DataPath  string
	ModelDir  string
	Trees     int
	MaxDepth  int
	Seed      int64
	TestRatio float64
}

var trainingConfig TrainingConfig

// SetTrainingConfig injects the training settings.
func SetTrainingConfig(config TrainingConfig) {
	trainingConfig = config
}

// handleTrain retrains the model from the configured dataset, saves
// the artifacts and reloads the prediction service.
func handleTrain(w http.ResponseWriter, r *http.Request) {
	if trainingConfig.DataPath == "" || trainingConfig.ModelDir == "" {
		writeError(w, http.StatusServiceUnavailable, "training not configured")
		return
	}

	report, meta, err := trainModel(trainingConfig)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if assessor != nil {
		if err := assessor.ReloadFrom(trainingConfig.ModelDir); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	if eventHub != nil {
		if err := eventHub.Publish(monitoring.ModelReloaded, meta); err != nil {
			logging.L().Warnf("publish reload event: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"trained_at": meta.TrainedAt,
		"samples":    meta.Samples,
		"accuracy":   report.Accuracy,
		"precision":  report.Precision[1],
		"recall":     report.Recall[1],
	})
}

// trainModel runs the full offline pipeline: load, split, scale, fit,
// evaluate, persist.
func trainModel(config TrainingConfig) (eval.Report, store.Metadata, error) {
	records, labels, stats, err := dataset.Load(config.DataPath)
	if err != nil {
		return eval.Report{}, store.Metadata{}, err
	}
	logging.L().Infof("dataset loaded: %d rows (%d dropped)", stats.Rows, stats.Dropped)

	vectors := make([][]float64, len(records))
	for i, record := range records {
		vectors[i] = record.Vector()
	}

	forestConfig := ml.ForestConfig{Trees: config.Trees, MaxDepth: config.MaxDepth, Seed: config.Seed}
	if forestConfig.Trees <= 0 || forestConfig.MaxDepth <= 0 {
		forestConfig = ml.DefaultForestConfig()
	}

	trainX, trainY, testX, testY := ml.StratifiedSplit(vectors, labels, config.TestRatio, forestConfig.Seed)

	scaler, err := ml.FitScaler(patient.FeatureNames(), trainX)
	if err != nil {
		return eval.Report{}, store.Metadata{}, err
	}
	scaledTrain, err := scaler.Transform(trainX)
	if err != nil {
		return eval.Report{}, store.Metadata{}, err
	}
	forest, err := ml.TrainForest(patient.FeatureNames(), scaledTrain, trainY, forestConfig)
	if err != nil {
		return eval.Report{}, store.Metadata{}, err
	}

	scaledTest, err := scaler.Transform(testX)
	if err != nil {
		return eval.Report{}, store.Metadata{}, err
	}
	report, err := eval.Evaluate(forest, scaledTest, testY)
	if err != nil {
		return eval.Report{}, store.Metadata{}, err
	}

	meta := store.Metadata{
		TrainedAt:    time.Now(),
		Trees:        forestConfig.Trees,
		MaxDepth:     forestConfig.MaxDepth,
		Seed:         forestConfig.Seed,
		Samples:      len(trainX),
		Accuracy:     report.Accuracy,
		FeatureNames: patient.FeatureNames(),
	}
	if err := store.Save(config.ModelDir, scaler, forest, meta); err != nil {
		return eval.Report{}, store.Metadata{}, err
	}

	if db.Ready() {
		if err := db.LogTrainingRun(meta, report); err != nil {
			logging.L().Warnf("log training run: %v", err)
		}
	}
	return report, meta, nil
}
