// Command train_model fits the scaler and the random forest on the
// heart disease dataset and writes both artifacts to the model
// directory.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"heartguard/dataset"
	"heartguard/db"
	"heartguard/eval"
	"heartguard/ml"
	"heartguard/patient"
	"heartguard/store"
)

func main() {
	dataPath := flag.String("data", "data/heart.csv", "dataset CSV path")
	modelDir := flag.String("model_dir", "model", "artifact output directory")
	trees := flag.Int("trees", 100, "number of trees")
	maxDepth := flag.Int("max_depth", 5, "max tree depth")
	seed := flag.Int64("seed", 42, "random seed (pins the split and the forest)")
	testRatio := flag.Float64("test_ratio", 0.2, "held-out fraction")
	dbPath := flag.String("db", "", "optional SQLite path to log the training run")
	flag.Parse()

	records, labels, stats, err := dataset.Load(*dataPath)
	if err != nil {
		log.Fatalf("failed to load dataset: %v", err)
	}
	log.Printf("dataset loaded: %d rows (%d dropped)", stats.Rows, stats.Dropped)

	vectors := make([][]float64, len(records))
	for i, record := range records {
		vectors[i] = record.Vector()
	}
	trainX, trainY, testX, testY := ml.StratifiedSplit(vectors, labels, *testRatio, *seed)
	log.Printf("split: %d training / %d test samples", len(trainX), len(testX))

	scaler, err := ml.FitScaler(patient.FeatureNames(), trainX)
	if err != nil {
		log.Fatalf("failed to fit scaler: %v", err)
	}
	scaledTrain, err := scaler.Transform(trainX)
	if err != nil {
		log.Fatalf("failed to scale training data: %v", err)
	}

	config := ml.ForestConfig{Trees: *trees, MaxDepth: *maxDepth, Seed: *seed}
	forest, err := ml.TrainForest(patient.FeatureNames(), scaledTrain, trainY, config)
	if err != nil {
		log.Fatalf("failed to train model: %v", err)
	}

	scaledTest, err := scaler.Transform(testX)
	if err != nil {
		log.Fatalf("failed to scale test data: %v", err)
	}
	report, err := eval.Evaluate(forest, scaledTest, testY)
	if err != nil {
		log.Fatalf("failed to evaluate model: %v", err)
	}
	log.Printf("accuracy=%.4f precision=%.4f recall=%.4f",
		report.Accuracy, report.Precision[1], report.Recall[1])

	meta := store.Metadata{
		TrainedAt:    time.Now(),
		Trees:        config.Trees,
		MaxDepth:     config.MaxDepth,
		Seed:         config.Seed,
		Samples:      len(trainX),
		Accuracy:     report.Accuracy,
		FeatureNames: patient.FeatureNames(),
	}
	if err := store.Save(*modelDir, scaler, forest, meta); err != nil {
		log.Fatalf("failed to save model: %v", err)
	}

	if *dbPath != "" {
		if err := db.InitDB(*dbPath); err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()
		if err := db.LogTrainingRun(meta, report); err != nil {
			log.Fatalf("failed to log training run: %v", err)
		}
	}

	fmt.Printf("model saved to %s\n", *modelDir)
}
