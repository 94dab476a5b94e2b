// Command evaluate loads the persisted artifacts, replays the
// training-time held-out split and prints accuracy, per-class
// precision/recall and the confusion matrix.
package main

import (
	"flag"
	"fmt"
	"log"

	"heartguard/dataset"
	"heartguard/eval"
	"heartguard/ml"
	"heartguard/predict"
)

func main() {
	dataPath := flag.String("data", "data/heart.csv", "dataset CSV path")
	modelDir := flag.String("model_dir", "model", "artifact directory")
	seed := flag.Int64("seed", 42, "split seed; must match the training run")
	testRatio := flag.Float64("test_ratio", 0.2, "held-out fraction; must match the training run")
	flag.Parse()

	mc, err := predict.LoadModelContext(*modelDir)
	if err != nil {
		log.Fatalf("failed to load model: %v", err)
	}

	records, labels, stats, err := dataset.Load(*dataPath)
	if err != nil {
		log.Fatalf("failed to load dataset: %v", err)
	}
	log.Printf("dataset loaded: %d rows (%d dropped)", stats.Rows, stats.Dropped)

	vectors := make([][]float64, len(records))
	for i, record := range records {
		vectors[i] = record.Vector()
	}
	_, _, testX, testY := ml.StratifiedSplit(vectors, labels, *testRatio, *seed)
	if len(testX) == 0 {
		log.Fatal("held-out split is empty")
	}

	scaledTest, err := mc.Scaler.Transform(testX)
	if err != nil {
		log.Fatalf("failed to scale held-out data: %v", err)
	}
	report, err := eval.Evaluate(mc.Classifier, scaledTest, testY)
	if err != nil {
		log.Fatalf("failed to evaluate model: %v", err)
	}

	fmt.Print(report.String())
}
