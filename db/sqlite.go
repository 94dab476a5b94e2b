// Package db keeps the assessment history and training log in SQLite.
package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"heartguard/eval"
	"heartguard/patient"
	"heartguard/predict"
	"heartguard/store"
)

var database *sql.DB

// InitDB opens the SQLite database and creates the tables.
func InitDB(path string) error {
	var err error
	database, err = sql.Open("sqlite3", path)
	if err != nil {
		return err
	}

	query := `
    CREATE TABLE IF NOT EXISTS assessments (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        inputs TEXT,
        label INTEGER,
        probability REAL,
        confidence REAL,
        risk VARCHAR(50),
        created_at DATETIME
    );
    CREATE TABLE IF NOT EXISTS training_runs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        trees INTEGER,
        max_depth INTEGER,
        seed INTEGER,
        data_points INTEGER,
        accuracy REAL,
        precision REAL,
        recall REAL,
        trained_at DATETIME
    );`
	_, err = database.Exec(query)
	return err
}

// Ready reports whether InitDB has been called successfully.
func Ready() bool {
	return database != nil
}

// Close releases the database handle.
func Close() error {
	if database == nil {
		return nil
	}
	err := database.Close()
	database = nil
	return err
}

// AssessmentRow is one stored assessment.
type AssessmentRow struct {
	ID          int64     `json:"id"`
	Inputs      string    `json:"inputs"` // JSON map of the submitted fields
	Label       int       `json:"label"`
	Probability float64   `json:"probability"`
	Confidence  float64   `json:"confidence"`
	Risk        string    `json:"risk"`
	CreatedAt   time.Time `json:"created_at"`
}

// Record rebuilds the validated patient record from the stored inputs.
func (a AssessmentRow) Record() (patient.Record, error) {
	var values map[string]float64
	if err := json.Unmarshal([]byte(a.Inputs), &values); err != nil {
		return patient.Record{}, err
	}
	return patient.FromValues(values)
}

// SaveAssessment stores one assessment and returns its id.
func SaveAssessment(record patient.Record, result predict.Result) (int64, error) {
	if database == nil {
		return 0, errors.New("database not initialized")
	}
	inputs, err := json.Marshal(record.Values())
	if err != nil {
		return 0, err
	}
	res, err := database.Exec(
		`INSERT INTO assessments (inputs, label, probability, confidence, risk, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		string(inputs), result.Label, result.Probability, result.Confidence, result.Risk, time.Now(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetAssessment fetches one stored assessment by id.
func GetAssessment(id int64) (AssessmentRow, error) {
	if database == nil {
		return AssessmentRow{}, errors.New("database not initialized")
	}
	var row AssessmentRow
	err := database.QueryRow(
		`SELECT id, inputs, label, probability, confidence, risk, created_at
         FROM assessments WHERE id = ?`, id,
	).Scan(&row.ID, &row.Inputs, &row.Label, &row.Probability, &row.Confidence, &row.Risk, &row.CreatedAt)
	return row, err
}

// RecentAssessments returns up to limit assessments, newest first.
func RecentAssessments(limit int) ([]AssessmentRow, error) {
	if database == nil {
		return nil, errors.New("database not initialized")
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := database.Query(
		`SELECT id, inputs, label, probability, confidence, risk, created_at
         FROM assessments ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AssessmentRow
	for rows.Next() {
		var row AssessmentRow
		if err := rows.Scan(&row.ID, &row.Inputs, &row.Label, &row.Probability, &row.Confidence, &row.Risk, &row.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// LogTrainingRun records one training run with its held-out metrics.
// Precision and recall are the positive-class figures.
func LogTrainingRun(meta store.Metadata, report eval.Report) error {
	if database == nil {
		return errors.New("database not initialized")
	}
	_, err := database.Exec(
		`INSERT INTO training_runs (trees, max_depth, seed, data_points, accuracy, precision, recall, trained_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.Trees, meta.MaxDepth, meta.Seed, meta.Samples,
		report.Accuracy, report.Precision[1], report.Recall[1], meta.TrainedAt,
	)
	return err
}
