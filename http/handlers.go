package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"heartguard/db"
	"heartguard/logging"
	"heartguard/monitoring"
	"heartguard/patient"
	"heartguard/predict"
	"heartguard/report"
	"heartguard/store"
)

var (
	assessor    *predict.Service
	eventHub    *monitoring.Hub
	reportCache *report.Cache
)

// SetService injects the prediction service.
func SetService(service *predict.Service) {
	assessor = service
}

// SetHub injects the assessment event hub.
func SetHub(hub *monitoring.Hub) {
	eventHub = hub
}

// SetReportCache injects the rendered-report cache.
func SetReportCache(cache *report.Cache) {
	reportCache = cache
}

// RegisterHandlers mounts the JSON API.
func RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("POST /api/assess", handleAssess)
	mux.HandleFunc("GET /api/assessments", handleAssessments)
	mux.HandleFunc("GET /api/report/{id}", handleReport)
	mux.HandleFunc("GET /api/model", handleModelInfo)
	mux.HandleFunc("POST /api/train", handleTrain)
	mux.HandleFunc("GET /api/ws/events", handleEvents)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// assessResponse extends the prediction result with the stored id.
type assessResponse struct {
	ID int64 `json:"id,omitempty"`
	predict.Result
}

func handleAssess(w http.ResponseWriter, r *http.Request) {
	if assessor == nil {
		writeError(w, http.StatusServiceUnavailable, "prediction service not initialized")
		return
	}

	var values map[string]float64
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be a JSON object of numeric fields")
		return
	}
	record, err := patient.FromValues(values)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := assessor.Assess(record)
	if err != nil {
		var validationErr *patient.ValidationError
		switch {
		case errors.Is(err, store.ErrModelNotFound):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		case errors.As(err, &validationErr):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	response := assessResponse{Result: result}
	if db.Ready() {
		id, err := db.SaveAssessment(record, result)
		if err != nil {
			logging.L().Warnf("save assessment: %v", err)
		} else {
			response.ID = id
		}
	}

	if eventHub != nil {
		if err := eventHub.Publish(monitoring.AssessmentDone, response); err != nil {
			logging.L().Warnf("publish assessment event: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, response)
}

func handleAssessments(w http.ResponseWriter, r *http.Request) {
	if !db.Ready() {
		writeError(w, http.StatusServiceUnavailable, "assessment history not available")
		return
	}
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}
	rows, err := db.RecentAssessments(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"assessments": rows})
}

func handleReport(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	if reportCache != nil {
		if pdf, ok := reportCache.Get(id); ok {
			servePDF(w, id, pdf)
			return
		}
	}

	if !db.Ready() {
		writeError(w, http.StatusServiceUnavailable, "assessment history not available")
		return
	}
	row, err := db.GetAssessment(id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "assessment not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	record, err := row.Record()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result := predict.Result{
		Label:       row.Label,
		Risk:        row.Risk,
		Probability: row.Probability,
		Confidence:  row.Confidence,
	}
	pdf, err := report.Generate(id, record, result, row.CreatedAt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if reportCache != nil {
		reportCache.Add(id, pdf)
	}
	servePDF(w, id, pdf)
}

func handleModelInfo(w http.ResponseWriter, r *http.Request) {
	if assessor == nil {
		writeError(w, http.StatusServiceUnavailable, "prediction service not initialized")
		return
	}
	meta, ok := assessor.Metadata()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, store.ErrModelNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"trained_at": meta.TrainedAt,
		"trees":      meta.Trees,
		"max_depth":  meta.MaxDepth,
		"seed":       meta.Seed,
		"samples":    meta.Samples,
		"accuracy":   meta.Accuracy,
		"features":   meta.FeatureNames,
		"calibrated": false,
	})
}

func handleEvents(w http.ResponseWriter, r *http.Request) {
	if eventHub == nil {
		writeError(w, http.StatusServiceUnavailable, "event hub not initialized")
		return
	}
	eventHub.HandleWebSocket(w, r)
}

func servePDF(w http.ResponseWriter, id int64, pdf []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=heartguard_report_"+strconv.FormatInt(id, 10)+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
