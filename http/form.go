package http

import (
	"embed"
	"html/template"
	"net/http"

	"heartguard/patient"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// RegisterFormHandlers mounts the HTML assessment form.
func RegisterFormHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", handleIndex)
}

type indexData struct {
	Fields     []patient.FeatureSpec
	ModelReady bool
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexData{Fields: patient.Schema()}
	if assessor != nil {
		data.ModelReady = assessor.Ready()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
