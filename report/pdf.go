// Package report renders a patient's assessment as a downloadable PDF.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"heartguard/patient"
	"heartguard/predict"
)

var headingCase = cases.Title(language.English)

// Generate renders the assessment report for one stored record.
func Generate(id int64, record patient.Record, result predict.Result, assessedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("HeartGuard Risk Assessment Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "HeartGuard Risk Assessment Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Report #%d - generated %s", id, assessedAt.Format("2006-01-02 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	section(pdf, "patient metrics")
	pdf.SetFont("Helvetica", "", 11)
	values := record.Vector()
	for i, spec := range patient.Schema() {
		pdf.CellFormat(110, 7, spec.Label, "B", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, fmt.Sprintf("%g", values[i]), "B", 1, "R", false, 0, "")
	}
	pdf.Ln(8)

	section(pdf, "assessment result")
	if result.Label == 1 {
		pdf.SetTextColor(200, 30, 30)
	} else {
		pdf.SetTextColor(30, 140, 60)
	}
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, result.Risk, "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Confidence Score: %.1f%%", result.Confidence*100), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Ensemble vote for disease present: %.1f%%", result.Probability*100), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "The confidence score is the share of ensemble members voting for the "+
		"predicted class, not a calibrated probability. This report is produced by a statistical "+
		"model for educational purposes and is not a medical diagnosis. Consult a healthcare "+
		"professional for any concerns.", "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func section(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 9, headingCase.String(title), "", 1, "L", false, 0, "")
	pdf.Ln(1)
}
