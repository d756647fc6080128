package readings

import (
	"bytes"
	"strconv"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"github.com/okalmanwa/heart-monitor/internal/models"
)

// ReportFilename is the attachment name used by the export endpoint.
const ReportFilename = "moyo_blood_pressure_report.pdf"

const reportDisclaimer = "Medical Disclaimer: This report is for informational purposes only and is not " +
	"a substitute for professional medical advice. Please consult with a healthcare provider " +
	"for any concerns about your blood pressure."

var reportColumns = []struct {
	title string
	width float64
}{
	{"Date", 35},
	{"Systolic", 25},
	{"Diastolic", 25},
	{"Heart Rate", 28},
	{"Notes", 77},
}

// BuildReport renders the user's reading history into a PDF document.
// Deterministic for a given input sequence; readings are expected in
// descending recorded-time order.
func BuildReport(user *models.User, rows []Reading) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Moyo - Blood Pressure Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Moyo - Blood Pressure Report for "+user.FullName(), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Header row
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(245, 245, 245)
	for _, col := range reportColumns {
		pdf.CellFormat(col.width, 8, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(245, 245, 220)
	for i := range rows {
		r := &rows[i]
		heartRate := "N/A"
		if r.HeartRate != nil {
			heartRate = strconv.Itoa(*r.HeartRate)
		}
		cells := []string{
			r.RecordedAt.Format("2006-01-02 15:04"),
			strconv.Itoa(r.Systolic),
			strconv.Itoa(r.Diastolic),
			heartRate,
			truncateNotes(r.Notes, 50),
		}
		for j, col := range reportColumns {
			pdf.CellFormat(col.width, 7, cells[j], "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, reportDisclaimer, "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncateNotes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
