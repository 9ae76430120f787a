package export

import (
	"fmt"
	"time"

	"github.com/lastikpazari/backend/internal/domain/report"
	"github.com/lastikpazari/backend/internal/domain/shared/valueobject"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the workbook, in tab order
const (
	SheetSummary         = "Özet"
	SheetResults         = "Analiz Sonuçları"
	SheetRecommendations = "Öneriler"
	SheetIssues          = "Tespit Edilen Sorunlar"
)

const (
	headerFill = "#1F2937"
	titleColor = "#111827"
)

// workbook wraps an excelize file with the styles shared by every sheet
type workbook struct {
	f        *excelize.File
	title    int
	header   int
	severity int
	wrap     int
}

func newWorkbook(sev report.Severity) (*workbook, error) {
	f := excelize.NewFile()
	wb := &workbook{f: f}

	var err error
	if wb.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14, Color: titleColor},
	}); err != nil {
		return nil, err
	}
	if wb.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
		Alignment: &excelize.Alignment{Vertical: "center"},
	}); err != nil {
		return nil, err
	}
	if wb.severity, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#" + sev.Color}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return nil, err
	}
	if wb.wrap, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	}); err != nil {
		return nil, err
	}
	return wb, nil
}

// keyValueSheet writes a two-column "Alan | Değer" table starting at row 3.
// It returns the row number of every written key.
func (wb *workbook) keyValueSheet(sheet, title string, rows [][2]string) (map[string]int, error) {
	f := wb.f
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", wb.title); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A2", &[]any{"Alan", "Değer"}); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A2", "B2", wb.header); err != nil {
		return nil, err
	}

	index := make(map[string]int, len(rows))
	for i, row := range rows {
		r := i + 3
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", r), &[]any{row[0], row[1]}); err != nil {
			return nil, err
		}
		index[row[0]] = r
	}
	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "B", "B", 60); err != nil {
		return nil, err
	}
	return index, nil
}

// listSheet writes a numbered list; an empty list yields one placeholder row
func (wb *workbook) listSheet(sheet, column string, items []string) error {
	f := wb.f
	if err := f.SetSheetRow(sheet, "A1", &[]any{"#", column}); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "B1", wb.header); err != nil {
		return err
	}
	if len(items) == 0 {
		if err := f.SetSheetRow(sheet, "A2", &[]any{"-", report.Placeholder}); err != nil {
			return err
		}
	}
	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &[]any{i + 1, item}); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 6); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 80); err != nil {
		return err
	}
	last := len(items) + 1
	if last < 2 {
		last = 2
	}
	return f.SetCellStyle(sheet, "B2", fmt.Sprintf("B%d", last), wb.wrap)
}

// BuildWorkbook renders the analysis as an .xlsx workbook
func BuildWorkbook(a *report.Analysis, now time.Time) ([]byte, error) {
	sev := a.Severity()
	wb, err := newWorkbook(sev)
	if err != nil {
		return nil, fmt.Errorf("failed to create workbook styles: %w", err)
	}
	defer wb.f.Close()
	f := wb.f

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetResults, SheetRecommendations, SheetIssues} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
	}

	summary, err := wb.keyValueSheet(SheetSummary, ReportTitle, [][2]string{
		{"Müşteri", report.Text(a.Customer.FullName)},
		{"Telefon", report.Text(a.Customer.Phone)},
		{"Plaka", report.Text(a.Customer.Plate)},
		{"Analiz Tarihi", a.AnalysedAtText()},
		{"Marka", report.Text(a.Tire.Brand)},
		{"Model", report.Text(a.Tire.Model)},
		{"Ebat", report.Text(a.Tire.Size)},
		{"Üretim Yılı", a.ProductYearText()},
		{"Diş Derinliği", a.TreadDepthText()},
		{"Güvenlik Skoru", a.ScoreText()},
		{"Değerlendirme", sev.Label},
		{"Oluşturulma", valueobject.FormatDateTimeTR(now)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write summary sheet: %w", err)
	}

	results, err := wb.keyValueSheet(SheetResults, SheetResults, [][2]string{
		{"Güvenlik Skoru", a.ScoreText()},
		{"Değerlendirme", sev.Label},
		{"Genel Durum", report.Text(a.Result.OverallCondition)},
		{"Aşınma Seviyesi", report.Text(a.Result.WearLevel)},
		{"Tahmini Kalan Ömür", report.Text(a.Result.EstimatedLifetime)},
		{"Açıklama", report.Text(a.Result.Description)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write results sheet: %w", err)
	}

	for sheet, rows := range map[string]map[string]int{SheetSummary: summary, SheetResults: results} {
		for _, key := range []string{"Güvenlik Skoru", "Değerlendirme"} {
			cell := fmt.Sprintf("B%d", rows[key])
			if err := f.SetCellStyle(sheet, cell, cell, wb.severity); err != nil {
				return nil, err
			}
		}
	}
	if err := f.SetCellStyle(SheetResults, fmt.Sprintf("B%d", results["Açıklama"]), fmt.Sprintf("B%d", results["Açıklama"]), wb.wrap); err != nil {
		return nil, err
	}

	if err := wb.listSheet(SheetRecommendations, "Öneri", a.RecommendationList()); err != nil {
		return nil, fmt.Errorf("failed to write recommendations sheet: %w", err)
	}
	if err := wb.listSheet(SheetIssues, "Sorun", a.IssueList()); err != nil {
		return nil, fmt.Errorf("failed to write issues sheet: %w", err)
	}

	f.SetActiveSheet(0)
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   ReportTitle,
		Creator: "LastikPazari",
		Created: now.UTC().Format(time.RFC3339),
	}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
