package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/lastikpazari/backend/internal/domain/report"
	"github.com/lastikpazari/backend/internal/domain/shared/valueobject"
)

// ReportTitle heads both export formats
const ReportTitle = "Lastik Analiz Raporu"

// docxRow is one label/value row of a document table
type docxRow struct {
	Label string
	Value string
	Color string // run color, empty for default
}

type docxData struct {
	Title           string
	GeneratedAt     string
	Customer        []docxRow
	Tire            []docxRow
	Analysis        []docxRow
	Recommendations []string
	Issues          []string
}

func xmlEscape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

var docxFuncs = template.FuncMap{"x": xmlEscape}

// BuildDocument renders the analysis as a .docx document with a title
// header and a generation timestamp footer. Recommendation and issue
// sections are left out when their list is empty.
func BuildDocument(a *report.Analysis, now time.Time) ([]byte, error) {
	sev := a.Severity()
	data := docxData{
		Title:       ReportTitle,
		GeneratedAt: valueobject.FormatDateTimeTR(now),
		Customer: []docxRow{
			{Label: "Müşteri", Value: report.Text(a.Customer.FullName)},
			{Label: "Telefon", Value: report.Text(a.Customer.Phone)},
			{Label: "Plaka", Value: report.Text(a.Customer.Plate)},
			{Label: "Analiz Tarihi", Value: a.AnalysedAtText()},
		},
		Tire: []docxRow{
			{Label: "Marka", Value: report.Text(a.Tire.Brand)},
			{Label: "Model", Value: report.Text(a.Tire.Model)},
			{Label: "Ebat", Value: report.Text(a.Tire.Size)},
			{Label: "Üretim Yılı", Value: a.ProductYearText()},
			{Label: "Diş Derinliği", Value: a.TreadDepthText()},
		},
		Analysis: []docxRow{
			{Label: "Güvenlik Skoru", Value: a.ScoreText(), Color: sev.Color},
			{Label: "Değerlendirme", Value: sev.Label, Color: sev.Color},
			{Label: "Genel Durum", Value: report.Text(a.Result.OverallCondition)},
			{Label: "Aşınma Seviyesi", Value: report.Text(a.Result.WearLevel)},
			{Label: "Tahmini Kalan Ömür", Value: report.Text(a.Result.EstimatedLifetime)},
			{Label: "Açıklama", Value: report.Text(a.Result.Description)},
		},
		Recommendations: a.RecommendationList(),
		Issues:          a.IssueList(),
	}

	parts := []struct {
		name string
		tmpl *template.Template
	}{
		{"[Content_Types].xml", contentTypesTmpl},
		{"_rels/.rels", rootRelsTmpl},
		{"docProps/core.xml", corePropsTmpl},
		{"word/_rels/document.xml.rels", documentRelsTmpl},
		{"word/document.xml", documentTmpl},
		{"word/header1.xml", headerTmpl},
		{"word/footer1.xml", footerTmpl},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: part.name, Method: zip.Deflate, Modified: now})
		if err != nil {
			return nil, fmt.Errorf("failed to add %s: %w", part.name, err)
		}
		if err := part.tmpl.Execute(w, data); err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish document: %w", err)
	}
	return buf.Bytes(), nil
}

func docxTemplate(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(docxFuncs).Parse(text))
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`

var contentTypesTmpl = docxTemplate("content_types", xmlHeader+`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/header1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/>
<Override PartName="/word/footer1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"/>
<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
</Types>`)

var rootRelsTmpl = docxTemplate("root_rels", xmlHeader+`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
</Relationships>`)

var corePropsTmpl = docxTemplate("core", xmlHeader+`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/">
<dc:title>{{x .Title}}</dc:title>
<dc:creator>LastikPazari</dc:creator>
</cp:coreProperties>`)

var documentRelsTmpl = docxTemplate("document_rels", xmlHeader+`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rIdHeader1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header1.xml"/>
<Relationship Id="rIdFooter1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer" Target="footer1.xml"/>
</Relationships>`)

var headerTmpl = docxTemplate("header", xmlHeader+`<w:hdr `+wordNS+`>
<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:rPr><w:b/><w:sz w:val="28"/></w:rPr><w:t>{{x .Title}}</w:t></w:r></w:p>
</w:hdr>`)

var footerTmpl = docxTemplate("footer", xmlHeader+`<w:ftr `+wordNS+`>
<w:p><w:pPr><w:jc w:val="right"/></w:pPr><w:r><w:rPr><w:sz w:val="16"/><w:color w:val="6B7280"/></w:rPr><w:t xml:space="preserve">Oluşturulma: {{x .GeneratedAt}}</w:t></w:r></w:p>
</w:ftr>`)

// docxBlocks must not emit text; the XML declaration has to come first
const docxBlocks = `
{{- define "heading"}}<w:p><w:pPr><w:spacing w:before="240" w:after="120"/></w:pPr><w:r><w:rPr><w:b/><w:sz w:val="26"/></w:rPr><w:t>{{x .}}</w:t></w:r></w:p>{{end -}}
{{- define "table"}}<w:tbl><w:tblPr><w:tblW w:w="5000" w:type="pct"/><w:tblBorders><w:top w:val="single" w:sz="4" w:color="D1D5DB"/><w:left w:val="single" w:sz="4" w:color="D1D5DB"/><w:bottom w:val="single" w:sz="4" w:color="D1D5DB"/><w:right w:val="single" w:sz="4" w:color="D1D5DB"/><w:insideH w:val="single" w:sz="4" w:color="D1D5DB"/><w:insideV w:val="single" w:sz="4" w:color="D1D5DB"/></w:tblBorders></w:tblPr>
{{range .}}<w:tr><w:tc><w:tcPr><w:tcW w:w="1800" w:type="pct"/><w:shd w:val="clear" w:color="auto" w:fill="F3F4F6"/></w:tcPr><w:p><w:r><w:rPr><w:b/></w:rPr><w:t>{{x .Label}}</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r>{{if .Color}}<w:rPr><w:b/><w:color w:val="{{.Color}}"/></w:rPr>{{end}}<w:t xml:space="preserve">{{x .Value}}</w:t></w:r></w:p></w:tc></w:tr>
{{end}}</w:tbl>{{end -}}
{{- define "list"}}{{range $i, $item := .}}<w:p><w:pPr><w:ind w:left="360"/></w:pPr><w:r><w:t xml:space="preserve">{{inc $i}}. {{x $item}}</w:t></w:r></w:p>
{{end}}{{end -}}`

var documentTmpl = template.Must(template.New("document").Funcs(docxFuncs).Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(docxBlocks + xmlHeader + `<w:document ` + wordNS + `>
<w:body>
<w:p><w:pPr><w:jc w:val="center"/><w:spacing w:after="240"/></w:pPr><w:r><w:rPr><w:b/><w:sz w:val="36"/></w:rPr><w:t>{{x .Title}}</w:t></w:r></w:p>
{{template "heading" "Müşteri Bilgileri"}}
{{template "table" .Customer}}
{{template "heading" "Lastik Bilgileri"}}
{{template "table" .Tire}}
{{template "heading" "Analiz Sonuçları"}}
{{template "table" .Analysis}}
{{- if .Recommendations}}
{{template "heading" "Öneriler"}}
{{template "list" .Recommendations}}
{{- end}}
{{- if .Issues}}
{{template "heading" "Tespit Edilen Sorunlar"}}
{{template "list" .Issues}}
{{- end}}
<w:sectPr><w:headerReference w:type="default" r:id="rIdHeader1"/><w:footerReference w:type="default" r:id="rIdFooter1"/><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="1440" w:right="1134" w:bottom="1440" w:left="1134" w:header="708" w:footer="708" w:gutter="0"/></w:sectPr>
</w:body>
</w:document>`))
