// Package report holds the tire analysis payload rendered by the document exporters.
package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/lastikpazari/backend/internal/domain/shared"
	"github.com/lastikpazari/backend/internal/domain/shared/valueobject"
)

// Placeholder is rendered for every missing field
const Placeholder = "Belirtilmemiş"

// TireInfo describes the analysed tire
type TireInfo struct {
	Brand       string   `json:"marka"`
	Model       string   `json:"model"`
	Size        string   `json:"ebat"`
	ProductYear *int     `json:"uretimYili"`
	TreadDepth  *float64 `json:"disDerinligi"`
}

// AnalysisResult is the outcome of the condition analysis
type AnalysisResult struct {
	SafetyScore       *float64 `json:"guvenlikSkoru"`
	OverallCondition  string   `json:"genelDurum"`
	WearLevel         string   `json:"asinmaSeviyesi"`
	EstimatedLifetime string   `json:"tahminiKalanOmur"`
	Description       string   `json:"aciklama"`
}

// CustomerInfo identifies whose tire was analysed
type CustomerInfo struct {
	FullName string `json:"adSoyad"`
	Phone    string `json:"telefon"`
	Plate    string `json:"plaka"`
}

// Analysis is the export request payload
type Analysis struct {
	Tire            TireInfo       `json:"lastikBilgileri"`
	Result          AnalysisResult `json:"analizSonuclari"`
	Recommendations []string       `json:"oneriler"`
	DetectedIssues  []string       `json:"tespitEdilenSorunlar"`
	Customer        CustomerInfo   `json:"musteriBilgileri"`
	AnalysedAt      string         `json:"analizTarihi"`
}

// Validate rejects payloads that carry nothing to export
func (a *Analysis) Validate() error {
	if a.Result.SafetyScore != nil && (*a.Result.SafetyScore < 0 || *a.Result.SafetyScore > 100) {
		return shared.NewDomainError("INVALID_SCORE", "Safety score must be between 0 and 100")
	}
	empty := a.Tire == (TireInfo{}) &&
		a.Result == (AnalysisResult{}) &&
		a.Customer == (CustomerInfo{}) &&
		len(a.Recommendations) == 0 &&
		len(a.DetectedIssues) == 0
	if empty {
		return shared.NewDomainError("EMPTY_ANALYSIS", "Analysis payload is empty")
	}
	return nil
}

// RecommendationList returns the non-blank recommendations
func (a *Analysis) RecommendationList() []string {
	return nonBlank(a.Recommendations)
}

// IssueList returns the non-blank detected issues
func (a *Analysis) IssueList() []string {
	return nonBlank(a.DetectedIssues)
}

// Severity classifies the safety score
func (a *Analysis) Severity() Severity {
	return ClassifySafetyScore(a.Result.SafetyScore)
}

// ScoreText renders the safety score as "45/100"
func (a *Analysis) ScoreText() string {
	if a.Result.SafetyScore == nil {
		return Placeholder
	}
	return strconv.FormatFloat(*a.Result.SafetyScore, 'f', -1, 64) + "/100"
}

// ProductYearText renders the production year
func (a *Analysis) ProductYearText() string {
	if a.Tire.ProductYear == nil || *a.Tire.ProductYear <= 0 {
		return Placeholder
	}
	return strconv.Itoa(*a.Tire.ProductYear)
}

// TreadDepthText renders the tread depth in millimetres with a decimal comma
func (a *Analysis) TreadDepthText() string {
	if a.Tire.TreadDepth == nil {
		return Placeholder
	}
	return strings.Replace(strconv.FormatFloat(*a.Tire.TreadDepth, 'f', 1, 64), ".", ",", 1) + " mm"
}

// AnalysedAtText renders the analysis date in display format.
// Unparseable dates are shown as sent.
func (a *Analysis) AnalysedAtText() string {
	raw := strings.TrimSpace(a.AnalysedAt)
	if raw == "" {
		return Placeholder
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.Format(valueobject.DisplayDateLayout)
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return valueobject.FormatDateTimeTR(t)
		}
	}
	return raw
}

// Text returns s, or the placeholder when s is blank
func Text(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return strings.TrimSpace(s)
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, strings.TrimSpace(v))
		}
	}
	return out
}
