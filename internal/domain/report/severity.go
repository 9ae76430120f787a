package report

// SeverityLevel buckets the safety score
type SeverityLevel string

const (
	SeverityExcellent SeverityLevel = "excellent"
	SeverityGood      SeverityLevel = "good"
	SeverityModerate  SeverityLevel = "moderate"
	SeverityCritical  SeverityLevel = "critical"
	SeverityUnknown   SeverityLevel = "unknown"
)

// Palette colors as RGB hex without '#', the form both xlsx fills and docx runs expect
const (
	ColorSuccess = "16A34A"
	ColorInfo    = "2563EB"
	ColorWarning = "F59E0B"
	ColorDanger  = "DC2626"
	ColorNeutral = "6B7280"
)

// Severity is the label and color shown next to a safety score
type Severity struct {
	Level SeverityLevel
	Label string
	Color string
}

// ClassifySafetyScore maps a 0-100 score to its severity.
// Thresholds: >=80 excellent, >=60 good, >=50 moderate, below 50 critical.
func ClassifySafetyScore(score *float64) Severity {
	if score == nil {
		return Severity{Level: SeverityUnknown, Label: Placeholder, Color: ColorNeutral}
	}
	switch s := *score; {
	case s >= 80:
		return Severity{Level: SeverityExcellent, Label: "Mükemmel", Color: ColorSuccess}
	case s >= 60:
		return Severity{Level: SeverityGood, Label: "İyi", Color: ColorInfo}
	case s >= 50:
		return Severity{Level: SeverityModerate, Label: "Orta", Color: ColorWarning}
	default:
		return Severity{Level: SeverityCritical, Label: "Kritik", Color: ColorDanger}
	}
}
