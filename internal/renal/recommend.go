package renal

type Priority string

const (
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
)

type Recommendation struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Priority Priority `json:"priority"`
}

const (
	elderlyAge  = 65
	obeseBMI    = 30
	accurateGFR = 60
)

var (
	generalRecommendation = Recommendation{
		Title:    "General recommendation",
		Content:  "CKD-EPI is currently considered the best available formula, with correction for actual body surface area.",
		Priority: PriorityNormal,
	}
	elderlyRecommendation = Recommendation{
		Title:    "Elderly patient",
		Content:  "CKD-EPI remains reliable for elderly patients, but some clinicians prefer Cockcroft-Gault for a more cautious estimate.",
		Priority: PriorityHigh,
	}
	overweightRecommendation = Recommendation{
		Title:    "Overweight patient",
		Content:  "Use CKD-EPI with correction for actual body surface area. Check drug-specific dosing recommendations.",
		Priority: PriorityHigh,
	}
)

// Recommend returns every applicable recommendation, general first, then the
// age rule, then the BMI rule. Age is compared as given, so 65.5 counts as
// older than 65. Pass NaN for an unknown BMI. Nothing is returned for an
// unset GFR result.
func Recommend(age, bmi float64, gfr GFRResult) []Recommendation {
	if !gfr.IsComputed() {
		return nil
	}

	recs := []Recommendation{generalRecommendation}
	if age > elderlyAge {
		recs = append(recs, elderlyRecommendation)
	}
	if bmi > obeseBMI {
		recs = append(recs, overweightRecommendation)
	}
	return recs
}

// FormulaAdvice marks whether one formula's result is the suggested one.
type FormulaAdvice struct {
	Recommended bool   `json:"recommended"`
	Reason      string `json:"reason,omitempty"`
}

// AdviseFormula evaluates the per-formula rules in order; the first match wins.
// MDRD is never recommended.
func AdviseFormula(f Formula, age, bmi, value float64) FormulaAdvice {
	switch {
	case age > elderlyAge && f == FormulaCockcroftGault:
		return FormulaAdvice{Recommended: true, Reason: "Preferred for elderly patients (more cautious estimate)"}
	case bmi > obeseBMI && f == FormulaCKDEPI:
		return FormulaAdvice{Recommended: true, Reason: "Preferred for overweight patients (with BSA correction)"}
	case value > accurateGFR && f == FormulaCKDEPI:
		return FormulaAdvice{Recommended: true, Reason: "More accurate for GFR above 60 mL/min/1.73m²"}
	case f == FormulaCKDEPI:
		return FormulaAdvice{Recommended: true, Reason: "Current general recommendation"}
	}
	return FormulaAdvice{}
}
