package renal

type Severity string

const (
	SeverityNormal   Severity = "normal"
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
	SeverityFailure  Severity = "failure"
)

type StageClassification struct {
	Stage    int      `json:"stage"`
	Label    string   `json:"label"`
	Severity Severity `json:"severity"`
}

var stages = []struct {
	lower float64
	class StageClassification
}{
	{90, StageClassification{Stage: 1, Label: "Stage 1", Severity: SeverityNormal}},
	{60, StageClassification{Stage: 2, Label: "Stage 2", Severity: SeverityMild}},
	{30, StageClassification{Stage: 3, Label: "Stage 3", Severity: SeverityModerate}},
	{15, StageClassification{Stage: 4, Label: "Stage 4", Severity: SeveritySevere}},
}

var stageFive = StageClassification{Stage: 5, Label: "Stage 5", Severity: SeverityFailure}

// ClassifyStage maps a GFR value to its CKD stage. Lower bounds are inclusive.
// Negative and NaN values fall through to Stage 5.
func ClassifyStage(gfr float64) StageClassification {
	for _, s := range stages {
		if gfr >= s.lower {
			return s.class
		}
	}
	return stageFive
}
