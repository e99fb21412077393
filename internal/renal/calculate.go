package renal

// FormulaResult is one estimate as presented to a reader.
type FormulaResult struct {
	Formula Formula             `json:"formula"`
	Label   string              `json:"label"`
	Value   float64             `json:"value"`
	Unit    string              `json:"unit"`
	Stage   StageClassification `json:"stage"`
	Advice  FormulaAdvice       `json:"advice"`
}

// Report is the outcome of one Calculate call.
type Report struct {
	Errors          ValidationResult `json:"errors,omitempty"`
	Metrics         BodyMetrics      `json:"metrics"`
	GFR             GFRResult        `json:"gfr"`
	Results         []FormulaResult  `json:"results,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
}

func (r Report) Valid() bool { return r.Errors.Valid() }

const (
	unitNormalized = "mL/min/1.73m²"
	unitRaw        = "mL/min"
)

// Calculate runs validation, metrics, estimation and recommendations on one
// input snapshot. Metrics are filled in even when validation fails; everything
// downstream of the validator is skipped in that case.
func Calculate(in PatientInput) Report {
	report := Report{Metrics: ComputeMetrics(in.Weight, in.Height)}

	v, errs := parse(in)
	if !errs.Valid() {
		report.Errors = errs
		return report
	}

	report.GFR = EstimateGFR(v, report.Metrics)
	values, _ := report.GFR.Values()
	bmi := report.Metrics.BMIValue()

	report.Results = make([]FormulaResult, 0, len(Formulas))
	for _, f := range Formulas {
		value := values.Get(f)
		unit := unitNormalized
		if f == FormulaCockcroftGault {
			unit = unitRaw
		}
		report.Results = append(report.Results, FormulaResult{
			Formula: f,
			Label:   f.Label(),
			Value:   value,
			Unit:    unit,
			Stage:   ClassifyStage(value),
			Advice:  AdviseFormula(f, v.Age, bmi, value),
		})
	}
	report.Recommendations = Recommend(v.Age, bmi, report.GFR)

	return report
}
