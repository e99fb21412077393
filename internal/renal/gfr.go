package renal

import (
	"encoding/json"
	"math"
)

type Formula string

const (
	FormulaCockcroftGault Formula = "cockcroftGault"
	FormulaMDRD           Formula = "mdrd"
	FormulaCKDEPI         Formula = "ckdEpi"
)

// Formulas lists the estimators in display order.
var Formulas = []Formula{FormulaCockcroftGault, FormulaMDRD, FormulaCKDEPI}

func (f Formula) Label() string {
	switch f {
	case FormulaCockcroftGault:
		return "Cockcroft-Gault"
	case FormulaMDRD:
		return "MDRD"
	case FormulaCKDEPI:
		return "CKD-EPI"
	}
	return string(f)
}

const (
	creatinineMgPerDL = 88.4 // µmol/L per mg/dL
	referenceBSA      = 1.73
)

// GFRValues are the three estimates in mL/min/1.73m², rounded to one decimal.
type GFRValues struct {
	CockcroftGault float64 `json:"cockcroftGault"`
	MDRD           float64 `json:"mdrd"`
	CKDEPI         float64 `json:"ckdEpi"`
}

func (v GFRValues) Get(f Formula) float64 {
	switch f {
	case FormulaCockcroftGault:
		return v.CockcroftGault
	case FormulaMDRD:
		return v.MDRD
	case FormulaCKDEPI:
		return v.CKDEPI
	}
	return math.NaN()
}

// GFRResult is either unset or holds all three estimates. The zero value is unset.
type GFRResult struct {
	computed bool
	values   GFRValues
}

func (r GFRResult) IsComputed() bool { return r.computed }

func (r GFRResult) Values() (GFRValues, bool) {
	return r.values, r.computed
}

// MarshalJSON renders an unset result as three nulls.
func (r GFRResult) MarshalJSON() ([]byte, error) {
	if !r.computed {
		return json.Marshal(map[string]any{
			string(FormulaCockcroftGault): nil,
			string(FormulaMDRD):           nil,
			string(FormulaCKDEPI):         nil,
		})
	}
	return json.Marshal(r.values)
}

// EstimateGFR runs the three formulas on validated input. MDRD and CKD-EPI are
// scaled by bsa/1.73 when BSA is known; Cockcroft-Gault never is.
func EstimateGFR(v ValidatedInput, m BodyMetrics) GFRResult {
	mdrd := mdrd(v)
	ckdEpi := ckdEpi(v)
	if m.BSA != nil {
		factor := *m.BSA / referenceBSA
		mdrd *= factor
		ckdEpi *= factor
	}

	return GFRResult{
		computed: true,
		values: GFRValues{
			CockcroftGault: round(cockcroftGault(v), 1),
			MDRD:           round(mdrd, 1),
			CKDEPI:         round(ckdEpi, 1),
		},
	}
}

func cockcroftGault(v ValidatedInput) float64 {
	sexFactor := 1.0
	if v.Sex == SexFemale {
		sexFactor = 0.85
	}
	return ((140 - v.Age) * v.Weight * sexFactor) / (v.Creatinine * 0.8136)
}

func mdrd(v ValidatedInput) float64 {
	scr := v.Creatinine / creatinineMgPerDL
	sexFactor := 1.0
	if v.Sex == SexFemale {
		sexFactor = 0.742
	}
	return 175 * math.Pow(scr, -1.154) * math.Pow(v.Age, -0.203) * sexFactor
}

// ckdEpi is the 2009 equation. At scr == kappa the low-creatinine exponent applies.
func ckdEpi(v ValidatedInput) float64 {
	scr := v.Creatinine / creatinineMgPerDL

	base, kappa, alpha := 141.0, 0.9, -0.411
	if v.Sex == SexFemale {
		base, kappa, alpha = 144.0, 0.7, -0.329
	}
	if scr > kappa {
		alpha = -1.209
	}

	return base * math.Pow(scr/kappa, alpha) * math.Pow(0.993, v.Age)
}
