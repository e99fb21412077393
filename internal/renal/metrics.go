package renal

import "math"

// BodyMetrics are derived from weight and height only. A nil field means the
// value could not be computed, which is not an error.
type BodyMetrics struct {
	BMI *float64 `json:"bmi"`
	BSA *float64 `json:"bsa"`
}

// BMIValue returns the BMI or NaN when it is unavailable.
func (m BodyMetrics) BMIValue() float64 {
	if m.BMI == nil {
		return math.NaN()
	}
	return *m.BMI
}

// BMI in kg/m², rounded to one decimal.
func BMI(weightKg, heightCm float64) float64 {
	meters := heightCm / 100
	return round(weightKg/(meters*meters), 1)
}

// BSA uses the Du Bois formula and is rounded to two decimals.
func BSA(weightKg, heightCm float64) float64 {
	return round(0.007184*math.Pow(heightCm, 0.725)*math.Pow(weightKg, 0.425), 2)
}

// ComputeMetrics recomputes BMI and BSA from raw weight and height. It does not
// apply the validator ranges, so metrics may be shown while other fields are
// still invalid. Callers invoke it again after any weight or height change.
func ComputeMetrics(weight, height string) BodyMetrics {
	w, okW := parseNumber(weight)
	h, okH := parseNumber(height)
	if !okW || !okH || w <= 0 || h <= 0 {
		return BodyMetrics{}
	}

	bmi := BMI(w, h)
	bsa := BSA(w, h)
	if !usable(bmi) || !usable(bsa) {
		return BodyMetrics{}
	}
	return BodyMetrics{BMI: &bmi, BSA: &bsa}
}

// usable rejects results that overflowed, underflowed or cannot be encoded.
func usable(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
