package renal

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
)

type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

func (s Sex) IsValid() bool {
	switch s {
	case SexMale, SexFemale:
		return true
	}
	return false
}

// Field names used as ValidationResult keys.
const (
	FieldAge        = "age"
	FieldWeight     = "weight"
	FieldHeight     = "height"
	FieldCreatinine = "creatinine"
	FieldSex        = "sex"
)

// PatientInput holds the values exactly as entered. Fields stay opaque strings
// until Validate or ParseInput interprets them.
type PatientInput struct {
	Age        string `json:"age"`
	Weight     string `json:"weight"`
	Height     string `json:"height"`
	Creatinine string `json:"creatinine"`
	Sex        Sex    `json:"sex"`
}

func (p PatientInput) WithAge(v string) PatientInput { p.Age = v; return p }
func (p PatientInput) WithWeight(v string) PatientInput { p.Weight = v; return p }
func (p PatientInput) WithHeight(v string) PatientInput { p.Height = v; return p }
func (p PatientInput) WithCreatinine(v string) PatientInput { p.Creatinine = v; return p }
func (p PatientInput) WithSex(v Sex) PatientInput { p.Sex = v; return p }

// ValidatedInput is the numeric form of an input that passed validation.
type ValidatedInput struct {
	Age        float64
	Weight     float64
	Height     float64
	Creatinine float64
	Sex        Sex
}

// ValidationResult maps a field name to its message. Empty means valid.
type ValidationResult map[string]string

func (r ValidationResult) Valid() bool { return len(r) == 0 }

// Fields returns the failing field names in stable order.
func (r ValidationResult) Fields() []string {
	fields := make([]string, 0, len(r))
	for f := range r {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

type ValidationError struct {
	Result ValidationResult
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Result))
	for _, f := range e.Result.Fields() {
		parts = append(parts, f+": "+e.Result[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidationError reports whether err carries field-level validation failures.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

type rangeRule struct {
	field    string
	min, max float64
	message  string
}

var rangeRules = []rangeRule{
	{field: FieldAge, min: 18, max: 120, message: "age must be between 18 and 120 years"},
	{field: FieldWeight, min: 30, max: 300, message: "weight must be between 30 and 300 kg"},
	{field: FieldHeight, min: 100, max: 250, message: "height must be between 100 and 250 cm"},
	{field: FieldCreatinine, min: 20, max: 2000, message: "creatinine must be between 20 and 2000 µmol/L"},
}

const sexMessage = "please select a sex"

func (p PatientInput) raw(field string) string {
	switch field {
	case FieldAge:
		return p.Age
	case FieldWeight:
		return p.Weight
	case FieldHeight:
		return p.Height
	case FieldCreatinine:
		return p.Creatinine
	}
	return ""
}

// Validate checks every field independently and never fails itself.
// Values that do not parse as finite numbers violate their range.
func Validate(in PatientInput) ValidationResult {
	_, result := parse(in)
	return result
}

// ParseInput validates in and returns its numeric form, or a *ValidationError.
func ParseInput(in PatientInput) (ValidatedInput, error) {
	v, result := parse(in)
	if !result.Valid() {
		return ValidatedInput{}, &ValidationError{Result: result}
	}
	return v, nil
}

func parse(in PatientInput) (ValidatedInput, ValidationResult) {
	result := ValidationResult{}
	values := make(map[string]float64, len(rangeRules))

	for _, rule := range rangeRules {
		n, ok := parseNumber(in.raw(rule.field))
		if !ok || n < rule.min || n > rule.max {
			result[rule.field] = rule.message
			continue
		}
		values[rule.field] = n
	}

	if !in.Sex.IsValid() {
		result[FieldSex] = sexMessage
	}

	return ValidatedInput{
		Age:        values[FieldAge],
		Weight:     values[FieldWeight],
		Height:     values[FieldHeight],
		Creatinine: values[FieldCreatinine],
		Sex:        in.Sex,
	}, result
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || isHexLiteral(s) {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// isHexLiteral reports Go hex-float syntax, which ParseFloat accepts but a
// form never sends.
func isHexLiteral(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
}
