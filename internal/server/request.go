package server

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Skufu/GoRenal/internal/renal"
)

// fieldValue accepts a JSON string, number or null and keeps the raw text,
// so form clients can post either representation.
type fieldValue string

func (f *fieldValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = fieldValue(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = fieldValue(n.String())
	return nil
}

type calculateRequest struct {
	Age        fieldValue `json:"age"`
	Weight     fieldValue `json:"weight"`
	Height     fieldValue `json:"height"`
	Creatinine fieldValue `json:"creatinine"`
	Sex        string     `json:"sex"`
}

func (r calculateRequest) toInput() renal.PatientInput {
	return renal.PatientInput{
		Age:        string(r.Age),
		Weight:     string(r.Weight),
		Height:     string(r.Height),
		Creatinine: string(r.Creatinine),
		Sex:        renal.Sex(r.Sex),
	}
}

type bodyMetricsRequest struct {
	Weight fieldValue `json:"weight"`
	Height fieldValue `json:"height"`
}

type calculateResponse struct {
	RequestID string `json:"requestId"`
	renal.Report
}

type validationFailedResponse struct {
	Error     string                 `json:"error"`
	Fields    renal.ValidationResult `json:"fields"`
	Metrics   renal.BodyMetrics      `json:"metrics"`
	RequestID string                 `json:"requestId"`
}
