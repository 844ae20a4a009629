package models

import "encoding/json"

// TraceStep is one audit record in the pipeline trace. Step identifies the
// action ("Attempt 1 - Retrieve", "Generate Answer", ...); Fields carries
// step-specific detail and is serialized inline alongside the step name.
type TraceStep struct {
	Step   string
	Fields map[string]interface{}
}

// MarshalJSON flattens Fields into the same object as the step name so the
// trace serializes as a list of free-form step records.
func (s TraceStep) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(s.Fields)+1)
	for k, v := range s.Fields {
		out[k] = v
	}
	out["step"] = s.Step
	return json.Marshal(out)
}

// PipelineTrace is the ordered, append-only log of pipeline steps produced
// during one query. It is never mutated after the query completes.
type PipelineTrace []TraceStep

// Append records a step with its detail fields.
func (t *PipelineTrace) Append(step string, fields map[string]interface{}) {
	*t = append(*t, TraceStep{Step: step, Fields: fields})
}
