/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package scoring

import (
	"github.com/humaidq/labwave/labs"
)

// FlaggedObservation is an observation with its status flag.
type FlaggedObservation struct {
	labs.Observation
	Flag Flag `json:"flag"`
}

// Metrics is the complete result of scoring one report. Callers own it.
type Metrics struct {
	Style        labs.Style           `json:"style"`
	Patient      labs.Patient         `json:"patient"`
	Observations []FlaggedObservation `json:"observations"`
	Indices      Indices              `json:"indices"`
	Systems      []SystemScore        `json:"systems"`
}

// Options tune Assemble. The zero value detects the style, uses the
// reference policy and leaves unprinted ranges empty.
type Options struct {
	Style     labs.Style
	Policy    *Policy
	Catalog   *labs.Catalog
	Extractor labs.Extractor
}

// Assemble extracts, flags and scores report text. It performs no I/O and
// never fails: whatever cannot be read is absent from the result.
func Assemble(text string, opts Options) Metrics {
	policy := opts.Policy
	if policy == nil {
		policy = DefaultPolicy()
	}

	style := opts.Style
	extractor := opts.Extractor

	if extractor == nil {
		extractor, style = labs.ExtractorFor(style, text)
	} else if style == "" || style == labs.StyleAuto {
		style = labs.DetectStyle(text)
	}

	patient := labs.ExtractPatient(text)

	observations := extractor.Extract(text)
	if opts.Catalog != nil {
		observations = opts.Catalog.Fill(observations, patient)
	}

	flagged := Flagged(policy, observations)

	return Metrics{
		Style:        style,
		Patient:      patient,
		Observations: flagged,
		Indices:      policy.ComputeIndices(patient.Age, flagged),
		Systems:      policy.SystemScores(flagged),
	}
}

// Flagged flags every observation in insertion order.
func Flagged(policy *Policy, observations *labs.Observations) []FlaggedObservation {
	all := observations.All()
	flagged := make([]FlaggedObservation, 0, len(all))

	for _, o := range all {
		flagged = append(flagged, FlaggedObservation{
			Observation: o,
			Flag:        policy.Flag(o.Value, o.RefLow, o.RefHigh),
		})
	}

	return flagged
}

// Map converts the metrics to plain maps, slices and scalars. Missing values
// are nil.
func (m Metrics) Map() map[string]any {
	observations := make([]any, 0, len(m.Observations))
	for _, o := range m.Observations {
		observations = append(observations, o.Map())
	}

	systems := make([]any, 0, len(m.Systems))
	for _, s := range m.Systems {
		systems = append(systems, map[string]any{
			"system":    s.System,
			"score":     intValue(s.Score),
			"evaluated": s.Evaluated,
			"in_range":  s.InRange,
		})
	}

	return map[string]any{
		"style": string(m.Style),
		"patient": map[string]any{
			"name": stringValue(m.Patient.Name),
			"age":  intValue(m.Patient.Age),
			"sex":  stringValue(m.Patient.Sex),
		},
		"observations": observations,
		"indices":      m.Indices.Map(),
		"systems":      systems,
	}
}

// Map converts the indices to a plain map.
func (i Indices) Map() map[string]any {
	var tier any
	if i.UrgencyTier != nil {
		tier = string(*i.UrgencyTier)
	}

	return map[string]any{
		"inflammation_index": intValue(i.Inflammation),
		"global_health":      intValue(i.GlobalHealth),
		"metabolic_age":      intValue(i.MetabolicAge),
		"red_flag_count":     intValue(i.RedFlagCount),
		"urgency_tier":       tier,
	}
}

// Map converts the observation to a plain map.
func (o FlaggedObservation) Map() map[string]any {
	out := map[string]any{
		"key":      o.Key,
		"value":    floatValue(o.Value),
		"unit":     o.Unit,
		"ref_text": o.RefText,
		"ref_low":  floatValue(o.RefLow),
		"ref_high": floatValue(o.RefHigh),
		"flag":     string(o.Flag),
	}

	if o.RefSource != labs.RefSourceNone {
		out["ref_source"] = string(o.RefSource)
	}

	return out
}

func intValue(p *int) any {
	if p == nil {
		return nil
	}

	return *p
}

func floatValue(p *float64) any {
	if p == nil {
		return nil
	}

	return *p
}

func stringValue(p *string) any {
	if p == nil {
		return nil
	}

	return *p
}
