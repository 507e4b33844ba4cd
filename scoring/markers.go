/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package scoring

import "github.com/humaidq/labwave/labs"

// Marker names a logical analyte by the fragments its report keys contain.
// Reports spell the same analyte many ways ("PCR", "Proteína C reactiva").
type Marker struct {
	Name    string   `yaml:"name"`
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// Matches reports whether an observation key names this marker.
func (m Marker) Matches(key string) bool {
	return labs.ContainsAny(key, m.Include, m.Exclude)
}

// find returns the first observation matching m that carries a value.
func (m Marker) find(obs []FlaggedObservation) (FlaggedObservation, bool) {
	for _, o := range obs {
		if o.Value != nil && m.Matches(o.Key) {
			return o, true
		}
	}

	return FlaggedObservation{}, false
}

func (m Marker) value(obs []FlaggedObservation) *float64 {
	o, ok := m.find(obs)
	if !ok {
		return nil
	}

	return o.Value
}

// Built-in markers used by the reference policy.
var (
	MarkerCRP = Marker{
		Name:    "crp",
		Include: []string{"pcr", "proteina c reactiva", "c-reactive", "c reactive", "crp"},
	}
	MarkerIL6 = Marker{
		Name:    "il6",
		Include: []string{"il-6", "il6", "il 6", "interleucina 6", "interleukina 6", "interleucina-6", "interleukin 6", "interleukin-6"},
	}
	MarkerESR = Marker{
		Name:    "esr",
		Include: []string{"vsg", "eritrosedimentacion", "velocidad de sedimentacion", "sedimentacion globular", "esr"},
	}
	MarkerLDL = Marker{
		Name:    "ldl",
		Include: []string{"ldl", "baja densidad"},
		Exclude: []string{"vldl"},
	}
	MarkerHDL = Marker{
		Name:    "hdl",
		Include: []string{"hdl", "alta densidad"},
		Exclude: []string{"no hdl", "no-hdl", "non-hdl", "non hdl"},
	}
	MarkerTotalCholesterol = Marker{
		Name:    "total_cholesterol",
		Include: []string{"colesterol total", "total cholesterol", "colesterol serico", "cholesterol", "colesterol"},
		Exclude: []string{"hdl", "ldl", "vldl", "alta densidad", "baja densidad"},
	}
	MarkerHbA1c = Marker{
		Name:    "hba1c",
		Include: []string{"hba1c", "hb a1c", "a1c", "hemoglobina glicosilada", "hemoglobina glucosilada", "glycated"},
	}
	MarkerTriglycerides = Marker{
		Name:    "triglycerides",
		Include: []string{"triglic", "triglyc"},
	}
	MarkerEGFR = Marker{
		Name:    "egfr",
		Include: []string{"tfg", "filtrado glomerular", "filtracion glomerular", "egfr", "gfr"},
	}
)
