/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package scoring

import "math"

// SystemScore is the share of in-range results among the evaluable results
// of one organ system.
type SystemScore struct {
	System    string `json:"system"`
	Score     *int   `json:"score"`
	Evaluated int    `json:"evaluated"`
	InRange   int    `json:"in_range"`
}

var (
	markerGlucose = Marker{
		Name:    "glucose",
		Include: []string{"glucosa", "glucemia", "glucose"},
	}
	markerCreatinine = Marker{
		Name:    "creatinine",
		Include: []string{"creatinina", "creatinine"},
		Exclude: []string{"orina", "urine", "clearance", "depuracion"},
	}
	markerUrea = Marker{
		Name:    "urea",
		Include: []string{"urea", "bun", "nitrogeno ureico"},
	}
	markerUricAcid = Marker{
		Name:    "uric_acid",
		Include: []string{"acido urico", "uric acid", "uricemia"},
	}
	markerALT = Marker{
		Name:    "alt",
		Include: []string{"alt", "tgp", "gpt", "alanina"},
		Exclude: []string{"alta densidad"},
	}
	markerAST = Marker{
		Name:    "ast",
		Include: []string{"ast", "tgo", "got", "aspartato"},
	}
	markerGGT = Marker{
		Name:    "ggt",
		Include: []string{"ggt", "gamma glutamil", "gamma-glutamil", "gamma gt"},
	}
	markerAlkalinePhosphatase = Marker{
		Name:    "alkaline_phosphatase",
		Include: []string{"fosfatasa alcalina", "alkaline phosphatase", "fal"},
	}
	markerBilirubin = Marker{
		Name:    "bilirubin",
		Include: []string{"bilirrubina", "bilirubin"},
	}
	markerAlbumin = Marker{
		Name:    "albumin",
		Include: []string{"albumina", "albumin"},
		Exclude: []string{"orina", "urine", "micro"},
	}
	markerHemoglobin = Marker{
		Name:    "hemoglobin",
		Include: []string{"hemoglobina", "hemoglobin", "hgb"},
		Exclude: []string{"glicosilada", "glucosilada", "glycated", "a1c", "corpuscular"},
	}
	markerHematocrit = Marker{
		Name:    "hematocrit",
		Include: []string{"hematocrito", "hematocrit", "hct"},
	}
	markerWBC = Marker{
		Name:    "white_blood_cells",
		Include: []string{"leucocitos", "globulos blancos", "white blood", "wbc"},
	}
	markerPlatelets = Marker{
		Name:    "platelets",
		Include: []string{"plaquetas", "platelets", "plt"},
	}
)

func defaultSystems() []SystemDefinition {
	return []SystemDefinition{
		{
			Name: "cardiometabolic",
			Markers: []Marker{
				MarkerLDL, MarkerHDL, MarkerTotalCholesterol,
				MarkerTriglycerides, MarkerHbA1c, markerGlucose,
			},
		},
		{
			Name:    "renal",
			Markers: []Marker{markerCreatinine, MarkerEGFR, markerUrea, markerUricAcid},
		},
		{
			Name: "hepatic",
			Markers: []Marker{
				markerALT, markerAST, markerGGT,
				markerAlkalinePhosphatase, markerBilirubin, markerAlbumin,
			},
		},
		{
			Name: "hematologic_inflammatory",
			Markers: []Marker{
				markerHemoglobin, markerHematocrit, markerWBC, markerPlatelets,
				MarkerCRP, MarkerESR, MarkerIL6,
			},
		},
	}
}

func (s SystemDefinition) matches(key string) bool {
	for _, m := range s.Markers {
		if m.Matches(key) {
			return true
		}
	}

	return false
}

// SystemScores scores every system of the policy in order. An observation
// counts at most once per system.
func (p *Policy) SystemScores(obs []FlaggedObservation) []SystemScore {
	scores := make([]SystemScore, 0, len(p.Systems))

	for _, system := range p.Systems {
		score := SystemScore{System: system.Name}

		for _, o := range obs {
			if !o.Flag.Determinate() || !system.matches(o.Key) {
				continue
			}

			score.Evaluated++
			if o.Flag == FlagInRange {
				score.InRange++
			}
		}

		if score.Evaluated > 0 {
			v := int(math.Round(100 * float64(score.InRange) / float64(score.Evaluated)))
			score.Score = &v
		}

		scores = append(scores, score)
	}

	return scores
}
