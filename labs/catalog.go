/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package labs

import (
	"fmt"
	"strings"
)

// Gender represents biological sex for reference ranges
type Gender string

// Gender values represent supported biological-sex categories.
const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderUnisex Gender = "Unisex" // For ranges that don't vary by gender
)

// AgeRange represents age-based categorization for reference ranges
type AgeRange string

// AgeRange values represent supported age groups for lab ranges.
const (
	AgeAny       AgeRange = "Any"
	AgePediatric AgeRange = "Pediatric" // 0-17
	AgeAdult     AgeRange = "Adult"     // 18-49
	AgeMiddleAge AgeRange = "MiddleAge" // 50-64
	AgeSenior    AgeRange = "Senior"    // 65+
)

// AgeRangeOf returns the age band for an age. Unknown ages default to adult.
func AgeRangeOf(age *int) AgeRange {
	if age == nil {
		return AgeAdult
	}

	switch {
	case *age <= 17:
		return AgePediatric
	case *age <= 49:
		return AgeAdult
	case *age <= 64:
		return AgeMiddleAge
	default:
		return AgeSenior
	}
}

// GenderOf maps the raw sex token of a report to a Gender.
func GenderOf(sex *string) Gender {
	if sex == nil {
		return GenderUnisex
	}

	switch s := Fold(strings.TrimSpace(*sex)); {
	case s == "f" || strings.HasPrefix(s, "fem") || s == "mujer":
		return GenderFemale
	case s == "m" || strings.HasPrefix(s, "masc") || s == "hombre":
		return GenderMale
	default:
		return GenderUnisex
	}
}

// ReferenceRangeDefinition is a default range for one analyte, age band and
// gender. Aliases are folded fragments matched against observation keys.
type ReferenceRangeDefinition struct {
	Analyte string
	// Unit is the unit the bounds are expressed in. Observations printed in
	// another unit only take the range when a known conversion exists.
	Unit         string
	Aliases      []string
	Exclude      []string
	AgeRange     AgeRange
	Gender       Gender
	ReferenceMin *float64
	ReferenceMax *float64
}

// Text renders the range the way reports print it.
func (d ReferenceRangeDefinition) Text() string {
	return rangeText(d.ReferenceMin, d.ReferenceMax)
}

func rangeText(low, high *float64) string {
	switch {
	case low != nil && high != nil:
		return fmt.Sprintf("%g - %g", *low, *high)
	case high != nil:
		return fmt.Sprintf("< %g", *high)
	case low != nil:
		return fmt.Sprintf(">= %g", *low)
	default:
		return ""
	}
}

func (d ReferenceRangeDefinition) matches(key string) bool {
	return ContainsAny(key, d.Aliases, d.Exclude)
}

func (d ReferenceRangeDefinition) appliesTo(ageRange AgeRange) bool {
	return d.AgeRange == AgeAny || d.AgeRange == ageRange
}

// Catalog holds default reference ranges used when a report prints none.
type Catalog struct {
	Definitions []ReferenceRangeDefinition
}

// ptr is a helper to create pointers to float64 literals
func ptr(f float64) *float64 {
	return &f
}

// DefaultCatalog returns the built-in reference ranges.
func DefaultCatalog() *Catalog {
	return &Catalog{Definitions: GetReferenceRangeDefinitions()}
}

// Lookup returns the definition for key that applies to the patient, trying
// the patient's gender first and unisex rows second.
func (c *Catalog) Lookup(key string, p Patient) (ReferenceRangeDefinition, bool) {
	ageRange := AgeRangeOf(p.Age)
	gender := GenderOf(p.Sex)

	for _, want := range []Gender{gender, GenderUnisex} {
		for _, def := range c.Definitions {
			if def.Gender == want && def.appliesTo(ageRange) && def.matches(key) {
				return def, true
			}
		}
	}

	return ReferenceRangeDefinition{}, false
}

// Fill returns a copy of obs in which observations without any reference
// bound take the catalog's range for the patient, converted to the printed
// unit. Observations whose unit is missing or has no known conversion are
// left without a range.
func (c *Catalog) Fill(obs *Observations, p Patient) *Observations {
	out := NewObservations()

	for _, o := range obs.All() {
		if !o.HasRange() {
			if def, ok := c.Lookup(o.Key, p); ok {
				if scale, ok := unitScale(def.Unit, o.Unit); ok {
					o.RefLow = scaleBound(def.ReferenceMin, scale)
					o.RefHigh = scaleBound(def.ReferenceMax, scale)
					o.RefSource = RefSourceCatalog

					if o.RefText == "" {
						o.RefText = rangeText(o.RefLow, o.RefHigh)
					}
				}
			}
		}

		out.Put(o)
	}

	return out
}

// unitConversions maps a canonical catalog unit to other printed units and
// the factor that converts a catalog bound into them.
var unitConversions = map[string]map[string]float64{
	"10^3/ul": {
		"10^3/mm3": 1, "10^9/l": 1, "k/ul": 1, "mil/mm3": 1,
		"/mm3": 1000, "/ul": 1000, "cel/mm3": 1000, "cells/ul": 1000, "celulas/mm3": 1000,
	},
	"g/dl":  {"g/l": 10},
	"mg/dl": {"mg%": 1},
	"u/l":   {"ui/l": 1, "iu/l": 1},
	"mm/h":  {"mm/hr": 1, "mm/1h": 1, "mm/1ahora": 1},
	"mg/l":  {"mg/dl": 0.1},
}

// unitScale reports the factor converting bounds in catalog unit into the
// printed unit. A catalog row without a unit applies as is.
func unitScale(catalog, printed string) (float64, bool) {
	if catalog == "" {
		return 1, true
	}

	from, to := canonicalUnit(catalog), canonicalUnit(printed)
	if to == "" {
		return 0, false
	}

	if from == to {
		return 1, true
	}

	scale, ok := unitConversions[from][to]

	return scale, ok
}

func canonicalUnit(unit string) string {
	unit = strings.NewReplacer("10³", "10^3", "10⁹", "10^9", "10*3", "10^3", "10*9", "10^9").Replace(unit)
	unit = strings.NewReplacer("µ", "u", "μ", "u", "³", "3", "×", "x", " ", "").Replace(unit)
	unit = strings.ToLower(unit)

	if strings.HasPrefix(unit, "x10") {
		unit = unit[1:]
	}

	return unit
}

func scaleBound(bound *float64, scale float64) *float64 {
	if bound == nil {
		return nil
	}

	v := *bound * scale

	return &v
}

var (
	aliasHemoglobin   = []string{"hemoglobina", "hemoglobin", "hgb"}
	excludeHemoglobin = []string{"glic", "gluc", "a1c", "glycat", "corpuscular", "c.m.h", "m.c.h"}
	aliasWBC          = []string{"leucocitos", "white blood cells", "globulos blancos", "wbc"}
	aliasPlatelets    = []string{"plaquetas", "platelet", "plt"}
	aliasHematocrit   = []string{"hematocrito", "hematocrit", "hct"}
	aliasCholesterol  = []string{"colesterol total", "total cholesterol", "colesterol serico", "colesterol"}
	excludeCholTotal  = []string{"hdl", "ldl", "vldl", "alta densidad", "baja densidad"}
	aliasLDL          = []string{"ldl", "baja densidad"}
	excludeLDL        = []string{"vldl"}
	aliasHDL          = []string{"hdl", "alta densidad"}
	excludeHDL        = []string{"no hdl", "no-hdl", "non-hdl", "non hdl"}
	aliasTriglyceride = []string{"triglic", "triglyc"}
	aliasGlucose      = []string{"glucosa", "glucose", "glicemia", "glucemia"}
	aliasCreatinine   = []string{"creatinina", "creatinine"}
	excludeCreatinine = []string{"clearance", "depuracion", "orina", "urine"}
	aliasHbA1c        = []string{"hba1c", "a1c", "hemoglobina glicosilada", "hemoglobina glucosilada", "glycated"}
	aliasALT          = []string{"alt", "tgp", "sgpt", "alanina"}
	excludeALT        = []string{"alta densidad"}
	aliasAST          = []string{"ast", "tgo", "sgot", "aspartato"}
	aliasGGT          = []string{"ggt", "gamma glutamil", "gamma-glutamil"}
	aliasBilirubin    = []string{"bilirrubina total", "bilirubin total", "total bilirubin"}
	aliasAlbumin      = []string{"albumina", "albumin"}
	excludeAlbumin    = []string{"orina", "urine", "micro"}
	aliasESR          = []string{"vsg", "eritrosedimentacion", "sedimentacion", "esr"}
	aliasCRP          = []string{"pcr", "proteina c reactiva", "c-reactive", "crp"}
)

// GetReferenceRangeDefinitions returns the built-in reference ranges, most
// specific rows first within each analyte.
func GetReferenceRangeDefinitions() []ReferenceRangeDefinition {
	return []ReferenceRangeDefinition{
		// ===== HEMOGLOBIN (g/dL) =====
		{Analyte: "Hemoglobin", Unit: "g/dL", Aliases: aliasHemoglobin, Exclude: excludeHemoglobin, AgeRange: AgePediatric, Gender: GenderUnisex, ReferenceMin: ptr(10.0), ReferenceMax: ptr(15.5)},
		{Analyte: "Hemoglobin", Unit: "g/dL", Aliases: aliasHemoglobin, Exclude: excludeHemoglobin, AgeRange: AgeAdult, Gender: GenderMale, ReferenceMin: ptr(13.2), ReferenceMax: ptr(16.6)},
		{Analyte: "Hemoglobin", Unit: "g/dL", Aliases: aliasHemoglobin, Exclude: excludeHemoglobin, AgeRange: AgeAdult, Gender: GenderFemale, ReferenceMin: ptr(11.6), ReferenceMax: ptr(15.0)},
		{Analyte: "Hemoglobin", Unit: "g/dL", Aliases: aliasHemoglobin, Exclude: excludeHemoglobin, AgeRange: AgeMiddleAge, Gender: GenderMale, ReferenceMin: ptr(13.0), ReferenceMax: ptr(16.5)},
		{Analyte: "Hemoglobin", Unit: "g/dL", Aliases: aliasHemoglobin, Exclude: excludeHemoglobin, AgeRange: AgeMiddleAge, Gender: GenderFemale, ReferenceMin: ptr(11.5), ReferenceMax: ptr(14.8)},
		{Analyte: "Hemoglobin", Unit: "g/dL", Aliases: aliasHemoglobin, Exclude: excludeHemoglobin, AgeRange: AgeSenior, Gender: GenderMale, ReferenceMin: ptr(12.4), ReferenceMax: ptr(16.0)},
		{Analyte: "Hemoglobin", Unit: "g/dL", Aliases: aliasHemoglobin, Exclude: excludeHemoglobin, AgeRange: AgeSenior, Gender: GenderFemale, ReferenceMin: ptr(11.7), ReferenceMax: ptr(14.5)},
		// Unknown sex falls back to the widest adult band
		{Analyte: "Hemoglobin", Unit: "g/dL", Aliases: aliasHemoglobin, Exclude: excludeHemoglobin, AgeRange: AgeAny, Gender: GenderUnisex, ReferenceMin: ptr(11.6), ReferenceMax: ptr(16.6)},

		// ===== WHITE BLOOD CELLS (×10³/μL) =====
		{Analyte: "White blood cells", Unit: "10^3/uL", Aliases: aliasWBC, AgeRange: AgePediatric, Gender: GenderUnisex, ReferenceMin: ptr(4.5), ReferenceMax: ptr(13.0)},
		{Analyte: "White blood cells", Unit: "10^3/uL", Aliases: aliasWBC, AgeRange: AgeSenior, Gender: GenderUnisex, ReferenceMin: ptr(4.0), ReferenceMax: ptr(10.5)},
		{Analyte: "White blood cells", Unit: "10^3/uL", Aliases: aliasWBC, AgeRange: AgeAny, Gender: GenderUnisex, ReferenceMin: ptr(4.5), ReferenceMax: ptr(11.0)},

		// ===== PLATELETS (×10³/μL) =====
		{Analyte: "Platelets", Unit: "10^3/uL", Aliases: aliasPlatelets, AgeRange: AgeSenior, Gender: GenderUnisex, ReferenceMin: ptr(140.0), ReferenceMax: ptr(400.0)},
		{Analyte: "Platelets", Unit: "10^3/uL", Aliases: aliasPlatelets, AgeRange: AgeAny, Gender: GenderUnisex, ReferenceMin: ptr(150.0), ReferenceMax: ptr(450.0)},

		// ===== HEMATOCRIT (%) =====
		{Analyte: "Hematocrit", Unit: "%", Aliases: aliasHematocrit, AgeRange: AgePediatric, Gender: GenderUnisex, ReferenceMin: ptr(31.0), ReferenceMax: ptr(45.0)},
		{Analyte: "Hematocrit", Unit: "%", Aliases: aliasHematocrit, AgeRange: AgeAny, Gender: GenderMale, ReferenceMin: ptr(41.0), ReferenceMax: ptr(50.0)},
		{Analyte: "Hematocrit", Unit: "%", Aliases: aliasHematocrit, AgeRange: AgeAny, Gender: GenderFemale, ReferenceMin: ptr(36.0), ReferenceMax: ptr(44.0)},
		{Analyte: "Hematocrit", Unit: "%", Aliases: aliasHematocrit, AgeRange: AgeAny, Gender: GenderUnisex, ReferenceMin: ptr(36.0), ReferenceMax: ptr(50.0)},

		// ===== LIPID PANEL (mg/dL) =====
		{Analyte: "Total Cholesterol", Unit: "mg/dL", Aliases: aliasCholesterol, Exclude: excludeCholTotal, AgeRange: AgeAny, Gender: GenderUnisex, ReferenceMin: nil, ReferenceMax: ptr(200.0)},
		{Analyte: "LDL Cholesterol", Unit: "mg/dL", Aliases: aliasLDL, Exclude: excludeLDL, AgeRange: AgePediatric, Gender: GenderUnisex, ReferenceMin: nil, ReferenceMax: ptr(110.0)},
		{Analyte: "LDL Cholesterol", Unit: "mg/dL", Aliases: aliasLDL, Exclude: excludeLDL, AgeRange: AgeAny, Gender: GenderUnisex, ReferenceMin: nil, ReferenceMax: ptr(100.0)},
		{Analyte: "HDL Cholesterol", Unit: "mg/dL", Aliases: aliasHDL, Exclude: excludeHDL, AgeRange: AgeAny, Gender: GenderFemale, ReferenceMin: ptr(50.0), ReferenceMax: nil},
		{Analyte: "HDL Cholesterol", Unit: "mg/dL", Aliases: aliasHDL, Exclude: excludeHDL, AgeRange: AgeAny, Gender: GenderUnisex, ReferenceMin: ptr(40.0), ReferenceMax: nil},
		{Analyte: "Triglycerides", Unit: "mg/dL", Aliases: aliasTriglyceride, AgeRange: AgeAny, Gender: GenderUnisex, ReferenceMin: nil, ReferenceMax: ptr(150.0)},

		// ===== METABOLIC =====
		{Analyte: "HbA1c", Unit: "%", Aliases: aliasHbA1c, AgeRange: AgeAny, Gender: GenderUnisex, ReferenceMin: nil, ReferenceMax: ptr(5.7)},
		{Analyte: "Glucose fasting", Unit: "mg/dL", Aliases: aliasGlucose, AgeRange: AgePediatric, Gender: GenderUnisex, ReferenceMin: ptr(70.0), ReferenceMax: ptr(100.0)},
		{Analyte: "Glucose fasting", Unit: "mg/dL", Aliases: aliasGlucose, AgeRange: AgeAny, Gender: GenderUnisex, ReferenceMin: ptr(70.0), ReferenceMax: ptr(99.0)},
		{Analyte: "Creatinine", Unit: "mg/dL", Aliases: aliasCreatinine, Exclude: excludeCreatinine, AgeRange: AgePediatric, Gender: GenderUnisex, ReferenceMin: ptr(0.3), ReferenceMax: ptr(0.7)},
		{Analyte: "Creatinine", Unit: "mg/dL", Aliases: aliasCreatinine, Exclude: excludeCreatinine, AgeRange: AgeSenior, Gender: GenderMale, ReferenceMin: ptr(0.70), ReferenceMax: ptr(1.30)},
		{Analyte: "Creatinine", Unit: "mg/dL", Aliases: aliasCreatinine, Exclude: excludeCreatinine, AgeRange: AgeAny, Gender: GenderMale, ReferenceMin: ptr(0.74), ReferenceMax: ptr(1.35)},
		{Analyte: "Creatinine", Unit: "mg/dL", Aliases: aliasCreatinine, Exclude: excludeCreatinine, AgeRange: AgeAny, Gender: GenderFemale, ReferenceMin: ptr(0.59), ReferenceMax: ptr(1.04)},
		{Analyte: "Creatinine", Unit: "mg/dL", Aliases: aliasCreatinine, Exclude: excludeCreatinine, AgeRange: AgeAny, Gender: GenderUnisex, ReferenceMin: ptr(0.59), ReferenceMax: ptr(1.35)},

		// ===== LIVER FUNCTION (IU/L unless noted) =====
		{Analyte: "ALT", Unit: "U/L", Aliases: aliasALT, Exclude: excludeALT, AgeRange: AgeAny, Gender: GenderMale, ReferenceMin: ptr(10.0), ReferenceMax: ptr(50.0)},
		{Analyte: "ALT", Unit: "U/L", Aliases: aliasALT, Exclude: excludeALT, AgeRange: AgeAny, Gender: GenderFemale, ReferenceMin: ptr(10.0), ReferenceMax: ptr(35.0)},
		{Analyte: "AST", Unit: "U/L", Aliases: aliasAST, AgeRange: AgePediatric, Gender: GenderUnisex, ReferenceMin: ptr(15.0), ReferenceMax: ptr(50.0)},
		{Analyte: "AST", Unit: "U/L", Aliases: aliasAST, AgeRange: AgeAny, Gender: GenderMale, ReferenceMin: ptr(10.0), ReferenceMax: ptr(40.0)},
		{Analyte: "AST", Unit: "U/L", Aliases: aliasAST, AgeRange: AgeAny, Gender: GenderFemale, ReferenceMin: ptr(10.0), ReferenceMax: ptr(35.0)},
		{Analyte: "GGT", Unit: "U/L", Aliases: aliasGGT, AgeRange: AgeAny, Gender: GenderMale, ReferenceMin: ptr(10.0), ReferenceMax: ptr(71.0)},
		{Analyte: "GGT", Unit: "U/L", Aliases: aliasGGT, AgeRange: AgeAny, Gender: GenderFemale, ReferenceMin: ptr(6.0), ReferenceMax: ptr(42.0)},
		{Analyte: "Bilirubin Total", Unit: "mg/dL", Aliases: aliasBilirubin, AgeRange: AgeAny, Gender: GenderUnisex, ReferenceMin: ptr(0.3), ReferenceMax: ptr(1.2)},
		{Analyte: "Albumin", Unit: "g/dL", Aliases: aliasAlbumin, Exclude: excludeAlbumin, AgeRange: AgeSenior, Gender: GenderUnisex, ReferenceMin: ptr(3.2), ReferenceMax: ptr(4.8)},
		{Analyte: "Albumin", Unit: "g/dL", Aliases: aliasAlbumin, Exclude: excludeAlbumin, AgeRange: AgeAny, Gender: GenderUnisex, ReferenceMin: ptr(3.5), ReferenceMax: ptr(5.2)},

		// ===== INFLAMMATION =====
		{Analyte: "ESR", Unit: "mm/h", Aliases: aliasESR, AgeRange: AgePediatric, Gender: GenderUnisex, ReferenceMin: ptr(0.0), ReferenceMax: ptr(10.0)},
		{Analyte: "ESR", Unit: "mm/h", Aliases: aliasESR, AgeRange: AgeAdult, Gender: GenderMale, ReferenceMin: ptr(0.0), ReferenceMax: ptr(15.0)},
		{Analyte: "ESR", Unit: "mm/h", Aliases: aliasESR, AgeRange: AgeAdult, Gender: GenderFemale, ReferenceMin: ptr(0.0), ReferenceMax: ptr(20.0)},
		{Analyte: "ESR", Unit: "mm/h", Aliases: aliasESR, AgeRange: AgeMiddleAge, Gender: GenderMale, ReferenceMin: ptr(0.0), ReferenceMax: ptr(20.0)},
		{Analyte: "ESR", Unit: "mm/h", Aliases: aliasESR, AgeRange: AgeMiddleAge, Gender: GenderFemale, ReferenceMin: ptr(0.0), ReferenceMax: ptr(30.0)},
		{Analyte: "ESR", Unit: "mm/h", Aliases: aliasESR, AgeRange: AgeSenior, Gender: GenderMale, ReferenceMin: ptr(0.0), ReferenceMax: ptr(30.0)},
		{Analyte: "ESR", Unit: "mm/h", Aliases: aliasESR, AgeRange: AgeSenior, Gender: GenderFemale, ReferenceMin: ptr(0.0), ReferenceMax: ptr(40.0)},
		{Analyte: "ESR", Unit: "mm/h", Aliases: aliasESR, AgeRange: AgeAny, Gender: GenderUnisex, ReferenceMin: ptr(0.0), ReferenceMax: ptr(20.0)},
		{Analyte: "CRP", Unit: "mg/L", Aliases: aliasCRP, AgeRange: AgeAny, Gender: GenderUnisex, ReferenceMin: nil, ReferenceMax: ptr(5.0)},
	}
}
