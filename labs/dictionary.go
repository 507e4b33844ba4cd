/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package labs

import "regexp"

// DictionaryEntry describes one analyte searched for across the whole text.
// Each pattern must have one capture group holding the value; the first
// pattern that matches wins.
type DictionaryEntry struct {
	Key      string
	Unit     string
	RefText  string
	Patterns []*regexp.Regexp
}

// DictionaryExtractor extracts a fixed set of analytes from narrative or
// summary-style reports where results are not laid out one per line.
type DictionaryExtractor struct {
	Entries []DictionaryEntry
}

// dictionaryValue is the capture used by the default patterns. It accepts
// space-grouped thousands so narrative counts like "250 000" read whole.
const dictionaryValue = `(` + numberPattern + `)`

func dictionaryPattern(expr string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)` + expr)
}

var defaultDictionary = []DictionaryEntry{
	{
		Key:     "PCR (Proteína C reactiva)",
		Unit:    "mg/L",
		RefText: "< 5",
		Patterns: []*regexp.Regexp{
			dictionaryPattern(`(?:\bPCR\b|Prote[ií]na\s*C\s*reactiva|C-reactive\s+protein|\bCRP\b)\D*?` + dictionaryValue + `\s*mg/L`),
		},
	},
	{
		Key:     "VSG (Eritrosedimentación)",
		Unit:    "mm/h",
		RefText: "0 - 20",
		Patterns: []*regexp.Regexp{
			dictionaryPattern(`(?:\bVSG\b|Eritrosedimentaci[oó]n|\bESR\b)\D*?` + dictionaryValue + `\s*mm/h`),
			dictionaryPattern(`\bESR\b\D*?` + dictionaryValue),
		},
	},
	{
		Key:     "IL-6 (Interleucina 6)",
		Unit:    "pg/mL",
		RefText: "< 7",
		Patterns: []*regexp.Regexp{
			dictionaryPattern(`(?:\bIL-6\b|Interleu[ck]ina\s*6)\D*?` + dictionaryValue),
		},
	},
	{
		Key:  "Leucocitos",
		Unit: "",
		Patterns: []*regexp.Regexp{
			dictionaryPattern(`Leucocitos\D*?` + dictionaryValue),
			dictionaryPattern(`White\s+blood\s+cells\D*?` + dictionaryValue),
		},
	},
	{
		Key:  "Hemoglobina",
		Unit: "g/dL",
		Patterns: []*regexp.Regexp{
			dictionaryPattern(`Hemoglobina\D*?` + dictionaryValue),
			dictionaryPattern(`Hemoglobin\D*?` + dictionaryValue),
		},
	},
	{
		Key:  "Plaquetas",
		Unit: "",
		Patterns: []*regexp.Regexp{
			dictionaryPattern(`Plaquetas\D*?` + dictionaryValue),
			dictionaryPattern(`Platelets?\D*?` + dictionaryValue),
		},
	},
}

// DefaultDictionaryExtractor returns the built-in dictionary of inflammatory
// and blood-count analytes.
func DefaultDictionaryExtractor() *DictionaryExtractor {
	return &DictionaryExtractor{Entries: defaultDictionary}
}

// Extract implements Extractor. Entries without a numeric match are left out.
func (e *DictionaryExtractor) Extract(text string) *Observations {
	text = Normalize(text)
	obs := NewObservations()

	for _, entry := range e.Entries {
		value := entry.find(text)
		if value == nil {
			continue
		}

		o := Observation{
			Key:     entry.Key,
			Value:   value,
			Unit:    entry.Unit,
			RefText: entry.RefText,
		}

		o.RefLow, o.RefHigh = ParseRange(entry.RefText)
		if o.HasRange() {
			o.RefSource = RefSourceDictionary
		}

		obs.Put(o)
	}

	return obs
}

func (e DictionaryEntry) find(text string) *float64 {
	for _, pattern := range e.Patterns {
		m := pattern.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}

		return ParseNumber(m[1])
	}

	return nil
}
