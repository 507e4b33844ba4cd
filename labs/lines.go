/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package labs

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// unitPattern accepts letter/percent units with one optional slash segment
// ("mg/dl", "%", "fL", "mm/h"), bare per-volume units ("/mm3") and
// power-of-ten counts ("10^3/uL").
const unitPattern = `(?:[\p{L}%µ][\p{L}%µ³⁶]*(?:/[\p{L}\dµ³]+)?|/[\p{L}µ][\p{L}\dµ³]*|[x×]?10\^?\d+/[\p{L}µ]+)`

// resultLine is the single structural pattern of a tabular result line:
// name, signed value, unit, and reference text up to the end of the line.
var resultLine = regexp.MustCompile(`^(.+?)\s+([-+]?` + numberPattern + `)\s*(` + unitPattern + `)\s+(\S.*)$`)

// defaultHeaderLabels are folded line prefixes that mark table headers and
// report furniture rather than results.
var defaultHeaderLabels = []string{
	"examen",
	"prueba",
	"analisis",
	"analito",
	"parametro",
	"determinacion",
	"resultado",
	"test",
	"paciente",
	"nombre",
	"edad",
	"sexo",
	"fecha",
	"medico",
	"pagina",
	"unidades",
	"valores de referencia",
}

// LineExtractor extracts observations from tabular reports one line at a
// time. It favours precision: lines that do not have the full shape are
// skipped.
type LineExtractor struct {
	// HeaderLabels are folded prefixes of lines to skip.
	HeaderLabels []string
}

// DefaultLineExtractor returns a LineExtractor with the default header labels.
func DefaultLineExtractor() *LineExtractor {
	return &LineExtractor{HeaderLabels: defaultHeaderLabels}
}

// Extract implements Extractor.
func (e *LineExtractor) Extract(text string) *Observations {
	obs := NewObservations()

	for _, line := range splitLines(Normalize(text)) {
		if e.isHeader(line) {
			continue
		}

		if o, ok := e.parseLine(line); ok {
			obs.Put(o)
		}
	}

	return obs
}

func (e *LineExtractor) isHeader(line string) bool {
	folded := Fold(line)
	for _, label := range e.HeaderLabels {
		if hasLabelPrefix(folded, label) {
			return true
		}
	}

	return false
}

func (e *LineExtractor) parseLine(line string) (Observation, bool) {
	m := resultLine.FindStringSubmatch(line)
	if m == nil {
		return Observation{}, false
	}

	name := collapseSpace(strings.Trim(m[1], " \t:.-*·|"))
	if utf8.RuneCountInString(name) < 2 {
		return Observation{}, false
	}

	value := ParseNumber(m[2])
	if value == nil {
		return Observation{}, false
	}

	refText := strings.TrimSpace(m[4])
	low, high := ParseRange(refText)

	o := Observation{
		Key:     name,
		Value:   value,
		Unit:    m[3],
		RefText: refText,
		RefLow:  low,
		RefHigh: high,
	}
	if o.HasRange() {
		o.RefSource = RefSourceReport
	}

	return o, true
}
