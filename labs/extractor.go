/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package labs

import "strings"

// Extractor turns report text into observations.
type Extractor interface {
	Extract(text string) *Observations
}

// Style is the layout family of a report.
type Style string

// Style values. StyleAuto asks DetectStyle to decide.
const (
	StyleAuto      Style = "auto"
	StyleTabular   Style = "tabular"
	StyleNarrative Style = "narrative"
)

// tabularMinLines is how many result-shaped lines make a report tabular.
const tabularMinLines = 2

// ParseStyle maps a user-supplied style name to a Style.
func ParseStyle(name string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(name))) {
	case "", StyleAuto:
		return StyleAuto, nil
	case StyleTabular:
		return StyleTabular, nil
	case StyleNarrative:
		return StyleNarrative, nil
	default:
		return "", ErrUnknownStyle
	}
}

// DetectStyle classifies a report as tabular when enough lines have the
// name/value/unit/range shape, and as narrative otherwise. A report with
// fewer result-shaped lines is still tabular when the dictionary finds none
// of its analytes, so a lone result line is never dropped.
func DetectStyle(text string) Style {
	extractor := DefaultLineExtractor()
	matches := 0

	for _, line := range splitLines(Normalize(text)) {
		if extractor.isHeader(line) {
			continue
		}

		if _, ok := extractor.parseLine(line); ok {
			matches++
			if matches >= tabularMinLines {
				return StyleTabular
			}
		}
	}

	if matches > 0 && DefaultDictionaryExtractor().Extract(text).Len() == 0 {
		return StyleTabular
	}

	return StyleNarrative
}

// ExtractorFor returns the default extractor for a style. StyleAuto is
// resolved against text first.
func ExtractorFor(style Style, text string) (Extractor, Style) {
	if style == StyleAuto || style == "" {
		style = DetectStyle(text)
	}

	if style == StyleNarrative {
		return DefaultDictionaryExtractor(), style
	}

	return DefaultLineExtractor(), StyleTabular
}

func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))

	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}
