/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package labs

import "regexp"

var (
	// The lower bound may carry a sign only at the start of the text or after
	// whitespace, so a dash glued to a word still reads as the separator.
	rangeBetween = regexp.MustCompile(`(?:(?:^|\s)([-+−]))?(` + numberPattern + `)\s*[-–—]\s*(` + numberPattern + `)`)
	rangeUpTo    = regexp.MustCompile(`(?i)(?:hasta|up\s+to)\s*:?\s*(` + numberPattern + `)`)
	rangeBelow   = regexp.MustCompile(`(?:<=?|≤)\s*(` + numberPattern + `)`)
	rangeAbove   = regexp.MustCompile(`(?:>=?|≥)\s*(` + numberPattern + `)`)
)

// ParseRange turns free reference-range text into optional lower and upper
// bounds. The recognized forms are tried in order and the first match wins:
// "A - B" (A may be signed), "Hasta: B" / "up to B", "< B" and ">= A".
// Text matching none of them yields two nil bounds.
func ParseRange(text string) (low, high *float64) {
	if m := rangeBetween.FindStringSubmatch(text); m != nil {
		low = ParseNumber(m[2])
		if low != nil && (m[1] == "-" || m[1] == "−") {
			*low = -*low
		}

		return low, ParseNumber(m[3])
	}

	if m := rangeUpTo.FindStringSubmatch(text); m != nil {
		return nil, ParseNumber(m[1])
	}

	if m := rangeBelow.FindStringSubmatch(text); m != nil {
		return nil, ParseNumber(m[1])
	}

	if m := rangeAbove.FindStringSubmatch(text); m != nil {
		return ParseNumber(m[1]), nil
	}

	return nil, nil
}
