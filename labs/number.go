/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package labs

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numberPattern matches a decimal number as printed in lab reports: either
// space-grouped thousands ("4 590 000") or plain digits, with an optional
// comma or point decimal part.
const numberPattern = `(?:\d{1,3}(?:[ \x{00A0}\x{202F}]\d{3})+(?:[.,]\d+)?|\d+(?:[.,]\d+)?)`

// thousandsGroup matches a group separator between a digit and a group of
// exactly three digits that is not followed by another digit.
var thousandsGroup = regexp.MustCompile(`(\d)[ \x{00A0}\x{202F}](\d{3})(\D|$)`)

// ParseNumber converts locale-formatted numeric text into a float. It returns
// nil for empty input, for anything that does not parse after normalization
// and for non-finite results.
func ParseNumber(text string) *float64 {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil
	}

	// Each pass can only join one separator per group boundary, so repeat
	// until the string is stable.
	for {
		next := thousandsGroup.ReplaceAllString(s, "$1$2$3")
		if next == s {
			break
		}

		s = next
	}

	s = strings.ReplaceAll(s, ",", ".")

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}

	return &f
}
