/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package labs

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize returns text in NFC form so that accented analyte names compare
// equal regardless of how the text extractor encoded them.
func Normalize(text string) string {
	return norm.NFC.String(text)
}

// Fold lowercases s and strips combining marks, so "Proteína" and "PROTEINA"
// fold to the same string.
func Fold(s string) string {
	// transform.Chain is stateful, a new chain is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	return strings.ToLower(folded)
}

// ContainsAny reports whether the folded key contains any of the include
// fragments and none of the exclude fragments. Fragments are folded too and
// must start at a word boundary, so "ldl" does not match "VLDL".
func ContainsAny(key string, include, exclude []string) bool {
	folded := Fold(key)

	for _, fragment := range exclude {
		if containsAtWord(folded, Fold(fragment)) {
			return false
		}
	}

	for _, fragment := range include {
		if containsAtWord(folded, Fold(fragment)) {
			return true
		}
	}

	return false
}

func containsAtWord(s, fragment string) bool {
	if fragment == "" {
		return false
	}

	for offset := 0; offset < len(s); {
		i := strings.Index(s[offset:], fragment)
		if i < 0 {
			return false
		}

		i += offset
		if i == 0 {
			return true
		}

		prev, _ := utf8.DecodeLastRuneInString(s[:i])
		if !unicode.IsLetter(prev) && !unicode.IsDigit(prev) {
			return true
		}

		offset = i + 1
	}

	return false
}

// collapseSpace joins the whitespace-separated fields of s with single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// hasLabelPrefix reports whether folded starts with label as a whole word.
func hasLabelPrefix(folded, label string) bool {
	if !strings.HasPrefix(folded, label) {
		return false
	}

	rest := folded[len(label):]
	if rest == "" {
		return true
	}

	r := []rune(rest)[0]

	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
