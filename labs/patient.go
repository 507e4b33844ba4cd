/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package labs

import (
	"regexp"
	"strconv"
	"strings"
)

// maxAge bounds plausible ages; larger numbers are usually misread fields.
const maxAge = 130

// Patient holds best-effort demographics. Fields not found are nil.
type Patient struct {
	Name *string `json:"name"`
	Age  *int    `json:"age"`
	Sex  *string `json:"sex"`
}

// Single-letter sex tokens must not run into a word, so the "M" of
// "Médico" is not read as a sex.
var (
	patientName    = regexp.MustCompile(`(?im)\b(?:paciente|nombre)\s*:\s*(.+?)\s*(?:\b(?:edad|sexo|fecha|dni|documento|m[eé]dico|hc|historia|orden)\b|$)`)
	patientAgeSex  = regexp.MustCompile(`(?i)\bedad(?:\s*/\s*sexo|\s+y\s+sexo)?\s*:?\s*(\d{1,3})\s*(?:a[ñn]os?)?\s*[/,;-]?\s*(?:sexo\s*:?\s*)?\b(femenino|masculino|mujer|hombre|f|m)(?:[^\p{L}\d]|$)`)
	patientAge     = regexp.MustCompile(`(?i)\bedad\s*:?\s*(\d{1,3})`)
	patientYears   = regexp.MustCompile(`(?i)\b(\d{1,3})\s*a[ñn]os\b`)
	patientSex     = regexp.MustCompile(`(?i)\bsexo\s*:?\s*(femenino|masculino|mujer|hombre|f|m)(?:[^\p{L}\d]|$)`)
	patientSexWord = regexp.MustCompile(`(?i)\b(femenino|masculino)\b`)
)

// ExtractPatient finds the patient's name, age and sex in header-style text.
func ExtractPatient(text string) Patient {
	text = Normalize(text)

	var p Patient

	if m := patientName.FindStringSubmatch(text); m != nil {
		name := collapseSpace(strings.Trim(m[1], " \t,;|-"))
		if name != "" {
			p.Name = &name
		}
	}

	if m := patientAgeSex.FindStringSubmatch(text); m != nil {
		p.Age = parseAge(m[1])
		sex := m[2]
		p.Sex = &sex
	}

	if p.Age == nil {
		for _, re := range []*regexp.Regexp{patientAge, patientYears} {
			if m := re.FindStringSubmatch(text); m != nil {
				if p.Age = parseAge(m[1]); p.Age != nil {
					break
				}
			}
		}
	}

	if p.Sex == nil {
		for _, re := range []*regexp.Regexp{patientSex, patientSexWord} {
			if m := re.FindStringSubmatch(text); m != nil {
				sex := m[1]
				p.Sex = &sex

				break
			}
		}
	}

	return p
}

func parseAge(s string) *int {
	age, err := strconv.Atoi(s)
	if err != nil || age < 0 || age > maxAge {
		return nil
	}

	return &age
}
