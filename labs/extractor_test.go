// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package labs

import (
	"errors"
	"reflect"
	"testing"
)

const tabularReport = `LABORATORIO CENTRAL
Paciente: Juana Pérez Edad: 37 años Sexo: F
Examen Resultado Unidades Valores de referencia
Hemoglobina 13,5 g/dL 12 - 16
Leucocitos 4 590 /mm3 4 000 - 10 000
Colesterol Sérico 243 mg/dl 0 - 200
Colesterol LDL 195 mg/dl < 130
Glucosa 92 mg/dl 70 - 110
Hemoglobina 14,1 g/dL 12 - 16
`

const narrativeReport = `Informe: paciente con PCR elevada de 12,5 mg/L y VSG de 35 mm/h.
Se sugiere control de IL-6 (8.2 pg/mL).
`

func TestLineExtractorTabularReport(t *testing.T) {
	t.Parallel()

	obs := DefaultLineExtractor().Extract(tabularReport)

	wantKeys := []string{"Hemoglobina", "Leucocitos", "Colesterol Sérico", "Colesterol LDL", "Glucosa"}
	if got := obs.Keys(); !reflect.DeepEqual(got, wantKeys) {
		t.Fatalf("expected keys %v, got %v", wantKeys, got)
	}

	chol, ok := obs.Get("Colesterol Sérico")
	if !ok {
		t.Fatalf("expected Colesterol Sérico observation")
	}

	assertFloatPtr(t, chol.Value, 243)
	assertFloatPtr(t, chol.RefLow, 0)
	assertFloatPtr(t, chol.RefHigh, 200)

	if chol.Unit != "mg/dl" {
		t.Fatalf("expected unit mg/dl, got %q", chol.Unit)
	}

	if chol.RefText != "0 - 200" {
		t.Fatalf("expected ref text %q, got %q", "0 - 200", chol.RefText)
	}

	if chol.RefSource != RefSourceReport {
		t.Fatalf("expected report ref source, got %q", chol.RefSource)
	}

	wbc, _ := obs.Get("Leucocitos")
	assertFloatPtr(t, wbc.Value, 4590)
	assertFloatPtr(t, wbc.RefLow, 4000)
	assertFloatPtr(t, wbc.RefHigh, 10000)

	if wbc.Unit != "/mm3" {
		t.Fatalf("expected unit /mm3, got %q", wbc.Unit)
	}

	ldl, _ := obs.Get("Colesterol LDL")
	assertNilFloat(t, ldl.RefLow)
	assertFloatPtr(t, ldl.RefHigh, 130)
}

func TestLineExtractorLastWriteWins(t *testing.T) {
	t.Parallel()

	obs := DefaultLineExtractor().Extract(tabularReport)

	hb, ok := obs.Get("Hemoglobina")
	if !ok {
		t.Fatalf("expected Hemoglobina observation")
	}

	assertFloatPtr(t, hb.Value, 14.1)

	if obs.Keys()[0] != "Hemoglobina" {
		t.Fatalf("expected repeated key to keep its first position, got %v", obs.Keys())
	}
}

func TestLineExtractorSkipsIncompleteLines(t *testing.T) {
	t.Parallel()

	text := "Hemoglobina 13,5\nVer nota al pie\nGlucosa mg/dl 70 - 110\nX 5 mg/dl 1 - 10\n"

	if obs := DefaultLineExtractor().Extract(text); obs.Len() != 0 {
		t.Fatalf("expected no observations, got %v", obs.Keys())
	}
}

func TestLineExtractorCustomHeaders(t *testing.T) {
	t.Parallel()

	extractor := &LineExtractor{HeaderLabels: []string{"glucosa"}}
	obs := extractor.Extract("Glucosa 92 mg/dl 70 - 110\nUrea 30 mg/dl 10 - 50\n")

	if got := obs.Keys(); !reflect.DeepEqual(got, []string{"Urea"}) {
		t.Fatalf("expected only Urea, got %v", got)
	}
}

func TestExtractionIsDeterministic(t *testing.T) {
	t.Parallel()

	for _, text := range []string{tabularReport, narrativeReport} {
		extractor, _ := ExtractorFor(StyleAuto, text)

		first := extractor.Extract(text).All()
		second := extractor.Extract(text).All()

		if !reflect.DeepEqual(first, second) {
			t.Fatalf("expected identical observations, got %v and %v", first, second)
		}
	}
}

func TestDictionaryExtractorNarrativeReport(t *testing.T) {
	t.Parallel()

	obs := DefaultDictionaryExtractor().Extract(narrativeReport)

	wantKeys := []string{"PCR (Proteína C reactiva)", "VSG (Eritrosedimentación)", "IL-6 (Interleucina 6)"}
	if got := obs.Keys(); !reflect.DeepEqual(got, wantKeys) {
		t.Fatalf("expected keys %v, got %v", wantKeys, got)
	}

	crp, _ := obs.Get("PCR (Proteína C reactiva)")
	assertFloatPtr(t, crp.Value, 12.5)
	assertNilFloat(t, crp.RefLow)
	assertFloatPtr(t, crp.RefHigh, 5)

	if crp.RefSource != RefSourceDictionary {
		t.Fatalf("expected dictionary ref source, got %q", crp.RefSource)
	}

	esr, _ := obs.Get("VSG (Eritrosedimentación)")
	assertFloatPtr(t, esr.Value, 35)
	assertFloatPtr(t, esr.RefLow, 0)
	assertFloatPtr(t, esr.RefHigh, 20)

	il6, _ := obs.Get("IL-6 (Interleucina 6)")
	assertFloatPtr(t, il6.Value, 8.2)
}

func TestDictionaryExtractorEnglishAlternates(t *testing.T) {
	t.Parallel()

	text := "Summary: hemoglobin 12.9 g/dL, white blood cells 7.1, platelets 210. CRP 0,8 mg/L."
	obs := DefaultDictionaryExtractor().Extract(text)

	for key, want := range map[string]float64{
		"Hemoglobina":               12.9,
		"Leucocitos":                7.1,
		"Plaquetas":                 210,
		"PCR (Proteína C reactiva)": 0.8,
	} {
		o, ok := obs.Get(key)
		if !ok {
			t.Fatalf("expected %s observation in %v", key, obs.Keys())
		}

		assertFloatPtr(t, o.Value, want)
	}
}

func TestDictionaryExtractorGroupedCounts(t *testing.T) {
	t.Parallel()

	text := "Hemograma: Plaquetas de 250 000 /mm3 y Leucocitos de 7 500 /mm3, sin blastos."
	obs := DefaultDictionaryExtractor().Extract(text)

	platelets, ok := obs.Get("Plaquetas")
	if !ok {
		t.Fatalf("expected platelet observation in %v", obs.Keys())
	}

	assertFloatPtr(t, platelets.Value, 250000)

	wbc, ok := obs.Get("Leucocitos")
	if !ok {
		t.Fatalf("expected leukocyte observation in %v", obs.Keys())
	}

	assertFloatPtr(t, wbc.Value, 7500)
}

func TestDictionaryExtractorOmitsMissingEntries(t *testing.T) {
	t.Parallel()

	if obs := DefaultDictionaryExtractor().Extract("Sin hallazgos relevantes."); obs.Len() != 0 {
		t.Fatalf("expected no observations, got %v", obs.Keys())
	}
}

func TestDetectStyle(t *testing.T) {
	t.Parallel()

	if got := DetectStyle(tabularReport); got != StyleTabular {
		t.Fatalf("expected tabular, got %q", got)
	}

	if got := DetectStyle(narrativeReport); got != StyleNarrative {
		t.Fatalf("expected narrative, got %q", got)
	}

	if got := DetectStyle(""); got != StyleNarrative {
		t.Fatalf("expected narrative for empty text, got %q", got)
	}

	if got := DetectStyle("Colesterol Sérico 243 mg/dl 0 - 200"); got != StyleTabular {
		t.Fatalf("expected a single result line to be tabular, got %q", got)
	}

	embedded := "Paciente en control anual.\nColesterol Sérico 243 mg/dl 0 - 200\nSe sugiere dieta."
	if got := DetectStyle(embedded); got != StyleTabular {
		t.Fatalf("expected a result line inside prose to be tabular, got %q", got)
	}
}

func TestExtractorFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		style     Style
		text      string
		wantStyle Style
		wantLines bool
	}{
		{name: "auto tabular", style: StyleAuto, text: tabularReport, wantStyle: StyleTabular, wantLines: true},
		{name: "auto narrative", style: StyleAuto, text: narrativeReport, wantStyle: StyleNarrative},
		{name: "empty style detects", style: "", text: tabularReport, wantStyle: StyleTabular, wantLines: true},
		{name: "forced narrative", style: StyleNarrative, text: tabularReport, wantStyle: StyleNarrative},
		{name: "forced tabular", style: StyleTabular, text: narrativeReport, wantStyle: StyleTabular, wantLines: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			extractor, style := ExtractorFor(tt.style, tt.text)
			if style != tt.wantStyle {
				t.Fatalf("expected style %q, got %q", tt.wantStyle, style)
			}

			_, isLines := extractor.(*LineExtractor)
			if isLines != tt.wantLines {
				t.Fatalf("expected line extractor %v, got %T", tt.wantLines, extractor)
			}
		})
	}
}

func TestParseStyle(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]Style{
		"":           StyleAuto,
		"auto":       StyleAuto,
		" Tabular ":  StyleTabular,
		"NARRATIVE":  StyleNarrative,
		"narrative ": StyleNarrative,
	} {
		got, err := ParseStyle(input)
		if err != nil {
			t.Fatalf("ParseStyle(%q) failed: %v", input, err)
		}

		if got != want {
			t.Fatalf("ParseStyle(%q) expected %q, got %q", input, want, got)
		}
	}

	if _, err := ParseStyle("pdf"); !errors.Is(err, ErrUnknownStyle) {
		t.Fatalf("expected ErrUnknownStyle, got %v", err)
	}
}
