// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package scoring

import (
	"testing"

	"github.com/humaidq/labwave/labs"
)

func flagged(key string, value float64, flag Flag) FlaggedObservation {
	return FlaggedObservation{
		Observation: labs.Observation{Key: key, Value: &value},
		Flag:        flag,
	}
}

func intOf(t *testing.T, p *int) int {
	t.Helper()

	if p == nil {
		t.Fatalf("expected a value, got nil")
	}

	return *p
}

func TestInflammationIndex(t *testing.T) {
	t.Parallel()

	policy := DefaultPolicy()

	if got := policy.InflammationIndex(nil); got != nil {
		t.Fatalf("expected nil without markers, got %d", *got)
	}

	unrelated := []FlaggedObservation{flagged("Glucosa", 90, FlagInRange)}
	if got := policy.InflammationIndex(unrelated); got != nil {
		t.Fatalf("expected nil without inflammation markers, got %d", *got)
	}

	crpOnly := []FlaggedObservation{flagged("PCR (Proteína C reactiva)", 50, FlagSevere)}
	if got := intOf(t, policy.InflammationIndex(crpOnly)); got > 45 {
		t.Fatalf("expected saturated CRP alone to stay within its weight, got %d", got)
	}

	all := []FlaggedObservation{
		flagged("PCR", 1, FlagInRange),
		flagged("IL-6", 13, FlagSevere),
		flagged("VSG", 15, FlagInRange),
	}
	// 100 * (0.45*0.2 + 0.45*1 + 0.10*0.5) = 59
	if got := intOf(t, policy.InflammationIndex(all)); got != 59 {
		t.Fatalf("expected 59, got %d", got)
	}

	saturated := []FlaggedObservation{
		flagged("PCR", 100, FlagSevere),
		flagged("Interleucina 6", 100, FlagSevere),
		flagged("Eritrosedimentación", 100, FlagSevere),
	}
	if got := intOf(t, policy.InflammationIndex(saturated)); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
}

func TestRedFlagCount(t *testing.T) {
	t.Parallel()

	if got := RedFlagCount(nil); got != nil {
		t.Fatalf("expected nil without observations, got %d", *got)
	}

	indeterminate := []FlaggedObservation{flagged("Glucosa", 90, FlagIndeterminate)}
	if got := RedFlagCount(indeterminate); got != nil {
		t.Fatalf("expected nil without determinate flags, got %d", *got)
	}

	obs := []FlaggedObservation{
		flagged("Glucosa", 90, FlagInRange),
		flagged("LDL", 200, FlagSevere),
		flagged("HDL", 38, FlagMild),
		flagged("Colesterol", 260, FlagSevere),
	}
	if got := intOf(t, RedFlagCount(obs)); got != 2 {
		t.Fatalf("expected 2 red flags, got %d", got)
	}

	clean := []FlaggedObservation{flagged("Glucosa", 90, FlagInRange)}
	if got := intOf(t, RedFlagCount(clean)); got != 0 {
		t.Fatalf("expected 0 red flags, got %d", got)
	}
}

func TestGlobalHealthScore(t *testing.T) {
	t.Parallel()

	policy := DefaultPolicy()
	zero := 0

	if got := policy.GlobalHealthScore(nil, nil); got != nil {
		t.Fatalf("expected nil without inputs, got %d", *got)
	}

	if got := intOf(t, policy.GlobalHealthScore(&zero, &zero)); got != 90 {
		t.Fatalf("expected baseline 90, got %d", got)
	}

	if got := intOf(t, policy.GlobalHealthScore(nil, &zero)); got != 90 {
		t.Fatalf("expected baseline 90 without inflammation, got %d", got)
	}

	inflammation := 40
	if got := intOf(t, policy.GlobalHealthScore(&inflammation, nil)); got != 70 {
		t.Fatalf("expected 70, got %d", got)
	}

	previous := 91
	for flags := 0; flags <= 20; flags++ {
		redFlags := flags
		got := intOf(t, policy.GlobalHealthScore(&zero, &redFlags))

		if got < 0 {
			t.Fatalf("expected clamp at 0, got %d", got)
		}

		if previous > 0 && got >= previous {
			t.Fatalf("expected score to decrease with %d red flags, got %d after %d", flags, got, previous)
		}

		previous = got
	}

	if previous != 0 {
		t.Fatalf("expected many red flags to clamp at 0, got %d", previous)
	}
}

func TestMetabolicAge(t *testing.T) {
	t.Parallel()

	policy := DefaultPolicy()
	age := 37

	if got := policy.MetabolicAgeOf(nil, []FlaggedObservation{flagged("LDL", 200, FlagSevere)}); got != nil {
		t.Fatalf("expected nil without age, got %d", *got)
	}

	if got := intOf(t, policy.MetabolicAgeOf(&age, nil)); got != 37 {
		t.Fatalf("expected chronological age without risk factors, got %d", got)
	}

	ldl := []FlaggedObservation{flagged("Colesterol LDL", 195, FlagSevere)}
	if got := intOf(t, policy.MetabolicAgeOf(&age, ldl)); got != 44 {
		t.Fatalf("expected 44, got %d", got)
	}

	previous := age
	for _, value := range []float64{100, 129, 130, 159, 160, 189, 190, 250} {
		got := intOf(t, policy.MetabolicAgeOf(&age, []FlaggedObservation{flagged("LDL", value, FlagIndeterminate)}))
		if got < previous {
			t.Fatalf("expected non-decreasing metabolic age at LDL %v, got %d after %d", value, got, previous)
		}

		previous = got
	}

	previous = age
	for _, value := range []float64{120, 89, 60, 59, 30, 29, 10} {
		got := intOf(t, policy.MetabolicAgeOf(&age, []FlaggedObservation{flagged("TFG estimada", value, FlagIndeterminate)}))
		if got < previous {
			t.Fatalf("expected non-decreasing metabolic age at eGFR %v, got %d after %d", value, got, previous)
		}

		previous = got
	}

	combined := []FlaggedObservation{
		flagged("Colesterol VLDL", 60, FlagSevere),
		flagged("Colesterol LDL", 165, FlagSevere),
		flagged("Colesterol HDL", 33, FlagSevere),
		flagged("Colesterol Total", 245, FlagSevere),
		flagged("HbA1c", 6.0, FlagMild),
		flagged("Triglicéridos", 210, FlagSevere),
		flagged("PCR", 12, FlagSevere),
	}
	// 37 + LDL 4 + HDL 4 + total 3 + HbA1c 2 + TG 3 + CRP 3
	if got := intOf(t, policy.MetabolicAgeOf(&age, combined)); got != 56 {
		t.Fatalf("expected 56, got %d", got)
	}
}

func TestUrgencyTier(t *testing.T) {
	t.Parallel()

	policy := DefaultPolicy()
	n := func(i int) *int { return &i }

	tests := []struct {
		name         string
		redFlags     *int
		inflammation *int
		want         *Tier
	}{
		{name: "unavailable", redFlags: nil, inflammation: nil, want: nil},
		{name: "calm", redFlags: n(0), inflammation: n(10), want: tierPtr(TierU0)},
		{name: "one red flag", redFlags: n(1), inflammation: nil, want: tierPtr(TierU1)},
		{name: "inflammation only", redFlags: nil, inflammation: n(85), want: tierPtr(TierU2)},
		{name: "two red flags", redFlags: n(2), inflammation: n(0), want: tierPtr(TierU2)},
		{name: "many red flags", redFlags: n(5), inflammation: n(0), want: tierPtr(TierU3)},
		{name: "high inflammation", redFlags: n(0), inflammation: n(90), want: tierPtr(TierU3)},
		{name: "boundary 60", redFlags: n(0), inflammation: n(60), want: tierPtr(TierU1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := policy.UrgencyTier(tt.redFlags, tt.inflammation)

			switch {
			case tt.want == nil && got != nil:
				t.Fatalf("expected nil tier, got %q", *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Fatalf("expected %q, got %v", *tt.want, got)
			}
		})
	}
}

func TestSwappingUrgencyTableOnlyChangesTier(t *testing.T) {
	t.Parallel()

	obs := []FlaggedObservation{
		flagged("PCR", 4, FlagInRange),
		flagged("LDL", 200, FlagSevere),
	}
	age := 50

	reference := DefaultPolicy()
	lenient := DefaultPolicy()
	lenient.Urgency = []UrgencyRule{
		{Tier: TierU3, MinRedFlags: intPtr(10)},
		{Tier: TierU0},
	}

	if err := lenient.Validate(); err != nil {
		t.Fatalf("expected valid policy: %v", err)
	}

	a := reference.ComputeIndices(&age, obs)
	b := lenient.ComputeIndices(&age, obs)

	if *a.Inflammation != *b.Inflammation || *a.GlobalHealth != *b.GlobalHealth ||
		*a.MetabolicAge != *b.MetabolicAge || *a.RedFlagCount != *b.RedFlagCount {
		t.Fatalf("expected identical indices, got %+v and %+v", a, b)
	}

	if *a.UrgencyTier != TierU1 || *b.UrgencyTier != TierU0 {
		t.Fatalf("expected U1 and U0, got %q and %q", *a.UrgencyTier, *b.UrgencyTier)
	}
}

func tierPtr(t Tier) *Tier {
	return &t
}
