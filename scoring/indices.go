/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package scoring

import "math"

// Indices are the composite scores of one report. A nil field means the
// index could not be computed from the report.
type Indices struct {
	Inflammation *int  `json:"inflammation_index"`
	GlobalHealth *int  `json:"global_health"`
	MetabolicAge *int  `json:"metabolic_age"`
	RedFlagCount *int  `json:"red_flag_count"`
	UrgencyTier  *Tier `json:"urgency_tier"`
}

// Flag classifies value against the bounds with the policy's severe ratio.
func (p *Policy) Flag(value, low, high *float64) Flag {
	return flagWithRatio(value, low, high, p.SevereRatio)
}

// InflammationIndex is the weighted, capped blend of the inflammation markers
// scaled to 0-100. Absent markers contribute nothing; the index is nil when
// every marker is absent.
func (p *Policy) InflammationIndex(obs []FlaggedObservation) *int {
	found := false
	total := 0.0

	for _, in := range p.Inflammation {
		v := in.Marker.value(obs)
		if v == nil {
			continue
		}

		found = true
		total += in.Weight * capUnit(*v/in.Ceiling)
	}

	if !found {
		return nil
	}

	score := clamp(int(math.Round(100*total)), 0, 100)

	return &score
}

// RedFlagCount counts severe deviations. It is nil when no observation has
// a determinate flag.
func RedFlagCount(obs []FlaggedObservation) *int {
	determinate := false
	count := 0

	for _, o := range obs {
		if o.Flag.Determinate() {
			determinate = true
		}

		if o.Flag == FlagSevere {
			count++
		}
	}

	if !determinate {
		return nil
	}

	return &count
}

// GlobalHealthScore discounts the baseline by inflammation and red flags. Either
// input may be missing and then contributes nothing; with both missing the
// score is unavailable.
func (p *Policy) GlobalHealthScore(inflammation, redFlags *int) *int {
	if inflammation == nil && redFlags == nil {
		return nil
	}

	score := p.GlobalHealth.Baseline

	if inflammation != nil {
		score -= p.GlobalHealth.InflammationCoef * float64(*inflammation)
	}

	if redFlags != nil {
		score -= p.GlobalHealth.RedFlagPenalty * float64(*redFlags)
	}

	out := clamp(int(math.Round(score)), 0, 100)

	return &out
}

// MetabolicAgeOf adds the ladder penalties to the chronological age. Each
// ladder contributes the largest penalty among the bands it crosses.
func (p *Policy) MetabolicAgeOf(age *int, obs []FlaggedObservation) *int {
	if age == nil {
		return nil
	}

	out := *age

	for _, ladder := range p.MetabolicAge {
		v := ladder.Marker.value(obs)
		if v == nil {
			continue
		}

		out += ladder.penalty(*v)
	}

	return &out
}

func (l Ladder) penalty(v float64) int {
	best := 0

	for _, band := range l.Bands {
		crossed := false

		switch l.Direction {
		case Above:
			crossed = v >= band.Threshold
		case Below:
			crossed = v < band.Threshold
		}

		if crossed && band.Years > best {
			best = band.Years
		}
	}

	return best
}

// UrgencyTier returns the tier of the first matching rule, or nil when neither
// the red-flag count nor the inflammation index is available.
func (p *Policy) UrgencyTier(redFlags, inflammation *int) *Tier {
	if redFlags == nil && inflammation == nil {
		return nil
	}

	for _, rule := range p.Urgency {
		if rule.matches(redFlags, inflammation) {
			tier := rule.Tier

			return &tier
		}
	}

	return nil
}

// ComputeIndices derives every index from flagged observations and the
// patient's age.
func (p *Policy) ComputeIndices(age *int, obs []FlaggedObservation) Indices {
	inflammation := p.InflammationIndex(obs)
	redFlags := RedFlagCount(obs)

	return Indices{
		Inflammation: inflammation,
		GlobalHealth: p.GlobalHealthScore(inflammation, redFlags),
		MetabolicAge: p.MetabolicAgeOf(age, obs),
		RedFlagCount: redFlags,
		UrgencyTier:  p.UrgencyTier(redFlags, inflammation),
	}
}

func capUnit(x float64) float64 {
	if x < 0 {
		return 0
	}

	if x > 1 {
		return 1
	}

	return x
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}
