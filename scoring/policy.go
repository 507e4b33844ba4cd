/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package scoring

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Tier is an ordinal urgency classification, U0 (none) to U3 (urgent).
type Tier string

// Tier values.
const (
	TierU0 Tier = "U0"
	TierU1 Tier = "U1"
	TierU2 Tier = "U2"
	TierU3 Tier = "U3"
)

var tierRank = map[Tier]int{TierU0: 0, TierU1: 1, TierU2: 2, TierU3: 3}

// Description returns the human label of the tier.
func (t Tier) Description() string {
	switch t {
	case TierU0:
		return "no urgency"
	case TierU1:
		return "schedulable consult"
	case TierU2:
		return "priority consult"
	case TierU3:
		return "urgent"
	default:
		return string(t)
	}
}

// ParseTier validates a tier name.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if _, ok := tierRank[t]; !ok {
		return "", fmt.Errorf("%w: %q", errUnknownTier, s)
	}

	return t, nil
}

// InflammationInput is one weighted marker of the inflammation index. The
// marker's value is divided by Ceiling and capped to [0,1] before weighting.
type InflammationInput struct {
	Marker  Marker  `yaml:"marker"`
	Ceiling float64 `yaml:"ceiling"`
	Weight  float64 `yaml:"weight"`
}

// GlobalHealthPolicy discounts a baseline by inflammation and red flags.
type GlobalHealthPolicy struct {
	Baseline         float64 `yaml:"baseline"`
	InflammationCoef float64 `yaml:"inflammation_coef"`
	RedFlagPenalty   float64 `yaml:"red_flag_penalty"`
}

// Direction says which side of a threshold is the risky one.
type Direction string

// Direction values.
const (
	Above Direction = "above"
	Below Direction = "below"
)

// Band adds Years once the marker crosses Threshold.
type Band struct {
	Threshold float64 `yaml:"threshold"`
	Years     int     `yaml:"years"`
}

// Ladder is the metabolic-age penalty table of one risk factor. Only the
// largest penalty among the crossed bands counts; ladders add up.
type Ladder struct {
	Marker    Marker    `yaml:"marker"`
	Direction Direction `yaml:"direction"`
	Bands     []Band    `yaml:"bands"`
}

// UrgencyRule assigns Tier when the red-flag count reaches MinRedFlags or the
// inflammation index reaches MinInflammation. A rule with neither condition
// is a catch-all.
type UrgencyRule struct {
	Tier            Tier `yaml:"tier"`
	MinRedFlags     *int `yaml:"min_red_flags,omitempty"`
	MinInflammation *int `yaml:"min_inflammation,omitempty"`
}

// SystemDefinition groups markers into an organ system.
type SystemDefinition struct {
	Name    string   `yaml:"name"`
	Markers []Marker `yaml:"markers"`
}

// Policy holds every tunable number of the index calculator. Swapping the
// policy never touches extraction.
type Policy struct {
	SevereRatio  float64             `yaml:"severe_ratio"`
	Inflammation []InflammationInput `yaml:"inflammation"`
	GlobalHealth GlobalHealthPolicy  `yaml:"global_health"`
	MetabolicAge []Ladder            `yaml:"metabolic_age"`
	Urgency      []UrgencyRule       `yaml:"urgency"`
	Systems      []SystemDefinition  `yaml:"systems"`
}

func intPtr(i int) *int {
	return &i
}

// DefaultPolicy returns the reference policy.
func DefaultPolicy() *Policy {
	return &Policy{
		SevereRatio: DefaultSevereRatio,
		Inflammation: []InflammationInput{
			{Marker: MarkerCRP, Ceiling: 5.0, Weight: 0.45},
			{Marker: MarkerIL6, Ceiling: 6.5, Weight: 0.45},
			{Marker: MarkerESR, Ceiling: 30.0, Weight: 0.10},
		},
		GlobalHealth: GlobalHealthPolicy{
			Baseline:         90,
			InflammationCoef: 0.5,
			RedFlagPenalty:   8,
		},
		MetabolicAge: []Ladder{
			{Marker: MarkerLDL, Direction: Above, Bands: []Band{{130, 2}, {160, 4}, {190, 7}}},
			{Marker: MarkerTotalCholesterol, Direction: Above, Bands: []Band{{200, 1}, {240, 3}}},
			{Marker: MarkerHDL, Direction: Below, Bands: []Band{{40, 2}, {35, 4}}},
			{Marker: MarkerHbA1c, Direction: Above, Bands: []Band{{5.7, 2}, {6.5, 5}, {8.0, 8}}},
			{Marker: MarkerTriglycerides, Direction: Above, Bands: []Band{{150, 1}, {200, 3}, {500, 5}}},
			{Marker: MarkerEGFR, Direction: Below, Bands: []Band{{90, 1}, {60, 4}, {30, 8}}},
			{Marker: MarkerCRP, Direction: Above, Bands: []Band{{3, 1}, {10, 3}}},
		},
		Urgency: []UrgencyRule{
			{Tier: TierU3, MinRedFlags: intPtr(3), MinInflammation: intPtr(90)},
			{Tier: TierU2, MinRedFlags: intPtr(2), MinInflammation: intPtr(80)},
			{Tier: TierU1, MinRedFlags: intPtr(1), MinInflammation: intPtr(60)},
			{Tier: TierU0},
		},
		Systems: defaultSystems(),
	}
}

// LoadPolicy reads a YAML policy file. Fields missing from the file keep
// their reference values; lists in the file replace the reference lists.
func LoadPolicy(path string) (*Policy, error) {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	return ParsePolicy(content)
}

// ParsePolicy decodes a YAML policy over the reference policy and validates it.
func ParsePolicy(content []byte) (*Policy, error) {
	p := DefaultPolicy()
	if err := yaml.Unmarshal(content, p); err != nil {
		return nil, fmt.Errorf("failed to parse policy: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// YAML encodes the policy.
func (p *Policy) YAML() ([]byte, error) {
	out, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode policy: %w", err)
	}

	return out, nil
}

// Validate checks the policy for values the calculator cannot use.
func (p *Policy) Validate() error {
	if !finite(p.SevereRatio) || p.SevereRatio <= 0 {
		return fmt.Errorf("%w: severe_ratio must be positive", ErrInvalidPolicy)
	}

	for _, in := range p.Inflammation {
		if !finite(in.Ceiling) || !finite(in.Weight) {
			return fmt.Errorf("%w: inflammation input %q is not a finite number", ErrInvalidPolicy, in.Marker.Name)
		}

		if in.Ceiling <= 0 {
			return fmt.Errorf("%w: inflammation ceiling for %q must be positive", ErrInvalidPolicy, in.Marker.Name)
		}

		if in.Weight < 0 || in.Weight > 1 {
			return fmt.Errorf("%w: inflammation weight for %q outside [0,1]", ErrInvalidPolicy, in.Marker.Name)
		}

		if len(in.Marker.Include) == 0 {
			return fmt.Errorf("%w: inflammation marker %q has no include fragments", ErrInvalidPolicy, in.Marker.Name)
		}
	}

	gh := p.GlobalHealth
	if !finite(gh.Baseline) || !finite(gh.InflammationCoef) || !finite(gh.RedFlagPenalty) {
		return fmt.Errorf("%w: global_health values must be finite", ErrInvalidPolicy)
	}

	for _, ladder := range p.MetabolicAge {
		if ladder.Direction != Above && ladder.Direction != Below {
			return fmt.Errorf("%w: ladder %q has direction %q", ErrInvalidPolicy, ladder.Marker.Name, ladder.Direction)
		}

		for _, band := range ladder.Bands {
			if !finite(band.Threshold) {
				return fmt.Errorf("%w: ladder %q has a non-finite threshold", ErrInvalidPolicy, ladder.Marker.Name)
			}

			if band.Years < 0 {
				return fmt.Errorf("%w: ladder %q has a negative penalty", ErrInvalidPolicy, ladder.Marker.Name)
			}
		}
	}

	if len(p.Urgency) == 0 {
		return fmt.Errorf("%w: urgency table is empty", ErrInvalidPolicy)
	}

	prev := len(tierRank)
	for i, rule := range p.Urgency {
		rank, ok := tierRank[rule.Tier]
		if !ok {
			return fmt.Errorf("%w: %w %q", ErrInvalidPolicy, errUnknownTier, rule.Tier)
		}

		if rank > prev {
			return fmt.Errorf("%w: urgency rules must go from most to least urgent", ErrInvalidPolicy)
		}

		prev = rank

		if rule.catchAll() && i != len(p.Urgency)-1 {
			return fmt.Errorf("%w: only the last urgency rule may be a catch-all", ErrInvalidPolicy)
		}
	}

	if !p.Urgency[len(p.Urgency)-1].catchAll() {
		return fmt.Errorf("%w: urgency table must end with a catch-all rule", ErrInvalidPolicy)
	}

	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (r UrgencyRule) catchAll() bool {
	return r.MinRedFlags == nil && r.MinInflammation == nil
}

func (r UrgencyRule) matches(redFlags, inflammation *int) bool {
	if r.catchAll() {
		return true
	}

	if r.MinRedFlags != nil && redFlags != nil && *redFlags >= *r.MinRedFlags {
		return true
	}

	return r.MinInflammation != nil && inflammation != nil && *inflammation >= *r.MinInflammation
}
