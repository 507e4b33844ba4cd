/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package scoring

import "math"

// Flag classifies a value against its reference range.
type Flag string

// Flag values.
const (
	FlagInRange       Flag = "in_range"
	FlagMild          Flag = "mild_deviation"
	FlagSevere        Flag = "severe_deviation"
	FlagIndeterminate Flag = "indeterminate"
)

// DefaultSevereRatio is the relative distance past a bound above which a
// deviation is severe.
const DefaultSevereRatio = 0.15

// epsilon keeps the relative distance finite when a bound is zero.
const epsilon = 1e-9

// FlagValue classifies value against the optional bounds using the default
// severe ratio.
func FlagValue(value, low, high *float64) Flag {
	return flagWithRatio(value, low, high, DefaultSevereRatio)
}

// Determinate reports whether the flag says anything about the value.
func (f Flag) Determinate() bool {
	return f != FlagIndeterminate && f != ""
}

// flagWithRatio is total: every input maps to exactly one flag. The lower
// bound is checked first, so an inverted range still yields a stable result.
func flagWithRatio(value, low, high *float64, severeRatio float64) Flag {
	if value == nil || (low == nil && high == nil) {
		return FlagIndeterminate
	}

	v := *value

	if low != nil && v < *low {
		return deviation((*low-v)/(math.Abs(*low)+epsilon), severeRatio)
	}

	if high != nil && v > *high {
		return deviation((v-*high)/(math.Abs(*high)+epsilon), severeRatio)
	}

	return FlagInRange
}

func deviation(distance, severeRatio float64) Flag {
	if distance > severeRatio {
		return FlagSevere
	}

	return FlagMild
}
