/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package scoring

import "errors"

var (
	// ErrInvalidPolicy wraps every policy validation failure.
	ErrInvalidPolicy = errors.New("invalid scoring policy")
	errUnknownTier   = errors.New("unknown urgency tier")
)
