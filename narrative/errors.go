/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package narrative

import "errors"

var (
	// ErrConfigIncomplete is returned when the model server is not configured.
	ErrConfigIncomplete = errors.New("narrative configuration incomplete: OLLAMA_URL and OLLAMA_MODEL must be set")
	errUpstreamStatus   = errors.New("model server returned an error status")
	errUpstreamMessage  = errors.New("model server reported an error")
)
