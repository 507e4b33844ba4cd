/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import "errors"

var (
	errEmptyReport     = errors.New("report text is empty")
	errReportTooLarge  = errors.New("report text is too large")
	errUnsupportedBody = errors.New("unsupported content type")
	errNarrativeOff    = errors.New("narrative generation is not configured")
)
