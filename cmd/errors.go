/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import "errors"

var (
	errSessionSecretRequired = errors.New("session-secret is required in production (set via --session-secret or " + sessionSecretEnvVar + " env var)")
	errInvalidRuntimeEnv     = errors.New(runtimeEnvVar + " must be one of: development, dev, production, prod")
	errTooManyArgs           = errors.New("expected at most one report file")
	errNarrateFileRequired   = errors.New("narrate needs a report file or - for stdin")
)
