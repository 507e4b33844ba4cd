/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package labs

import "errors"

var (
	// ErrUnknownStyle is returned by ParseStyle for unsupported names.
	ErrUnknownStyle = errors.New("unknown report style (want auto, tabular or narrative)")
)
