/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"encoding/gob"

	"github.com/flamego/session"
)

// FlashType represents the type of flash message
type FlashType string

const (
	FlashError   FlashType = "error"
	FlashSuccess FlashType = "success"
	FlashWarning FlashType = "warning"
	FlashInfo    FlashType = "info"
)

// flashKey is the session key holding the pending flash message.
const flashKey = "labwave_flash"

// FlashMessage represents a flash message to be displayed to the user
type FlashMessage struct {
	Type    FlashType
	Message string
}

func init() {
	// Register FlashMessage with gob for session serialization
	gob.Register(FlashMessage{})
}

// SetErrorFlash sets an error flash message in the session
func SetErrorFlash(s session.Session, message string) {
	s.Set(flashKey, FlashMessage{Type: FlashError, Message: message})
}

// SetWarningFlash sets a warning flash message in the session
func SetWarningFlash(s session.Session, message string) {
	s.Set(flashKey, FlashMessage{Type: FlashWarning, Message: message})
}

// SetInfoFlash sets an info flash message in the session
func SetInfoFlash(s session.Session, message string) {
	s.Set(flashKey, FlashMessage{Type: FlashInfo, Message: message})
}

// PopFlash returns the pending flash message and removes it from the session.
func PopFlash(s session.Session) (FlashMessage, bool) {
	msg, ok := s.Get(flashKey).(FlashMessage)
	if ok {
		s.Delete(flashKey)
	}

	return msg, ok
}
