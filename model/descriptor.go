package model

import (
	"strings"
	"unicode/utf8"
)

// ModelDescriptor identifies one arena card. Descriptors are fixed at start-up.
type ModelDescriptor struct {
	ID            string
	DisplayName   string
	ProviderLabel string
	Description   string
	AvatarColor   string // hex, e.g. "#3B82F6"

	// PersonaInstruction is the role-play prompt used to simulate this model.
	// Empty only for the native model, which is queried as itself.
	PersonaInstruction string
}

// IsNative reports whether the card is answered by the real upstream without a persona.
func (d ModelDescriptor) IsNative() bool {
	return d.PersonaInstruction == ""
}

// Initials returns the two-letter avatar badge text.
func (d ModelDescriptor) Initials() string {
	name := strings.TrimSpace(d.DisplayName)
	if name == "" {
		name = d.ID
	}
	if utf8.RuneCountInString(name) > 2 {
		name = string([]rune(name)[:2])
	}
	return strings.ToUpper(name)
}
