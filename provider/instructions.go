package provider

import (
	"fmt"

	"arena/model"
)

// GenericInstruction is the system instruction for the native card.
const GenericInstruction = "You are a helpful AI assistant."

// Fixed texts returned in place of a reply.
const (
	BusyMessage                = "Access is temporarily limited because the service is busy. Please wait a moment and try again."
	EmptyReplyPlaceholder      = "No response text generated."
	EmptyProxyReplyPlaceholder = "No response text generated from backend."
	UnexpectedErrorMessage     = "An unexpected error occurred."
)

// DisclosureSuffix tells a persona which real upstream it runs on.
func DisclosureSuffix(label string) string {
	return fmt.Sprintf("IMPORTANT: You are currently running in a 'Simulation Mode' powered by %s to demonstrate how this UI works.", label)
}

// SystemInstruction builds the system prompt for d. It is deterministic for
// a given descriptor and label.
func SystemInstruction(d model.ModelDescriptor, label string) string {
	if d.IsNative() {
		return GenericInstruction
	}
	return d.PersonaInstruction + " " + DisclosureSuffix(label)
}
