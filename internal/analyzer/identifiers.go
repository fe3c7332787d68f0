package analyzer

import (
	"strings"

	"modelc/internal/diagnostics"
)

// checkIdentifier implements §4.5.1: an identifier is rejected if it
// equals the configured model name, ends with a double underscore, or is
// a reserved word. ok is false when name is rejected, in which case kind
// names which diagnostic to raise.
func checkIdentifier(name, modelName string) (kind diagnostics.Kind, ok bool) {
	if name == modelName {
		return diagnostics.IdentifierIsModelName, false
	}
	if strings.HasSuffix(name, "__") {
		return diagnostics.IdentifierIsKeyword, false
	}
	if isReserved(name) {
		return diagnostics.IdentifierIsKeyword, false
	}
	return 0, true
}
