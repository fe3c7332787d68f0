package analyzer

import (
	"testing"

	"modelc/internal/diagnostics"
)

func TestCheckIdentifier(t *testing.T) {
	tests := []struct {
		name      string
		ident     string
		modelName string
		wantOK    bool
		wantKind  diagnostics.Kind
	}{
		{"ordinary name", "alpha", "mymodel", true, 0},
		{"equals model name", "mymodel", "mymodel", false, diagnostics.IdentifierIsModelName},
		{"trailing double underscore", "foo__", "mymodel", false, diagnostics.IdentifierIsKeyword},
		{"reserved word", "model", "mymodel", false, diagnostics.IdentifierIsKeyword},
		{"reserved word for loop", "for", "mymodel", false, diagnostics.IdentifierIsKeyword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := checkIdentifier(tt.ident, tt.modelName)
			if ok != tt.wantOK {
				t.Fatalf("checkIdentifier(%q, %q) ok = %v, want %v", tt.ident, tt.modelName, ok, tt.wantOK)
			}
			if !ok && kind != tt.wantKind {
				t.Fatalf("checkIdentifier(%q, %q) kind = %v, want %v", tt.ident, tt.modelName, kind, tt.wantKind)
			}
		})
	}
}
