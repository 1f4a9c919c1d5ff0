package diagnostics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/funvibe/questlang/internal/ast"
)

func TestCategorySentinels(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want error
	}{
		{ErrA001, ErrUnresolvedSymbol},
		{ErrA002, ErrRedefinedName},
		{ErrI001, ErrImportViolation},
		{ErrI002, ErrImportViolation},
		{ErrR002, ErrNotCallable},
		{ErrR003, ErrTypeMismatch},
		{ErrR004, ErrUnsupported},
		{ErrR006, ErrRuntimeFault},
		{ErrP001, ErrSyntax},
	}
	for _, tt := range tests {
		err := fmt.Errorf("wrapped: %w", NewError(tt.code, ast.Span{}, "boom"))
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: errors.Is(%v) = false", tt.code, tt.want)
		}
	}
}

func TestErrorFormatting(t *testing.T) {
	err := NewError(ErrA001, ast.Span{Line: 3, Column: 7}, "unresolved 'x'")
	err.File = "quest.dng"
	if got, want := err.Error(), "quest.dng:3:7: A001: unresolved 'x'"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	bare := NewError(ErrR004, ast.Span{}, "no")
	if got, want := bare.Error(), "R004: no"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
