package diagnostics

import (
	"errors"
	"fmt"

	"github.com/funvibe/questlang/internal/ast"
)

type ErrorCode string

// Parse errors
const (
	ErrP001 ErrorCode = "P001" // syntax error reported by the parser
)

// Analysis errors
const (
	ErrA001 ErrorCode = "A001" // unresolved name
	ErrA002 ErrorCode = "A002" // redefinition in scope
	ErrA003 ErrorCode = "A003" // unresolved type
	ErrA004 ErrorCode = "A004" // member access on non-scoped value
	ErrA005 ErrorCode = "A005" // type inference failure
	ErrA006 ErrorCode = "A006" // item property not in quest_item
	ErrA007 ErrorCode = "A007" // graph definition error
	ErrA008 ErrorCode = "A008" // call of a non-callable symbol
)

// Import errors
const (
	ErrI001 ErrorCode = "I001" // path escapes library root
	ErrI002 ErrorCode = "I002" // chained import of a proxy symbol
	ErrI003 ErrorCode = "I003" // imported file cannot be read or parsed
	ErrI004 ErrorCode = "I004" // imported symbol not found
)

// Runtime errors
const (
	ErrR001 ErrorCode = "R001" // unresolved symbol
	ErrR002 ErrorCode = "R002" // not callable
	ErrR003 ErrorCode = "R003" // type mismatch
	ErrR004 ErrorCode = "R004" // unsupported
	ErrR005 ErrorCode = "R005" // host instantiation failure
	ErrR006 ErrorCode = "R006" // runtime fault: division by zero, call depth, self-referencing prototype
)

// Category groups error codes into the families callers branch on.
type Category int

const (
	CategoryUnresolvedSymbol Category = iota
	CategoryNotCallable
	CategoryTypeMismatch
	CategoryRedefinedName
	CategoryImportViolation
	CategoryUnsupported
	CategorySyntax
	CategoryRuntimeFault
)

var (
	ErrUnresolvedSymbol = errors.New("unresolved symbol")
	ErrNotCallable      = errors.New("not callable")
	ErrTypeMismatch     = errors.New("type mismatch")
	ErrRedefinedName    = errors.New("redefined name")
	ErrImportViolation  = errors.New("import violation")
	ErrUnsupported      = errors.New("unsupported")
	ErrSyntax           = errors.New("syntax error")
	ErrRuntimeFault     = errors.New("runtime fault")
)

func (c Category) sentinel() error {
	switch c {
	case CategoryUnresolvedSymbol:
		return ErrUnresolvedSymbol
	case CategoryNotCallable:
		return ErrNotCallable
	case CategoryTypeMismatch:
		return ErrTypeMismatch
	case CategoryRedefinedName:
		return ErrRedefinedName
	case CategoryImportViolation:
		return ErrImportViolation
	case CategorySyntax:
		return ErrSyntax
	case CategoryRuntimeFault:
		return ErrRuntimeFault
	default:
		return ErrUnsupported
	}
}

func (c Category) String() string {
	return c.sentinel().Error()
}

var codeCategories = map[ErrorCode]Category{
	ErrP001: CategorySyntax,
	ErrA001: CategoryUnresolvedSymbol,
	ErrA002: CategoryRedefinedName,
	ErrA003: CategoryUnresolvedSymbol,
	ErrA004: CategoryTypeMismatch,
	ErrA005: CategoryTypeMismatch,
	ErrA006: CategoryUnresolvedSymbol,
	ErrA007: CategoryUnresolvedSymbol,
	ErrA008: CategoryNotCallable,
	ErrI001: CategoryImportViolation,
	ErrI002: CategoryImportViolation,
	ErrI003: CategoryImportViolation,
	ErrI004: CategoryImportViolation,
	ErrR001: CategoryUnresolvedSymbol,
	ErrR002: CategoryNotCallable,
	ErrR003: CategoryTypeMismatch,
	ErrR004: CategoryUnsupported,
	ErrR005: CategoryTypeMismatch,
	ErrR006: CategoryRuntimeFault,
}

// DiagnosticError is a positioned error produced by analysis or interpretation.
type DiagnosticError struct {
	Code     ErrorCode
	Category Category
	Span     ast.Span
	File     string
	Message  string
}

func NewError(code ErrorCode, span ast.Span, message string) *DiagnosticError {
	return &DiagnosticError{
		Code:     code,
		Category: codeCategories[code],
		Span:     span,
		Message:  message,
	}
}

// Errorf builds a DiagnosticError positioned at node.
func Errorf(code ErrorCode, node *ast.Node, format string, args ...any) *DiagnosticError {
	var span ast.Span
	if node != nil {
		span = node.SourceSpan()
	}
	return NewError(code, span, fmt.Sprintf(format, args...))
}

func (e *DiagnosticError) Error() string {
	loc := ""
	if e.File != "" {
		loc = e.File + ":"
	}
	if e.Span.Line > 0 {
		loc += fmt.Sprintf("%d:%d: ", e.Span.Line, e.Span.Column)
	} else if loc != "" {
		loc += " "
	}
	return fmt.Sprintf("%s%s: %s", loc, e.Code, e.Message)
}

// Unwrap exposes the category sentinel to errors.Is.
func (e *DiagnosticError) Unwrap() error {
	return e.Category.sentinel()
}
