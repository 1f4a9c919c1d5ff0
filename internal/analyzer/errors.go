package analyzer

import (
	"fmt"
	"strings"

	"github.com/funvibe/questlang/internal/diagnostics"
)

// Errors accumulates diagnostics across passes and across imported files.
// Duplicates (same file, position, code and message) are dropped.
type Errors struct {
	seen map[string]bool
	list []*diagnostics.DiagnosticError
}

func NewErrors() *Errors {
	return &Errors{seen: make(map[string]bool)}
}

func (e *Errors) Add(err *diagnostics.DiagnosticError) {
	key := fmt.Sprintf("%s:%d:%d:%s:%s", err.File, err.Span.Line, err.Span.Column, err.Code, err.Message)
	if e.seen[key] {
		return
	}
	e.seen[key] = true
	e.list = append(e.list, err)
}

// List returns the diagnostics in the order they were reported.
func (e *Errors) List() []*diagnostics.DiagnosticError {
	return e.list
}

func (e *Errors) Len() int {
	return len(e.list)
}

// String renders every diagnostic on its own line.
func (e *Errors) String() string {
	var sb strings.Builder
	for _, err := range e.list {
		sb.WriteString(err.Error())
		sb.WriteByte('\n')
	}
	return sb.String()
}
