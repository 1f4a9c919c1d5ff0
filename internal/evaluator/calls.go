package evaluator

import (
	"fmt"

	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/config"
	"github.com/funvibe/questlang/internal/diagnostics"
	"github.com/funvibe/questlang/internal/symbols"
)

// NativeImpl implements a native function. Methods receive their receiver
// as args[0].
type NativeImpl func(in *Interpreter, args []Value) (Value, error)

// NativeFunction is a callable implemented in Go.
type NativeFunction struct {
	symbols.BaseSymbol
	ft   *symbols.FunctionType
	impl NativeImpl
}

func NewNativeFunction(name string, scope symbols.Scope, ft *symbols.FunctionType, impl NativeImpl) *NativeFunction {
	return &NativeFunction{BaseSymbol: symbols.NewBaseSymbol(name, scope, ft), ft: ft, impl: impl}
}

func (f *NativeFunction) Kind() symbols.SymbolKind            { return symbols.CallableSymbol }
func (f *NativeFunction) CallableKind() symbols.CallableKind  { return symbols.NativeCallable }
func (f *NativeFunction) FunctionType() *symbols.FunctionType { return f.ft }

func (in *Interpreter) evalCall(n *ast.Node) (Value, error) {
	callable, err := in.callee(n)
	if err != nil {
		return nil, err
	}
	args, err := in.evalArgs(n)
	if err != nil {
		return nil, err
	}
	return in.callValues(callable, args)
}

// callee returns the callable a call node was resolved to.
func (in *Interpreter) callee(n *ast.Node) (symbols.Callable, error) {
	sym, ok := in.env.SymbolTable().Reference(n)
	if !ok {
		return nil, in.errorf(diagnostics.ErrR001, n, "could not resolve function '%s'", n.IdName())
	}
	callable, ok := symbols.Unwrap(sym).(symbols.Callable)
	if !ok {
		return nil, in.errorf(diagnostics.ErrR002, n, "'%s' is not callable", n.IdName())
	}
	return callable, nil
}

// evalArgs evaluates the arguments of a call in the current space.
func (in *Interpreter) evalArgs(n *ast.Node) ([]Value, error) {
	args := make([]Value, 0, len(n.Args()))
	for _, arg := range n.Args() {
		v, err := in.evalExpr(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

// callValues invokes callable with already evaluated arguments.
func (in *Interpreter) callValues(callable symbols.Callable, args []Value) (Value, error) {
	if in.callDepth >= maxCallDepth {
		return nil, in.errorf(diagnostics.ErrR006, nil, "call depth exceeds %d in '%s'", maxCallDepth, callable.Name())
	}
	in.callDepth++
	defer func() { in.callDepth-- }()

	switch c := symbols.Unwrap(callable).(type) {
	case *NativeFunction:
		v, err := c.impl(in, args)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return NoneValue(), nil
		}
		return v, nil
	case *symbols.FunctionSymbol:
		return in.callUser(c, args)
	}
	return nil, in.errorf(diagnostics.ErrR002, nil, "'%s' cannot be called", callable.Name())
}

// callUser runs a user function on the statement stack. Both stacks are
// restored to their depth at the call, also when the body fails.
func (in *Interpreter) callUser(fn *symbols.FunctionSymbol, args []Value) (Value, error) {
	params := fn.Parameters()
	if len(args) != len(params) {
		return nil, in.errorf(diagnostics.ErrR003, fn.Node, "'%s' takes %d arguments, got %d", fn.Name(), len(params), len(args))
	}

	file := symbols.EnclosingFile(fn)
	parent := in.currentSpace()
	if file != in.currentFile() {
		parent = in.fileSpace(file)
	}
	space := NewSpace(parent)
	for i, p := range params {
		v, err := in.newVariable(p.DataType(), args[i])
		if err != nil {
			return nil, err
		}
		space.Bind(p.Name(), v)
	}

	var slot Value
	if ret := unwrapType(fn.FunctionType().Return); ret != nil && ret != symbols.NoneType {
		d, err := in.createDefault(ret)
		if err != nil {
			return nil, err
		}
		slot = d
		space.Bind(config.ReturnValueName, slot)
	}

	memDepth, stmtDepth, frameBase := len(in.memoryStack), len(in.stmtStack), in.frameBase
	in.files = append(in.files, file)
	in.pushSpace(space)
	in.frameBase = memDepth
	defer func() {
		in.memoryStack = in.memoryStack[:memDepth]
		in.stmtStack = in.stmtStack[:stmtDepth]
		in.files = in.files[:len(in.files)-1]
		in.frameBase = frameBase
	}()

	in.pushMark(entryReturn)
	if body := fn.Node.Body(); body != nil {
		in.pushStmt(body)
	}
	if err := in.run(stmtDepth); err != nil {
		return nil, err
	}

	if slot == nil {
		return NoneValue(), nil
	}
	return slot, nil
}

// CallRaw calls callable with host arguments. Arguments that are not
// already values are translated by the type instantiator; all of them are
// bound in a temporary space and read back through synthetic identifiers.
func (in *Interpreter) CallRaw(callable symbols.Callable, args ...any) (Value, error) {
	ft := callable.FunctionType()
	argSpace := NewSpace(in.global)
	call := ast.NewNode(ast.KindFuncCall, ast.Ident(callable.Name()))

	for i, arg := range args {
		v, ok := arg.(Value)
		if !ok {
			var paramType symbols.Type
			if ft != nil && i < len(ft.Params) {
				paramType = ft.Params[i]
			}
			translated, err := in.inst.Translate(arg, paramType)
			if err != nil {
				return nil, in.errorf(diagnostics.ErrR005, nil, "argument %d of '%s': %v", i, callable.Name(), err)
			}
			v = translated
		}
		name := fmt.Sprintf("$arg%d$", i)
		argSpace.Bind(name, v)
		call.Add(ast.Ident(name))
	}

	in.files = append(in.files, nil)
	in.pushSpace(argSpace)
	defer func() {
		in.popSpace()
		in.files = in.files[:len(in.files)-1]
	}()

	values, err := in.evalArgs(call)
	if err != nil {
		return nil, err
	}
	in.logger.Debug("raw call", "function", callable.Name(), "args", len(values))
	return in.callValues(callable, values)
}
