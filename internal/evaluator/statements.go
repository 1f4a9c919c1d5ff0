package evaluator

import (
	"github.com/funvibe/questlang/internal/ast"
	"github.com/funvibe/questlang/internal/config"
	"github.com/funvibe/questlang/internal/diagnostics"
	"github.com/funvibe/questlang/internal/symbols"
)

type entryKind int

const (
	entryStmt entryKind = iota
	// entryScopeExit pops the space pushed with it.
	entryScopeExit
	// entryReturn marks the bottom of a function body.
	entryReturn
	// entryLoopBottom runs the next iteration of a loop.
	entryLoopBottom
)

type stackEntry struct {
	kind entryKind
	node *ast.Node
	loop *loopState
}

// loopState is the iterator of one running loop. space is the iteration
// space currently on the memory stack, if any.
type loopState struct {
	node    *ast.Node
	space   MemorySpace
	elems   []Value
	pos     int
	counter int64
}

func (in *Interpreter) pushStmt(n *ast.Node) {
	in.stmtStack = append(in.stmtStack, stackEntry{kind: entryStmt, node: n})
}

func (in *Interpreter) pushMark(kind entryKind) {
	in.stmtStack = append(in.stmtStack, stackEntry{kind: kind})
}

// run executes entries until the statement stack is back at base.
func (in *Interpreter) run(base int) error {
	for len(in.stmtStack) > base {
		top := in.stmtStack[len(in.stmtStack)-1]
		in.stmtStack = in.stmtStack[:len(in.stmtStack)-1]

		switch top.kind {
		case entryStmt:
			if err := in.execStmt(top.node, base); err != nil {
				return err
			}
		case entryScopeExit:
			in.popSpace()
		case entryLoopBottom:
			if err := in.loopStep(top.loop); err != nil {
				return err
			}
		case entryReturn:
			// Body finished without a return statement.
		}
	}
	return nil
}

func (in *Interpreter) execStmt(n *ast.Node, base int) error {
	if n == nil {
		return nil
	}
	if n.HasErrors() {
		return in.errorf(diagnostics.ErrP001, n, "statement has syntax errors")
	}

	switch n.Kind {
	case ast.KindBlock:
		in.pushMark(entryScopeExit)
		in.pushSpace(NewSpace(in.currentSpace()))
		for i := len(n.Children) - 1; i >= 0; i-- {
			if n.Children[i] != nil {
				in.pushStmt(n.Children[i])
			}
		}
		return nil

	case ast.KindConditionalStmtIf, ast.KindConditionalStmtIfElse:
		cond, err := in.evalBool(n.Condition())
		if err != nil {
			return err
		}
		branch := n.Then()
		if !cond {
			branch = n.Else()
		}
		if branch == nil {
			return nil
		}
		if branch.Kind != ast.KindBlock {
			in.pushMark(entryScopeExit)
			in.pushSpace(NewSpace(in.currentSpace()))
		}
		in.pushStmt(branch)
		return nil

	case ast.KindWhileLoop:
		loop := &loopState{node: n, space: NewSpace(in.currentSpace())}
		in.pushSpace(loop.space)
		in.stmtStack = append(in.stmtStack, stackEntry{kind: entryLoopBottom, node: n, loop: loop})
		return nil

	case ast.KindForLoop, ast.KindCountingForLoop:
		return in.startForLoop(n)

	case ast.KindVarDeclaration:
		return in.execVarDeclaration(n)

	case ast.KindAssignment:
		target, err := in.evalExpr(n.Lhs())
		if err != nil {
			return err
		}
		value, err := in.evalExpr(n.Rhs())
		if err != nil {
			return err
		}
		return in.assign(target, value)

	case ast.KindReturnStmt:
		return in.execReturn(n, base)
	}

	_, err := in.evalExpr(n)
	return err
}

func (in *Interpreter) startForLoop(n *ast.Node) error {
	iterable, err := in.evalExpr(n.Iterable())
	if err != nil {
		return err
	}
	elems, ok := elements(in.plain(iterable))
	if !ok {
		return in.errorf(diagnostics.ErrR003, n.Iterable(), "cannot iterate over a value of type '%s'", typeName(iterable))
	}
	loop := &loopState{
		node:    n,
		elems:   append([]Value(nil), elems...),
		counter: -1,
	}
	space, err := in.iterationSpace(loop, nil)
	if err != nil {
		return err
	}
	loop.space = space
	in.pushSpace(space)
	in.stmtStack = append(in.stmtStack, stackEntry{kind: entryLoopBottom, node: n, loop: loop})
	return nil
}

// iterationSpace binds the loop variable, holding elem when non-nil, and
// the counter.
func (in *Interpreter) iterationSpace(loop *loopState, elem Value) (*Space, error) {
	n := loop.node
	space := NewSpace(in.currentSpace())

	var varType symbols.Type
	if sym, ok := in.env.SymbolTable().Definition(n.IdNode()); ok {
		varType = sym.DataType()
	}
	v, err := in.createDefault(varType)
	if err != nil {
		return nil, err
	}
	if elem != nil {
		if err := in.assign(v, elem); err != nil {
			return nil, err
		}
	}
	space.Bind(n.IdName(), v)
	if counter := n.CounterId(); counter != nil {
		space.Bind(counter.Name, NewScalar(symbols.IntType, loop.counter))
	}
	return space, nil
}

// loopStep releases the previous iteration space and starts the next
// iteration, if any.
func (in *Interpreter) loopStep(loop *loopState) error {
	if loop.space != nil {
		in.popSpace()
		loop.space = nil
	}

	n := loop.node
	var space MemorySpace
	switch n.Kind {
	case ast.KindWhileLoop:
		cond, err := in.evalBool(n.Condition())
		if err != nil {
			return err
		}
		if !cond {
			return nil
		}
		space = NewSpace(in.currentSpace())
	default:
		if loop.pos >= len(loop.elems) {
			return nil
		}
		elem := loop.elems[loop.pos]
		loop.pos++
		loop.counter++
		s, err := in.iterationSpace(loop, elem)
		if err != nil {
			return err
		}
		space = s
	}

	loop.space = space
	in.pushSpace(space)
	in.stmtStack = append(in.stmtStack, stackEntry{kind: entryLoopBottom, node: n, loop: loop})
	if body := n.Body(); body != nil {
		in.pushStmt(body)
	}
	return nil
}

func (in *Interpreter) execVarDeclaration(n *ast.Node) error {
	sym, ok := in.env.SymbolTable().Definition(n)
	if !ok {
		return in.errorf(diagnostics.ErrR001, n, "variable '%s' was not analyzed", n.IdName())
	}

	var v Value
	switch n.DeclKind() {
	case ast.DeclTyped:
		d, err := in.createDefault(sym.DataType())
		if err != nil {
			return err
		}
		v = d
	default:
		init, err := in.evalExpr(n.Expr())
		if err != nil {
			return err
		}
		v, err = in.newVariable(sym.DataType(), init)
		if err != nil {
			return err
		}
	}

	space := in.currentSpace()
	if !space.Bind(n.IdName(), v) {
		space.Set(n.IdName(), v)
	}
	return nil
}

// newVariable returns the value a declaration binds for init. Values
// without a default of their own (prototypes, graphs) are bound as is.
func (in *Interpreter) newVariable(t symbols.Type, init Value) (Value, error) {
	switch unwrapType(t) {
	case nil, symbols.PrototypeType, symbols.ItemPrototypeType, symbols.GraphType, symbols.NoneType:
		return init, nil
	}
	return in.coerce(t, init)
}

// execReturn stores the result in the nearest return slot and unwinds to
// the nearest return mark above base.
func (in *Interpreter) execReturn(n *ast.Node, base int) error {
	if expr := n.Expr(); expr != nil {
		result, err := in.evalExpr(expr)
		if err != nil {
			return err
		}
		if slot, ok := in.returnSlot(); ok {
			if err := in.assign(slot, result); err != nil {
				return err
			}
		}
	}

	for len(in.stmtStack) > base {
		top := in.stmtStack[len(in.stmtStack)-1]
		in.stmtStack = in.stmtStack[:len(in.stmtStack)-1]
		switch top.kind {
		case entryScopeExit:
			in.popSpace()
		case entryLoopBottom:
			if top.loop.space != nil {
				in.popSpace()
				top.loop.space = nil
			}
		case entryReturn:
			return nil
		}
	}
	return nil
}

// returnSlot searches the spaces of the running call only.
func (in *Interpreter) returnSlot() (Value, bool) {
	for i := len(in.memoryStack) - 1; i >= in.frameBase; i-- {
		if v, ok := in.memoryStack[i].ResolveLocal(config.ReturnValueName); ok {
			return v, true
		}
	}
	return nil, false
}
