package host

import (
	"fmt"

	"github.com/funvibe/questlang/internal/symbols"
)

// Callback is a DSL function stored in a host object, such as a task's
// scenario builder. Calling it runs the function on the interpreter that
// produced it.
type Callback struct {
	Name     string
	Callable symbols.Callable

	inst *Instantiator
}

// Call invokes the function with host arguments and returns its result as
// a host object.
func (c *Callback) Call(args ...any) (any, error) {
	if c == nil || c.Callable == nil {
		return nil, fmt.Errorf("host: call of an empty callback")
	}
	if c.inst == nil || c.inst.in == nil {
		return nil, errNoInterpreter
	}
	v, err := c.inst.in.CallRaw(c.Callable, args...)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", c.Name, err)
	}
	return c.inst.Instantiate(v)
}

// Signature is the DSL function type of the callback.
func (c *Callback) Signature() string {
	if c == nil || c.Callable == nil || c.Callable.FunctionType() == nil {
		return ""
	}
	return c.Callable.FunctionType().Name()
}

func (c *Callback) MarshalYAML() (any, error) {
	return c.Name, nil
}
