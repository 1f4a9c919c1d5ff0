package evaluator

// MemorySpace is a runtime name to Value environment. Spaces form a chain
// parallel to the compile-time scopes.
type MemorySpace interface {
	// Bind adds a local binding; false if name is already bound locally.
	Bind(name string, v Value) bool
	// Resolve searches this space and then its parents.
	Resolve(name string) (Value, bool)
	ResolveLocal(name string) (Value, bool)
	// Set replaces an existing local binding.
	Set(name string, v Value) bool
	Delete(name string) bool
	Parent() MemorySpace
	// Names returns the local names in binding order.
	Names() []string
}

// Space is the ordinary MemorySpace: an insertion-ordered map.
type Space struct {
	parent MemorySpace
	names  []string
	values map[string]Value
}

func NewSpace(parent MemorySpace) *Space {
	return &Space{parent: parent, values: make(map[string]Value)}
}

func (s *Space) Bind(name string, v Value) bool {
	if _, ok := s.values[name]; ok {
		return false
	}
	s.values[name] = v
	s.names = append(s.names, name)
	return true
}

func (s *Space) Resolve(name string) (Value, bool) {
	if v, ok := s.values[name]; ok {
		return v, true
	}
	if s.parent != nil {
		return s.parent.Resolve(name)
	}
	return nil, false
}

func (s *Space) ResolveLocal(name string) (Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

func (s *Space) Set(name string, v Value) bool {
	if _, ok := s.values[name]; !ok {
		return false
	}
	s.values[name] = v
	return true
}

func (s *Space) Delete(name string) bool {
	if _, ok := s.values[name]; !ok {
		return false
	}
	delete(s.values, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
	return true
}

func (s *Space) Parent() MemorySpace { return s.parent }

func (s *Space) Names() []string { return s.names }

// clone copies every binding of s, cloned, into a new space with the
// same parent.
func (s *Space) clone() *Space {
	c := NewSpace(s.parent)
	for _, name := range s.names {
		c.Bind(name, s.values[name].Clone())
	}
	return c
}
