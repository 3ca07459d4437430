package sema

import (
	"gaut/internal/types"
)

// OwnState is the ownership state of a binding.
type OwnState uint8

const (
	// Owned: the binding holds its value and may be moved, copied or
	// borrowed.
	Owned OwnState = iota
	// Moved: the value has been transferred out; any further use is an
	// error until the binding is reassigned.
	Moved
	// Borrowed: a reference to the value exists. Borrows end with the
	// block that created them, so a Borrowed binding is still usable.
	Borrowed
)

func (s OwnState) String() string {
	switch s {
	case Owned:
		return "owned"
	case Moved:
		return "moved"
	case Borrowed:
		return "borrowed"
	}
	return "invalid"
}

// valueMode is how an expression consumes the bindings it reads.
type valueMode uint8

const (
	modeMove valueMode = iota
	modeCopy
	modeBorrow
)

// binding is one tracked name in a scope frame.
type binding struct {
	ty      types.Type
	mutable bool
	state   OwnState
	// depth is the frame index the binding was introduced at; values
	// read from it originate there for escape purposes.
	depth int
}

// frame is one block scope.
type frame struct {
	vars map[string]*binding
}

func (c *Checker) pushScope() {
	c.scopes = append(c.scopes, frame{vars: make(map[string]*binding)})
}

func (c *Checker) popScope() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

// depth returns the current frame index; the global frame is depth 0.
func (c *Checker) depth() int {
	return len(c.scopes) - 1
}

// insert introduces (or shadows) a binding in the innermost frame.
func (c *Checker) insert(name string, ty types.Type, mutable bool) {
	top := c.scopes[len(c.scopes)-1]
	top.vars[name] = &binding{
		ty:      ty,
		mutable: mutable,
		state:   Owned,
		depth:   c.depth(),
	}
}

// lookup finds the nearest binding for name, innermost frame first.
func (c *Checker) lookup(name string) *binding {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if b, ok := c.scopes[i].vars[name]; ok {
			return b
		}
	}
	return nil
}
