package typesystem

import (
	"fmt"

	"github.com/tswinrt/tswinrt/internal/metadata"
)

// GenericArgStack is the lexical chain of active generic argument
// vectors the Name Renderer walks while rendering nested generic
// instantiations. A generic type's members reference their own type
// parameters by ordinal (KindGenericParamRef); resolving that ordinal
// means looking at the argument vector currently in scope for that type,
// which may itself hold a reference into a further-enclosing scope (the
// "pass-through" case: G<T> instantiated as G<U> inside H<U> has G's own
// T resolve outward to H's U).
type GenericArgStack struct {
	frames [][]Semantics
}

// NewGenericArgStack returns an empty stack.
func NewGenericArgStack() *GenericArgStack {
	return &GenericArgStack{}
}

// Scope is the handle returned by a push. It must be closed exactly
// once, and scopes must close in LIFO order — Close panics otherwise,
// since an out-of-order close means a caller kept rendering one type's
// members using some other type's substitution.
type Scope struct {
	stack *GenericArgStack
	depth int
}

// Push opens a new scope with args as the resolution for
// GenericParamRef(0), GenericParamRef(1), .... Callers must defer
// scope.Close().
func (s *GenericArgStack) Push(args []Semantics) *Scope {
	s.frames = append(s.frames, args)
	return &Scope{stack: s, depth: len(s.frames)}
}

// PushDeclaration opens a scope where each slot resolves to the
// corresponding parameter's own declaration (KindGenericParamDef) rather
// than a substituted argument — used while rendering a generic type's
// own declaration, where its type parameters name themselves.
func (s *GenericArgStack) PushDeclaration(params []metadata.GenericParam) *Scope {
	args := make([]Semantics, len(params))
	for i, p := range params {
		args[i] = FromGenericParam(p)
	}
	return s.Push(args)
}

// Close ends the scope. It panics if scopes were not closed in the order
// they were opened.
func (sc *Scope) Close() {
	if len(sc.stack.frames) != sc.depth {
		panic("typesystem: generic argument scope closed out of order")
	}
	sc.stack.frames = sc.stack.frames[:sc.depth-1]
}

// Depth reports the number of open scopes.
func (s *GenericArgStack) Depth() int {
	return len(s.frames)
}

// Resolve follows §3's pass-through algorithm: look up index in the
// innermost open frame; if that slot is itself a GenericParamRef, move
// one frame outward and retry with the found index, modeling a generic
// type's own parameter being, in turn, a parameter of whatever scope
// instantiated it. Resolution always starts at the current innermost
// frame — by construction a frame is only ever pushed immediately before
// recursing into the thing it scopes and popped immediately after, so
// the live stack already encodes the correct lexical nesting.
func (s *GenericArgStack) Resolve(index uint32) (Semantics, error) {
	depth := len(s.frames) - 1
	for depth >= 0 {
		frame := s.frames[depth]
		if int(index) >= len(frame) {
			return Semantics{}, fmt.Errorf("typesystem: generic parameter #%d out of range in a scope of %d argument(s)", index, len(frame))
		}
		arg := frame[index]
		if arg.Kind != KindGenericParamRef {
			return arg, nil
		}
		depth--
		index = arg.ParamIndex
	}
	return Semantics{}, fmt.Errorf("typesystem: generic parameter #%d has no enclosing scope to resolve against", index)
}
