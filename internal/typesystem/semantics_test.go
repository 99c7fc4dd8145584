package typesystem

import (
	"errors"
	"testing"

	"github.com/tswinrt/tswinrt/internal/metadata"
)

func TestOf_Fundamental(t *testing.T) {
	cache := &metadata.Cache{}
	sig := metadata.Signature{Kind: metadata.KindI4}
	sem, err := Of(cache, sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sem.Kind != KindFundamental || sem.Fundamental != metadata.KindI4 {
		t.Errorf("expected fundamental I4, got %+v", sem)
	}
}

func TestOf_Guid(t *testing.T) {
	cache := &metadata.Cache{}
	sig := metadata.Signature{Kind: metadata.KindClassOrValueType, Namespace: "System", TypeName: "Guid"}
	sem, err := Of(cache, sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sem.Kind != KindGuid {
		t.Errorf("expected KindGuid, got %+v", sem)
	}
}

func TestOf_SystemAttributeIsObject(t *testing.T) {
	cache := &metadata.Cache{}
	sig := metadata.Signature{Kind: metadata.KindClassOrValueType, Namespace: "System", TypeName: "Attribute"}
	sem, err := Of(cache, sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sem.Kind != KindObject {
		t.Errorf("expected System.Attribute to collapse to Object, got %+v", sem)
	}
}

func TestOf_MVarUnsupported(t *testing.T) {
	cache := &metadata.Cache{}
	sig := metadata.Signature{Kind: metadata.KindMVar, Index: 0}
	_, err := Of(cache, sig)
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestOf_VarYieldsGenericParamRef(t *testing.T) {
	sig := metadata.Signature{Kind: metadata.KindVar, Index: 2}
	sem, err := Of(&metadata.Cache{}, sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sem.Kind != KindGenericParamRef || sem.ParamIndex != 2 {
		t.Errorf("expected generic param ref #2, got %+v", sem)
	}
}

func TestOf_GenericInst(t *testing.T) {
	sig := metadata.Signature{
		Kind:             metadata.KindGenericInst,
		GenericNamespace: "Windows.Foundation.Collections",
		GenericTypeName:  "IVector`1",
		GenericArgs:      []metadata.Signature{{Kind: metadata.KindString}},
	}
	sem, err := Of(&metadata.Cache{}, sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sem.Kind != KindInstance || sem.Name != "IVector`1" {
		t.Fatalf("expected instance IVector`1, got %+v", sem)
	}
	if len(sem.GenericArgs) != 1 || sem.GenericArgs[0].Fundamental != metadata.KindString {
		t.Errorf("expected one string arg, got %+v", sem.GenericArgs)
	}
}

func TestResolve_DirectHit(t *testing.T) {
	stack := NewGenericArgStack()
	substitute := Semantics{Kind: KindFundamental, Fundamental: metadata.KindString}
	scope := stack.Push([]Semantics{substitute})
	defer scope.Close()

	got, err := stack.Resolve(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != KindFundamental || got.Fundamental != metadata.KindString {
		t.Errorf("expected substituted string, got %+v", got)
	}
}

// TestResolve_PassThrough models G<T> instantiated as G<U> inside H<U>:
// resolving T (index 0) in G's scope should pass through to H's own
// scope and yield U's resolution there.
func TestResolve_PassThrough(t *testing.T) {
	stack := NewGenericArgStack()

	hScope := stack.Push([]Semantics{{Kind: KindFundamental, Fundamental: metadata.KindI4}}) // H<U=I4>
	defer hScope.Close()

	gScope := stack.Push([]Semantics{{Kind: KindGenericParamRef, ParamIndex: 0}}) // G<T> where T passes through to H's U
	defer gScope.Close()

	got, err := stack.Resolve(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != KindFundamental || got.Fundamental != metadata.KindI4 {
		t.Errorf("expected pass-through to resolve to I4, got %+v", got)
	}
}

func TestResolve_NoScope(t *testing.T) {
	stack := NewGenericArgStack()
	if _, err := stack.Resolve(0); err == nil {
		t.Fatalf("expected an error resolving with no active scope")
	}
}

func TestScope_OutOfOrderClosePanics(t *testing.T) {
	stack := NewGenericArgStack()
	outer := stack.Push(nil)
	inner := stack.Push(nil)
	_ = inner

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected a panic on out-of-order close")
		}
	}()
	outer.Close()
}

func TestPushDeclaration(t *testing.T) {
	stack := NewGenericArgStack()
	scope := stack.PushDeclaration([]metadata.GenericParam{{Number: 0, Name: "T"}})
	defer scope.Close()

	got, err := stack.Resolve(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != KindGenericParamDef || got.ParamName != "T" {
		t.Errorf("expected declared param T, got %+v", got)
	}
}

func TestCheckArity_Mismatch(t *testing.T) {
	sem := Semantics{
		Kind:       KindInstance,
		Definition: &metadata.TypeDef{GenericParams: []metadata.GenericParam{{Number: 0, Name: "T"}}},
		GenericArgs: []Semantics{
			{Kind: KindFundamental, Fundamental: metadata.KindString},
			{Kind: KindFundamental, Fundamental: metadata.KindI4},
		},
	}
	if err := sem.CheckArity(); err == nil {
		t.Fatalf("expected an arity mismatch error")
	}
}
