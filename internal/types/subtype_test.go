package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubtypeAnyIsTop(t *testing.T) {
	assert.True(t, Subtype(natT(), &PrimT{P: AnyPrim}))
	assert.True(t, Subtype(&PrimT{P: AnyPrim}, &PrimT{P: AnyPrim}))
}

func TestSubtypeNonIsBottom(t *testing.T) {
	assert.True(t, Subtype(&PrimT{P: NonPrim}, natT()))
	assert.True(t, Subtype(&PrimT{P: NonPrim}, &PrimT{P: AnyPrim}))
}

func TestSubtypePrimRequiresExactMatch(t *testing.T) {
	assert.True(t, Subtype(natT(), natT()))
	assert.False(t, Subtype(natT(), textT()))
}

func TestSubtypeImmutableArraysCovariant(t *testing.T) {
	narrow := &ArrayT{Elem: &PrimT{P: NonPrim}}
	wide := &ArrayT{Elem: natT()}
	assert.True(t, Subtype(narrow, wide))
}

func TestSubtypeMutableArraysInvariant(t *testing.T) {
	a := &ArrayT{Elem: &PrimT{P: NonPrim}, Mut: true}
	b := &ArrayT{Elem: natT(), Mut: true}
	assert.False(t, Subtype(a, b))
	assert.True(t, Subtype(b, b))
}

func TestSubtypeVariantWidthSubtyping(t *testing.T) {
	narrow := NewVariantT([]VariantAlt{{Label: "Ok", Payload: natT()}})
	wide := NewVariantT([]VariantAlt{{Label: "Ok", Payload: natT()}, {Label: "Err", Payload: textT()}})
	assert.True(t, Subtype(narrow, wide), "a narrower variant is a subtype of a wider one")
	assert.False(t, Subtype(wide, narrow), "a wider variant is not a subtype of a narrower one")
}

func TestSubtypeObjectWidthAndDepth(t *testing.T) {
	narrow := NewObjT(SortObject, []Field{
		{Name: "x", Type: natT()},
		{Name: "y", Type: natT()},
	})
	wide := NewObjT(SortObject, []Field{{Name: "x", Type: &PrimT{P: AnyPrim}}})
	assert.True(t, Subtype(narrow, wide), "extra fields and a narrower field type are both fine")
	assert.False(t, Subtype(wide, narrow), "wide is missing field y that narrow requires")
}

func TestSubtypeObjectMutableFieldsInvariant(t *testing.T) {
	a := NewObjT(SortObject, []Field{{Name: "x", Type: &PrimT{P: NonPrim}, Mut: true}})
	b := NewObjT(SortObject, []Field{{Name: "x", Type: natT(), Mut: true}})
	assert.False(t, Subtype(a, b))
}

func TestSubtypeFuncContravariantArgsCovariantResults(t *testing.T) {
	narrowArg := &FuncT{Args: []Type{&PrimT{P: AnyPrim}}, Results: []Type{&PrimT{P: NonPrim}}}
	wideArg := &FuncT{Args: []Type{natT()}, Results: []Type{natT()}}
	assert.True(t, Subtype(narrowArg, wideArg),
		"a function accepting Any and returning Non is a subtype of one accepting Nat and returning Nat")
}

func TestSubtypeFuncRejectsSortMismatch(t *testing.T) {
	local := &FuncT{Sort: SortLocal, Results: []Type{natT()}}
	shared := &FuncT{Sort: SortSharedWrite, Results: []Type{natT()}}
	assert.False(t, Subtype(local, shared))
}

func TestSubtypeAsyncCovariant(t *testing.T) {
	assert.True(t, Subtype(&AsyncT{Elem: &PrimT{P: NonPrim}}, &AsyncT{Elem: natT()}))
}

func TestSubtypeMutInvariant(t *testing.T) {
	assert.False(t, Subtype(&MutT{Elem: &PrimT{P: NonPrim}}, &MutT{Elem: natT()}))
	assert.True(t, Subtype(&MutT{Elem: natT()}, &MutT{Elem: natT()}))
}

func TestSubtypeIsReflexiveForAllShapes(t *testing.T) {
	shapes := []Type{
		natT(),
		&TupT{Elems: []Type{natT(), textT()}},
		&ArrayT{Elem: natT()},
		&OptT{Elem: natT()},
		NewVariantT([]VariantAlt{{Label: "Ok", Payload: natT()}}),
		NewObjT(SortActor, []Field{{Name: "x", Type: natT()}}),
		&FuncT{Args: []Type{natT()}, Results: []Type{natT()}},
		&AsyncT{Elem: natT()},
		&MutT{Elem: natT()},
	}
	for _, s := range shapes {
		assert.True(t, Subtype(s, s), "%s should be a subtype of itself", s)
	}
}
