package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func natT() Type  { return &PrimT{P: Nat} }
func textT() Type { return &PrimT{P: Text} }

func TestPrimTString(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{"Nat", natT(), "Nat"},
		{"Text", textT(), "Text"},
		{"Any", &PrimT{P: AnyPrim}, "Any"},
		{"Non", &PrimT{P: NonPrim}, "Non"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestObjTFieldsAreSortedAtConstruction(t *testing.T) {
	obj := NewObjT(SortObject, []Field{
		{Name: "z", Type: natT()},
		{Name: "a", Type: textT()},
		{Name: "m", Type: natT()},
	})
	got := make([]string, len(obj.Fields))
	for i, f := range obj.Fields {
		got[i] = f.Name
	}
	assert.Equal(t, []string{"a", "m", "z"}, got)
}

func TestObjTEqualsIgnoresConstructionOrder(t *testing.T) {
	a := NewObjT(SortActor, []Field{{Name: "x", Type: natT()}, {Name: "y", Type: textT()}})
	b := NewObjT(SortActor, []Field{{Name: "y", Type: textT()}, {Name: "x", Type: natT()}})
	assert.True(t, a.Equals(b))
}

func TestObjTFieldByName(t *testing.T) {
	obj := NewObjT(SortModule, []Field{{Name: "count", Type: natT(), Mut: true}})
	f, ok := obj.FieldByName("count")
	require.True(t, ok)
	assert.True(t, f.Mut)
	_, ok = obj.FieldByName("missing")
	assert.False(t, ok)
}

func TestVariantTAltsSortedAndEquals(t *testing.T) {
	v1 := NewVariantT([]VariantAlt{{Label: "Err", Payload: textT()}, {Label: "Ok", Payload: natT()}})
	v2 := NewVariantT([]VariantAlt{{Label: "Ok", Payload: natT()}, {Label: "Err", Payload: textT()}})
	assert.Equal(t, "Err", v1.Alts[0].Label)
	assert.True(t, v1.Equals(v2))
}

func TestFuncTEqualsComparesShapeNotIdentity(t *testing.T) {
	f1 := &FuncT{Sort: SortSharedQuery, Ctrl: Promises, Args: []Type{natT()}, Results: []Type{textT()}}
	f2 := &FuncT{Sort: SortSharedQuery, Ctrl: Promises, Args: []Type{natT()}, Results: []Type{textT()}}
	f3 := &FuncT{Sort: SortLocal, Ctrl: Promises, Args: []Type{natT()}, Results: []Type{textT()}}
	assert.True(t, f1.Equals(f2))
	assert.False(t, f1.Equals(f3))
}

func TestAsyncTWrapsElem(t *testing.T) {
	a := &AsyncT{Elem: natT()}
	assert.Equal(t, "async Nat", a.String())
	assert.True(t, a.Equals(&AsyncT{Elem: natT()}))
	assert.False(t, a.Equals(&AsyncT{Elem: textT()}))
}

func TestVarTEqualsByIndexOnly(t *testing.T) {
	a := &VarT{Index: 0, Name: "a"}
	b := &VarT{Index: 0, Name: "different-name-same-index"}
	c := &VarT{Index: 1, Name: "a"}
	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}

func TestTypeIDRejectsFreeTypeVariable(t *testing.T) {
	_, err := TypeID(&VarT{Index: 0, Name: "a"})
	assert.Error(t, err)
}

func TestTypeIDDeterministicUnderFieldReordering(t *testing.T) {
	a := NewObjT(SortObject, []Field{{Name: "x", Type: natT()}, {Name: "y", Type: textT()}})
	b := NewObjT(SortObject, []Field{{Name: "y", Type: textT()}, {Name: "x", Type: natT()}})
	idA, err := TypeID(a)
	require.NoError(t, err)
	idB, err := TypeID(b)
	require.NoError(t, err)
	assert.Equal(t, idA, idB)
}

func TestTypeIDDistinguishesArrayMutability(t *testing.T) {
	mut, err := TypeID(&ArrayT{Elem: natT(), Mut: true})
	require.NoError(t, err)
	immut, err := TypeID(&ArrayT{Elem: natT(), Mut: false})
	require.NoError(t, err)
	assert.NotEqual(t, mut, immut)
}

func TestNormalizeUnfoldsConT(t *testing.T) {
	defs := TypeDefs{
		"Pair": {Name: "Pair", Params: []string{"a"}, Body: &TupT{Elems: []Type{
			&VarT{Index: 0}, &VarT{Index: 0},
		}}},
	}
	got := NormalizeIn(&ConT{Name: "Pair", Args: []Type{natT()}}, defs)
	want := &TupT{Elems: []Type{natT(), natT()}}
	assert.True(t, got.Equals(want))
}

func TestNormalizeStopsOnRecursiveConT(t *testing.T) {
	defs := TypeDefs{
		"List": {Name: "List", Params: []string{"a"}, Body: NewVariantT([]VariantAlt{
			{Label: "Nil"},
			{Label: "Cons", Payload: &TupT{Elems: []Type{
				&VarT{Index: 0},
				&ConT{Name: "List", Args: []Type{&VarT{Index: 0}}},
			}}},
		})},
	}
	// Must terminate: the recursive List reference inside Cons's payload is
	// left as a bare ConT rather than unfolded forever.
	got := NormalizeIn(&ConT{Name: "List", Args: []Type{natT()}}, defs)
	id, err := TypeID(got)
	require.NoError(t, err)
	assert.Contains(t, id, "List")
}

func TestMonomorphKeyDelegatesToTypeID(t *testing.T) {
	want, err := TypeID(natT())
	require.NoError(t, err)
	got, err := MonomorphKey(natT())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTypeEnvLookupSearchesAncestors(t *testing.T) {
	root := NewTypeEnv()
	root.Bind("x", natT())
	child := root.Child()
	child.Bind("y", textT())

	got, ok := child.Lookup("x")
	require.True(t, ok)
	assert.True(t, got.Equals(natT()))

	_, ok = root.Lookup("y")
	assert.False(t, ok)
}
