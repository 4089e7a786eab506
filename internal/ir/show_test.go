package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/actorc/internal/irerr"
	"github.com/sunholo/actorc/internal/types"
)

func showPrim(argT types.Type, showT types.Type) *PrimE {
	return &PrimE{
		Base:     Base{Ty: &types.PrimT{P: types.Text}, Effect: Triv},
		Prim:     PrimShow,
		Args:     []Expr{&VarE{Base: Base{Ty: argT, Effect: Triv}, Name: "x"}},
		ShowType: showT,
	}
}

func TestShowRewritesPrimShowIntoSynthesisedCall(t *testing.T) {
	natT := &types.PrimT{P: types.Nat}
	p := &Program{Body: showPrim(natT, natT)}

	out, err := NewShow(NewFreshGen()).TransformProgram(p)
	require.NoError(t, err)

	call, ok := out.Body.(*CallE)
	require.True(t, ok, "ShowPrim on Nat rewrites to a call to the synthesised show function")
	fnRef, ok := call.Func.(*VarE)
	require.True(t, ok)
	assert.Contains(t, fnRef.Name, "@show<")

	require.Len(t, out.Decls, 1, "exactly one show function is synthesised for one distinct type")
	letD, ok := out.Decls[0].(*LetD)
	require.True(t, ok)
	assert.Equal(t, fnRef.Name, letD.Pattern.(*VarP).Name)
}

func TestShowSynthesisesOneFunctionPerDistinctTypeOnly(t *testing.T) {
	natT := &types.PrimT{P: types.Nat}
	textT := &types.PrimT{P: types.Text}
	tupT := &types.TupT{Elems: []types.Type{natT, natT}}

	body := &TupE{Base: Base{Ty: Unit, Effect: Triv}, Elems: []Expr{
		showPrim(natT, natT),
		showPrim(natT, natT),
		showPrim(textT, textT),
		showPrim(tupT, tupT),
	}}
	p := &Program{Body: body}

	out, err := NewShow(NewFreshGen()).TransformProgram(p)
	require.NoError(t, err)

	// Nat, Text, and the (Nat,Nat) tuple are distinct typ_ids; the tuple
	// also pulls in Nat as a dependency, which is already seen.
	assert.Len(t, out.Decls, 3)
}

func TestShowTupleSynthesisConcatenatesElementCalls(t *testing.T) {
	natT := &types.PrimT{P: types.Nat}
	tupT := &types.TupT{Elems: []types.Type{natT, natT}}

	s := NewShow(NewFreshGen())
	x := &VarE{Base: Base{Ty: tupT, Effect: Triv}, Name: "x"}
	body, deps, err := s.codegen(tupT, x)
	require.NoError(t, err)
	require.Len(t, deps, 2)
	assert.True(t, deps[0].Equals(natT))

	_, ok := body.(*PrimE)
	require.True(t, ok, "concatAll folds the parts with PrimConcat")
}

func TestShowVariantSynthesisSwitchesOnEachAlt(t *testing.T) {
	natT := &types.PrimT{P: types.Nat}
	variantT := types.NewVariantT([]types.VariantAlt{
		{Label: "Some", Payload: natT},
		{Label: "None", Payload: nil},
	})

	s := NewShow(NewFreshGen())
	x := &VarE{Base: Base{Ty: variantT, Effect: Triv}, Name: "x"}
	body, deps, err := s.codegen(variantT, x)
	require.NoError(t, err)
	require.Len(t, deps, 2)

	sw, ok := body.(*SwitchE)
	require.True(t, ok)
	assert.Len(t, sw.Arms, 2)
}

func TestShowObjectSynthesisVisitsFieldsInSortedOrder(t *testing.T) {
	natT := &types.PrimT{P: types.Nat}
	textT := &types.PrimT{P: types.Text}
	objT := types.NewObjT(types.SortObject, []types.Field{
		{Name: "b", Type: textT},
		{Name: "a", Type: natT},
	})

	s := NewShow(NewFreshGen())
	x := &VarE{Base: Base{Ty: objT, Effect: Triv}, Name: "x"}
	_, deps, err := s.codegen(objT, x)
	require.NoError(t, err)
	require.Len(t, deps, 2)
	// NewObjT sorts fields by name at construction, so "a" precedes "b".
	assert.True(t, deps[0].Equals(natT))
	assert.True(t, deps[1].Equals(textT))
}

func TestShowConstructorApplicationIsSHOW002(t *testing.T) {
	conT := &types.ConT{Name: "List", Args: []types.Type{&types.PrimT{P: types.Nat}}}
	p := &Program{Body: showPrim(conT, conT)}

	_, err := NewShow(NewFreshGen()).TransformProgram(p)
	require.Error(t, err)
	ice, ok := irerr.As(err)
	require.True(t, ok)
	assert.Equal(t, irerr.SHOW002, ice.Code)
}

func TestShowFreeTypeVariableIsSHOW001(t *testing.T) {
	p := &Program{Body: showPrim(&types.VarT{Index: 0, Name: "a"}, &types.VarT{Index: 0, Name: "a"})}

	_, err := NewShow(NewFreshGen()).TransformProgram(p)
	require.Error(t, err)
	ice, ok := irerr.As(err)
	require.True(t, ok)
	assert.Equal(t, irerr.SHOW001, ice.Code)
}

func TestShowUnlistedPrimitiveIsSHOW003(t *testing.T) {
	floatT := &types.PrimT{P: types.Float}
	p := &Program{Body: showPrim(floatT, floatT)}

	_, err := NewShow(NewFreshGen()).TransformProgram(p)
	require.Error(t, err, "Float has no @text_of_Float entry in StdlibPreludeSignatures")
	ice, ok := irerr.As(err)
	require.True(t, ok)
	assert.Equal(t, irerr.SHOW003, ice.Code)
}

func TestShowNonPrimSynthesisesUnreachableBody(t *testing.T) {
	s := NewShow(NewFreshGen())
	nonT := &types.PrimT{P: types.NonPrim}
	x := &VarE{Base: Base{Ty: nonT, Effect: Triv}, Name: "x"}
	body, deps, err := s.codegen(nonT, x)
	require.NoError(t, err)
	assert.Nil(t, deps)

	block, ok := body.(*BlockE)
	require.True(t, ok, "Non has no inhabitants, so its show body is a false assertion wrapped in a block")
	assert.Len(t, block.Decls, 1)
}
