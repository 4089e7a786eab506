package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/actorc/internal/ast"
	"github.com/sunholo/actorc/internal/irerr"
	"github.com/sunholo/actorc/internal/types"
)

func TestRenameShadowedLetBindingsGetDistinctNames(t *testing.T) {
	b := NewBuilder()
	natT := &types.PrimT{P: types.Nat}

	outerX := b.Let(&VarP{Name: "x", Ty: natT}, natLit(b, 1))
	innerX := b.Let(&VarP{Name: "x", Ty: natT}, natLit(b, 2))
	innerRef := b.Var("x", natT, ast.Pos{})
	innerBlock := b.Block([]Decl{innerX}, innerRef, ast.Pos{})
	letY := b.Let(&VarP{Name: "y", Ty: natT}, innerBlock)
	outerRef := b.Var("x", natT, ast.Pos{})

	p := &Program{Decls: []Decl{outerX, letY}, Body: outerRef}

	out, err := NewRenamer(NewFreshGen()).RenameProgram(p)
	require.NoError(t, err)

	finalRef, ok := out.Body.(*VarE)
	require.True(t, ok)
	letYOut := out.Decls[1].(*LetD)
	innerBlockOut := letYOut.Value.(*BlockE)
	innerLetOut := innerBlockOut.Decls[0].(*LetD)
	innerRefOut := innerBlockOut.Result.(*VarE)

	outerLetOut := out.Decls[0].(*LetD)
	outerVarName := outerLetOut.Pattern.(*VarP).Name
	innerVarName := innerLetOut.Pattern.(*VarP).Name

	assert.NotEqual(t, outerVarName, innerVarName, "shadowed x bindings must get distinct fresh names")
	assert.Equal(t, outerVarName, finalRef.Name, "the outer reference must resolve to the outer binder")
	assert.Equal(t, innerVarName, innerRefOut.Name, "the inner reference must resolve to the inner binder")
}

func TestRenameUnboundVariableIsRENAME002(t *testing.T) {
	p := &Program{Body: &VarE{Base: Base{Ty: Unit, Effect: Triv}, Name: "nope"}}
	_, err := NewRenamer(NewFreshGen()).RenameProgram(p)
	require.Error(t, err)
	ice, ok := irerr.As(err)
	require.True(t, ok)
	assert.Equal(t, irerr.RENAME002, ice.Code)
}

func TestRenameDuplicateBinderInOneGroupIsRENAME003(t *testing.T) {
	b := NewBuilder()
	natT := &types.PrimT{P: types.Nat}
	d1 := b.Let(&VarP{Name: "x", Ty: natT}, natLit(b, 1))
	d2 := b.Let(&VarP{Name: "x", Ty: natT}, natLit(b, 2))
	p := &Program{Decls: []Decl{d1, d2}, Body: &TupE{Base: Base{Ty: Unit, Effect: Triv}}}

	_, err := NewRenamer(NewFreshGen()).RenameProgram(p)
	require.Error(t, err)
	ice, ok := irerr.As(err)
	require.True(t, ok)
	assert.Equal(t, irerr.RENAME003, ice.Code)
}

func TestRenameAltPRejectsVariableBinders(t *testing.T) {
	natT := &types.PrimT{P: types.Nat}
	alt := &AltP{
		Left:  &VarP{Name: "x", Ty: natT},
		Right: &LitP{Kind: LitNat, Value: uint64(0), Ty: natT},
		Ty:    natT,
	}
	arm := MatchArm{Pattern: alt, Body: &TupE{Base: Base{Ty: Unit, Effect: Triv}}}
	scrut := &LitE{Base: Base{Ty: natT, Effect: Triv}, Kind: LitNat, Value: uint64(1)}
	sw := &SwitchE{Base: Base{Ty: Unit, Effect: Triv}, Scrutinee: scrut, Arms: []MatchArm{arm}}

	_, err := NewRenamer(NewFreshGen()).renameExpr(sw, newRenameEnv())
	require.Error(t, err)
	ice, ok := irerr.As(err)
	require.True(t, ok)
	assert.Equal(t, irerr.RENAME001, ice.Code)
}

func TestRenameLabelAndBreakShareFreshName(t *testing.T) {
	label := &LabelE{Base: Base{Ty: Unit, Effect: Triv}, Label: "loop",
		Body: &BreakE{Base: Base{Ty: Unit, Effect: Triv}, Label: "loop", Value: &TupE{Base: Base{Ty: Unit, Effect: Triv}}}}

	out, err := NewRenamer(NewFreshGen()).renameExpr(label, newRenameEnv())
	require.NoError(t, err)

	labelOut := out.(*LabelE)
	breakOut := labelOut.Body.(*BreakE)
	assert.Equal(t, labelOut.Label, breakOut.Label)
	assert.NotEqual(t, "loop", labelOut.Label)
}

func TestRenameBreakToUnknownLabelIsRENAME002(t *testing.T) {
	brk := &BreakE{Base: Base{Ty: Unit, Effect: Triv}, Label: "nowhere", Value: &TupE{Base: Base{Ty: Unit, Effect: Triv}}}
	_, err := NewRenamer(NewFreshGen()).renameExpr(brk, newRenameEnv())
	require.Error(t, err)
	ice, ok := irerr.As(err)
	require.True(t, ok)
	assert.Equal(t, irerr.RENAME002, ice.Code)
}

func TestRenameMutuallyRecursiveDeclGroupSeesForwardReferences(t *testing.T) {
	natT := &types.PrimT{P: types.Nat}
	fnT := &types.FuncT{Results: []types.Type{natT}}

	// f's body references g, g's body references f: both must resolve even
	// though g is declared after f.
	fBody := &VarE{Base: Base{Ty: fnT, Effect: Triv}, Name: "g"}
	gBody := &VarE{Base: Base{Ty: fnT, Effect: Triv}, Name: "f"}
	fDecl := &LetD{Pattern: &VarP{Name: "f", Ty: fnT}, Value: &FuncE{Base: Base{Ty: fnT, Effect: Triv}, FnType: fnT, Body: fBody}}
	gDecl := &LetD{Pattern: &VarP{Name: "g", Ty: fnT}, Value: &FuncE{Base: Base{Ty: fnT, Effect: Triv}, FnType: fnT, Body: gBody}}

	p := &Program{Decls: []Decl{fDecl, gDecl}, Body: &TupE{Base: Base{Ty: Unit, Effect: Triv}}}
	_, err := NewRenamer(NewFreshGen()).RenameProgram(p)
	require.NoError(t, err)
}
