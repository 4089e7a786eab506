package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sunholo/actorc/internal/types"
	"github.com/sunholo/actorc/testutil"
)

func TestPrettyVarAndLit(t *testing.T) {
	v := &VarE{Base: Base{Ty: Unit, Effect: Triv}, Name: "x"}
	assert.Equal(t, "x", v.Pretty())

	l := &LitE{Base: Base{Ty: &types.PrimT{P: types.Nat}, Effect: Triv}, Kind: LitNat, Value: uint64(42)}
	assert.Equal(t, "42", l.Pretty())
}

func TestPrettyOptAndTagOmitEmptyPayload(t *testing.T) {
	none := &OptE{Base: Base{Ty: &types.OptT{Elem: Unit}, Effect: Triv}}
	assert.Equal(t, "(none)", none.Pretty())

	tag := &TagE{Base: Base{Ty: Unit, Effect: Triv}, Label: "Nothing"}
	assert.Equal(t, "(tag #Nothing)", tag.Pretty())
}

func TestPrettyShowPrimIncludesShowType(t *testing.T) {
	natT := &types.PrimT{P: types.Nat}
	p := &PrimE{Base: Base{Ty: &types.PrimT{P: types.Text}, Effect: Triv}, Prim: PrimShow, Args: []Expr{natLitValue()}, ShowType: natT}
	assert.Equal(t, "(prim:show Nat 0)", p.Pretty())
}

func TestPrettyProgramMatchesGoldenSExpression(t *testing.T) {
	one := &LetD{Pattern: &VarP{Name: "one", Ty: &types.PrimT{P: types.Nat}}, Value: &LitE{Base: Base{Ty: &types.PrimT{P: types.Nat}, Effect: Triv}, Kind: LitNat, Value: uint64(1)}}
	two := &LetD{Pattern: &VarP{Name: "two", Ty: &types.PrimT{P: types.Nat}}, Value: &LitE{Base: Base{Ty: &types.PrimT{P: types.Nat}, Effect: Triv}, Kind: LitNat, Value: uint64(2)}}
	sum := &PrimE{
		Base: Base{Ty: &types.PrimT{P: types.Nat}, Effect: Triv},
		Prim: PrimAdd,
		Args: []Expr{
			&VarE{Base: Base{Ty: &types.PrimT{P: types.Nat}, Effect: Triv}, Name: "one"},
			&VarE{Base: Base{Ty: &types.PrimT{P: types.Nat}, Effect: Triv}, Name: "two"},
		},
	}
	block := &BlockE{Base: Base{Ty: &types.PrimT{P: types.Nat}, Effect: Triv}, Decls: []Decl{two}, Result: sum}
	p := &Program{Decls: []Decl{one}, Body: block}

	testutil.AssertGoldenText(t, "print", "simple_program", PrettyProgram(p))
}
