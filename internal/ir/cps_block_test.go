package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/actorc/internal/types"
)

func TestSplitDeclsSeparatesTypeFromValueDecls(t *testing.T) {
	natT := &types.PrimT{P: types.Nat}
	typD := &TypD{Name: "T", Body: natT}
	letD := &LetD{Pattern: &VarP{Name: "x", Ty: natT}, Value: natLitValue()}

	typeDecls, valueDecls := splitDecls([]Decl{typD, letD})
	require.Len(t, typeDecls, 1)
	require.Len(t, valueDecls, 1)
	assert.Same(t, Decl(typD), typeDecls[0])
	assert.Same(t, Decl(letD), valueDecls[0])
}

func TestPatternVarTypesWalksNestedTuplePattern(t *testing.T) {
	natT := &types.PrimT{P: types.Nat}
	pat := &TupP{Elems: []Pattern{
		&VarP{Name: "a", Ty: natT},
		&VarP{Name: "b", Ty: natT},
	}, Ty: &types.TupT{Elems: []types.Type{natT, natT}}}

	nts := patternVarTypes(pat)
	require.Len(t, nts, 2)
	assert.Equal(t, "a", nts[0].Name)
	assert.Equal(t, "b", nts[1].Name)
}

func TestDeclareCellsCoversLetAndVarDecls(t *testing.T) {
	natT := &types.PrimT{P: types.Nat}
	c := &CPS{Fresh: NewFreshGen(), B: &Builder{Fresh: NewFreshGen()}}
	letD := &LetD{Pattern: &VarP{Name: "x", Ty: natT}, Value: natLitValue()}
	varD := &VarD{Name: "y", Value: natLitValue()}

	cells := c.declareCells([]Decl{letD, varD})
	require.Len(t, cells, 2)
	for _, cell := range cells {
		decl, ok := cell.(*DeclareE)
		require.True(t, ok)
		assert.True(t, decl.Type().(*types.MutT).Elem.Equals(natT))
	}
	assert.Equal(t, "x", cells[0].(*DeclareE).Name)
	assert.Equal(t, "y", cells[1].(*DeclareE).Name)
}

func TestFreshenPatternGivesDistinctNamesToEveryBinder(t *testing.T) {
	natT := &types.PrimT{P: types.Nat}
	c := &CPS{Fresh: NewFreshGen(), B: &Builder{Fresh: NewFreshGen()}}
	orig := &TupP{Elems: []Pattern{
		&VarP{Name: "x", Ty: natT},
		&VarP{Name: "x", Ty: natT},
	}, Ty: &types.TupT{Elems: []types.Type{natT, natT}}}

	fresh, err := c.freshenPattern(orig)
	require.NoError(t, err)
	freshTup := fresh.(*TupP)
	a := freshTup.Elems[0].(*VarP).Name
	b := freshTup.Elems[1].(*VarP).Name
	assert.NotEqual(t, a, b, "two identically-named binders in one pattern must still get distinct fresh names")
}

func TestDefineEdgesPairsOriginalAndFreshNamesInOrder(t *testing.T) {
	natT := &types.PrimT{P: types.Nat}
	orig := &TupP{Elems: []Pattern{
		&VarP{Name: "x", Ty: natT},
		&VarP{Name: "y", Ty: natT},
	}, Ty: &types.TupT{Elems: []types.Type{natT, natT}}}
	fresh := &TupP{Elems: []Pattern{
		&VarP{Name: "x/0", Ty: natT},
		&VarP{Name: "y/0", Ty: natT},
	}, Ty: orig.Ty}

	edges := defineEdges(orig, fresh)
	require.Len(t, edges, 2)
	assert.Equal(t, "x", edges[0].Orig)
	assert.Equal(t, "x/0", edges[0].Fresh)
	assert.Equal(t, "y", edges[1].Orig)
	assert.Equal(t, "y/0", edges[1].Fresh)
}

func TestTransBlockCPSThreadsContinuationThroughAwaitfulLet(t *testing.T) {
	natT := &types.PrimT{P: types.Nat}
	asyncNatT := &types.AsyncT{Elem: natT}
	future := &LitE{Base: Base{Ty: asyncNatT, Effect: Triv}, Kind: LitNull}
	awaited := &AwaitE{Base: Base{Ty: natT, Effect: Await}, Future: future}
	letX := &LetD{Pattern: &VarP{Name: "x", Ty: natT}, Value: awaited}
	result := &VarE{Base: Base{Ty: natT, Effect: Triv}, Name: "x"}
	block := &BlockE{Base: Base{Ty: natT, Effect: Await}, Decls: []Decl{letX}, Result: result}
	ret := &RetE{Base: Base{Ty: Unit, Effect: Await}, Value: block}
	asyncE := &AsyncE{Base: Base{Ty: asyncNatT, Effect: Await}, Body: ret}

	out, err := NewCPS(NewFreshGen()).TransformProgram(&Program{Body: asyncE})
	require.NoError(t, err)

	asyncPrim, ok := out.Body.(*PrimE)
	require.True(t, ok)
	assert.Equal(t, PrimCPSAsync, asyncPrim.Prim)
	fn := asyncPrim.Args[0].(*FuncE)
	blockOut, ok := fn.Body.(*BlockE)
	require.True(t, ok, "the awaitful let's surrounding block survives translation with its decls pre-declared as cells")
	require.NotEmpty(t, blockOut.Decls)
	_, ok = blockOut.Decls[0].(*DeclareE)
	assert.True(t, ok, "every original binder becomes a pre-declared cell ahead of the CPS'd initialiser")
}
