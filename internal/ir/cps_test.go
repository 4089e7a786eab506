package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/actorc/internal/ast"
	"github.com/sunholo/actorc/internal/irerr"
	"github.com/sunholo/actorc/internal/types"
)

func TestCPSTrivialProgramPassesThroughUnchanged(t *testing.T) {
	b := NewBuilder()
	natT := &types.PrimT{P: types.Nat}
	x := natLit(b, 1)
	y := natLit(b, 2)
	sum, err := b.Prim(PrimAdd, []Expr{x, y}, nil, ast.Pos{})
	require.NoError(t, err)
	p := &Program{Body: sum}

	out, err := NewCPS(NewFreshGen()).TransformProgram(p)
	require.NoError(t, err)
	prim, ok := out.Body.(*PrimE)
	require.True(t, ok)
	assert.Equal(t, PrimAdd, prim.Prim)
	_ = natT
}

// awaitEcho builds `async { return (await future) }` directly as a raw
// struct literal tree, the same shape cmd/irc's fixture builder uses,
// since the Builder has no constructor for AsyncE/AwaitE/RetE.
func awaitEcho() *Program {
	natT := &types.PrimT{P: types.Nat}
	asyncNatT := &types.AsyncT{Elem: natT}
	future := &LitE{Base: Base{Ty: asyncNatT, Effect: Triv}, Kind: LitNull, Value: nil}
	awaited := &AwaitE{Base: Base{Ty: natT, Effect: Await}, Future: future}
	ret := &RetE{Base: Base{Ty: Unit, Effect: Await}, Value: awaited}
	asyncBody := &AsyncE{Base: Base{Ty: asyncNatT, Effect: Await}, Body: ret}
	return &Program{Body: asyncBody}
}

func TestCPSTranslatesAsyncAwaitIntoCPSPrimitives(t *testing.T) {
	out, err := NewCPS(NewFreshGen()).TransformProgram(awaitEcho())
	require.NoError(t, err)

	asyncPrim, ok := out.Body.(*PrimE)
	require.True(t, ok, "the whole program becomes a single CPSAsync application")
	assert.Equal(t, PrimCPSAsync, asyncPrim.Prim)
	require.Len(t, asyncPrim.Args, 1)

	fn, ok := asyncPrim.Args[0].(*FuncE)
	require.True(t, ok, "CPSAsync's sole argument is the (k_ret, k_fail) lambda")
	require.Len(t, fn.Params, 2)

	await, ok := fn.Body.(*PrimE)
	require.True(t, ok, "the await resolves to a direct CPSAwait application, no intervening await plumbing")
	assert.Equal(t, PrimCPSAwait, await.Prim)
	require.Len(t, await.Args, 2)
}

func TestCPSSelfCallIsCPS002(t *testing.T) {
	self := &SelfCallE{Base: Base{Ty: Unit, Effect: Triv}}
	p := &Program{Body: self}
	_, err := NewCPS(NewFreshGen()).TransformProgram(p)
	require.Error(t, err)
	ice, ok := irerr.As(err)
	require.True(t, ok)
	assert.Equal(t, irerr.CPS002, ice.Code)
}

func TestCPSBareReturnWithNoAsyncContextStillWorksViaNativeReturn(t *testing.T) {
	// A top-level body's Return binding is always a NativeReturn, so a
	// trivial-valued RetE at the top level succeeds without needing an
	// async context.
	ret := &RetE{Base: Base{Ty: Unit, Effect: Triv}, Value: &TupE{Base: Base{Ty: Unit, Effect: Triv}}}
	p := &Program{Body: ret}
	out, err := NewCPS(NewFreshGen()).TransformProgram(p)
	require.NoError(t, err)
	_, ok := out.Body.(*RetE)
	assert.True(t, ok)
}

func TestCPSBreakWithNoEnclosingLabelIsCPS003(t *testing.T) {
	brk := &BreakE{Base: Base{Ty: Unit, Effect: Await}, Label: "nowhere",
		Value: &AwaitE{Base: Base{Ty: Unit, Effect: Await}, Future: &LitE{Base: Base{Ty: &types.AsyncT{Elem: Unit}, Effect: Triv}}}}
	p := &Program{Body: brk}
	_, err := NewCPS(NewFreshGen()).TransformProgram(p)
	require.Error(t, err)
	ice, ok := irerr.As(err)
	require.True(t, ok)
	assert.Equal(t, irerr.CPS003, ice.Code)
}

func TestCPSIfArmsShareOneContinuation(t *testing.T) {
	natT := &types.PrimT{P: types.Nat}
	asyncNatT := &types.AsyncT{Elem: natT}
	future := &LitE{Base: Base{Ty: asyncNatT, Effect: Triv}, Kind: LitNull}
	cond := &LitE{Base: Base{Ty: &types.PrimT{P: types.Bool}, Effect: Triv}, Kind: LitBool, Value: true}
	awaited := &AwaitE{Base: Base{Ty: natT, Effect: Await}, Future: future}
	then := &RetE{Base: Base{Ty: Unit, Effect: Await}, Value: awaited}
	els := &RetE{Base: Base{Ty: Unit, Effect: Await}, Value: natLitValue()}
	ifE := &IfE{Base: Base{Ty: Unit, Effect: Await}, Cond: cond, Then: then, Else: els}
	asyncE := &AsyncE{Base: Base{Ty: asyncNatT, Effect: Await}, Body: ifE}

	out, err := NewCPS(NewFreshGen()).TransformProgram(&Program{Body: asyncE})
	require.NoError(t, err)
	asyncPrim, ok := out.Body.(*PrimE)
	assert.True(t, ok)
	require.True(t, ok)
	fn, ok := asyncPrim.Args[0].(*FuncE)
	require.True(t, ok)

	// k_ret is already a named continuation, so no further continuation
	// function is bound around the if.
	ifOut, ok := fn.Body.(*IfE)
	require.True(t, ok)
	await, ok := ifOut.Then.(*PrimE)
	require.True(t, ok)
	assert.Equal(t, PrimCPSAwait, await.Prim)
	thenK := await.Args[1].(*TupE).Elems[0].(*VarE)
	elseCall, ok := ifOut.Else.(*CallE)
	require.True(t, ok)
	elseK := elseCall.Func.(*VarE)
	assert.Equal(t, thenK.Name, elseK.Name, "both arms resume the same continuation")
}

func natLitValue() Expr {
	return &LitE{Base: Base{Ty: &types.PrimT{P: types.Nat}, Effect: Triv}, Kind: LitNat, Value: uint64(0)}
}
