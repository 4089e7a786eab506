package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/actorc/internal/irerr"
	"github.com/sunholo/actorc/internal/types"
)

func TestRunDrivesShowRenameAwaitInOrder(t *testing.T) {
	natT := &types.PrimT{P: types.Nat}
	asyncNatT := &types.AsyncT{Elem: natT}
	future := &LitE{Base: Base{Ty: asyncNatT, Effect: Triv}, Kind: LitNull}
	awaited := &AwaitE{Base: Base{Ty: natT, Effect: Await}, Future: future}
	ret := &RetE{Base: Base{Ty: Unit, Effect: Await}, Value: awaited}
	asyncE := &AsyncE{Base: Base{Ty: asyncNatT, Effect: Await}, Body: ret}

	res, err := Run(&Program{Body: asyncE}, Flavor{HasAwait: true, HasShow: false})
	require.NoError(t, err)
	assert.False(t, res.Flavor.HasAwait)
	assert.False(t, res.Flavor.HasShow)

	for _, pass := range Passes() {
		_, ok := res.PhaseTimings[pass.Name]
		assert.True(t, ok, "every pass records a timing entry, even a 0ns one")
	}
}

func TestRunRejectsAlphaRenameBeforeShowDesugarFinishes(t *testing.T) {
	pass := Passes()[1] // alpha-rename
	assert.False(t, pass.pre(Flavor{HasShow: true}), "alpha-rename's precondition requires show-desugaring to already be done")
}

func TestAwaitLowerCheckRejectsLeftoverAwait(t *testing.T) {
	// A SelfCallE body makes the CPS pass fail outright on CPS002, which
	// is a distinct failure from the postcondition check; exercise the
	// postcondition check directly instead via Passes()[2].check.
	awaitLower := Passes()[2]
	natT := &types.PrimT{P: types.Nat}
	leftoverAwait := &AwaitE{Base: Base{Ty: natT, Effect: Await}, Future: &LitE{Base: Base{Ty: &types.AsyncT{Elem: natT}, Effect: Triv}}}
	assert.False(t, awaitLower.check(&Program{Body: leftoverAwait}), "a leftover AwaitE must fail the await-lower postcondition check")
}

func TestRunPropagatesUnderlyingPassError(t *testing.T) {
	self := &SelfCallE{Base: Base{Ty: Unit, Effect: Triv}}
	_, err := Run(&Program{Body: self}, Flavor{})
	require.Error(t, err)
	ice, ok := irerr.As(err)
	require.True(t, ok)
	assert.Equal(t, irerr.CPS002, ice.Code)
}
