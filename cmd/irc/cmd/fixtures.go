package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sunholo/actorc/internal/ast"
	"github.com/sunholo/actorc/internal/ir"
	"github.com/sunholo/actorc/internal/types"
)

// fixture is one built-in demo program the irc commands can run a pass (or
// the whole pipeline) over. This repo has no lexer/parser of its own (§1 —
// those are external collaborators), so the CLI ships a handful of
// already-typed IR programs, built directly through the construction
// algebra and raw node literals the same way the IR passes themselves do,
// to exercise the middle-end standalone.
type fixture struct {
	name    string
	short   string
	flavor  ir.Flavor
	build   func() *ir.Program
}

var fixtureSpan = ast.Pos{}

var fixtures = []fixture{
	{
		name:   "show-tuple",
		short:  "a tuple literal desugared through ShowPrim",
		flavor: ir.Flavor{HasAwait: false, HasShow: true},
		build:  buildShowTuple,
	},
	{
		name:   "await-echo",
		short:  "an async block that awaits a future and returns its value",
		flavor: ir.Flavor{HasAwait: true, HasShow: false},
		build:  buildAwaitEcho,
	},
	{
		name:   "shadowed-show",
		short:  "shadowed let-bindings feeding a show call, for alpha-rename + show-desugar together",
		flavor: ir.Flavor{HasAwait: false, HasShow: true},
		build:  buildShadowedShow,
	},
}

func fixtureNames() []string {
	names := make([]string, len(fixtures))
	for i, f := range fixtures {
		names[i] = f.name
	}
	sort.Strings(names)
	return names
}

func lookupFixture(name string) (*fixture, bool) {
	for i := range fixtures {
		if fixtures[i].name == name {
			return &fixtures[i], true
		}
	}
	return nil, false
}

// resolveFixture looks up a fixture by name for a subcommand's first
// positional argument, producing an error message listing the valid names
// on a miss rather than a bare "not found".
func resolveFixture(args []string) (*fixture, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("expected exactly one fixture name, one of: %s", strings.Join(fixtureNames(), ", "))
	}
	f, ok := lookupFixture(args[0])
	if !ok {
		return nil, fmt.Errorf("unknown fixture %q, one of: %s", args[0], strings.Join(fixtureNames(), ", "))
	}
	return f, nil
}

// buildShowTuple builds `let point = (3, 4); show(point)`.
func buildShowTuple() *ir.Program {
	b := &ir.Builder{Fresh: ir.NewFreshGen()}
	natT := &types.PrimT{P: types.Nat}
	tupT := &types.TupT{Elems: []types.Type{natT, natT}}

	x := b.Lit(ir.LitNat, uint64(3), natT, fixtureSpan)
	y := b.Lit(ir.LitNat, uint64(4), natT, fixtureSpan)
	point := b.Tup([]ir.Expr{x, y}, fixtureSpan)
	letPoint := b.Let(&ir.VarP{Name: "point", Ty: tupT}, point)

	pointRef := b.Var("point", tupT, fixtureSpan)
	showCall, err := b.Prim(ir.PrimShow, []ir.Expr{pointRef}, tupT, fixtureSpan)
	if err != nil {
		panic(err)
	}

	body := b.Block([]ir.Decl{letPoint}, showCall, fixtureSpan)
	return &ir.Program{Body: body}
}

// buildAwaitEcho builds an async block awaiting an opaque `async Nat`
// future and returning whatever it resolves to. The future itself is a
// stand-in value (no spawning primitive exists at this layer — that is the
// runtime's job, an external collaborator) typed so the await/async pass
// has a real AwaitE/AsyncE pair to eliminate.
func buildAwaitEcho() *ir.Program {
	natT := &types.PrimT{P: types.Nat}
	asyncNatT := &types.AsyncT{Elem: natT}

	future := &ir.LitE{Base: ir.Base{Ty: asyncNatT, Effect: ir.Triv, CoreSpan: fixtureSpan}, Kind: ir.LitNull, Value: nil}
	awaited := &ir.AwaitE{Base: ir.Base{Ty: natT, Effect: ir.Await, CoreSpan: fixtureSpan}, Future: future}
	ret := &ir.RetE{Base: ir.Base{Ty: ir.Unit, Effect: ir.Await, CoreSpan: fixtureSpan}, Value: awaited}
	asyncBody := &ir.AsyncE{Base: ir.Base{Ty: asyncNatT, Effect: ir.Await, CoreSpan: fixtureSpan}, Body: ret}

	return &ir.Program{Body: asyncBody}
}

// buildShadowedShow builds a block with an outer `x` shadowed by an inner
// `x` in a nested block, the sum fed through show — a minimal case where
// alpha-rename must actually do something (the two `x`s must not collide)
// and show-desugar must synthesize a @show<Nat> function.
func buildShadowedShow() *ir.Program {
	b := &ir.Builder{Fresh: ir.NewFreshGen()}
	natT := &types.PrimT{P: types.Nat}

	outerX := b.Lit(ir.LitNat, uint64(1), natT, fixtureSpan)
	letOuterX := b.Let(&ir.VarP{Name: "x", Ty: natT}, outerX)

	innerX := b.Lit(ir.LitNat, uint64(2), natT, fixtureSpan)
	letInnerX := b.Let(&ir.VarP{Name: "x", Ty: natT}, innerX)
	innerXRef := b.Var("x", natT, fixtureSpan)
	innerBlock := b.Block([]ir.Decl{letInnerX}, innerXRef, fixtureSpan)
	letY := b.Let(&ir.VarP{Name: "y", Ty: natT}, innerBlock)

	outerXRef := b.Var("x", natT, fixtureSpan)
	yRef := b.Var("y", natT, fixtureSpan)
	sum, err := b.Prim(ir.PrimAdd, []ir.Expr{outerXRef, yRef}, nil, fixtureSpan)
	if err != nil {
		panic(err)
	}

	showCall, err := b.Prim(ir.PrimShow, []ir.Expr{sum}, natT, fixtureSpan)
	if err != nil {
		panic(err)
	}

	body := b.Block([]ir.Decl{letOuterX, letY}, showCall, fixtureSpan)
	return &ir.Program{Body: body}
}
