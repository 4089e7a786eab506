package ir

import (
	"github.com/sunholo/actorc/internal/ast"
	"github.com/sunholo/actorc/internal/irerr"
	"github.com/sunholo/actorc/internal/types"
)

// Builder is the construction algebra of §4.1: its methods compute the
// correct type/effect annotations, accept already-annotated sub-terms,
// and assert their own preconditions. Nodes it has no constructor for
// (AsyncE, AwaitE, RetE, CPS primitives, continuation calls) are built
// by the passes as struct literals with explicit annotations.
// Violations are internal compiler errors, never panics, since the caller is always another pass — not a
// user — and passes need a located diagnostic to debug each other.
type Builder struct {
	Fresh *FreshGen
}

// NewBuilder returns a Builder with a fresh, zeroed name generator — the
// state every pass/compilation must start from (§5).
func NewBuilder() *Builder {
	return &Builder{Fresh: NewFreshGen()}
}

// Unit is the canonical Unit type, the empty tuple.
var Unit types.Type = &types.TupT{}

// ErrorT is the canonical Error (catch) type thrown values carry.
var ErrorT types.Type = &types.PrimT{P: types.ErrorPrim}

func unitLit() Expr {
	return &TupE{Base: Base{Ty: Unit, Effect: Triv}}
}

// ---- Atoms ----

// Var builds a typed variable reference with trivial effect.
func (b *Builder) Var(name string, t types.Type, span ast.Pos) *VarE {
	return &VarE{Base: Base{Ty: t, Effect: Triv, CoreSpan: span}, Name: name}
}

// Lit builds a literal of the given kind and static type.
func (b *Builder) Lit(kind LitKind, value interface{}, t types.Type, span ast.Pos) *LitE {
	return &LitE{Base: Base{Ty: t, Effect: Triv, CoreSpan: span}, Kind: kind, Value: value}
}

// ---- Primitives ----

// Prim builds a primitive application; the result type is determined by
// the primitive, the effect is the max of argument effects.
func (b *Builder) Prim(p Prim, args []Expr, showType types.Type, span ast.Pos) (*PrimE, error) {
	if n := operandCount(p); n >= 0 && n != len(args) {
		return nil, irerr.New(irerr.BUILD004, "primitive arity mismatch", span).
			WithData("prim", p.String()).WithData("want", n).WithData("got", len(args))
	}
	resultT, err := primResultType(p, args, showType, span)
	if err != nil {
		return nil, err
	}
	effs := make([]Effect, len(args))
	for i, a := range args {
		effs[i] = a.Eff()
	}
	eff := JoinEffect(effs...)
	return &PrimE{Base: Base{Ty: resultT, Effect: eff, CoreSpan: span}, Prim: p, Args: args, ShowType: showType}, nil
}

func primResultType(p Prim, args []Expr, showType types.Type, span ast.Pos) (types.Type, error) {
	switch p {
	case PrimShow:
		if showType == nil {
			return nil, irerr.New(irerr.BUILD001, "ShowPrim requires a normalised type", span)
		}
		return &types.PrimT{P: types.Text}, nil
	case PrimNot, PrimEq, PrimNeq, PrimLt, PrimLe, PrimGt, PrimGe:
		return &types.PrimT{P: types.Bool}, nil
	case PrimConcat:
		return &types.PrimT{P: types.Text}, nil
	case PrimNeg, PrimAdd, PrimSub, PrimMul, PrimDiv, PrimMod:
		if len(args) == 0 {
			return nil, irerr.New(irerr.BUILD001, "arithmetic primitive needs at least one operand", span)
		}
		return args[0].Type(), nil
	case PrimICReply, PrimICReject:
		return &types.PrimT{P: types.NonPrim}, nil
	case PrimICErrorCode:
		return &types.PrimT{P: types.Int32}, nil
	case PrimICCall:
		return &types.PrimT{P: types.AnyPrim}, nil
	case PrimCPSAsync, PrimCPSAwait:
		return Unit, nil
	default:
		return nil, irerr.New(irerr.BUILD001, "unknown primitive", span).WithData("prim", int(p))
	}
}

// ---- Tuples ----

// Tup assembles a tuple.
func (b *Builder) Tup(elems []Expr, span ast.Pos) *TupE {
	ts := make([]types.Type, len(elems))
	effs := make([]Effect, len(elems))
	for i, e := range elems {
		ts[i] = e.Type()
		effs[i] = e.Eff()
	}
	return &TupE{Base: Base{Ty: &types.TupT{Elems: ts}, Effect: JoinEffect(effs...), CoreSpan: span}, Elems: elems}
}

// Proj projects tuple index i; e must have a tuple type of arity > i.
func (b *Builder) Proj(e Expr, i int, span ast.Pos) (*ProjE, error) {
	tup, ok := types.Normalize(e.Type()).(*types.TupT)
	if !ok || i < 0 || i >= len(tup.Elems) {
		return nil, irerr.New(irerr.BUILD002, "projection index out of tuple bounds", span).
			WithData("index", i).WithData("type", e.Type().String())
	}
	return &ProjE{Base: Base{Ty: tup.Elems[i], Effect: e.Eff(), CoreSpan: span}, Tuple: e, Index: i}, nil
}

// ---- Option / variant ----

// Some injects e into an option.
func (b *Builder) Some(e Expr, span ast.Pos) *OptE {
	return &OptE{Base: Base{Ty: &types.OptT{Elem: e.Type()}, Effect: e.Eff(), CoreSpan: span}, Value: e}
}

// None builds the empty option of the given element type.
func (b *Builder) None(elemT types.Type, span ast.Pos) *OptE {
	return &OptE{Base: Base{Ty: &types.OptT{Elem: elemT}, Effect: Triv, CoreSpan: span}, Value: nil}
}

// Tag introduces a variant alternative under an explicit variant type
// (which cannot be inferred from the payload alone, since sibling
// alternatives carry no value here).
func (b *Builder) Tag(label string, payload Expr, variantT *types.VariantT, span ast.Pos) *TagE {
	eff := Triv
	if payload != nil {
		eff = payload.Eff()
	}
	return &TagE{Base: Base{Ty: variantT, Effect: eff, CoreSpan: span}, Label: label, Payload: payload}
}

// ---- Field / array access ----

// Dot accesses a field on a plain object.
func (b *Builder) Dot(obj Expr, field string, span ast.Pos) (*DotE, error) {
	objT, ok := types.Normalize(obj.Type()).(*types.ObjT)
	if !ok {
		return nil, irerr.New(irerr.BUILD005, "field access on non-object type", span).WithData("type", obj.Type().String())
	}
	f, ok := objT.FieldByName(field)
	if !ok {
		return nil, irerr.New(irerr.BUILD005, "field not found", span).WithData("field", field)
	}
	return &DotE{Base: Base{Ty: f.Type, Effect: obj.Eff(), CoreSpan: span}, Obj: obj, Field: field}, nil
}

// ActorDot accesses a field on an actor.
func (b *Builder) ActorDot(actor Expr, field string, span ast.Pos) (*ActorDotE, error) {
	objT, ok := types.Normalize(actor.Type()).(*types.ObjT)
	if !ok || objT.Sort != types.SortActor {
		return nil, irerr.New(irerr.BUILD005, "actor field access on non-actor type", span).WithData("type", actor.Type().String())
	}
	f, ok := objT.FieldByName(field)
	if !ok {
		return nil, irerr.New(irerr.BUILD005, "actor field not found", span).WithData("field", field)
	}
	return &ActorDotE{Base: Base{Ty: f.Type, Effect: actor.Eff(), CoreSpan: span}, Actor: actor, Field: field}, nil
}

// Array constructs an array with a mutability tag.
func (b *Builder) Array(mut bool, elemT types.Type, elems []Expr, span ast.Pos) *ArrayE {
	effs := make([]Effect, len(elems))
	for i, e := range elems {
		effs[i] = e.Eff()
	}
	return &ArrayE{Base: Base{Ty: &types.ArrayT{Elem: elemT, Mut: mut}, Effect: JoinEffect(effs...), CoreSpan: span}, Mut: mut, Elems: elems}
}

// Idx accesses an array by index.
func (b *Builder) Idx(arr, idx Expr, span ast.Pos) (*IdxE, error) {
	at, ok := types.Normalize(arr.Type()).(*types.ArrayT)
	if !ok {
		return nil, irerr.New(irerr.BUILD001, "indexed access on non-array type", span).WithData("type", arr.Type().String())
	}
	return &IdxE{Base: Base{Ty: at.Elem, Effect: JoinEffect(arr.Eff(), idx.Eff()), CoreSpan: span}, Array: arr, Index: idx}, nil
}

// ---- Functions and calls ----

// Func builds a (possibly named) function literal; the function's own
// effect is always Triv regardless of its body's effect — calling a
// function is what may suspend, not closing over one.
func (b *Builder) Func(name string, fnType *types.FuncT, params []Param, body Expr, span ast.Pos) *FuncE {
	return &FuncE{Base: Base{Ty: fnType, Effect: Triv, CoreSpan: span}, Name: name, FnType: fnType, Params: params, Body: body}
}

// Lambda is sugar for an anonymous Func.
func (b *Builder) Lambda(fnType *types.FuncT, params []Param, body Expr, span ast.Pos) *FuncE {
	return b.Func("", fnType, params, body, span)
}

// Call applies a type instantiation to the callee's function type.
func (b *Builder) Call(fn Expr, tyArgs []types.Type, args []Expr, span ast.Pos) (*CallE, error) {
	ft, ok := types.Normalize(fn.Type()).(*types.FuncT)
	if !ok {
		return nil, irerr.New(irerr.BUILD001, "call target does not have function type", span).WithData("type", fn.Type().String())
	}
	if len(tyArgs) != len(ft.TParams) {
		return nil, irerr.New(irerr.BUILD004, "type instantiation arity mismatch", span).
			WithData("want", len(ft.TParams)).WithData("got", len(tyArgs))
	}
	if len(args) != len(ft.Args) {
		return nil, irerr.New(irerr.BUILD004, "call argument arity mismatch", span).
			WithData("want", len(ft.Args)).WithData("got", len(args))
	}
	resultTs := instantiateAll(ft.Results, tyArgs)
	effs := make([]Effect, 0, len(args)+2)
	effs = append(effs, fn.Eff())
	for _, a := range args {
		effs = append(effs, a.Eff())
	}
	// The call's effect is the join of the callee's and the arguments'
	// effects only; a suspension inside the callee's body does not raise
	// it.
	resultT := Unit
	if len(resultTs) == 1 {
		resultT = resultTs[0]
	} else if len(resultTs) > 1 {
		resultT = &types.TupT{Elems: resultTs}
	}
	return &CallE{Base: Base{Ty: resultT, Effect: JoinEffect(effs...), CoreSpan: span}, Func: fn, TypeArgs: tyArgs, Args: args}, nil
}

func instantiateAll(ts []types.Type, tyArgs []types.Type) []types.Type {
	sub := make(map[int]types.Type, len(tyArgs))
	for i, a := range tyArgs {
		sub[i] = a
	}
	out := make([]types.Type, len(ts))
	for i, t := range ts {
		out[i] = instantiate(t, sub)
	}
	return out
}

func instantiate(t types.Type, sub map[int]types.Type) types.Type {
	switch x := t.(type) {
	case *types.VarT:
		if r, ok := sub[x.Index]; ok {
			return r
		}
		return x
	case *types.TupT:
		es := make([]types.Type, len(x.Elems))
		for i, e := range x.Elems {
			es[i] = instantiate(e, sub)
		}
		return &types.TupT{Elems: es}
	case *types.ArrayT:
		return &types.ArrayT{Elem: instantiate(x.Elem, sub), Mut: x.Mut}
	case *types.OptT:
		return &types.OptT{Elem: instantiate(x.Elem, sub)}
	case *types.AsyncT:
		return &types.AsyncT{Elem: instantiate(x.Elem, sub)}
	case *types.MutT:
		return &types.MutT{Elem: instantiate(x.Elem, sub)}
	default:
		return t
	}
}

// ---- Blocks and control flow ----

// isTrivialDecl reports a binding of the wildcard or the empty-tuple
// pattern to the literal unit value — Block drops only these, never a
// wildcard/empty-tuple binding of a side-effecting expression (the
// derived loop forms and the show-synthesis pass both sequence
// statements this way; dropping them unconditionally would discard the
// side effect, not just dead code).
func isTrivialDecl(d Decl) bool {
	let, ok := d.(*LetD)
	if !ok {
		return false
	}
	switch p := let.Pattern.(type) {
	case *WildP:
		return isUnitLit(let.Value)
	case *TupP:
		return len(p.Elems) == 0 && isUnitLit(let.Value)
	}
	return false
}

func isUnitLit(e Expr) bool {
	t, ok := e.(*TupE)
	return ok && len(t.Elems) == 0
}

// Block filters out trivial declarations; if nothing remains, it returns e
// directly instead of wrapping it.
func (b *Builder) Block(decls []Decl, e Expr, span ast.Pos) Expr {
	kept := make([]Decl, 0, len(decls))
	for _, d := range decls {
		if !isTrivialDecl(d) {
			kept = append(kept, d)
		}
	}
	if len(kept) == 0 {
		return e
	}
	eff := e.Eff()
	for _, d := range kept {
		if v := declValue(d); v != nil && v.Eff() == Await {
			eff = Await
		}
	}
	return &BlockE{Base: Base{Ty: e.Type(), Effect: eff, CoreSpan: span}, Decls: kept, Result: e}
}

func declValue(d Decl) Expr {
	switch x := d.(type) {
	case *LetD:
		return x.Value
	case *VarD:
		return x.Value
	default:
		return nil
	}
}

// If builds a structured conditional with a declared result type.
func (b *Builder) If(c, then, els Expr, resultT types.Type, span ast.Pos) *IfE {
	eff := JoinEffect(c.Eff(), then.Eff(), els.Eff())
	return &IfE{Base: Base{Ty: resultT, Effect: eff, CoreSpan: span}, Cond: c, Then: then, Else: els}
}

// SwitchOpt builds a structured option match.
func (b *Builder) SwitchOpt(scrut Expr, arms []MatchArm, resultT types.Type, span ast.Pos) *SwitchE {
	return b.switch_(scrut, arms, resultT, span)
}

// SwitchVariant builds a structured variant match.
func (b *Builder) SwitchVariant(scrut Expr, arms []MatchArm, resultT types.Type, span ast.Pos) *SwitchE {
	return b.switch_(scrut, arms, resultT, span)
}

func (b *Builder) switch_(scrut Expr, arms []MatchArm, resultT types.Type, span ast.Pos) *SwitchE {
	eff := scrut.Eff()
	for _, a := range arms {
		if a.Body.Eff() == Await {
			eff = Await
		}
	}
	return &SwitchE{Base: Base{Ty: resultT, Effect: eff, CoreSpan: span}, Scrutinee: scrut, Arms: arms}
}

// Let builds a non-recursive binding declaration.
func (b *Builder) Let(pat Pattern, value Expr) *LetD {
	return &LetD{Pattern: pat, Value: value}
}

// VarDecl builds a mutable binding declaration.
func (b *Builder) VarDecl(name string, value Expr) *VarD {
	return &VarD{Name: name, Value: value}
}

// FuncDecl wraps a named function literal as a let-binding.
func (b *Builder) FuncDecl(name string, fnType *types.FuncT, params []Param, body Expr, span ast.Pos) *LetD {
	fn := b.Func(name, fnType, params, body, span)
	return b.Let(&VarP{Name: name, Ty: fnType}, fn)
}

// ---- Derived loop forms ----

// While desugars `while c body` into a labelled unconditional loop that
// breaks when c is false (§4.1).
func (b *Builder) While(cond, body Expr, span ast.Pos) Expr {
	label := b.Fresh.Fresh("while")
	loopBody := b.If(cond, body, &BreakE{Base: Base{Ty: Unit, Effect: Triv, CoreSpan: span}, Label: label, Value: unitLit()}, Unit, span)
	loop := &LoopE{Base: Base{Ty: Unit, Effect: loopBody.Eff(), CoreSpan: span}, Body: loopBody}
	return &LabelE{Base: Base{Ty: Unit, Effect: loop.Eff(), CoreSpan: span}, Label: label, Body: loop}
}

// LoopWhile desugars `loop body while c` (body runs at least once) into an
// unconditional loop that breaks after testing c at the end.
func (b *Builder) LoopWhile(body, cond Expr, span ast.Pos) Expr {
	label := b.Fresh.Fresh("loop_while")
	brk := &BreakE{Base: Base{Ty: Unit, Effect: Triv, CoreSpan: span}, Label: label, Value: unitLit()}
	tail := b.If(cond, unitLit(), brk, Unit, span)
	seq := b.Block([]Decl{b.Let(&WildP{Ty: body.Type()}, body)}, tail, span)
	loop := &LoopE{Base: Base{Ty: Unit, Effect: seq.Eff(), CoreSpan: span}, Body: seq}
	return &LabelE{Base: Base{Ty: Unit, Effect: loop.Eff(), CoreSpan: span}, Label: label, Body: loop}
}

// For desugars `for (pat in nextFn) body` into a labelled loop that pulls
// `Option elemT` values from nextFn (a 0-ary function) until None.
func (b *Builder) For(pat Pattern, elemT types.Type, nextFn Expr, body Expr, span ast.Pos) (Expr, error) {
	call, err := b.Call(nextFn, nil, nil, span)
	if err != nil {
		return nil, err
	}
	label := b.Fresh.Fresh("for")
	brk := &BreakE{Base: Base{Ty: Unit, Effect: Triv, CoreSpan: span}, Label: label, Value: unitLit()}
	noneArm := MatchArm{Pattern: &OptP{Inner: nil, Ty: &types.OptT{Elem: elemT}}, Body: brk}
	someArm := MatchArm{Pattern: &OptP{Inner: pat, Ty: &types.OptT{Elem: elemT}}, Body: body}
	sw := b.SwitchOpt(call, []MatchArm{someArm, noneArm}, Unit, span)
	loop := &LoopE{Base: Base{Ty: Unit, Effect: sw.Eff(), CoreSpan: span}, Body: sw}
	return &LabelE{Base: Base{Ty: Unit, Effect: loop.Eff(), CoreSpan: span}, Label: label, Body: loop}, nil
}

// ---- Continuation types (§4.1) ----

// ContType is cont(T) = local-returns function from T to unit.
func ContType(t types.Type) *types.FuncT {
	return &types.FuncT{Sort: types.SortLocal, Ctrl: types.Returns, Args: []types.Type{t}, Results: []types.Type{Unit}}
}

// ErrContType is err_cont = local-returns function from the catch type to
// unit.
func ErrContType() *types.FuncT {
	return &types.FuncT{Sort: types.SortLocal, Ctrl: types.Returns, Args: []types.Type{ErrorT}, Results: []types.Type{Unit}}
}

// CPSType is cps(T) = local-returns function from (cont(T), err_cont) to
// unit.
func CPSType(t types.Type) *types.FuncT {
	return &types.FuncT{
		Sort:    types.SortLocal,
		Ctrl:    types.Returns,
		Args:    []types.Type{ContType(t), ErrContType()},
		Results: []types.Type{Unit},
	}
}
