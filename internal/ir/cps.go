package ir

import (
	"github.com/sunholo/actorc/internal/ast"
	"github.com/sunholo/actorc/internal/irerr"
	"github.com/sunholo/actorc/internal/types"
)

// CPS implements the await/async continuation-passing transform of §4.3:
// it eliminates AsyncE, AwaitE, ThrowE, TryE, BreakE, and RetE-inside-
// async-context, introducing CPSAsync/CPSAwait primitives in their
// place. It shares one FreshGen with the rest of the compilation so
// generated names never collide with alpha-renaming's or the
// construction algebra's own fresh names.
type CPS struct {
	Fresh *FreshGen
	B     *Builder
}

func NewCPS(fresh *FreshGen) *CPS {
	return &CPS{Fresh: fresh, B: &Builder{Fresh: fresh}}
}

var span = ast.Pos{}

// TransformProgram runs the CPS pass over a whole program. Precondition:
// p has globally unique binders (the output of alpha-renaming, §4.2).
func (c *CPS) TransformProgram(p *Program) (*Program, error) {
	decls, err := c.transTopDecls(p.Decls)
	if err != nil {
		return nil, err
	}
	// The program body's value is left in place rather than returned; an
	// explicit return in it still reaches a NativeReturn binding.
	ctx := &LabelEnv{ret: &NativeReturn{}}
	body, err := c.runWithKont(p.Body, ctx, &MetaCont{T: p.Body.Type(), F: func(v Expr) (Expr, error) { return v, nil }})
	if err != nil {
		return nil, err
	}
	return &Program{Decls: decls, Body: body}, nil
}

func (c *CPS) transTopDecls(decls []Decl) ([]Decl, error) {
	out := make([]Decl, len(decls))
	for i, d := range decls {
		switch x := d.(type) {
		case *TypD:
			out[i] = x
		case *LetD:
			v, err := c.transDeclValue(x.Value)
			if err != nil {
				return nil, err
			}
			out[i] = &LetD{Pattern: x.Pattern, Value: v}
		case *VarD:
			v, err := c.transDeclValue(x.Value)
			if err != nil {
				return nil, err
			}
			out[i] = &VarD{Name: x.Name, Value: v}
		default:
			return nil, irerr.New(irerr.CPS006, "unrecognised top-level declaration shape", ast.Pos{})
		}
	}
	return out, nil
}

func (c *CPS) transDeclValue(v Expr) (Expr, error) {
	if fn, ok := v.(*FuncE); ok {
		return c.transFuncLit(fn)
	}
	return c.transTop(v)
}

// transFuncLit CPS-translates a function literal's body, establishing a
// fresh Return binding (a NativeReturn — an ordinary function still
// returns directly, §9 Design Note) and no ambient Throw: a bare throw
// reaching an un-caught, non-async function body is an ICE (CPS003),
// since the surface typechecker is expected to have rejected it upstream.
func (c *CPS) transFuncLit(fn *FuncE) (*FuncE, error) {
	body, err := c.transTop(fn.Body)
	if err != nil {
		return nil, err
	}
	return &FuncE{Base: fn.Base, Name: fn.Name, FnType: fn.FnType, Params: fn.Params, Body: body}, nil
}

// transTop CPS-translates e as the body of some function-like boundary
// (a plain function, or a top-level declaration's value), establishing a
// fresh Return binding.
func (c *CPS) transTop(e Expr) (Expr, error) {
	ctx := &LabelEnv{ret: &NativeReturn{}}
	if IsTriv(e) {
		return c.TExp(e, ctx)
	}
	return c.CExp(e, ctx, &NativeReturn{})
}

// runWithKont is the generalised "trivial atoms" rule of §4.3: a trivial
// sub-expression is structurally rewritten and handed straight to k; an
// awaitful one is translated by CExp.
func (c *CPS) runWithKont(e Expr, ctx *LabelEnv, k Kont) (Expr, error) {
	if IsTriv(e) {
		v, err := c.TExp(e, ctx)
		if err != nil {
			return nil, err
		}
		return k.apply(v)
	}
	return c.CExp(e, ctx, k)
}

// letcont materialises a meta-continuation as a named function the first
// time it would otherwise be duplicated; a continuation already reified
// as a ContVar is passed to scope unchanged.
func (c *CPS) letcont(t types.Type, k Kont, scope func(Kont) (Expr, error)) (Expr, error) {
	if cv, ok := k.(*ContVar); ok {
		return scope(cv)
	}
	mc, ok := k.(*MetaCont)
	if !ok {
		return scope(k)
	}
	xName := c.Fresh.Fresh("k_arg")
	xVar := &VarE{Base: Base{Ty: mc.T, Effect: Triv}, Name: xName}
	body, err := mc.apply(xVar)
	if err != nil {
		return nil, err
	}
	kName := c.Fresh.Fresh("k")
	fnType := ContType(mc.T)
	fn := c.B.Func(kName, fnType, []Param{{Pattern: &VarP{Name: xName, Ty: mc.T}, Type: mc.T}}, body, span)
	decl := &LetD{Pattern: &VarP{Name: kName, Ty: fnType}, Value: fn}
	cv := &ContVar{Name: kName, FnType: fnType}
	rest, err := scope(cv)
	if err != nil {
		return nil, err
	}
	return c.B.Block([]Decl{decl}, rest, span), nil
}

// transArgsCPS implements the n-ary-argument rule: trivial arguments are
// rewritten in place, awaitful ones are CPS'd with a meta-continuation
// that accumulates the value list, and build is invoked once every
// argument has a value.
func (c *CPS) transArgsCPS(args []Expr, ctx *LabelEnv, build func([]Expr) (Expr, error)) (Expr, error) {
	return c.transArgsFrom(args, 0, make([]Expr, len(args)), ctx, build)
}

func (c *CPS) transArgsFrom(args []Expr, i int, acc []Expr, ctx *LabelEnv, build func([]Expr) (Expr, error)) (Expr, error) {
	if i == len(args) {
		return build(acc)
	}
	a := args[i]
	if IsTriv(a) {
		v, err := c.TExp(a, ctx)
		if err != nil {
			return nil, err
		}
		next := append([]Expr(nil), acc...)
		next[i] = v
		return c.transArgsFrom(args, i+1, next, ctx, build)
	}
	return c.CExp(a, ctx, &MetaCont{T: a.Type(), F: func(v Expr) (Expr, error) {
		next := append([]Expr(nil), acc...)
		next[i] = v
		return c.transArgsFrom(args, i+1, next, ctx, build)
	}})
}

// ---- TExp: structural rewrite of a trivial expression ----

func (c *CPS) TExp(e Expr, ctx *LabelEnv) (Expr, error) {
	if e.Eff() == Await {
		return nil, irerr.New(irerr.CPS001, "is_triv(e) disagrees with eff(e)", e.Span())
	}
	switch x := e.(type) {
	case *VarE, *LitE, *DeclareE:
		return x, nil

	case *PrimE:
		args, err := c.texprs(x.Args, ctx)
		if err != nil {
			return nil, err
		}
		return &PrimE{Base: x.Base, Prim: x.Prim, Args: args, ShowType: x.ShowType}, nil

	case *TupE:
		elems, err := c.texprs(x.Elems, ctx)
		if err != nil {
			return nil, err
		}
		return &TupE{Base: x.Base, Elems: elems}, nil

	case *ProjE:
		t, err := c.TExp(x.Tuple, ctx)
		if err != nil {
			return nil, err
		}
		return &ProjE{Base: x.Base, Tuple: t, Index: x.Index}, nil

	case *OptE:
		if x.Value == nil {
			return x, nil
		}
		v, err := c.TExp(x.Value, ctx)
		if err != nil {
			return nil, err
		}
		return &OptE{Base: x.Base, Value: v}, nil

	case *TagE:
		if x.Payload == nil {
			return x, nil
		}
		v, err := c.TExp(x.Payload, ctx)
		if err != nil {
			return nil, err
		}
		return &TagE{Base: x.Base, Label: x.Label, Payload: v}, nil

	case *DotE:
		o, err := c.TExp(x.Obj, ctx)
		if err != nil {
			return nil, err
		}
		return &DotE{Base: x.Base, Obj: o, Field: x.Field}, nil

	case *ActorDotE:
		a, err := c.TExp(x.Actor, ctx)
		if err != nil {
			return nil, err
		}
		return &ActorDotE{Base: x.Base, Actor: a, Field: x.Field}, nil

	case *ArrayE:
		elems, err := c.texprs(x.Elems, ctx)
		if err != nil {
			return nil, err
		}
		return &ArrayE{Base: x.Base, Mut: x.Mut, Elems: elems}, nil

	case *IdxE:
		arr, err := c.TExp(x.Array, ctx)
		if err != nil {
			return nil, err
		}
		idx, err := c.TExp(x.Index, ctx)
		if err != nil {
			return nil, err
		}
		return &IdxE{Base: x.Base, Array: arr, Index: idx}, nil

	case *FuncE:
		return c.transFuncLit(x)

	case *CallE:
		fn, err := c.TExp(x.Func, ctx)
		if err != nil {
			return nil, err
		}
		args, err := c.texprs(x.Args, ctx)
		if err != nil {
			return nil, err
		}
		return &CallE{Base: x.Base, Func: fn, TypeArgs: x.TypeArgs, Args: args}, nil

	case *SelfCallE:
		return nil, irerr.New(irerr.CPS002, "SelfCallE reached the CPS pass", x.Span())

	case *BlockE:
		typeDecls, valueDecls := splitDecls(x.Decls)
		decls := make([]Decl, 0, len(x.Decls))
		decls = append(decls, typeDecls...)
		for _, d := range valueDecls {
			nd, err := c.tdecl(d, ctx)
			if err != nil {
				return nil, err
			}
			decls = append(decls, nd)
		}
		result, err := c.TExp(x.Result, ctx)
		if err != nil {
			return nil, err
		}
		return &BlockE{Base: x.Base, Decls: decls, Result: result}, nil

	case *IfE:
		cnd, err := c.TExp(x.Cond, ctx)
		if err != nil {
			return nil, err
		}
		th, err := c.TExp(x.Then, ctx)
		if err != nil {
			return nil, err
		}
		el, err := c.TExp(x.Else, ctx)
		if err != nil {
			return nil, err
		}
		return &IfE{Base: x.Base, Cond: cnd, Then: th, Else: el}, nil

	case *SwitchE:
		scrut, err := c.TExp(x.Scrutinee, ctx)
		if err != nil {
			return nil, err
		}
		arms := make([]MatchArm, len(x.Arms))
		for i, a := range x.Arms {
			b, err := c.TExp(a.Body, ctx)
			if err != nil {
				return nil, err
			}
			arms[i] = MatchArm{Pattern: a.Pattern, Body: b}
		}
		return &SwitchE{Base: x.Base, Scrutinee: scrut, Arms: arms}, nil

	case *LoopE:
		body, err := c.TExp(x.Body, ctx)
		if err != nil {
			return nil, err
		}
		return &LoopE{Base: x.Base, Body: body}, nil

	case *LabelE:
		body, err := c.TExp(x.Body, ctx)
		if err != nil {
			return nil, err
		}
		return &LabelE{Base: x.Base, Label: x.Label, Body: body}, nil

	case *BreakE:
		v, err := c.TExp(x.Value, ctx)
		if err != nil {
			return nil, err
		}
		if k := ctx.Named(x.Label); k != nil {
			return k.apply(v)
		}
		return &BreakE{Base: x.Base, Label: x.Label, Value: v}, nil

	case *RetE:
		v, err := c.TExp(x.Value, ctx)
		if err != nil {
			return nil, err
		}
		if k := ctx.Return(); k != nil {
			return k.apply(v)
		}
		return &RetE{Base: x.Base, Value: v}, nil

	case *AssertE:
		cnd, err := c.TExp(x.Cond, ctx)
		if err != nil {
			return nil, err
		}
		return &AssertE{Base: x.Base, Cond: cnd}, nil

	case *DefineE:
		t, err := c.TExp(x.Target, ctx)
		if err != nil {
			return nil, err
		}
		v, err := c.TExp(x.Value, ctx)
		if err != nil {
			return nil, err
		}
		return &DefineE{Base: x.Base, Target: t, Value: v}, nil

	case *NewObjE:
		fields := make([]ObjField, len(x.Fields))
		for i, f := range x.Fields {
			cell, err := c.TExp(f.Cell, ctx)
			if err != nil {
				return nil, err
			}
			fields[i] = ObjField{Name: f.Name, Cell: cell}
		}
		return &NewObjE{Base: x.Base, Sort: x.Sort, Fields: fields}, nil

	default:
		return nil, irerr.New(irerr.CPS006, "unrecognised trivial expression shape", e.Span())
	}
}

func (c *CPS) texprs(es []Expr, ctx *LabelEnv) ([]Expr, error) {
	out := make([]Expr, len(es))
	for i, e := range es {
		v, err := c.TExp(e, ctx)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (c *CPS) tdecl(d Decl, ctx *LabelEnv) (Decl, error) {
	switch x := d.(type) {
	case *LetD:
		v, err := c.transDeclValueTriv(x.Value, ctx)
		if err != nil {
			return nil, err
		}
		return &LetD{Pattern: x.Pattern, Value: v}, nil
	case *VarD:
		v, err := c.transDeclValueTriv(x.Value, ctx)
		if err != nil {
			return nil, err
		}
		return &VarD{Name: x.Name, Value: v}, nil
	default:
		return nil, irerr.New(irerr.CPS006, "unrecognised declaration shape", ast.Pos{})
	}
}

func (c *CPS) transDeclValueTriv(v Expr, ctx *LabelEnv) (Expr, error) {
	if fn, ok := v.(*FuncE); ok {
		return c.transFuncLit(fn)
	}
	return c.TExp(v, ctx)
}

// ---- CExp: continuation-passing translation of an awaitful expression ----

func (c *CPS) CExp(e Expr, ctx *LabelEnv, k Kont) (Expr, error) {
	if IsTriv(e) {
		v, err := c.TExp(e, ctx)
		if err != nil {
			return nil, err
		}
		return k.apply(v)
	}

	switch x := e.(type) {
	case *PrimE:
		return c.transArgsCPS(x.Args, ctx, func(vs []Expr) (Expr, error) {
			p, err := c.B.Prim(x.Prim, vs, x.ShowType, span)
			if err != nil {
				return nil, err
			}
			return k.apply(p)
		})

	case *TupE:
		return c.transArgsCPS(x.Elems, ctx, func(vs []Expr) (Expr, error) {
			return k.apply(c.B.Tup(vs, span))
		})

	case *ProjE:
		return c.transArgsCPS([]Expr{x.Tuple}, ctx, func(vs []Expr) (Expr, error) {
			p, err := c.B.Proj(vs[0], x.Index, span)
			if err != nil {
				return nil, err
			}
			return k.apply(p)
		})

	case *OptE:
		return c.transArgsCPS([]Expr{x.Value}, ctx, func(vs []Expr) (Expr, error) {
			return k.apply(c.B.Some(vs[0], span))
		})

	case *TagE:
		variantT, _ := x.Type().(*types.VariantT)
		return c.transArgsCPS([]Expr{x.Payload}, ctx, func(vs []Expr) (Expr, error) {
			return k.apply(c.B.Tag(x.Label, vs[0], variantT, span))
		})

	case *DotE:
		return c.transArgsCPS([]Expr{x.Obj}, ctx, func(vs []Expr) (Expr, error) {
			d, err := c.B.Dot(vs[0], x.Field, span)
			if err != nil {
				return nil, err
			}
			return k.apply(d)
		})

	case *ActorDotE:
		return c.transArgsCPS([]Expr{x.Actor}, ctx, func(vs []Expr) (Expr, error) {
			d, err := c.B.ActorDot(vs[0], x.Field, span)
			if err != nil {
				return nil, err
			}
			return k.apply(d)
		})

	case *ArrayE:
		return c.transArgsCPS(x.Elems, ctx, func(vs []Expr) (Expr, error) {
			elemT := x.Type().(*types.ArrayT).Elem
			return k.apply(c.B.Array(x.Mut, elemT, vs, span))
		})

	case *IdxE:
		return c.transArgsCPS([]Expr{x.Array, x.Index}, ctx, func(vs []Expr) (Expr, error) {
			i, err := c.B.Idx(vs[0], vs[1], span)
			if err != nil {
				return nil, err
			}
			return k.apply(i)
		})

	case *CallE:
		all := append([]Expr{x.Func}, x.Args...)
		return c.transArgsCPS(all, ctx, func(vs []Expr) (Expr, error) {
			call, err := c.B.Call(vs[0], x.TypeArgs, vs[1:], span)
			if err != nil {
				return nil, err
			}
			return k.apply(call)
		})

	case *SelfCallE:
		return nil, irerr.New(irerr.CPS002, "SelfCallE reached the CPS pass", x.Span())

	case *AssertE:
		return c.transArgsCPS([]Expr{x.Cond}, ctx, func(vs []Expr) (Expr, error) {
			return k.apply(&AssertE{Base: Base{Ty: Unit, Effect: Triv}, Cond: vs[0]})
		})

	case *DefineE:
		return c.transDefine(x, ctx, k)

	case *BlockE:
		return c.transBlockCPS(x, ctx, k)

	case *IfE:
		return c.transIf(x, ctx, k)

	case *SwitchE:
		return c.transSwitch(x, ctx, k)

	case *LoopE:
		return c.transLoop(x, ctx)

	case *LabelE:
		return c.transLabel(x, ctx, k)

	case *BreakE:
		target := ctx.Named(x.Label)
		if target == nil {
			return nil, irerr.New(irerr.CPS003, "break to a label with no binding in context", x.Span()).WithData("label", x.Label)
		}
		return c.runWithKont(x.Value, ctx, target)

	case *RetE:
		target := ctx.Return()
		if target == nil {
			return nil, irerr.New(irerr.CPS003, "return with no Return binding in context", x.Span())
		}
		return c.runWithKont(x.Value, ctx, target)

	case *ThrowE:
		target := ctx.Throw()
		if target == nil {
			return nil, irerr.New(irerr.CPS003, "throw with no Throw binding in context", x.Span())
		}
		return c.runWithKont(x.Value, ctx, target)

	case *TryE:
		return c.transTry(x, ctx, k)

	case *AwaitE:
		return c.transAwait(x, ctx, k)

	case *AsyncE:
		return c.transAsync(x, ctx, k)

	default:
		return nil, irerr.New(irerr.CPS006, "unrecognised awaitful expression shape", e.Span())
	}
}

func (c *CPS) transDefine(x *DefineE, ctx *LabelEnv, k Kont) (Expr, error) {
	switch tgt := x.Target.(type) {
	case *VarE:
		return c.transArgsCPS([]Expr{x.Value}, ctx, func(vs []Expr) (Expr, error) {
			def := &DefineE{Base: Base{Ty: Unit, Effect: Triv}, Target: tgt, Value: vs[0]}
			return k.apply(def)
		})
	case *DotE:
		return c.transArgsCPS([]Expr{tgt.Obj, x.Value}, ctx, func(vs []Expr) (Expr, error) {
			newTgt := &DotE{Base: tgt.Base, Obj: vs[0], Field: tgt.Field}
			def := &DefineE{Base: Base{Ty: Unit, Effect: Triv}, Target: newTgt, Value: vs[1]}
			return k.apply(def)
		})
	case *IdxE:
		return c.transArgsCPS([]Expr{tgt.Array, tgt.Index, x.Value}, ctx, func(vs []Expr) (Expr, error) {
			newTgt := &IdxE{Base: tgt.Base, Array: vs[0], Index: vs[1]}
			def := &DefineE{Base: Base{Ty: Unit, Effect: Triv}, Target: newTgt, Value: vs[2]}
			return k.apply(def)
		})
	default:
		return nil, irerr.New(irerr.BUILD003, "assignment target is not mutable", x.Span())
	}
}

func (c *CPS) transIf(x *IfE, ctx *LabelEnv, k Kont) (Expr, error) {
	return c.letcont(x.Type(), k, func(kv Kont) (Expr, error) {
		th, err := c.runWithKont(x.Then, ctx, kv)
		if err != nil {
			return nil, err
		}
		el, err := c.runWithKont(x.Else, ctx, kv)
		if err != nil {
			return nil, err
		}
		return c.runWithKont(x.Cond, ctx, &MetaCont{T: x.Cond.Type(), F: func(cv Expr) (Expr, error) {
			return c.B.If(cv, th, el, Unit, span), nil
		}})
	})
}

func (c *CPS) transSwitch(x *SwitchE, ctx *LabelEnv, k Kont) (Expr, error) {
	return c.letcont(x.Type(), k, func(kv Kont) (Expr, error) {
		arms := make([]MatchArm, len(x.Arms))
		for i, a := range x.Arms {
			b, err := c.runWithKont(a.Body, ctx, kv)
			if err != nil {
				return nil, err
			}
			arms[i] = MatchArm{Pattern: a.Pattern, Body: b}
		}
		return c.runWithKont(x.Scrutinee, ctx, &MetaCont{T: x.Scrutinee.Type(), F: func(sv Expr) (Expr, error) {
			return &SwitchE{Base: Base{Ty: Unit, Effect: Triv}, Scrutinee: sv, Arms: arms}, nil
		}})
	})
}

// transLoop introduces a fresh 0-ary loop function whose body is the
// translated loop body running with ContVar(loop) as its continuation,
// then calls it once. The outer continuation k is never invoked: an
// unconditional loop only completes via a break to an enclosing label
// (§4.3).
func (c *CPS) transLoop(x *LoopE, ctx *LabelEnv) (Expr, error) {
	loopName := c.Fresh.Fresh("loop")
	loopFnType := &types.FuncT{Sort: types.SortLocal, Ctrl: types.Returns, Results: []types.Type{Unit}}
	loopCont := &LoopCont{Name: loopName, FnType: loopFnType}

	body, err := c.runWithKont(x.Body, ctx, loopCont)
	if err != nil {
		return nil, err
	}
	loopFn := c.B.Func(loopName, loopFnType, nil, body, span)
	decl := &LetD{Pattern: &VarP{Name: loopName, Ty: loopFnType}, Value: loopFn}
	call := &CallE{Base: Base{Ty: Unit, Effect: Triv}, Func: &VarE{Base: Base{Ty: loopFnType, Effect: Triv}, Name: loopName}}
	return c.B.Block([]Decl{decl}, call, span), nil
}

func (c *CPS) transLabel(x *LabelE, ctx *LabelEnv, k Kont) (Expr, error) {
	return c.letcont(x.Type(), k, func(kv Kont) (Expr, error) {
		inner := ctx.withNamed(x.Label, kv)
		return c.runWithKont(x.Body, inner, kv)
	})
}

// transAwait embeds the (reified) success and ambient-error continuations
// into a tuple argument to CPSAwait, per the end-to-end scenario of §8:
// `async { await p }` becomes CPSAsync(λk_ret k_fail. CPSAwait(p, (k_ret, k_fail))).
func (c *CPS) transAwait(x *AwaitE, ctx *LabelEnv, k Kont) (Expr, error) {
	return c.transArgsCPS([]Expr{x.Future}, ctx, func(vs []Expr) (Expr, error) {
		future := vs[0]
		return c.letcont(x.Type(), k, func(kv Kont) (Expr, error) {
			thr := ctx.Throw()
			if thr == nil {
				return nil, irerr.New(irerr.CPS003, "await with no Throw binding in context", x.Span())
			}
			return c.letcont(ErrorT, thr, func(rv Kont) (Expr, error) {
				kCV, ok1 := kv.(*ContVar)
				rCV, ok2 := rv.(*ContVar)
				if !ok1 || !ok2 {
					return nil, irerr.New(irerr.CPS004, "await continuation failed to reify", x.Span())
				}
				kExpr := &VarE{Base: Base{Ty: kCV.FnType, Effect: Triv}, Name: kCV.Name}
				rExpr := &VarE{Base: Base{Ty: rCV.FnType, Effect: Triv}, Name: rCV.Name}
				pair := c.B.Tup([]Expr{kExpr, rExpr}, span)
				return &PrimE{Base: Base{Ty: Unit, Effect: Triv}, Prim: PrimCPSAwait, Args: []Expr{future, pair}}, nil
			})
		})
	})
}

// transAsync establishes fresh success/failure continuations as the
// translation context's Return/Throw (binders are already globally
// unique by the time CPS runs, courtesy of alpha-renaming, so the body
// itself needs no further renaming here), translates the body against
// them, and wraps the result as a CPSAsync primitive whose value (the
// allocated future) is handed to the enclosing continuation k.
func (c *CPS) transAsync(x *AsyncE, ctx *LabelEnv, k Kont) (Expr, error) {
	body := x.Body

	kRetName := c.Fresh.Fresh("k_ret")
	kFailName := c.Fresh.Fresh("k_fail")
	kRetType := ContType(body.Type())
	kFailType := ErrContType()
	actx := &LabelEnv{ret: &ContVar{Name: kRetName, FnType: kRetType}, thr: &ContVar{Name: kFailName, FnType: kFailType}}

	lambdaBody, err := c.runWithKont(body, actx, actx.Return())
	if err != nil {
		return nil, err
	}

	fnType := &types.FuncT{Sort: types.SortLocal, Ctrl: types.Returns, Args: []types.Type{kRetType, kFailType}, Results: []types.Type{Unit}}
	fn := c.B.Func("", fnType, []Param{
		{Pattern: &VarP{Name: kRetName, Ty: kRetType}, Type: kRetType},
		{Pattern: &VarP{Name: kFailName, Ty: kFailType}, Type: kFailType},
	}, lambdaBody, span)

	asyncPrim := &PrimE{Base: Base{Ty: &types.AsyncT{Elem: body.Type()}, Effect: Triv}, Prim: PrimCPSAsync, Args: []Expr{fn}}
	return k.apply(asyncPrim)
}

func (c *CPS) transTry(x *TryE, ctx *LabelEnv, k Kont) (Expr, error) {
	outerThrow := ctx.Throw()
	if outerThrow == nil {
		return nil, irerr.New(irerr.CPS003, "try with no enclosing Throw binding to forward to", x.Span())
	}
	return c.letcont(x.Type(), k, func(kv Kont) (Expr, error) {
		throwName := c.Fresh.Fresh("throw")
		exnName := c.Fresh.Fresh("exn")
		exnVar := &VarE{Base: Base{Ty: ErrorT, Effect: Triv}, Name: exnName}

		arms := make([]MatchArm, 0, len(x.Handles)+1)
		for _, h := range x.Handles {
			hb, err := c.runWithKont(h.Body, ctx, kv)
			if err != nil {
				return nil, err
			}
			arms = append(arms, MatchArm{Pattern: h.Pattern, Body: hb})
		}
		forward, err := outerThrow.apply(exnVar)
		if err != nil {
			return nil, err
		}
		arms = append(arms, MatchArm{Pattern: &WildP{Ty: ErrorT}, Body: forward})

		switchExpr := &SwitchE{Base: Base{Ty: Unit, Effect: Triv}, Scrutinee: exnVar, Arms: arms}
		throwFnType := ErrContType()
		throwFn := c.B.Func(throwName, throwFnType, []Param{{Pattern: &VarP{Name: exnName, Ty: ErrorT}, Type: ErrorT}}, switchExpr, span)
		throwDecl := &LetD{Pattern: &VarP{Name: throwName, Ty: throwFnType}, Value: throwFn}

		innerCtx := ctx.withThrow(&ContVar{Name: throwName, FnType: throwFnType})
		bodyExpr, err := c.runWithKont(x.Body, innerCtx, kv)
		if err != nil {
			return nil, err
		}
		return c.B.Block([]Decl{throwDecl}, bodyExpr, span), nil
	})
}
