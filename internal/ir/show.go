package ir

import (
	"github.com/sunholo/actorc/internal/ast"
	"github.com/sunholo/actorc/internal/irerr"
	"github.com/sunholo/actorc/internal/types"
)

// Show implements show-desugaring (§4.4): it rewrites every
// PrimE(ShowPrim t, [e]) into a call to a synthesised @show<typ_id(t)>
// function and emits the (mutually recursive) set of such functions at
// the program's top level. Output flavor clears has_show.
type Show struct {
	Fresh   *FreshGen
	B       *Builder
	prelude map[string]types.Type
}

func NewShow(fresh *FreshGen) *Show {
	return &Show{Fresh: fresh, B: &Builder{Fresh: fresh}, prelude: StdlibPreludeSignatures()}
}

// textOfRef builds a reference to a "@text_of_*" prelude binding, checking
// first that synthesis actually has something to call: every name this
// pass ever emits is listed by StdlibPreludeSignatures, and a name that
// isn't (e.g. a primitive type with no prelude renderer) is SHOW003
// rather than a VarE this repo's alpha-rename would reject as unbound.
func (s *Show) textOfRef(name string, fnT *types.FuncT) (Expr, error) {
	if _, ok := s.prelude[name]; !ok {
		return nil, irerr.New(irerr.SHOW003, "show-desugaring has no prelude binding for this type", ast.Pos{}).WithData("name", name)
	}
	return &VarE{Base: Base{Ty: fnT, Effect: Triv}, Name: name}, nil
}

// root is one entry discovered by the traversal: a normalised type keyed
// by its own typ_id.
type root struct {
	id string
	ty types.Type
}

// TransformProgram runs the discovery traversal once over the whole
// program, then synthesises one declaration per distinct typ_id reached
// from the roots it collected, prepending them to the declaration list.
func (s *Show) TransformProgram(p *Program) (*Program, error) {
	var roots []root
	seenRoot := map[string]bool{}
	addRoot := func(id string, ty types.Type) {
		if !seenRoot[id] {
			seenRoot[id] = true
			roots = append(roots, root{id, ty})
		}
	}

	decls, err := s.discoverDecls(p.Decls, addRoot)
	if err != nil {
		return nil, err
	}
	body, err := s.discoverExpr(p.Body, addRoot)
	if err != nil {
		return nil, err
	}

	synth, err := s.synthesize(roots)
	if err != nil {
		return nil, err
	}

	out := make([]Decl, 0, len(synth)+len(decls))
	out = append(out, synth...)
	out = append(out, decls...)
	return &Program{Decls: out, Body: body}, nil
}

// ---- Synthesis phase ----

func showFnName(id string) string { return "@show<" + id + ">" }

func showFnType(ty types.Type) *types.FuncT {
	return &types.FuncT{Sort: types.SortLocal, Ctrl: types.Returns, Args: []types.Type{ty}, Results: []types.Type{&types.PrimT{P: types.Text}}}
}

// synthesize runs the worklist of §4.4: starting from roots, emits one
// declaration per distinct typ_id, following dependencies until none
// remain. Termination follows every dependency being structurally
// smaller under normalisation, or already in the seen set.
func (s *Show) synthesize(roots []root) ([]Decl, error) {
	seen := map[string]bool{}
	queue := append([]root(nil), roots...)
	var decls []Decl

	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]
		if seen[r.id] {
			continue
		}
		seen[r.id] = true

		fn, deps, err := s.synthesizeOne(r.id, r.ty)
		if err != nil {
			return nil, err
		}
		decls = append(decls, &LetD{Pattern: &VarP{Name: showFnName(r.id), Ty: showFnType(r.ty)}, Value: fn})

		for _, d := range deps {
			depID, err := types.TypeID(d)
			if err != nil {
				return nil, irerr.New(irerr.SHOW001, "dependency type has a free type parameter", ast.Pos{}).WithData("type", d.String())
			}
			if !seen[depID] {
				queue = append(queue, root{depID, d})
			}
		}
	}
	return decls, nil
}

// showForRef builds a reference to the (possibly not-yet-emitted, since
// the worklist is mutually recursive) @show<typ_id(t)> function.
func (s *Show) showForRef(t types.Type) (Expr, error) {
	id, err := types.TypeID(t)
	if err != nil {
		return nil, irerr.New(irerr.SHOW001, "ShowPrim on a type with free type parameters", ast.Pos{}).WithData("type", t.String())
	}
	return &VarE{Base: Base{Ty: showFnType(t), Effect: Triv}, Name: showFnName(id)}, nil
}

func textLit(value string) *LitE {
	return &LitE{Base: Base{Ty: &types.PrimT{P: types.Text}, Effect: Triv}, Kind: LitText, Value: value}
}

// concatAll folds a sequence of Text expressions with PrimConcat,
// left to right.
func (s *Show) concatAll(parts []Expr) (Expr, error) {
	if len(parts) == 0 {
		return textLit(""), nil
	}
	acc := parts[0]
	for _, p := range parts[1:] {
		c, err := s.B.Prim(PrimConcat, []Expr{acc, p}, nil, span)
		if err != nil {
			return nil, err
		}
		acc = c
	}
	return acc, nil
}

// unreachable builds a value of type Text that is never actually
// produced at runtime — used for the Non primitive, which has no
// inhabitants.
func (s *Show) unreachable() Expr {
	assertFalse := &AssertE{Base: Base{Ty: Unit, Effect: Triv}, Cond: &LitE{Base: Base{Ty: &types.PrimT{P: types.Bool}, Effect: Triv}, Kind: LitBool, Value: false}}
	decl := &LetD{Pattern: &WildP{Ty: Unit}, Value: assertFalse}
	return s.B.Block([]Decl{decl}, textLit(""), span)
}

// synthesizeOne emits the show function for one normalised type,
// returning its body and the dependency types the worklist must still
// reach.
func (s *Show) synthesizeOne(id string, ty types.Type) (*FuncE, []types.Type, error) {
	nt := types.Normalize(ty)
	xName := s.Fresh.Fresh("x")
	xVar := &VarE{Base: Base{Ty: nt, Effect: Triv}, Name: xName}

	body, deps, err := s.codegen(nt, xVar)
	if err != nil {
		return nil, nil, err
	}

	fnType := showFnType(nt)
	fn := s.B.Func(showFnName(id), fnType, []Param{{Pattern: &VarP{Name: xName, Ty: nt}, Type: nt}}, body, span)
	return fn, deps, nil
}

func (s *Show) codegen(nt types.Type, x Expr) (Expr, []types.Type, error) {
	switch t := nt.(type) {
	case *types.PrimT:
		switch t.P {
		case types.NullPrim:
			return textLit("null"), nil, nil
		case types.NonPrim:
			return s.unreachable(), nil, nil
		default:
			preludeFn, err := s.textOfRef("@text_of_"+t.P.String(), showFnType(t))
			if err != nil {
				return nil, nil, err
			}
			call, err := s.B.Call(preludeFn, nil, []Expr{x}, span)
			if err != nil {
				return nil, nil, err
			}
			return call, nil, nil
		}

	case *types.FuncT:
		return textLit("func"), nil, nil

	case *types.TupT:
		if len(t.Elems) == 0 {
			return textLit("()"), nil, nil
		}
		parts := []Expr{textLit("(")}
		deps := make([]types.Type, len(t.Elems))
		for i, elemT := range t.Elems {
			proj, err := s.B.Proj(x, i, span)
			if err != nil {
				return nil, nil, err
			}
			showRef, err := s.showForRef(elemT)
			if err != nil {
				return nil, nil, err
			}
			call, err := s.B.Call(showRef, nil, []Expr{proj}, span)
			if err != nil {
				return nil, nil, err
			}
			if i > 0 {
				parts = append(parts, textLit(","))
			}
			parts = append(parts, call)
			deps[i] = elemT
		}
		parts = append(parts, textLit(")"))
		e, err := s.concatAll(parts)
		return e, deps, err

	case *types.OptT:
		showRef, err := s.showForRef(t.Elem)
		if err != nil {
			return nil, nil, err
		}
		fnT := &types.FuncT{Sort: types.SortLocal, Ctrl: types.Returns,
			Args:    []types.Type{showFnType(t.Elem), t},
			Results: []types.Type{&types.PrimT{P: types.Text}}}
		textOfOpt, err := s.textOfRef("@text_of_option", fnT)
		if err != nil {
			return nil, nil, err
		}
		call, err := s.B.Call(textOfOpt, nil, []Expr{showRef, x}, span)
		if err != nil {
			return nil, nil, err
		}
		return call, []types.Type{t.Elem}, nil

	case *types.ArrayT:
		if mt, ok := t.Elem.(*types.MutT); ok {
			showRef, err := s.showForRef(mt.Elem)
			if err != nil {
				return nil, nil, err
			}
			fnT := &types.FuncT{Sort: types.SortLocal, Ctrl: types.Returns,
				Args:    []types.Type{showFnType(mt.Elem), t},
				Results: []types.Type{&types.PrimT{P: types.Text}}}
			textOfArrMut, err := s.textOfRef("@text_of_array_mut", fnT)
			if err != nil {
				return nil, nil, err
			}
			call, err := s.B.Call(textOfArrMut, nil, []Expr{showRef, x}, span)
			if err != nil {
				return nil, nil, err
			}
			return call, []types.Type{mt.Elem}, nil
		}
		showRef, err := s.showForRef(t.Elem)
		if err != nil {
			return nil, nil, err
		}
		fnT := &types.FuncT{Sort: types.SortLocal, Ctrl: types.Returns,
			Args:    []types.Type{showFnType(t.Elem), t},
			Results: []types.Type{&types.PrimT{P: types.Text}}}
		textOfArr, err := s.textOfRef("@text_of_array", fnT)
		if err != nil {
			return nil, nil, err
		}
		call, err := s.B.Call(textOfArr, nil, []Expr{showRef, x}, span)
		if err != nil {
			return nil, nil, err
		}
		return call, []types.Type{t.Elem}, nil

	case *types.ObjT:
		parts := []Expr{textLit("{")}
		var deps []types.Type
		for i, f := range t.Fields {
			dot, err := s.B.Dot(x, f.Name, span)
			if err != nil {
				return nil, nil, err
			}
			showRef, err := s.showForRef(f.Type)
			if err != nil {
				return nil, nil, err
			}
			call, err := s.B.Call(showRef, nil, []Expr{dot}, span)
			if err != nil {
				return nil, nil, err
			}
			if i > 0 {
				parts = append(parts, textLit("; "))
			}
			parts = append(parts, textLit(f.Name+" = "), call)
			deps = append(deps, f.Type)
		}
		parts = append(parts, textLit("}"))
		e, err := s.concatAll(parts)
		return e, deps, err

	case *types.VariantT:
		var deps []types.Type
		arms := make([]MatchArm, len(t.Alts))
		for i, a := range t.Alts {
			payloadT := a.Payload
			if payloadT == nil {
				payloadT = Unit
			}
			deps = append(deps, payloadT)

			showRef, err := s.showForRef(payloadT)
			if err != nil {
				return nil, nil, err
			}
			fnT := &types.FuncT{Sort: types.SortLocal, Ctrl: types.Returns,
				Args:    []types.Type{&types.PrimT{P: types.Text}, showFnType(payloadT), payloadT},
				Results: []types.Type{&types.PrimT{P: types.Text}}}
			textOfVariant, err := s.textOfRef("@text_of_variant", fnT)
			if err != nil {
				return nil, nil, err
			}

			var pat Pattern
			var payloadVal Expr
			if a.Payload == nil {
				pat = &TagP{Label: a.Label, Inner: nil, Ty: t}
				payloadVal = unitLit()
			} else {
				pName := s.Fresh.Fresh("payload")
				pat = &TagP{Label: a.Label, Inner: &VarP{Name: pName, Ty: a.Payload}, Ty: t}
				payloadVal = &VarE{Base: Base{Ty: a.Payload, Effect: Triv}, Name: pName}
			}
			call, err := s.B.Call(textOfVariant, nil, []Expr{textLit(a.Label), showRef, payloadVal}, span)
			if err != nil {
				return nil, nil, err
			}
			arms[i] = MatchArm{Pattern: pat, Body: call}
		}
		sw := s.B.SwitchVariant(x, arms, &types.PrimT{P: types.Text}, span)
		return sw, deps, nil

	case *types.ConT:
		return nil, nil, irerr.New(irerr.SHOW002, "ShowPrim on an unresolved type-constructor application", ast.Pos{}).WithData("type", t.String())

	case *types.VarT:
		return nil, nil, irerr.New(irerr.SHOW001, "ShowPrim on a type with a free type parameter", ast.Pos{}).WithData("type", t.String())

	default:
		return nil, nil, irerr.New(irerr.SHOW001, "unrecognised type shape in show synthesis", ast.Pos{})
	}
}

// ---- Discovery phase: t_prog ----

func (s *Show) discoverDecls(decls []Decl, addRoot func(string, types.Type)) ([]Decl, error) {
	out := make([]Decl, len(decls))
	for i, d := range decls {
		switch x := d.(type) {
		case *TypD:
			out[i] = x
		case *LetD:
			v, err := s.discoverExpr(x.Value, addRoot)
			if err != nil {
				return nil, err
			}
			out[i] = &LetD{Pattern: x.Pattern, Value: v}
		case *VarD:
			v, err := s.discoverExpr(x.Value, addRoot)
			if err != nil {
				return nil, err
			}
			out[i] = &VarD{Name: x.Name, Value: v}
		default:
			return nil, irerr.New(irerr.SHOW001, "unrecognised declaration shape in show discovery", ast.Pos{})
		}
	}
	return out, nil
}

func (s *Show) discoverExprs(es []Expr, addRoot func(string, types.Type)) ([]Expr, error) {
	out := make([]Expr, len(es))
	for i, e := range es {
		v, err := s.discoverExpr(e, addRoot)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// discoverExpr walks e, normalising and registering every ShowPrim type it
// finds and rewriting the occurrence as a call to the resulting
// @show<typ_id> function.
func (s *Show) discoverExpr(e Expr, addRoot func(string, types.Type)) (Expr, error) {
	switch x := e.(type) {
	case *VarE, *LitE, *DeclareE:
		return x, nil

	case *PrimE:
		args, err := s.discoverExprs(x.Args, addRoot)
		if err != nil {
			return nil, err
		}
		if x.Prim != PrimShow {
			return &PrimE{Base: x.Base, Prim: x.Prim, Args: args, ShowType: x.ShowType}, nil
		}
		nt := types.Normalize(x.ShowType)
		id, err := types.TypeID(nt)
		if err != nil {
			return nil, irerr.New(irerr.SHOW001, "ShowPrim on a type with a free type parameter", x.Span()).WithData("type", x.ShowType.String())
		}
		addRoot(id, nt)
		showRef := &VarE{Base: Base{Ty: showFnType(nt), Effect: Triv}, Name: showFnName(id)}
		return s.B.Call(showRef, nil, args, x.CoreSpan)

	case *TupE:
		elems, err := s.discoverExprs(x.Elems, addRoot)
		if err != nil {
			return nil, err
		}
		return &TupE{Base: x.Base, Elems: elems}, nil

	case *ProjE:
		t, err := s.discoverExpr(x.Tuple, addRoot)
		if err != nil {
			return nil, err
		}
		return &ProjE{Base: x.Base, Tuple: t, Index: x.Index}, nil

	case *OptE:
		if x.Value == nil {
			return x, nil
		}
		v, err := s.discoverExpr(x.Value, addRoot)
		if err != nil {
			return nil, err
		}
		return &OptE{Base: x.Base, Value: v}, nil

	case *TagE:
		if x.Payload == nil {
			return x, nil
		}
		v, err := s.discoverExpr(x.Payload, addRoot)
		if err != nil {
			return nil, err
		}
		return &TagE{Base: x.Base, Label: x.Label, Payload: v}, nil

	case *DotE:
		o, err := s.discoverExpr(x.Obj, addRoot)
		if err != nil {
			return nil, err
		}
		return &DotE{Base: x.Base, Obj: o, Field: x.Field}, nil

	case *ActorDotE:
		a, err := s.discoverExpr(x.Actor, addRoot)
		if err != nil {
			return nil, err
		}
		return &ActorDotE{Base: x.Base, Actor: a, Field: x.Field}, nil

	case *ArrayE:
		elems, err := s.discoverExprs(x.Elems, addRoot)
		if err != nil {
			return nil, err
		}
		return &ArrayE{Base: x.Base, Mut: x.Mut, Elems: elems}, nil

	case *IdxE:
		arr, err := s.discoverExpr(x.Array, addRoot)
		if err != nil {
			return nil, err
		}
		idx, err := s.discoverExpr(x.Index, addRoot)
		if err != nil {
			return nil, err
		}
		return &IdxE{Base: x.Base, Array: arr, Index: idx}, nil

	case *FuncE:
		body, err := s.discoverExpr(x.Body, addRoot)
		if err != nil {
			return nil, err
		}
		return &FuncE{Base: x.Base, Name: x.Name, FnType: x.FnType, Params: x.Params, Body: body}, nil

	case *CallE:
		fn, err := s.discoverExpr(x.Func, addRoot)
		if err != nil {
			return nil, err
		}
		args, err := s.discoverExprs(x.Args, addRoot)
		if err != nil {
			return nil, err
		}
		return &CallE{Base: x.Base, Func: fn, TypeArgs: x.TypeArgs, Args: args}, nil

	case *SelfCallE:
		args, err := s.discoverExprs(x.Args, addRoot)
		if err != nil {
			return nil, err
		}
		return &SelfCallE{Base: x.Base, Method: x.Method, Args: args}, nil

	case *BlockE:
		decls, err := s.discoverDecls(x.Decls, addRoot)
		if err != nil {
			return nil, err
		}
		result, err := s.discoverExpr(x.Result, addRoot)
		if err != nil {
			return nil, err
		}
		return &BlockE{Base: x.Base, Decls: decls, Result: result}, nil

	case *IfE:
		c, err := s.discoverExpr(x.Cond, addRoot)
		if err != nil {
			return nil, err
		}
		t, err := s.discoverExpr(x.Then, addRoot)
		if err != nil {
			return nil, err
		}
		el, err := s.discoverExpr(x.Else, addRoot)
		if err != nil {
			return nil, err
		}
		return &IfE{Base: x.Base, Cond: c, Then: t, Else: el}, nil

	case *SwitchE:
		scrut, err := s.discoverExpr(x.Scrutinee, addRoot)
		if err != nil {
			return nil, err
		}
		arms := make([]MatchArm, len(x.Arms))
		for i, a := range x.Arms {
			b, err := s.discoverExpr(a.Body, addRoot)
			if err != nil {
				return nil, err
			}
			arms[i] = MatchArm{Pattern: a.Pattern, Body: b}
		}
		return &SwitchE{Base: x.Base, Scrutinee: scrut, Arms: arms}, nil

	case *LoopE:
		body, err := s.discoverExpr(x.Body, addRoot)
		if err != nil {
			return nil, err
		}
		return &LoopE{Base: x.Base, Body: body}, nil

	case *LabelE:
		body, err := s.discoverExpr(x.Body, addRoot)
		if err != nil {
			return nil, err
		}
		return &LabelE{Base: x.Base, Label: x.Label, Body: body}, nil

	case *BreakE:
		v, err := s.discoverExpr(x.Value, addRoot)
		if err != nil {
			return nil, err
		}
		return &BreakE{Base: x.Base, Label: x.Label, Value: v}, nil

	case *RetE:
		v, err := s.discoverExpr(x.Value, addRoot)
		if err != nil {
			return nil, err
		}
		return &RetE{Base: x.Base, Value: v}, nil

	case *ThrowE:
		v, err := s.discoverExpr(x.Value, addRoot)
		if err != nil {
			return nil, err
		}
		return &ThrowE{Base: x.Base, Value: v}, nil

	case *TryE:
		body, err := s.discoverExpr(x.Body, addRoot)
		if err != nil {
			return nil, err
		}
		handles := make([]CatchArm, len(x.Handles))
		for i, h := range x.Handles {
			b, err := s.discoverExpr(h.Body, addRoot)
			if err != nil {
				return nil, err
			}
			handles[i] = CatchArm{Pattern: h.Pattern, Body: b}
		}
		return &TryE{Base: x.Base, Body: body, Handles: handles}, nil

	case *AwaitE:
		f, err := s.discoverExpr(x.Future, addRoot)
		if err != nil {
			return nil, err
		}
		return &AwaitE{Base: x.Base, Future: f}, nil

	case *AsyncE:
		body, err := s.discoverExpr(x.Body, addRoot)
		if err != nil {
			return nil, err
		}
		return &AsyncE{Base: x.Base, Body: body}, nil

	case *AssertE:
		c, err := s.discoverExpr(x.Cond, addRoot)
		if err != nil {
			return nil, err
		}
		return &AssertE{Base: x.Base, Cond: c}, nil

	case *DefineE:
		t, err := s.discoverExpr(x.Target, addRoot)
		if err != nil {
			return nil, err
		}
		v, err := s.discoverExpr(x.Value, addRoot)
		if err != nil {
			return nil, err
		}
		return &DefineE{Base: x.Base, Target: t, Value: v}, nil

	case *NewObjE:
		fields := make([]ObjField, len(x.Fields))
		for i, f := range x.Fields {
			cell, err := s.discoverExpr(f.Cell, addRoot)
			if err != nil {
				return nil, err
			}
			fields[i] = ObjField{Name: f.Name, Cell: cell}
		}
		return &NewObjE{Base: x.Base, Sort: x.Sort, Fields: fields}, nil

	default:
		return nil, irerr.New(irerr.SHOW001, "unrecognised expression shape in show discovery", e.Span())
	}
}
