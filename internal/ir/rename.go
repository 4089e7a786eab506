package ir

import (
	"github.com/sunholo/actorc/internal/ast"
	"github.com/sunholo/actorc/internal/irerr"
)

// Renamer implements the alpha-renaming pass of §4.2: it rewrites a program
// so that every binder is globally unique, leaving structure, types, and
// effects untouched. It shares a FreshGen with the rest of the
// compilation (construction algebra, CPS pass) so names never collide
// across passes.
type Renamer struct {
	Fresh *FreshGen
}

func NewRenamer(fresh *FreshGen) *Renamer {
	return &Renamer{Fresh: fresh}
}

// renameEnv is ρ: two chained namespaces, one for term variables and one
// for labels (LabelE/BreakE), since the two never collide.
type renameEnv struct {
	parent *renameEnv
	vars   map[string]string
	labels map[string]string
}

func newRenameEnv() *renameEnv {
	return &renameEnv{vars: map[string]string{}, labels: map[string]string{}}
}

func (e *renameEnv) child() *renameEnv {
	return &renameEnv{parent: e, vars: map[string]string{}, labels: map[string]string{}}
}

func (e *renameEnv) lookupVar(name string) (string, bool) {
	for r := e; r != nil; r = r.parent {
		if v, ok := r.vars[name]; ok {
			return v, true
		}
	}
	return "", false
}

func (e *renameEnv) lookupLabel(name string) (string, bool) {
	for r := e; r != nil; r = r.parent {
		if v, ok := r.labels[name]; ok {
			return v, true
		}
	}
	return "", false
}

// RenameProgram renames every binder in p, top to bottom, treating the
// top-level declaration list as one mutually-recursive group (§4.2).
func (r *Renamer) RenameProgram(p *Program) (*Program, error) {
	env := newRenameEnv()
	decls, child, err := r.renameDecls(p.Decls, env)
	if err != nil {
		return nil, err
	}
	body, err := r.renameExpr(p.Body, child)
	if err != nil {
		return nil, err
	}
	return &Program{Decls: decls, Body: body}, nil
}

// renameDecls implements the two-pass scheme: pass 1 fresh-binds every
// LetD/VarD pattern into a child scope (so mutually-recursive right-hand
// sides can see all sibling binders), pass 2 rewrites each value under
// that fully-populated scope. TypD names are never renamed (iii).
func (r *Renamer) renameDecls(decls []Decl, env *renameEnv) ([]Decl, *renameEnv, error) {
	child := env.child()
	out := make([]Decl, len(decls))

	for i, d := range decls {
		switch x := d.(type) {
		case *TypD:
			out[i] = x
		case *LetD:
			pat, err := r.freshBindPattern(x.Pattern, child)
			if err != nil {
				return nil, nil, err
			}
			out[i] = &LetD{Pattern: pat}
		case *VarD:
			if _, exists := child.vars[x.Name]; exists {
				return nil, nil, irerr.New(irerr.RENAME003, "duplicate binder within one declaration group", ast.Pos{}).WithData("name", x.Name)
			}
			fresh := r.Fresh.Fresh(x.Name)
			child.vars[x.Name] = fresh
			out[i] = &VarD{Name: fresh}
		default:
			return nil, nil, irerr.New(irerr.RENAME003, "unrecognised declaration shape", ast.Pos{})
		}
	}

	for i, d := range decls {
		switch x := d.(type) {
		case *LetD:
			v, err := r.renameExpr(x.Value, child)
			if err != nil {
				return nil, nil, err
			}
			out[i].(*LetD).Value = v
		case *VarD:
			v, err := r.renameExpr(x.Value, child)
			if err != nil {
				return nil, nil, err
			}
			out[i].(*VarD).Value = v
		}
	}

	return out, child, nil
}

// freshBindPattern walks p, generating a fresh name for every VarP binder
// and extending env in place, returning the pattern rebuilt with fresh
// names. AltP is asserted variable-free (RENAME001) rather than bound.
func (r *Renamer) freshBindPattern(p Pattern, env *renameEnv) (Pattern, error) {
	switch x := p.(type) {
	case *WildP:
		return x, nil
	case *VarP:
		if _, exists := env.vars[x.Name]; exists {
			return nil, irerr.New(irerr.RENAME003, "duplicate binder within one declaration group", ast.Pos{}).WithData("name", x.Name)
		}
		fresh := r.Fresh.Fresh(x.Name)
		env.vars[x.Name] = fresh
		return &VarP{Name: fresh, Ty: x.Ty}, nil
	case *LitP:
		return x, nil
	case *TupP:
		elems := make([]Pattern, len(x.Elems))
		for i, e := range x.Elems {
			ne, err := r.freshBindPattern(e, env)
			if err != nil {
				return nil, err
			}
			elems[i] = ne
		}
		return &TupP{Elems: elems, Ty: x.Ty}, nil
	case *ObjP:
		fields := make([]FieldPat, len(x.Fields))
		for i, f := range x.Fields {
			np, err := r.freshBindPattern(f.Pattern, env)
			if err != nil {
				return nil, err
			}
			fields[i] = FieldPat{Name: f.Name, Pattern: np}
		}
		return &ObjP{Fields: fields, Ty: x.Ty}, nil
	case *OptP:
		if x.Inner == nil {
			return x, nil
		}
		inner, err := r.freshBindPattern(x.Inner, env)
		if err != nil {
			return nil, err
		}
		return &OptP{Inner: inner, Ty: x.Ty}, nil
	case *TagP:
		if x.Inner == nil {
			return x, nil
		}
		inner, err := r.freshBindPattern(x.Inner, env)
		if err != nil {
			return nil, err
		}
		return &TagP{Label: x.Label, Inner: inner, Ty: x.Ty}, nil
	case *AltP:
		if !IsVarFree(x.Left) || !IsVarFree(x.Right) {
			return nil, irerr.New(irerr.RENAME001, "AltP alternative contains a variable binder", ast.Pos{})
		}
		return x, nil
	default:
		return nil, irerr.New(irerr.RENAME001, "unrecognised pattern shape", ast.Pos{})
	}
}

// renameExpr rewrites e under env, resolving every VarE/BreakE use against
// the binder ρ maps and extending ρ for every binder-introducing form.
func (r *Renamer) renameExpr(e Expr, env *renameEnv) (Expr, error) {
	switch x := e.(type) {
	case *VarE:
		fresh, ok := env.lookupVar(x.Name)
		if !ok {
			return nil, irerr.New(irerr.RENAME002, "use of a name with no binder in scope", x.Span()).WithData("name", x.Name)
		}
		return &VarE{Base: x.Base, Name: fresh}, nil

	case *LitE:
		return x, nil

	case *PrimE:
		args, err := r.renameExprs(x.Args, env)
		if err != nil {
			return nil, err
		}
		return &PrimE{Base: x.Base, Prim: x.Prim, Args: args, ShowType: x.ShowType}, nil

	case *TupE:
		elems, err := r.renameExprs(x.Elems, env)
		if err != nil {
			return nil, err
		}
		return &TupE{Base: x.Base, Elems: elems}, nil

	case *ProjE:
		tup, err := r.renameExpr(x.Tuple, env)
		if err != nil {
			return nil, err
		}
		return &ProjE{Base: x.Base, Tuple: tup, Index: x.Index}, nil

	case *OptE:
		if x.Value == nil {
			return x, nil
		}
		v, err := r.renameExpr(x.Value, env)
		if err != nil {
			return nil, err
		}
		return &OptE{Base: x.Base, Value: v}, nil

	case *TagE:
		if x.Payload == nil {
			return x, nil
		}
		v, err := r.renameExpr(x.Payload, env)
		if err != nil {
			return nil, err
		}
		return &TagE{Base: x.Base, Label: x.Label, Payload: v}, nil

	case *DotE:
		obj, err := r.renameExpr(x.Obj, env)
		if err != nil {
			return nil, err
		}
		return &DotE{Base: x.Base, Obj: obj, Field: x.Field}, nil

	case *ActorDotE:
		actor, err := r.renameExpr(x.Actor, env)
		if err != nil {
			return nil, err
		}
		return &ActorDotE{Base: x.Base, Actor: actor, Field: x.Field}, nil

	case *ArrayE:
		elems, err := r.renameExprs(x.Elems, env)
		if err != nil {
			return nil, err
		}
		return &ArrayE{Base: x.Base, Mut: x.Mut, Elems: elems}, nil

	case *IdxE:
		arr, err := r.renameExpr(x.Array, env)
		if err != nil {
			return nil, err
		}
		idx, err := r.renameExpr(x.Index, env)
		if err != nil {
			return nil, err
		}
		return &IdxE{Base: x.Base, Array: arr, Index: idx}, nil

	case *FuncE:
		name := x.Name
		if name != "" {
			if fresh, ok := env.lookupVar(name); ok {
				name = fresh
			}
		}
		child := env.child()
		params := make([]Param, len(x.Params))
		for i, p := range x.Params {
			np, err := r.freshBindPattern(p.Pattern, child)
			if err != nil {
				return nil, err
			}
			params[i] = Param{Pattern: np, Type: p.Type}
		}
		body, err := r.renameExpr(x.Body, child)
		if err != nil {
			return nil, err
		}
		return &FuncE{Base: x.Base, Name: name, FnType: x.FnType, Params: params, Body: body}, nil

	case *CallE:
		fn, err := r.renameExpr(x.Func, env)
		if err != nil {
			return nil, err
		}
		args, err := r.renameExprs(x.Args, env)
		if err != nil {
			return nil, err
		}
		return &CallE{Base: x.Base, Func: fn, TypeArgs: x.TypeArgs, Args: args}, nil

	case *SelfCallE:
		args, err := r.renameExprs(x.Args, env)
		if err != nil {
			return nil, err
		}
		return &SelfCallE{Base: x.Base, Method: x.Method, Args: args}, nil

	case *BlockE:
		decls, child, err := r.renameDecls(x.Decls, env)
		if err != nil {
			return nil, err
		}
		result, err := r.renameExpr(x.Result, child)
		if err != nil {
			return nil, err
		}
		return &BlockE{Base: x.Base, Decls: decls, Result: result}, nil

	case *IfE:
		c, err := r.renameExpr(x.Cond, env)
		if err != nil {
			return nil, err
		}
		t, err := r.renameExpr(x.Then, env)
		if err != nil {
			return nil, err
		}
		el, err := r.renameExpr(x.Else, env)
		if err != nil {
			return nil, err
		}
		return &IfE{Base: x.Base, Cond: c, Then: t, Else: el}, nil

	case *SwitchE:
		scrut, err := r.renameExpr(x.Scrutinee, env)
		if err != nil {
			return nil, err
		}
		arms := make([]MatchArm, len(x.Arms))
		for i, a := range x.Arms {
			child := env.child()
			pat, err := r.freshBindPattern(a.Pattern, child)
			if err != nil {
				return nil, err
			}
			body, err := r.renameExpr(a.Body, child)
			if err != nil {
				return nil, err
			}
			arms[i] = MatchArm{Pattern: pat, Body: body}
		}
		return &SwitchE{Base: x.Base, Scrutinee: scrut, Arms: arms}, nil

	case *LoopE:
		body, err := r.renameExpr(x.Body, env)
		if err != nil {
			return nil, err
		}
		return &LoopE{Base: x.Base, Body: body}, nil

	case *LabelE:
		fresh := r.Fresh.Fresh(x.Label)
		child := env.child()
		child.labels[x.Label] = fresh
		body, err := r.renameExpr(x.Body, child)
		if err != nil {
			return nil, err
		}
		return &LabelE{Base: x.Base, Label: fresh, Body: body}, nil

	case *BreakE:
		fresh, ok := env.lookupLabel(x.Label)
		if !ok {
			return nil, irerr.New(irerr.RENAME002, "break to a label with no binder in scope", x.Span()).WithData("label", x.Label)
		}
		val, err := r.renameExpr(x.Value, env)
		if err != nil {
			return nil, err
		}
		return &BreakE{Base: x.Base, Label: fresh, Value: val}, nil

	case *RetE:
		v, err := r.renameExpr(x.Value, env)
		if err != nil {
			return nil, err
		}
		return &RetE{Base: x.Base, Value: v}, nil

	case *ThrowE:
		v, err := r.renameExpr(x.Value, env)
		if err != nil {
			return nil, err
		}
		return &ThrowE{Base: x.Base, Value: v}, nil

	case *TryE:
		body, err := r.renameExpr(x.Body, env)
		if err != nil {
			return nil, err
		}
		handles := make([]CatchArm, len(x.Handles))
		for i, h := range x.Handles {
			child := env.child()
			pat, err := r.freshBindPattern(h.Pattern, child)
			if err != nil {
				return nil, err
			}
			hbody, err := r.renameExpr(h.Body, child)
			if err != nil {
				return nil, err
			}
			handles[i] = CatchArm{Pattern: pat, Body: hbody}
		}
		return &TryE{Base: x.Base, Body: body, Handles: handles}, nil

	case *AwaitE:
		f, err := r.renameExpr(x.Future, env)
		if err != nil {
			return nil, err
		}
		return &AwaitE{Base: x.Base, Future: f}, nil

	case *AsyncE:
		body, err := r.renameExpr(x.Body, env)
		if err != nil {
			return nil, err
		}
		return &AsyncE{Base: x.Base, Body: body}, nil

	case *AssertE:
		c, err := r.renameExpr(x.Cond, env)
		if err != nil {
			return nil, err
		}
		return &AssertE{Base: x.Base, Cond: c}, nil

	case *DeclareE:
		fresh := r.Fresh.Fresh(x.Name)
		env.vars[x.Name] = fresh
		return &DeclareE{Base: x.Base, Name: fresh, CellType: x.CellType}, nil

	case *DefineE:
		target, err := r.renameExpr(x.Target, env)
		if err != nil {
			return nil, err
		}
		val, err := r.renameExpr(x.Value, env)
		if err != nil {
			return nil, err
		}
		return &DefineE{Base: x.Base, Target: target, Value: val}, nil

	case *NewObjE:
		fields := make([]ObjField, len(x.Fields))
		for i, f := range x.Fields {
			cell, err := r.renameExpr(f.Cell, env)
			if err != nil {
				return nil, err
			}
			fields[i] = ObjField{Name: f.Name, Cell: cell}
		}
		return &NewObjE{Base: x.Base, Sort: x.Sort, Fields: fields}, nil

	default:
		return nil, irerr.New(irerr.RENAME002, "unrecognised expression shape", e.Span())
	}
}

func (r *Renamer) renameExprs(es []Expr, env *renameEnv) ([]Expr, error) {
	out := make([]Expr, len(es))
	for i, e := range es {
		ne, err := r.renameExpr(e, env)
		if err != nil {
			return nil, err
		}
		out[i] = ne
	}
	return out, nil
}
