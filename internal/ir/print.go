package ir

import (
	"fmt"
	"strings"
)

// Pretty implements the S-expression dump every node supports (§6); its
// output is not semantically significant but is used verbatim by golden
// test fixtures, so once a shape is chosen here it must not change casually.

func sexp(tag string, parts ...string) string {
	if len(parts) == 0 {
		return "(" + tag + ")"
	}
	return "(" + tag + " " + strings.Join(parts, " ") + ")"
}

func prettyExprs(es []Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.Pretty()
	}
	return strings.Join(parts, " ")
}

func (e *VarE) Pretty() string { return e.Name }

func (e *LitE) Pretty() string { return fmt.Sprintf("%v", e.Value) }

func (e *PrimE) Pretty() string {
	if e.Prim == PrimShow && e.ShowType != nil {
		return sexp("prim:"+e.Prim.String(), e.ShowType.String(), prettyExprs(e.Args))
	}
	return sexp("prim:"+e.Prim.String(), prettyExprs(e.Args))
}

func (e *TupE) Pretty() string { return sexp("tup", prettyExprs(e.Elems)) }

func (e *ProjE) Pretty() string { return sexp("proj", e.Tuple.Pretty(), fmt.Sprint(e.Index)) }

func (e *OptE) Pretty() string {
	if e.Value == nil {
		return "(none)"
	}
	return sexp("some", e.Value.Pretty())
}

func (e *TagE) Pretty() string {
	if e.Payload == nil {
		return sexp("tag", "#"+e.Label)
	}
	return sexp("tag", "#"+e.Label, e.Payload.Pretty())
}

func (e *DotE) Pretty() string { return sexp("dot", e.Obj.Pretty(), e.Field) }

func (e *ActorDotE) Pretty() string { return sexp("actor-dot", e.Actor.Pretty(), e.Field) }

func (e *ArrayE) Pretty() string {
	if e.Mut {
		return sexp("array-mut", prettyExprs(e.Elems))
	}
	return sexp("array", prettyExprs(e.Elems))
}

func (e *IdxE) Pretty() string { return sexp("idx", e.Array.Pretty(), e.Index.Pretty()) }

func (e *FuncE) Pretty() string {
	params := make([]string, len(e.Params))
	for i, p := range e.Params {
		params[i] = p.Pattern.Pretty()
	}
	name := e.Name
	if name == "" {
		name = "_"
	}
	return sexp("func", name, "("+strings.Join(params, " ")+")", e.Body.Pretty())
}

func (e *CallE) Pretty() string { return sexp("call", e.Func.Pretty(), prettyExprs(e.Args)) }

func (e *SelfCallE) Pretty() string { return sexp("self-call", e.Method, prettyExprs(e.Args)) }

func (e *BlockE) Pretty() string {
	parts := make([]string, len(e.Decls))
	for i, d := range e.Decls {
		parts[i] = d.Pretty()
	}
	parts = append(parts, e.Result.Pretty())
	return sexp("block", parts...)
}

func (e *IfE) Pretty() string {
	return sexp("if", e.Cond.Pretty(), e.Then.Pretty(), e.Else.Pretty())
}

func (e *SwitchE) Pretty() string {
	parts := []string{e.Scrutinee.Pretty()}
	for _, arm := range e.Arms {
		parts = append(parts, sexp("arm", arm.Pattern.Pretty(), arm.Body.Pretty()))
	}
	return sexp("switch", parts...)
}

func (e *LoopE) Pretty() string { return sexp("loop", e.Body.Pretty()) }

func (e *LabelE) Pretty() string { return sexp("label", e.Label, e.Body.Pretty()) }

func (e *BreakE) Pretty() string { return sexp("break", e.Label, e.Value.Pretty()) }

func (e *RetE) Pretty() string { return sexp("ret", e.Value.Pretty()) }

func (e *ThrowE) Pretty() string { return sexp("throw", e.Value.Pretty()) }

func (e *TryE) Pretty() string {
	parts := []string{e.Body.Pretty()}
	for _, h := range e.Handles {
		parts = append(parts, sexp("catch", h.Pattern.Pretty(), h.Body.Pretty()))
	}
	return sexp("try", parts...)
}

func (e *AwaitE) Pretty() string { return sexp("await", e.Future.Pretty()) }

func (e *AsyncE) Pretty() string { return sexp("async", e.Body.Pretty()) }

func (e *AssertE) Pretty() string { return sexp("assert", e.Cond.Pretty()) }

func (e *DeclareE) Pretty() string { return sexp("declare", e.Name) }

func (e *DefineE) Pretty() string { return sexp("define", e.Target.Pretty(), e.Value.Pretty()) }

func (e *NewObjE) Pretty() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = sexp("field", f.Name, f.Cell.Pretty())
	}
	return sexp("new-obj", parts...)
}

// ---- Patterns ----

func (p *WildP) Pretty() string { return "_" }
func (p *VarP) Pretty() string  { return p.Name }
func (p *LitP) Pretty() string  { return fmt.Sprintf("%v", p.Value) }
func (p *TupP) Pretty() string {
	parts := make([]string, len(p.Elems))
	for i, e := range p.Elems {
		parts[i] = e.Pretty()
	}
	return sexp("tup-p", parts...)
}
func (p *ObjP) Pretty() string {
	parts := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		parts[i] = sexp("field-p", f.Name, f.Pattern.Pretty())
	}
	return sexp("obj-p", parts...)
}
func (p *OptP) Pretty() string {
	if p.Inner == nil {
		return "(none-p)"
	}
	return sexp("some-p", p.Inner.Pretty())
}
func (p *TagP) Pretty() string {
	if p.Inner == nil {
		return sexp("tag-p", "#"+p.Label)
	}
	return sexp("tag-p", "#"+p.Label, p.Inner.Pretty())
}
func (p *AltP) Pretty() string { return sexp("alt-p", p.Left.Pretty(), p.Right.Pretty()) }

// ---- Decls ----

func (d *LetD) Pretty() string { return sexp("let", d.Pattern.Pretty(), d.Value.Pretty()) }
func (d *VarD) Pretty() string { return sexp("var", d.Name, d.Value.Pretty()) }
func (d *TypD) Pretty() string { return sexp("type", d.Name, d.Body.String()) }

// PrettyProgram renders a full program as a single S-expression.
func PrettyProgram(p *Program) string {
	parts := make([]string, 0, len(p.Decls)+1)
	for _, d := range p.Decls {
		parts = append(parts, d.Pretty())
	}
	parts = append(parts, p.Body.Pretty())
	return sexp("program", parts...)
}
