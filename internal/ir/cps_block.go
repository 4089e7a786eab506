package ir

import (
	"github.com/sunholo/actorc/internal/ast"
	"github.com/sunholo/actorc/internal/irerr"
	"github.com/sunholo/actorc/internal/types"
)

// splitDecls separates type declarations (no runtime effect, carried
// through untouched) from value declarations (LetD/VarD), preserving
// relative order within each group (§4.3 "Block translation").
func splitDecls(decls []Decl) (typeDecls []Decl, valueDecls []Decl) {
	for _, d := range decls {
		if _, ok := d.(*TypD); ok {
			typeDecls = append(typeDecls, d)
		} else {
			valueDecls = append(valueDecls, d)
		}
	}
	return
}

type namedType struct {
	Name string
	Ty   types.Type
}

func patternVarTypes(p Pattern) []namedType {
	var out []namedType
	var walk func(Pattern)
	walk = func(p Pattern) {
		switch x := p.(type) {
		case *VarP:
			out = append(out, namedType{x.Name, x.Ty})
		case *TupP:
			for _, e := range x.Elems {
				walk(e)
			}
		case *ObjP:
			for _, f := range x.Fields {
				walk(f.Pattern)
			}
		case *OptP:
			if x.Inner != nil {
				walk(x.Inner)
			}
		case *TagP:
			if x.Inner != nil {
				walk(x.Inner)
			}
		}
	}
	walk(p)
	return out
}

// declareCells builds one DeclareE per original binder a value
// declaration introduces, making every such name visible (as an empty
// mutable cell) across the whole translated block, including earlier
// continuation bodies — the precondition the rest of the block
// translation relies on.
func (c *CPS) declareCells(valueDecls []Decl) []Decl {
	var out []Decl
	for _, d := range valueDecls {
		switch x := d.(type) {
		case *LetD:
			for _, nt := range patternVarTypes(x.Pattern) {
				out = append(out, &DeclareE{Base: Base{Ty: &types.MutT{Elem: nt.Ty}, Effect: Triv}, Name: nt.Name, CellType: nt.Ty})
			}
		case *VarD:
			ty := x.Value.Type()
			out = append(out, &DeclareE{Base: Base{Ty: &types.MutT{Elem: ty}, Effect: Triv}, Name: x.Name, CellType: ty})
		}
	}
	return out
}

// freshenPattern produces a structurally identical copy of p with every
// VarP given a brand-new fresh name, used so a CPS'd initialiser that
// refers to itself across a suspension point never captures its own
// original binder (§4.3).
func (c *CPS) freshenPattern(p Pattern) (Pattern, error) {
	switch x := p.(type) {
	case *WildP:
		return x, nil
	case *VarP:
		return &VarP{Name: c.Fresh.Fresh(x.Name), Ty: x.Ty}, nil
	case *LitP:
		return x, nil
	case *TupP:
		elems := make([]Pattern, len(x.Elems))
		for i, e := range x.Elems {
			ne, err := c.freshenPattern(e)
			if err != nil {
				return nil, err
			}
			elems[i] = ne
		}
		return &TupP{Elems: elems, Ty: x.Ty}, nil
	case *ObjP:
		fields := make([]FieldPat, len(x.Fields))
		for i, f := range x.Fields {
			np, err := c.freshenPattern(f.Pattern)
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
		inner, err := c.freshenPattern(x.Inner)
		if err != nil {
			return nil, err
		}
		return &OptP{Inner: inner, Ty: x.Ty}, nil
	case *TagP:
		if x.Inner == nil {
			return x, nil
		}
		inner, err := c.freshenPattern(x.Inner)
		if err != nil {
			return nil, err
		}
		return &TagP{Label: x.Label, Inner: inner, Ty: x.Ty}, nil
	case *AltP:
		return x, nil
	default:
		return nil, irerr.New(irerr.CPS006, "unrecognised pattern shape in block translation", ast.Pos{})
	}
}

// defineEdges walks orig and its freshened twin in lockstep, returning
// one (original name, fresh name, type) triple per VarP binder.
func defineEdges(orig, fresh Pattern) []struct {
	Orig, Fresh string
	Ty          types.Type
} {
	var out []struct {
		Orig, Fresh string
		Ty          types.Type
	}
	var walk func(o, f Pattern)
	walk = func(o, f Pattern) {
		switch ox := o.(type) {
		case *VarP:
			fx := f.(*VarP)
			out = append(out, struct {
				Orig, Fresh string
				Ty          types.Type
			}{ox.Name, fx.Name, ox.Ty})
		case *TupP:
			fx := f.(*TupP)
			for i := range ox.Elems {
				walk(ox.Elems[i], fx.Elems[i])
			}
		case *ObjP:
			fx := f.(*ObjP)
			for i := range ox.Fields {
				walk(ox.Fields[i].Pattern, fx.Fields[i].Pattern)
			}
		case *OptP:
			if ox.Inner != nil {
				walk(ox.Inner, f.(*OptP).Inner)
			}
		case *TagP:
			if ox.Inner != nil {
				walk(ox.Inner, f.(*TagP).Inner)
			}
		}
	}
	walk(orig, fresh)
	return out
}

func (c *CPS) buildDefines(orig, fresh Pattern) []Decl {
	edges := defineEdges(orig, fresh)
	out := make([]Decl, len(edges))
	for i, e := range edges {
		out[i] = &DefineE{
			Base:   Base{Ty: Unit, Effect: Triv},
			Target: &VarE{Base: Base{Ty: e.Ty, Effect: Triv}, Name: e.Orig},
			Value:  &VarE{Base: Base{Ty: e.Ty, Effect: Triv}, Name: e.Fresh},
		}
	}
	return out
}

// transBlockCPS implements the block translation of §4.3: type decls pass
// through, every original value-decl binder is pre-declared as a mutable
// cell, and each LetD/VarD initialiser is CPS-translated in turn, with
// everything that follows (sibling decls and the result) built first so
// it can be spliced into the initialiser's continuation closure.
func (c *CPS) transBlockCPS(x *BlockE, ctx *LabelEnv, k Kont) (Expr, error) {
	typeDecls, valueDecls := splitDecls(x.Decls)
	cellDecls := c.declareCells(valueDecls)
	body, err := c.processValueDecls(valueDecls, x.Result, ctx, k)
	if err != nil {
		return nil, err
	}
	all := make([]Decl, 0, len(typeDecls)+len(cellDecls))
	all = append(all, typeDecls...)
	all = append(all, cellDecls...)
	return c.B.Block(all, body, ast.Pos{}), nil
}

func (c *CPS) processValueDecls(decls []Decl, result Expr, ctx *LabelEnv, k Kont) (Expr, error) {
	if len(decls) == 0 {
		return c.runWithKont(result, ctx, k)
	}
	d, rest := decls[0], decls[1:]

	switch x := d.(type) {
	case *LetD:
		restExpr, err := c.processValueDecls(rest, result, ctx, k)
		if err != nil {
			return nil, err
		}
		freshPat, err := c.freshenPattern(x.Pattern)
		if err != nil {
			return nil, err
		}
		defines := c.buildDefines(x.Pattern, freshPat)
		return c.runWithKont(x.Value, ctx, &MetaCont{T: x.Value.Type(), F: func(v Expr) (Expr, error) {
			letFresh := &LetD{Pattern: freshPat, Value: v}
			declsHere := append([]Decl{letFresh}, defines...)
			return c.B.Block(declsHere, restExpr, ast.Pos{}), nil
		}})

	case *VarD:
		restExpr, err := c.processValueDecls(rest, result, ctx, k)
		if err != nil {
			return nil, err
		}
		freshName := c.Fresh.Fresh(x.Name)
		return c.runWithKont(x.Value, ctx, &MetaCont{T: x.Value.Type(), F: func(v Expr) (Expr, error) {
			freshVarP := &VarP{Name: freshName, Ty: v.Type()}
			letFresh := &LetD{Pattern: freshVarP, Value: v}
			def := &DefineE{
				Base:   Base{Ty: Unit, Effect: Triv},
				Target: &VarE{Base: Base{Ty: v.Type(), Effect: Triv}, Name: x.Name},
				Value:  &VarE{Base: Base{Ty: v.Type(), Effect: Triv}, Name: freshName},
			}
			return c.B.Block([]Decl{letFresh, def}, restExpr, ast.Pos{}), nil
		}})

	default:
		return nil, irerr.New(irerr.CPS006, "unrecognised declaration shape in block translation", ast.Pos{})
	}
}
