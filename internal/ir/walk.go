package ir

// anyExpr reports whether pred holds for e or any of its sub-expressions,
// short-circuiting on the first match. Used by pipeline.go's postcondition
// checks (§4.5, §8 Invariants) to confirm a pass actually removed what its
// contract says it removes, rather than trusting the pass's return value
// alone.
func anyExpr(e Expr, pred func(Expr) bool) bool {
	if e == nil {
		return false
	}
	if pred(e) {
		return true
	}
	switch x := e.(type) {
	case *VarE, *LitE, *DeclareE:
		return false
	case *PrimE:
		return anyExprs(x.Args, pred)
	case *TupE:
		return anyExprs(x.Elems, pred)
	case *ProjE:
		return anyExpr(x.Tuple, pred)
	case *OptE:
		return anyExpr(x.Value, pred)
	case *TagE:
		return anyExpr(x.Payload, pred)
	case *DotE:
		return anyExpr(x.Obj, pred)
	case *ActorDotE:
		return anyExpr(x.Actor, pred)
	case *ArrayE:
		return anyExprs(x.Elems, pred)
	case *IdxE:
		return anyExpr(x.Array, pred) || anyExpr(x.Index, pred)
	case *FuncE:
		return anyExpr(x.Body, pred)
	case *CallE:
		return anyExpr(x.Func, pred) || anyExprs(x.Args, pred)
	case *SelfCallE:
		return anyExprs(x.Args, pred)
	case *BlockE:
		return anyDecls(x.Decls, pred) || anyExpr(x.Result, pred)
	case *IfE:
		return anyExpr(x.Cond, pred) || anyExpr(x.Then, pred) || anyExpr(x.Else, pred)
	case *SwitchE:
		if anyExpr(x.Scrutinee, pred) {
			return true
		}
		for _, a := range x.Arms {
			if anyExpr(a.Body, pred) {
				return true
			}
		}
		return false
	case *LoopE:
		return anyExpr(x.Body, pred)
	case *LabelE:
		return anyExpr(x.Body, pred)
	case *BreakE:
		return anyExpr(x.Value, pred)
	case *RetE:
		return anyExpr(x.Value, pred)
	case *ThrowE:
		return anyExpr(x.Value, pred)
	case *TryE:
		if anyExpr(x.Body, pred) {
			return true
		}
		for _, h := range x.Handles {
			if anyExpr(h.Body, pred) {
				return true
			}
		}
		return false
	case *AwaitE:
		return anyExpr(x.Future, pred)
	case *AsyncE:
		return anyExpr(x.Body, pred)
	case *AssertE:
		return anyExpr(x.Cond, pred)
	case *DefineE:
		return anyExpr(x.Target, pred) || anyExpr(x.Value, pred)
	case *NewObjE:
		for _, f := range x.Fields {
			if anyExpr(f.Cell, pred) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func anyExprs(es []Expr, pred func(Expr) bool) bool {
	for _, e := range es {
		if anyExpr(e, pred) {
			return true
		}
	}
	return false
}

func anyDecls(decls []Decl, pred func(Expr) bool) bool {
	for _, d := range decls {
		switch x := d.(type) {
		case *LetD:
			if anyExpr(x.Value, pred) {
				return true
			}
		case *VarD:
			if anyExpr(x.Value, pred) {
				return true
			}
		}
	}
	return false
}

// anyInProgram reports whether pred holds anywhere in p.
func anyInProgram(p *Program, pred func(Expr) bool) bool {
	return anyDecls(p.Decls, pred) || anyExpr(p.Body, pred)
}

func isShowPrim(e Expr) bool {
	p, ok := e.(*PrimE)
	return ok && p.Prim == PrimShow
}

func isAwaitConstruct(e Expr) bool {
	switch e.(type) {
	case *AsyncE, *AwaitE, *ThrowE, *TryE:
		return true
	default:
		return false
	}
}
