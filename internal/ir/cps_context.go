package ir

import (
	"github.com/sunholo/actorc/internal/ast"
	"github.com/sunholo/actorc/internal/irerr"
	"github.com/sunholo/actorc/internal/types"
)

// Kont is a kontinuation (§4.3): either a reified function value (ContVar)
// or a meta-level translation-time closure (MetaCont) that inlines at its
// call site and must be consumed exactly once.
type Kont interface {
	apply(v Expr) (Expr, error)
}

// ContVar is a continuation already reified as a named function value of
// type cont(T); applying it builds a call.
type ContVar struct {
	Name   string
	FnType *types.FuncT
}

func (k *ContVar) apply(v Expr) (Expr, error) {
	fn := &VarE{Base: Base{Ty: k.FnType, Effect: Triv}, Name: k.Name}
	return &CallE{Base: Base{Ty: Unit, Effect: Triv}, Func: fn, Args: []Expr{v}}, nil
}

// MetaCont is a single-use translation-time continuation: applying it
// invokes F to build the consumer expression inline, avoiding the
// function abstraction a ContVar would force. Reusing one after it has
// been applied is an internal error (CPS004); letcont reifies a MetaCont
// into a ContVar whenever the surrounding translation needs to invoke it
// more than once (e.g. both arms of an `if`).
type MetaCont struct {
	T    types.Type
	F    func(Expr) (Expr, error)
	used bool
}

func (k *MetaCont) apply(v Expr) (Expr, error) {
	if k.used {
		return nil, irerr.New(irerr.CPS004, "MetaCont consumed more than once", ast.Pos{})
	}
	k.used = true
	return k.F(v)
}

// LoopCont is the continuation a translated loop body calls to start the
// next iteration; it ignores its argument (loop bodies are statements)
// and takes no value itself — LoopE's own outer continuation, per §4.3,
// is never invoked, since an unconditional loop only ends via a break to
// an enclosing label.
type LoopCont struct {
	Name   string
	FnType *types.FuncT
}

func (k *LoopCont) apply(Expr) (Expr, error) {
	fn := &VarE{Base: Base{Ty: k.FnType, Effect: Triv}, Name: k.Name}
	return &CallE{Base: Base{Ty: Unit, Effect: Triv}, Func: fn, Args: nil}, nil
}

// NativeReturn is the Return binding at an ordinary (non-async) function
// boundary: it does not call anywhere, it builds a plain RetE, the
// direct-style return the code generator still expects from a
// synchronous function body (§9 Design Note resolving the RetE/BreakE
// elimination scope: only async-block returns become continuation
// calls — a bare function's own `return` stays a return).
type NativeReturn struct{}

func (*NativeReturn) apply(v Expr) (Expr, error) {
	return &RetE{Base: Base{Ty: Unit, Effect: Triv}, Value: v}, nil
}

// LabelEnv is the context of §4.3/§9: Return, Throw, and named-label
// bindings, threaded explicitly rather than through ambient/global
// state. Lookups walk the parent chain; a binding set at one level masks
// the same binding from an enclosing level (AsyncE resets both Return
// and Throw; TryE rebinds only Throw; LabelE only adds a Named entry).
type LabelEnv struct {
	parent    *LabelEnv
	ret       Kont
	thr       Kont
	namedName string
	namedK    Kont
}

func (e *LabelEnv) Return() Kont {
	for c := e; c != nil; c = c.parent {
		if c.ret != nil {
			return c.ret
		}
	}
	return nil
}

func (e *LabelEnv) Throw() Kont {
	for c := e; c != nil; c = c.parent {
		if c.thr != nil {
			return c.thr
		}
	}
	return nil
}

func (e *LabelEnv) Named(id string) Kont {
	for c := e; c != nil; c = c.parent {
		if c.namedName == id {
			return c.namedK
		}
	}
	return nil
}

func (e *LabelEnv) withReturnThrow(ret, thr Kont) *LabelEnv {
	return &LabelEnv{parent: e, ret: ret, thr: thr}
}

func (e *LabelEnv) withThrow(thr Kont) *LabelEnv {
	return &LabelEnv{parent: e, thr: thr}
}

func (e *LabelEnv) withNamed(id string, k Kont) *LabelEnv {
	return &LabelEnv{parent: e, namedName: id, namedK: k}
}
