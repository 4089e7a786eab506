// Package ir implements the typed intermediate representation and its
// source-to-source lowering passes: alpha-renaming, the await/async CPS
// transform, and show desugaring (§3-4 of the middle-end specification).
// Every expression node carries its value type and its effect as
// invariant annotations (Invariant 1); the passes in this package exist
// to rewrite the tree while preserving or monotonically lowering those
// annotations (Invariant 4).
package ir

import (
	"fmt"

	"github.com/sunholo/actorc/internal/ast"
	"github.com/sunholo/actorc/internal/types"
)

// Base is embedded in every Expr node. It is grounded on the teacher's
// CoreNode (NodeID/CoreSpan/OrigSpan), extended with the Ty/Effect fields
// that the teacher splits into a separate TypedExpr layer — the
// specification's IR is single-layered, so the annotations live directly
// on the node, set once at construction by the functions in build.go and
// never mutated afterward.
type Base struct {
	NodeID   uint64
	Ty       types.Type
	Effect   Effect
	CoreSpan ast.Pos
	OrigSpan ast.Pos
}

func (b Base) ID() uint64         { return b.NodeID }
func (b Base) Type() types.Type   { return b.Ty }
func (b Base) Eff() Effect        { return b.Effect }
func (b Base) Span() ast.Pos      { return b.CoreSpan }
func (b Base) Original() ast.Pos  { return b.OrigSpan }

// Expr is the interface implemented by every IR expression node.
type Expr interface {
	ID() uint64
	Type() types.Type
	Eff() Effect
	Span() ast.Pos
	Original() ast.Pos
	Pretty() string
	exprNode()
}

// ---- Atomic expressions ----

// VarE is a variable reference.
type VarE struct {
	Base
	Name string
}

func (*VarE) exprNode() {}

// LitKind enumerates the IR literal forms of §3.
type LitKind int

const (
	LitNull LitKind = iota
	LitBool
	LitNat   // unbounded Nat
	LitInt   // unbounded Int
	LitNat8
	LitNat16
	LitNat32
	LitNat64
	LitInt8
	LitInt16
	LitInt32
	LitInt64
	LitFloat
	LitChar
	LitText
)

// LitE is a literal value.
type LitE struct {
	Base
	Kind  LitKind
	Value interface{}
}

func (*LitE) exprNode() {}

// PrimE is a primitive application, PrimE(p, [e]) of §3. ShowType is only
// meaningful when Prim == PrimShow, holding the normalised type to render;
// it is unused (nil) for every other primitive.
type PrimE struct {
	Base
	Prim     Prim
	Args     []Expr
	ShowType types.Type
}

func (*PrimE) exprNode() {}

// ---- Tuples, options, variants ----

// TupE constructs a tuple.
type TupE struct {
	Base
	Elems []Expr
}

func (*TupE) exprNode() {}

// ProjE projects a fixed tuple index.
type ProjE struct {
	Base
	Tuple Expr
	Index int
}

func (*ProjE) exprNode() {}

// OptE injects into an option (Value == nil means the None alternative).
type OptE struct {
	Base
	Value Expr
}

func (*OptE) exprNode() {}

// TagE introduces a variant alternative.
type TagE struct {
	Base
	Label   string
	Payload Expr // nil for a label with no payload
}

func (*TagE) exprNode() {}

// ---- Field and array access ----

// DotE is field access on a plain object.
type DotE struct {
	Base
	Obj   Expr
	Field string
}

func (*DotE) exprNode() {}

// ActorDotE is field access on an actor (kept distinct from DotE per §3,
// since an actor member reference may additionally require IC-call
// lowering downstream; the await-lowering pass in cps.go treats the two
// forms identically).
type ActorDotE struct {
	Base
	Actor Expr
	Field string
}

func (*ActorDotE) exprNode() {}

// ArrayE constructs an array with a mutability tag.
type ArrayE struct {
	Base
	Mut   bool
	Elems []Expr
}

func (*ArrayE) exprNode() {}

// IdxE is array indexed access.
type IdxE struct {
	Base
	Array Expr
	Index Expr
}

func (*IdxE) exprNode() {}

// ---- Functions and calls ----

// Param is a function parameter: a pattern plus its type.
type Param struct {
	Pattern Pattern
	Type    types.Type
}

// FuncE is a function literal.
type FuncE struct {
	Base
	Name    string // empty for an anonymous lambda
	FnType  *types.FuncT
	Params  []Param
	Body    Expr
}

func (*FuncE) exprNode() {}

// CallE applies a type instantiation and an argument list.
type CallE struct {
	Base
	Func     Expr
	TypeArgs []types.Type
	Args     []Expr
}

func (*CallE) exprNode() {}

// SelfCallE is the self-invocation primitive consumed by the code
// generator; per the Open Question in §9 the middle-end treats it as
// opaque and never introduces or eliminates it — await-lowering rejects
// it as an ICE (CPS002) if it reaches that pass.
type SelfCallE struct {
	Base
	Method string
	Args   []Expr
}

func (*SelfCallE) exprNode() {}

// ---- Structured control flow ----

// BlockE is declarations followed by a result expression.
type BlockE struct {
	Base
	Decls  []Decl
	Result Expr
}

func (*BlockE) exprNode() {}

// IfE is a conditional.
type IfE struct {
	Base
	Cond Expr
	Then Expr
	Else Expr
}

func (*IfE) exprNode() {}

// MatchArm is one arm of a SwitchE.
type MatchArm struct {
	Pattern Pattern
	Body    Expr
}

// SwitchE is pattern-match branching, used for both switch_opt and
// switch_variant from the construction algebra (§4.1): both build this one
// node shape, differing only in the pattern kinds their arms use.
type SwitchE struct {
	Base
	Scrutinee Expr
	Arms      []MatchArm
}

func (*SwitchE) exprNode() {}

// LoopE is an unconditional loop.
type LoopE struct {
	Base
	Body Expr
}

func (*LoopE) exprNode() {}

// LabelE names an expression with a label that BreakE can target.
type LabelE struct {
	Base
	Label string
	Body  Expr
}

func (*LabelE) exprNode() {}

// BreakE breaks to a label with a value.
type BreakE struct {
	Base
	Label string
	Value Expr
}

func (*BreakE) exprNode() {}

// RetE returns a value from the enclosing function/async block.
type RetE struct {
	Base
	Value Expr
}

func (*RetE) exprNode() {}

// ---- Exceptions and suspension ----

// ThrowE throws a value of type Error.
type ThrowE struct {
	Base
	Value Expr
}

func (*ThrowE) exprNode() {}

// CatchArm is one pattern-matched handler of a TryE.
type CatchArm struct {
	Pattern Pattern
	Body    Expr
}

// TryE evaluates Body, dispatching a thrown error to the first matching
// handler.
type TryE struct {
	Base
	Body    Expr
	Handles []CatchArm
}

func (*TryE) exprNode() {}

// AwaitE suspends until the future e resolves.
type AwaitE struct {
	Base
	Future Expr
}

func (*AwaitE) exprNode() {}

// AsyncE allocates a future by running Body, whose Return/Throw resolve it.
type AsyncE struct {
	Base
	Body Expr
}

func (*AsyncE) exprNode() {}

// ---- Misc ----

// AssertE asserts a boolean condition.
type AssertE struct {
	Base
	Cond Expr
}

func (*AssertE) exprNode() {}

// DeclareE introduces an identifier with a mutable-cell type, initially
// empty; the companion DefineE populates it. Always produced in pairs by
// the CPS pass's block translation (§4.3).
type DeclareE struct {
	Base
	Name     string
	CellType types.Type // the *contained* type; Base.Ty is MutT{CellType}
}

func (*DeclareE) exprNode() {}
func (*DeclareE) declNode() {}

// DefineE assigns into a cell previously introduced by DeclareE.
type DefineE struct {
	Base
	Target Expr // a VarE naming a declared cell, or a field/index target
	Value  Expr
}

func (*DefineE) exprNode() {}
func (*DefineE) declNode() {}

// ObjField is one field of a NewObjE.
type ObjField struct {
	Name string
	Cell Expr // a VarE referring to a pre-declared cell
}

// NewObjE assembles a record from a pre-declared set of named cells.
type NewObjE struct {
	Base
	Sort   types.ObjSort
	Fields []ObjField
}

func (*NewObjE) exprNode() {}

func fmtSpan(p ast.Pos) string {
	if p.IsZero() {
		return ""
	}
	return fmt.Sprintf(" @%s", p)
}
