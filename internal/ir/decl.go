package ir

import "github.com/sunholo/actorc/internal/types"

// Decl is a top-level or block-level declaration.
type Decl interface {
	Pretty() string
	declNode()
}

// LetD is a (possibly pattern-destructuring) binding.
type LetD struct {
	Pattern Pattern
	Value   Expr
}

func (*LetD) declNode() {}

// VarD is a mutable binding, the declaration-form counterpart of
// DeclareE+DefineE used at the construction-algebra level (§4.1's var_).
type VarD struct {
	Name  string
	Value Expr
}

func (*VarD) declNode() {}

// TypD is a type declaration. Type-level names are never touched by
// alpha-renaming (Invariant/§4.2(iii)): they live in a separate namespace.
type TypD struct {
	Name   string
	Params []string
	Body   types.Type
}

func (*TypD) declNode() {}

// Flavor records which high-level features a Program still contains; each
// pass asserts its precondition flavor on entry and establishes its
// postcondition flavor on exit (§2, §4.5).
type Flavor struct {
	HasAwait bool
	HasShow  bool
}

// LE reports whether f is componentwise less-than-or-equal to g, i.e. f
// introduces no feature g lacks. Used to check flavor monotonicity
// (Invariant 4 / §8 "Flavor monotonicity").
func (f Flavor) LE(g Flavor) bool {
	return (!f.HasAwait || g.HasAwait) && (!f.HasShow || g.HasShow)
}

// Program is the top-level compilation unit: a declaration list plus the
// body expression executed after they are in scope.
type Program struct {
	Decls []Decl
	Body  Expr
}
