package ir

import "github.com/sunholo/actorc/internal/types"

// Pattern mirrors Expr for the pattern grammar of §3: wildcard, variable,
// literal, tuple, object (by labelled sub-patterns), option, tagged
// variant, and alternation.
type Pattern interface {
	Type() types.Type
	Pretty() string
	patternNode()
}

// WildP matches anything and binds nothing.
type WildP struct{ Ty types.Type }

func (p *WildP) Type() types.Type { return p.Ty }
func (*WildP) patternNode()       {}

// VarP binds the scrutinee to Name.
type VarP struct {
	Name string
	Ty   types.Type
}

func (p *VarP) Type() types.Type { return p.Ty }
func (*VarP) patternNode()       {}

// LitP matches a literal value.
type LitP struct {
	Kind  LitKind
	Value interface{}
	Ty    types.Type
}

func (p *LitP) Type() types.Type { return p.Ty }
func (*LitP) patternNode()       {}

// TupP matches a tuple structurally.
type TupP struct {
	Elems []Pattern
	Ty    types.Type
}

func (p *TupP) Type() types.Type { return p.Ty }
func (*TupP) patternNode()       {}

// FieldPat is one labelled sub-pattern of an ObjP.
type FieldPat struct {
	Name    string
	Pattern Pattern
}

// ObjP matches an object/record by labelled sub-patterns.
type ObjP struct {
	Fields []FieldPat
	Ty     types.Type
}

func (p *ObjP) Type() types.Type { return p.Ty }
func (*ObjP) patternNode()       {}

// OptP matches an option; Inner is nil to match the None alternative.
type OptP struct {
	Inner Pattern
	Ty    types.Type
}

func (p *OptP) Type() types.Type { return p.Ty }
func (*OptP) patternNode()       {}

// TagP matches a tagged variant alternative.
type TagP struct {
	Label string
	Inner Pattern // nil for a label with no payload
	Ty    types.Type
}

func (p *TagP) Type() types.Type { return p.Ty }
func (*TagP) patternNode()       {}

// AltP is pattern alternation, p1 | p2. Per §4.2 and the Design Notes, both
// alternatives must be variable-free — this is asserted, not merely
// documented, by rename.go's AltP case.
type AltP struct {
	Left, Right Pattern
	Ty          types.Type
}

func (p *AltP) Type() types.Type { return p.Ty }
func (*AltP) patternNode()       {}

// PatternVars collects the variable binders a pattern introduces, in
// left-to-right order. Used through IsVarFree by alpha-renaming
// (rename.go) to reject variable binders inside an AltP.
func PatternVars(p Pattern) []string {
	var vars []string
	var walk func(Pattern)
	walk = func(p Pattern) {
		switch x := p.(type) {
		case *VarP:
			vars = append(vars, x.Name)
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
		case *AltP:
			walk(x.Left)
			walk(x.Right)
		}
	}
	walk(p)
	return vars
}

// IsVarFree reports whether p contains no VarP binder anywhere, the
// precondition AltP's two alternatives must satisfy (§4.2, §9 Design
// Notes "Patterns as linear binders").
func IsVarFree(p Pattern) bool {
	return len(PatternVars(p)) == 0
}
