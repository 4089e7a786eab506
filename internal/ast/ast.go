// Package ast provides the minimal source-position vocabulary shared
// between the surface front-end and the IR. The surface AST itself
// (expressions, declarations, the lexer/parser that build it) is an
// external collaborator and is not part of this module; only the
// position/span types that the IR carries for diagnostics live here.
package ast

import "fmt"

// Pos represents a position in the source code.
type Pos struct {
	Line   int
	Column int
	File   string
	Offset int // byte offset, used by the elaborator for stable node IDs
}

func (p Pos) String() string {
	if p.File == "" && p.Line == 0 && p.Column == 0 {
		return "<generated>"
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// IsZero reports whether p carries no location information, as happens for
// IR nodes synthesised by a pass rather than copied from surface input.
func (p Pos) IsZero() bool {
	return p == Pos{}
}

// Span represents a range in source code.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}
