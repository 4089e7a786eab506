// Package irerr provides the structured Internal Compiler Error (ICE) type
// shared by every IR middle-end pass, plus the per-phase error code
// taxonomy. Source-program errors are never raised here: they are detected
// upstream by the surface typechecker. An ICE indicates a precondition
// violation in a pass, an unsupported construct reaching a pass that
// cannot handle it, or a malformed IR shape — always a compiler bug, never
// a user mistake.
package irerr

// Error code taxonomy, one prefix per pass/component.
const (
	// Construction algebra (BUILD###)
	BUILD001 = "BUILD001" // malformed construction-algebra precondition (bad callee/operand type, unknown primitive)
	BUILD002 = "BUILD002" // projection index out of tuple bounds
	BUILD003 = "BUILD003" // assignment target is not mutable
	BUILD004 = "BUILD004" // arity mismatch: primitive operands, call arguments, or type instantiation
	BUILD005 = "BUILD005" // field access on a non-object/non-actor type, or field not found

	// Alpha-renaming (RENAME###)
	RENAME001 = "RENAME001" // AltP alternative contains a variable binder
	RENAME002 = "RENAME002" // use of a name with no binder in scope
	RENAME003 = "RENAME003" // duplicate binder within one LetD group

	// Await/async CPS transform (CPS###)
	CPS001 = "CPS001" // is_triv(e) disagrees with eff(e)
	CPS002 = "CPS002" // SelfCallE reached the CPS pass
	CPS003 = "CPS003" // break/return/throw to a label with no binding in context
	CPS004 = "CPS004" // MetaCont consumed more than once
	CPS005 = "CPS005" // AsyncE found nested inside an actor field initialiser
	CPS006 = "CPS006" // unrecognised or malformed IR node shape reached the CPS pass

	// Show desugaring (SHOW###)
	SHOW001 = "SHOW001" // ShowPrim on a type with free type parameters
	SHOW002 = "SHOW002" // ShowPrim on a Constructor-application type (must be normalised first)
	SHOW003 = "SHOW003" // missing prelude text_of_* binding

	// Pass orchestration (PIPE###)
	PIPE001 = "PIPE001" // pass invoked out of order (precondition flavor violated)
	PIPE002 = "PIPE002" // pass produced an IR violating its postcondition flavor
)

// phaseOf maps a code prefix to the owning phase name, used by New via
// phaseForCode.
var phaseOf = map[string]string{
	"BUILD":  "build",
	"RENAME": "alpha-rename",
	"CPS":    "cps",
	"SHOW":   "show-desugar",
	"PIPE":   "pipeline",
}

func phaseForCode(code string) string {
	i := 0
	for i < len(code) && (code[i] < '0' || code[i] > '9') {
		i++
	}
	if p, ok := phaseOf[code[:i]]; ok {
		return p
	}
	return "unknown"
}
