package types

// TypeEnv is a minimal binding environment for looking up the type of a
// prelude-supplied name (the stdlib prelude itself is an external
// collaborator). No pass in internal/ir consults it: the show pass checks
// prelude names against ir.StdlibPreludeSignatures directly. Grounded on the teacher's types.TypeEnv, trimmed down: no
// generalisation/instantiation machinery, because the IR never needs to
// infer — every binder already carries its type by the time it reaches
// this package's callers.
type TypeEnv struct {
	parent *TypeEnv
	binds  map[string]Type
}

// NewTypeEnv returns an empty environment.
func NewTypeEnv() *TypeEnv {
	return &TypeEnv{binds: make(map[string]Type)}
}

// Child returns a new environment nested inside e.
func (e *TypeEnv) Child() *TypeEnv {
	return &TypeEnv{parent: e, binds: make(map[string]Type)}
}

// Bind adds or overwrites a binding in this environment's own scope.
func (e *TypeEnv) Bind(name string, t Type) {
	e.binds[name] = t
}

// Lookup searches this environment and its ancestors.
func (e *TypeEnv) Lookup(name string) (Type, bool) {
	for env := e; env != nil; env = env.parent {
		if t, ok := env.binds[name]; ok {
			return t, true
		}
	}
	return nil, false
}
