package ir

// Effect is the two-point suspension lattice of §3: Triv expressions never
// suspend, Await expressions may. It is computed bottom-up by the
// construction algebra (build.go) as every node is built, never inferred
// after the fact — so by construction every IR node's Eff field already
// holds the right answer, and passes only ever need to read it.
type Effect int

const (
	Triv Effect = iota
	Await
)

func (e Effect) String() string {
	if e == Await {
		return "await"
	}
	return "triv"
}

// JoinEffect is the effect of a compound expression: the max of its parts,
// with Await absorbing. Suspension-introducing constructs (await, async,
// try/throw) have no constructor in build.go; their nodes are built as
// struct literals with Await set directly rather than through Join.
func JoinEffect(es ...Effect) Effect {
	for _, e := range es {
		if e == Await {
			return Await
		}
	}
	return Triv
}

// IsTriv reports whether e has trivial effect; used by the CPS pass to
// choose between the cheap structural walk and the continuation-passing
// translation (§4.3).
func IsTriv(e Expr) bool { return e.Eff() == Triv }
